package services

import (
	"fmt"

	"postviewer/app/models"
	"postviewer/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// CreatePost creates a new blog post with validation
func (s *PostService) CreatePost(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return invalid("post", err)
	}
	return s.postRepo.Create(post)
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(id models.ID) (*models.Post, error) {
	return s.postRepo.GetByID(id)
}

// ListPosts retrieves a paginated list of posts
func (s *PostService) ListPosts(page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.postRepo.List(perPage, (page-1)*perPage)
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(id models.ID) error {
	if _, err := s.postRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByPost(id); err != nil {
		return fmt.Errorf("failed to delete comments of post %s: %w", id, err)
	}
	return s.postRepo.Delete(id)
}
