package services

import (
	"fmt"

	"postviewer/app/models"
	"postviewer/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment stores an anonymous comment for the post named in req.
func (s *CommentService) CreateComment(req models.CommentRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid("comment", err)
	}

	post, err := s.postRepo.GetByID(req.PostID)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", req.PostID, err)
	}

	comment := &models.Comment{
		Nickname: models.AnonymousNickname,
		Content:  req.Content,
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// AddComment stores a fully formed comment, as the seed loader does.
func (s *CommentService) AddComment(comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return invalid("comment", err)
	}
	post, err := s.postRepo.GetByID(comment.PostID)
	if err != nil {
		return fmt.Errorf("post %s: %w", comment.PostID, err)
	}
	if err := comment.SetPost(post); err != nil {
		return err
	}
	return s.commentRepo.Create(comment)
}

// ListPostComments retrieves all comments for a post in insertion order.
func (s *CommentService) ListPostComments(postID models.ID) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, fmt.Errorf("post %s: %w", postID, err)
	}
	return s.commentRepo.ListByPost(postID)
}
