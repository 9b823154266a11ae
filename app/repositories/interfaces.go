package repositories

import "postviewer/app/models"

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id models.ID) (*models.Post, error)
	List(limit, offset int) ([]*models.Post, error)
	Delete(id models.ID) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByPost(postID models.ID) ([]*models.Comment, error)
	DeleteByPost(postID models.ID) error
}
