package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a single blog post as served by the blog API.
type Post struct {
	ID        ID        `json:"id,omitempty"`
	Title     string    `json:"title" validate:"required,max=200"`
	Content   string    `json:"content" validate:"max=20000"`
	Nickname  string    `json:"nickname" validate:"max=50"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Comment represents an anonymous reply attached to a post.
type Comment struct {
	ID        ID        `json:"id,omitempty"`
	PostID    ID        `json:"postId,omitempty"`
	Nickname  string    `json:"nickname" validate:"max=50"`
	Content   string    `json:"content" validate:"required,max=1000"`
	CreatedAt Timestamp `json:"createdAt"`
}

// CommentRequest is the payload of a comment submission.
type CommentRequest struct {
	PostID  ID     `json:"postId" validate:"required"`
	Content string `json:"content" validate:"required,max=1000"`
}
