package models

import (
	"errors"
	"strings"
	"time"
)

// AnonymousNickname is shown for comments submitted without a name.
const AnonymousNickname = "Anonymous"

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if c == nil {
		return errors.New("comment cannot be nil")
	}
	return validate.Struct(c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = NewTimestamp(time.Now())
	}
	if strings.TrimSpace(c.Nickname) == "" {
		c.Nickname = AnonymousNickname
	}
}

// SetPost sets the parent post
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}
	c.PostID = post.ID
	return nil
}

// DisplayDate renders the creation time for display in loc.
func (c *Comment) DisplayDate(loc *time.Location) string {
	return FormatDateTime(c.CreatedAt.Time, loc)
}

// Validate checks that the request names a post and carries content.
func (r *CommentRequest) Validate() error {
	if r == nil {
		return errors.New("comment request cannot be nil")
	}
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	return validate.Struct(r)
}
