package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if p == nil {
		return errors.New("post cannot be nil")
	}
	return validate.Struct(p)
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = NewTimestamp(time.Now())
	}
}

// DisplayDate renders the creation time for display in loc.
func (p *Post) DisplayDate(loc *time.Location) string {
	return FormatDateTime(p.CreatedAt.Time, loc)
}
