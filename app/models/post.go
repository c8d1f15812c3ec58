package models

import (
	"errors"
	"time"
)

// DefaultCategory is applied when a post is created with no categories.
const DefaultCategory = "uncategorized"

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if len(p.Authors) == 0 {
		return errors.New("post must have at least one author")
	}

	if p.CreatedOn.IsZero() {
		return errors.New("createdOn cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedOn.IsZero() {
		p.CreatedOn = time.Now()
	}
	if len(p.Categories) == 0 {
		p.Categories = []string{DefaultCategory}
	}
}

// Touch records a modification time.
func (p *Post) Touch() {
	p.ModifiedOn = time.Now()
}

// HasAuthor reports whether userID is one of the post's authors.
func (p *Post) HasAuthor(userID int) bool {
	for _, id := range p.Authors {
		if id == userID {
			return true
		}
	}
	return false
}

// AttachComment adds a comment ID to the post's comment list with set
// semantics: attaching an already-present ID is a no-op, so a comment can
// never appear twice.
func (p *Post) AttachComment(commentID int) {
	for _, id := range p.Comments {
		if id == commentID {
			return
		}
	}
	p.Comments = append(p.Comments, commentID)
}

// DetachComment removes a comment ID from the post's comment list.
func (p *Post) DetachComment(commentID int) {
	for i, id := range p.Comments {
		if id == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return
		}
	}
}
