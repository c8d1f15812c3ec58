package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedOn.IsZero() {
		return errors.New("createdOn cannot be zero")
	}

	if c.Parent != 0 && len(c.Replies) > 0 {
		return errors.New("a reply cannot carry replies of its own")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedOn.IsZero() {
		c.CreatedOn = time.Now()
	}
}

// IsTopLevel reports whether the comment sits directly on a post.
func (c *Comment) IsTopLevel() bool {
	return c.Parent == 0
}

// AttachReply adds a reply ID to the comment's reply list with set
// semantics, so concurrent attachment of the same reply cannot duplicate it.
func (c *Comment) AttachReply(replyID int) {
	for _, id := range c.Replies {
		if id == replyID {
			return
		}
	}
	c.Replies = append(c.Replies, replyID)
}

// DetachReply removes a reply ID from the comment's reply list.
func (c *Comment) DetachReply(replyID int) {
	for i, id := range c.Replies {
		if id == replyID {
			c.Replies = append(c.Replies[:i], c.Replies[i+1:]...)
			return
		}
	}
}

// AppendEdit records an edit by appending the new content to the old rather
// than overwriting it, keeping the edit history in-line.
func (c *Comment) AppendEdit(newContent string) {
	c.Content = c.Content + "\n Edit: " + newContent
	c.ModifiedOn = time.Now()
}
