package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name: "valid top-level comment",
			comment: &Comment{
				ID:        1,
				UserID:    1,
				Content:   "This is a valid comment",
				CommentOn: 1,
				CreatedOn: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "valid reply",
			comment: &Comment{
				ID:        2,
				UserID:    1,
				Content:   "A reply",
				CommentOn: 1,
				Parent:    1,
				CreatedOn: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "empty content",
			comment: &Comment{
				ID:        1,
				UserID:    1,
				Content:   "",
				CommentOn: 1,
				CreatedOn: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing post reference",
			comment: &Comment{
				ID:        1,
				UserID:    1,
				Content:   "Valid content",
				CreatedOn: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			comment: &Comment{
				ID:        1,
				UserID:    1,
				Content:   "Valid content",
				CommentOn: 1,
			},
			wantErr: true,
		},
		{
			name: "reply carrying replies",
			comment: &Comment{
				ID:        3,
				UserID:    1,
				Content:   "Nested reply",
				CommentOn: 1,
				Parent:    1,
				Replies:   []int{4},
				CreatedOn: time.Now(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentBeforeCreate(t *testing.T) {
	comment := &Comment{UserID: 1, Content: "Test", CommentOn: 1}
	comment.BeforeCreate()
	assert.False(t, comment.CreatedOn.IsZero())
}

func TestCommentAttachReply(t *testing.T) {
	comment := &Comment{ID: 1}

	comment.AttachReply(5)
	comment.AttachReply(5)
	comment.AttachReply(6)
	assert.Equal(t, []int{5, 6}, comment.Replies)

	comment.DetachReply(5)
	assert.Equal(t, []int{6}, comment.Replies)

	comment.DetachReply(99)
	assert.Equal(t, []int{6}, comment.Replies)
}

func TestCommentAppendEdit(t *testing.T) {
	comment := &Comment{Content: "original take"}
	comment.AppendEdit("revised take")

	assert.Equal(t, "original take\n Edit: revised take", comment.Content)
	assert.False(t, comment.ModifiedOn.IsZero())
}

func TestCommentIsTopLevel(t *testing.T) {
	assert.True(t, (&Comment{}).IsTopLevel())
	assert.False(t, (&Comment{Parent: 3}).IsTopLevel())
}
