package repositories

import (
	"sort"

	"inkpress/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		comment.BeforeCreate()

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		return txn.Set(entityKey(CommentKeyPrefix, comment.ID), data)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(CommentKeyPrefix, id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// List retrieves all comments, newest first.
func (r *BadgerCommentRepository) List() ([]*models.Comment, error) {
	return r.list(func(*models.Comment) bool { return true })
}

// ListByUser retrieves all comments by a user, newest first.
func (r *BadgerCommentRepository) ListByUser(userID int) ([]*models.Comment, error) {
	return r.list(func(c *models.Comment) bool { return c.UserID == userID })
}

// ListByPost retrieves all comments on a post, newest first.
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	return r.list(func(c *models.Comment) bool { return c.CommentOn == postID })
}

// ListByParent retrieves all replies to a comment, newest first.
func (r *BadgerCommentRepository) ListByParent(parentID int) ([]*models.Comment, error) {
	return r.list(func(c *models.Comment) bool { return c.Parent == parentID })
}

// FindByUserAndContent retrieves a comment by the author with the exact same
// content, regardless of which post it was left on. Backs the global
// duplicate-content check.
func (r *BadgerCommentRepository) FindByUserAndContent(userID int, content string) (*models.Comment, error) {
	var found *models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(CommentKeyPrefix), func(val []byte) (bool, error) {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return false, err
			}
			if comment.UserID == userID && comment.Content == content {
				found = &comment
				return false, nil
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *BadgerCommentRepository) list(keep func(*models.Comment) bool) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(CommentKeyPrefix), func(val []byte) (bool, error) {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return false, err
			}
			if keep(&comment) {
				comments = append(comments, &comment)
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedOn.After(comments[j].CreatedOn)
	})
	return comments, nil
}

// Mutate loads the comment, applies fn and writes it back inside a single
// transaction. Reply attachment goes through here.
func (r *BadgerCommentRepository) Mutate(id int, fn func(comment *models.Comment) error) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(CommentKeyPrefix, id)
		if err := getEntity(txn, key, &comment); err != nil {
			return err
		}
		if err := fn(&comment); err != nil {
			return err
		}
		data, err := marshalEntity(&comment)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(CommentKeyPrefix, id)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// DeleteByUser deletes every comment by the user and reports how many were
// removed.
func (r *BadgerCommentRepository) DeleteByUser(userID int) (int, error) {
	return r.deleteWhere(func(c *models.Comment) bool { return c.UserID == userID })
}

// DeleteByPost deletes every comment on the post and reports how many were
// removed. Used by the post-deletion cascade.
func (r *BadgerCommentRepository) DeleteByPost(postID int) (int, error) {
	return r.deleteWhere(func(c *models.Comment) bool { return c.CommentOn == postID })
}

func (r *BadgerCommentRepository) deleteWhere(match func(*models.Comment) bool) (int, error) {
	matching, err := r.list(match)
	if err != nil {
		return 0, err
	}
	deleted := 0
	err = r.db.Update(func(txn *badger.Txn) error {
		for _, comment := range matching {
			if err := txn.Delete(entityKey(CommentKeyPrefix, comment.ID)); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}
