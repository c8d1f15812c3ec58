package repositories

import (
	"fmt"
	"strings"

	"inkpress/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post. Titles are unique; the check runs in the same
// transaction as the write.
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var clash bool
		err := forEachEntity(txn, []byte(PostKeyPrefix), func(val []byte) (bool, error) {
			var existing models.Post
			if err := unmarshalEntity(val, &existing); err != nil {
				return false, err
			}
			if strings.EqualFold(existing.Title, post.Title) {
				clash = true
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		if clash {
			return fmt.Errorf("%w: post title already in use", ErrDuplicateField)
		}

		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.BeforeCreate()

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(entityKey(PostKeyPrefix, post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByTitle retrieves a post by its unique title.
func (r *BadgerPostRepository) GetByTitle(title string) (*models.Post, error) {
	var found *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(PostKeyPrefix), func(val []byte) (bool, error) {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return false, err
			}
			if strings.EqualFold(post.Title, title) {
				found = &post
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

// List retrieves a paginated list of posts
func (r *BadgerPostRepository) List(limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(PostKeyPrefix), func(val []byte) (bool, error) {
			if count < offset {
				count++
				return true, nil
			}
			if count >= offset+limit {
				return false, nil
			}
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return false, err
			}
			posts = append(posts, &post)
			count++
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor retrieves all posts authored by userID.
func (r *BadgerPostRepository) ListByAuthor(userID int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(PostKeyPrefix), func(val []byte) (bool, error) {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return false, err
			}
			if post.HasAuthor(userID) {
				posts = append(posts, &post)
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Mutate loads the post, applies fn and writes it back inside a single
// transaction. Comment attachment goes through here so concurrent writers
// to the same post cannot lose each other's updates.
func (r *BadgerPostRepository) Mutate(id int, fn func(post *models.Post) error) (*models.Post, error) {
	var post models.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, id)
		if err := getEntity(txn, key, &post); err != nil {
			return err
		}
		if err := fn(&post); err != nil {
			return err
		}
		data, err := marshalEntity(&post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, post.ID)

		// Verify post exists
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, id)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
