package repositories

import (
	"inkpress/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBlogRepository implements BlogRepository using BadgerDB. The blog
// document lives under one fixed key, which makes the at-most-one invariant
// structural.
type BadgerBlogRepository struct {
	db *badger.DB
}

// NewBadgerBlogRepository creates a new BadgerBlogRepository
func NewBadgerBlogRepository(db *badger.DB) *BadgerBlogRepository {
	return &BadgerBlogRepository{db: db}
}

// Get retrieves the singleton blog document.
func (r *BadgerBlogRepository) Get() (*models.Blog, error) {
	var blog models.Blog
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, []byte(BlogKey), &blog)
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Upsert writes the singleton blog document, preserving the original
// creation time when one already exists.
func (r *BadgerBlogRepository) Upsert(blog *models.Blog) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Blog
		err := getEntity(txn, []byte(BlogKey), &existing)
		if err == nil {
			blog.ID = existing.ID
			blog.CreatedOn = existing.CreatedOn
		} else if err != ErrNotFound {
			return err
		} else {
			blog.ID = 1
		}
		blog.BeforeSave()

		data, err := marshalEntity(blog)
		if err != nil {
			return err
		}
		return txn.Set([]byte(BlogKey), data)
	})
}
