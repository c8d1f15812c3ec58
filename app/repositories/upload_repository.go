package repositories

import (
	"inkpress/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUploadRepository implements UploadRepository using BadgerDB
type BadgerUploadRepository struct {
	db *badger.DB
}

// NewBadgerUploadRepository creates a new BadgerUploadRepository
func NewBadgerUploadRepository(db *badger.DB) *BadgerUploadRepository {
	return &BadgerUploadRepository{db: db}
}

// Create creates a new upload record
func (r *BadgerUploadRepository) Create(upload *models.Upload) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, UploadSeqKey)
		if err != nil {
			return err
		}
		upload.ID = id

		data, err := marshalEntity(upload)
		if err != nil {
			return err
		}
		return txn.Set(entityKey(UploadKeyPrefix, upload.ID), data)
	})
}

// GetByID retrieves an upload record by ID
func (r *BadgerUploadRepository) GetByID(id int) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UploadKeyPrefix, id), &upload)
	})
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// List retrieves all upload records
func (r *BadgerUploadRepository) List() ([]*models.Upload, error) {
	var uploads []*models.Upload
	err := r.db.View(func(txn *badger.Txn) error {
		return forEachEntity(txn, []byte(UploadKeyPrefix), func(val []byte) (bool, error) {
			var upload models.Upload
			if err := unmarshalEntity(val, &upload); err != nil {
				return false, err
			}
			uploads = append(uploads, &upload)
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

// Delete removes an upload record and returns it, so callers can report the
// deleted filename.
func (r *BadgerUploadRepository) Delete(id int) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(UploadKeyPrefix, id)
		if err := getEntity(txn, key, &upload); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return nil, err
	}
	return &upload, nil
}
