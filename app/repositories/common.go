package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix    = "user:"
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"
	UploadKeyPrefix  = "upload:"

	// The blog document is a singleton and keeps a fixed key.
	BlogKey = "blog"

	// Sequence keys for auto-incrementing IDs
	UserSeqKey    = "seq:user"
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	UploadSeqKey  = "seq:upload"
)

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			id = int(val[0])<<24 | int(val[1])<<16 | int(val[2])<<8 | int(val[3])
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}

// entityKey builds the store key for a prefixed numeric ID.
func entityKey(prefix string, id int) []byte {
	return []byte(fmt.Sprintf("%s%d", prefix, id))
}

// getEntity loads and unmarshals the value at key, mapping a missing key to
// ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// forEachEntity iterates every value under prefix, handing the raw bytes to
// fn. fn returning false stops the iteration.
func forEachEntity(txn *badger.Txn, prefix []byte, fn func(val []byte) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var cont bool
		err := it.Item().Value(func(val []byte) error {
			var err error
			cont, err = fn(val)
			return err
		})
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}
