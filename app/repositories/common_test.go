package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a throwaway Badger DB that is cleaned up with the test.
func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir()).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
