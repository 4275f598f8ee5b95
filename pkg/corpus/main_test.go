package corpus

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestStore creates a file-backed SQLite database in a temp dir and a
// Store on top of it. It uses t.Cleanup to ensure resources are released.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SetupSchema(db))
	// Setting up twice is harmless.
	require.NoError(t, SetupSchema(db))

	s, err := NewStore(db)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return db, s
}
