package database

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(Config{Type: TypeSQLite, Path: filepath.Join(t.TempDir(), "data", "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectRejectsUnknownType(t *testing.T) {
	_, err := Connect(Config{Type: "mongo"})
	require.Error(t, err)

	_, err = Connect(Config{Type: TypePostgres})
	require.Error(t, err)
}

func TestConnectIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		db, err := Connect(Config{Type: TypeSQLite, Path: path})
		require.NoError(t, err)
		require.NoError(t, db.Close())
	}
}
