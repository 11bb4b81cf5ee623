package contextstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dsn, err := SQLiteDSNForFile(filepath.Join(t.TempDir(), "context.db"))
	require.NoError(t, err)
	s, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, s.Save(ctx, "ctx-1"))
	id, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ctx-1", id)

	require.NoError(t, s.Save(ctx, "ctx-2"))
	id, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ctx-2", id)
}

func TestSQLiteStoreEmptySaveIsNoop(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "keep-me"))
	require.NoError(t, s.Save(ctx, ""))

	id, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", id)
}

func TestNewSQLiteStoreRejectsEmptyDSN(t *testing.T) {
	_, err := NewSQLiteStore("")
	require.Error(t, err)

	_, err = SQLiteDSNForFile("  ")
	require.Error(t, err)
}
