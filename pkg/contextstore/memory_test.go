package contextstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, s.Save(ctx, "ctx-1"))
	id, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ctx-1", id)

	// Last write wins.
	require.NoError(t, s.Save(ctx, "ctx-2"))
	id, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ctx-2", id)
}

func TestMemoryStoreEmptySaveIsNoop(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "keep-me"))
	require.NoError(t, s.Save(ctx, ""))

	id, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", id)
}
