package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edatlas/edatlas/internal/repository/memory"
)

func TestKeyValueStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	in := []byte("abc")

	require.NoError(t, store.Set(ctx, "k", in))
	in[0] = 'x'

	out, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "abc", string(out))

	out[0] = 'y'
	again, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestKeyValueStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Set(ctx, "k", nil), memory.ErrClosed)
	assert.ErrorIs(t, store.Ping(ctx), memory.ErrClosed)
	_, _, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, memory.ErrClosed)
}
