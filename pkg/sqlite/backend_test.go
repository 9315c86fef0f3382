package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

func TestOpen(t *testing.T) {
	store, err := Open(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	defer store.Detach()

	book, err := store.Load()
	require.NoError(t, err)
	assert.Zero(t, book.Len())
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(types.Config{DataDir: t.TempDir()}, nil)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
