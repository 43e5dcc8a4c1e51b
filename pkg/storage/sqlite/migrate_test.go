package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFreshDatabase(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := NewWithMigrations(tmpFile)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	version, dirty, err := store.(*SQLite).GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// the migrated schema is usable straight away
	id, err := store.CreateMovie(ctx, storage.Movie{
		Movie: model.Movie{
			Name:              "Stalker",
			MaxSizeBytes:      2_000_000_000,
			ResolutionProfile: "1080p",
		},
	})
	require.NoError(t, err)

	movie, err := store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.StateSearching, movie.MediaState())
}

func TestMigrationsAlreadyMigrated(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "migrated.db")

	store, err := NewWithMigrations(tmpFile)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// reopening an up-to-date database is a no-op, not an error
	store, err = NewWithMigrations(tmpFile)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	version, dirty, err := store.(*SQLite).GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}
