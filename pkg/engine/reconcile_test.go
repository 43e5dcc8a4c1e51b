package engine

import (
	"context"
	"testing"
	"time"

	jetsqlite "github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/download"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func movieInState(t *testing.T, ctx context.Context, f *testFixture, name string, state storage.MediaState, hash string) int64 {
	id := createMovie(t, ctx, f.store, name)
	if state == storage.StateSearching {
		return id
	}

	// transfers reach every later state through downloading
	require.Nil(t, f.store.UpdateMovieState(ctx, id, storage.StateDownloading, &hash))
	if state != storage.StateDownloading {
		require.Nil(t, f.store.UpdateMovieState(ctx, id, state, nil))
	}
	return id
}

func TestReconcileOrphanedTransferDeletesEntity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	id := movieInState(t, ctx, f, "Removed Externally", storage.StateDownloading, "dead")

	f.download.EXPECT().List(gomock.Any(), "dead").Return(nil, nil)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)

	_, err = f.store.GetMovie(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReconcileRetentionExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	id := movieInState(t, ctx, f, "Old Seeder", storage.StateSeeding, "c0ffee")

	added := f.clock.Now().Add(-15 * 24 * time.Hour).Unix()
	f.download.EXPECT().List(gomock.Any(), "c0ffee").Return([]download.Status{
		{Hash: "c0ffee", State: "uploading", AddedAt: added},
	}, nil)
	// exactly one remove, keeping the downloaded files
	f.download.EXPECT().Remove(gomock.Any(), false, "c0ffee").Return(nil).Times(1)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)

	movie, err := f.store.GetMovie(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, storage.StateCompleted, movie.MediaState())

	// a second pass with no external change makes no client calls at all
	err = f.engine.Reconcile(ctx)
	require.Nil(t, err)
}

func TestReconcileRetentionNotYetExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	id := movieInState(t, ctx, f, "Young Seeder", storage.StateSeeding, "beef")

	added := f.clock.Now().Add(-24 * time.Hour).Unix()
	f.download.EXPECT().List(gomock.Any(), "beef").Return([]download.Status{
		{Hash: "beef", State: "uploading", AddedAt: added},
	}, nil)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)

	movie, err := f.store.GetMovie(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, storage.StateSeeding, movie.MediaState())
}

func TestReconcileDownloadingMovesToSeeding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	id := movieInState(t, ctx, f, "Just Finished", storage.StateDownloading, "abc")

	f.download.EXPECT().List(gomock.Any(), "abc").Return([]download.Status{
		{Hash: "abc", State: "uploading", AddedAt: f.clock.Now().Unix()},
	}, nil)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)

	movie, err := f.store.GetMovie(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, storage.StateSeeding, movie.MediaState())
}

func TestReconcilePauseMismatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	// stored paused but the transfer is running: pause it
	movieInState(t, ctx, f, "Should Pause", storage.StatePaused, "aa")
	f.download.EXPECT().List(gomock.Any(), "aa").Return([]download.Status{
		{Hash: "aa", State: "downloading", AddedAt: f.clock.Now().Unix()},
	}, nil)
	f.download.EXPECT().Pause(gomock.Any(), "aa").Return(nil)

	// stored active but the transfer is stopped: resume it
	movieInState(t, ctx, f, "Should Resume", storage.StateDownloading, "bb")
	f.download.EXPECT().List(gomock.Any(), "bb").Return([]download.Status{
		{Hash: "bb", State: "pausedDL", AddedAt: f.clock.Now().Unix()},
	}, nil)
	f.download.EXPECT().Resume(gomock.Any(), "bb").Return(nil)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)
}

func TestReconcileDeletingRemovesTransferAndEntity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	id := movieInState(t, ctx, f, "Marked For Deletion", storage.StateDeleting, "dd")

	f.download.EXPECT().List(gomock.Any(), "dd").Return([]download.Status{
		{Hash: "dd", State: "uploading", AddedAt: f.clock.Now().Unix()},
	}, nil)
	f.download.EXPECT().Remove(gomock.Any(), true, "dd").Return(nil)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)

	_, err = f.store.GetMovie(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReconcileSeasonAggregation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	showID := createShow(t, ctx, f.store, "Dark")
	seasonID := createSeasonWithEpisodes(t, ctx, f.store, showID, 1, []string{"2017-12-01", "2017-12-01"})

	episodes, err := f.store.ListEpisodes(ctx)
	require.Nil(t, err)
	require.Len(t, episodes, 2)

	hashes := []string{"e1", "e2"}
	for i, episode := range episodes {
		require.Nil(t, f.store.UpdateEpisodeState(ctx, int64(episode.ID), storage.StateDownloading, &hashes[i]))
		require.Nil(t, f.store.UpdateEpisodeState(ctx, int64(episode.ID), storage.StateSeeding, nil))
	}

	for _, hash := range hashes {
		f.download.EXPECT().List(gomock.Any(), hash).Return([]download.Status{
			{Hash: hash, State: "uploading", AddedAt: f.clock.Now().Unix()},
		}, nil)
	}

	err = f.engine.Reconcile(ctx)
	require.Nil(t, err)

	season, err := f.store.GetSeason(ctx, table.Season.ID.EQ(jetsqlite.Int64(seasonID)))
	require.Nil(t, err)
	assert.Equal(t, storage.StateSeeding, season.MediaState())

	show, err := f.store.GetShow(ctx, showID)
	require.Nil(t, err)
	assert.Equal(t, storage.StateSeeding, show.MediaState())
}

func TestReconcileWholeSeasonMirrorsEpisodes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	showID := createShow(t, ctx, f.store, "Chernobyl")
	seasonID := createSeasonWithEpisodes(t, ctx, f.store, showID, 1, []string{"2019-05-06", "2019-05-13"})

	hash := "season1"
	require.Nil(t, f.store.UpdateSeasonState(ctx, seasonID, storage.StateDownloading, &hash))

	f.download.EXPECT().List(gomock.Any(), hash).Return([]download.Status{
		{Hash: hash, State: "uploading", AddedAt: f.clock.Now().Unix()},
	}, nil)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)

	// the season advanced from the transfer and its hashless episodes follow
	season, err := f.store.GetSeason(ctx, table.Season.ID.EQ(jetsqlite.Int64(seasonID)))
	require.Nil(t, err)
	assert.Equal(t, storage.StateSeeding, season.MediaState())

	episodes, err := f.store.ListEpisodes(ctx)
	require.Nil(t, err)
	for _, episode := range episodes {
		assert.Equal(t, storage.StateSeeding, episode.MediaState())
	}
}

func TestReconcileShowDeletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	showID := createShow(t, ctx, f.store, "Cancelled")
	seasonID := createSeasonWithEpisodes(t, ctx, f.store, showID, 1, []string{"2017-12-01", "2017-12-08"})
	hash := "season-hash"
	require.Nil(t, f.store.UpdateSeasonState(ctx, seasonID, storage.StateSeeding, &hash))
	require.Nil(t, f.store.UpdateShowState(ctx, showID, storage.StateDeleting))

	// the season's own transfer still looks healthy to the leaf pass
	f.download.EXPECT().List(gomock.Any(), hash).Return([]download.Status{
		{Hash: hash, State: "uploading", AddedAt: f.clock.Now().Unix()},
	}, nil)
	// deleting the show drops its transfers and their data
	f.download.EXPECT().Remove(gomock.Any(), true, hash).Return(nil)

	err := f.engine.Reconcile(ctx)
	require.Nil(t, err)

	_, err = f.store.GetShow(ctx, showID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	seasons, err := f.store.ListSeasons(ctx)
	require.Nil(t, err)
	assert.Empty(t, seasons)
}

func TestMovieRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	id := movieInState(t, ctx, f, "Round Trip", storage.StateDownloading, "rt")
	added := f.clock.Now().Unix()

	// cycle 1: still downloading
	f.download.EXPECT().List(gomock.Any(), "rt").Return([]download.Status{
		{Hash: "rt", State: "downloading", AddedAt: added},
	}, nil)
	require.Nil(t, f.engine.Reconcile(ctx))

	// cycle 2: finished, now uploading
	f.download.EXPECT().List(gomock.Any(), "rt").Return([]download.Status{
		{Hash: "rt", State: "uploading", AddedAt: added},
	}, nil)
	require.Nil(t, f.engine.Reconcile(ctx))

	movie, err := f.store.GetMovie(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, storage.StateSeeding, movie.MediaState())

	// cycle 3: retention expired
	f.clock.Advance(15 * 24 * time.Hour)
	f.download.EXPECT().List(gomock.Any(), "rt").Return([]download.Status{
		{Hash: "rt", State: "uploading", AddedAt: added},
	}, nil)
	f.download.EXPECT().Remove(gomock.Any(), false, "rt").Return(nil).Times(1)
	require.Nil(t, f.engine.Reconcile(ctx))

	movie, err = f.store.GetMovie(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, storage.StateCompleted, movie.MediaState())

	// cycle 4: completed entities never touch the client again
	require.Nil(t, f.engine.Reconcile(ctx))
}
