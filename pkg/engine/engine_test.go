package engine

import (
	"context"
	"testing"
	"time"

	downloadMocks "github.com/grabarr/grabarr/pkg/download/mocks"
	metadataMocks "github.com/grabarr/grabarr/pkg/metadata/mocks"
	searchMocks "github.com/grabarr/grabarr/pkg/search/mocks"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testFixture struct {
	engine   *Engine
	store    storage.Storage
	search   *searchMocks.MockClient
	download *downloadMocks.MockClient
	metadata *metadataMocks.MockClient
	clock    *clockwork.FakeClock
}

func newFixture(t *testing.T, ctx context.Context) *testFixture {
	ctrl := gomock.NewController(t)

	store, err := sqlite.New(":memory:")
	require.Nil(t, err)

	schemas, err := storage.GetSchemas()
	require.Nil(t, err)

	err = store.Init(ctx, schemas...)
	require.Nil(t, err)

	t.Cleanup(func() { store.Close() })

	searchClient := searchMocks.NewMockClient(ctrl)
	downloadClient := downloadMocks.NewMockClient(ctrl)
	metadataClient := metadataMocks.NewMockClient(ctrl)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	config := Config{
		MovieDir:   "/media/movies",
		TVDir:      "/media/tv",
		Retention:  14 * 24 * time.Hour,
		MinSeeders: 2,
		Interval:   30 * time.Second,
	}

	return &testFixture{
		engine:   New(store, searchClient, downloadClient, metadataClient, clock, config),
		store:    store,
		search:   searchClient,
		download: downloadClient,
		metadata: metadataClient,
		clock:    clock,
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newFixture(t, ctx)

	// nothing is stored so the cycle touches no external clients
	cancel()
	err := f.engine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
