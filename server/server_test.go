package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServer_Healthz(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		s := Server{baseLogger: zap.NewNop().Sugar()}

		req, err := http.NewRequest("GET", "/healthz", nil)
		assert.NoError(t, err)

		rr := httptest.NewRecorder()

		handler := s.Healthz()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		assert.Equal(t, "application/json", rr.Header().Get("content-type"))

		var response GenericResponse
		err = json.Unmarshal(rr.Body.Bytes(), &response)

		assert.NoError(t, err)
		assert.Equal(t, "ok", response.Response)
	})
}

func newTestServer(t *testing.T) (Server, storage.Storage) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)

	schemas, err := storage.GetSchemas()
	require.NoError(t, err)

	err = store.Init(context.Background(), schemas...)
	require.NoError(t, err)

	t.Cleanup(func() { store.Close() })

	return New(zap.NewNop().Sugar(), store), store
}

func doRequest(t *testing.T, s Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func createdID(t *testing.T, rr *httptest.ResponseRecorder) int64 {
	var response GenericResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	id, ok := response.Response.(float64)
	require.True(t, ok, "response is not an id: %s", rr.Body.String())
	return int64(id)
}

func TestServer_MovieLifecycle(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	rr := doRequest(t, s, http.MethodPost, "/api/v1/movies", AddMovieRequest{
		Name:              "Heat",
		MaxSizeMB:         4000,
		ResolutionProfile: "1080p",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := createdID(t, rr)

	movie, err := store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Heat", movie.Name)
	assert.Equal(t, int64(4000)*bytesPerMB, movie.MaxSizeBytes)
	assert.Equal(t, storage.StateSearching, movie.MediaState())

	rr = doRequest(t, s, http.MethodGet, fmt.Sprintf("/api/v1/movies/%d", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, s, http.MethodGet, "/api/v1/movies/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/movies/%d", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	movie, err = store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.StateDeleting, movie.MediaState())
}

func TestServer_CreateMovieValidation(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("missing name", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodPost, "/api/v1/movies", AddMovieRequest{
			MaxSizeMB:         4000,
			ResolutionProfile: "1080p",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("zero size", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodPost, "/api/v1/movies", AddMovieRequest{
			Name:              "Heat",
			ResolutionProfile: "1080p",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/movies", bytes.NewBufferString("{not json"))
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestServer_UpdateMovie(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	rr := doRequest(t, s, http.MethodPost, "/api/v1/movies", AddMovieRequest{
		Name:              "Alien",
		MaxSizeMB:         2000,
		ResolutionProfile: "720p",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := createdID(t, rr)

	// still searching: the edit lands and the next search uses the new limits
	rr = doRequest(t, s, http.MethodPut, fmt.Sprintf("/api/v1/movies/%d", id), AddMovieRequest{
		Name:              "Alien",
		MaxSizeMB:         8000,
		ResolutionProfile: "2160p",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	movie, err := store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(8000)*bytesPerMB, movie.MaxSizeBytes)
	assert.Equal(t, storage.StateSearching, movie.MediaState())

	// once a transfer is recorded the edit is rejected; a re-search would
	// strand the old transfer in the client
	hash := "c0ffee"
	require.NoError(t, store.UpdateMovieState(ctx, id, storage.StateDownloading, &hash))

	rr = doRequest(t, s, http.MethodPut, fmt.Sprintf("/api/v1/movies/%d", id), AddMovieRequest{
		Name:              "Alien",
		MaxSizeMB:         4000,
		ResolutionProfile: "1080p",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	movie, err = store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(8000)*bytesPerMB, movie.MaxSizeBytes)
	assert.Equal(t, storage.StateDownloading, movie.MediaState())
	require.NotNil(t, movie.Hash)
	assert.Equal(t, hash, *movie.Hash)
}

func TestServer_PauseResumeMovie(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	rr := doRequest(t, s, http.MethodPost, "/api/v1/movies", AddMovieRequest{
		Name:              "Dune",
		MaxSizeMB:         6000,
		ResolutionProfile: "2160p",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := createdID(t, rr)

	hash := "deadbeef"
	require.NoError(t, store.UpdateMovieState(ctx, id, storage.StateDownloading, &hash))

	rr = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/movies/%d/pause", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	movie, err := store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.StatePaused, movie.MediaState())

	rr = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/movies/%d/resume", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	movie, err = store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.StateDownloading, movie.MediaState())
}

func TestServer_PauseResumeNeedsTransfer(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	rr := doRequest(t, s, http.MethodPost, "/api/v1/movies", AddMovieRequest{
		Name:              "Solaris",
		MaxSizeMB:         3000,
		ResolutionProfile: "1080p",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := createdID(t, rr)

	// a searching movie has no transfer to pause or resume; both requests
	// conflict and the movie keeps searching with no hash recorded
	rr = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/movies/%d/pause", id), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/movies/%d/resume", id), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	movie, err := store.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.StateSearching, movie.MediaState())
	assert.Nil(t, movie.Hash)
}

func TestServer_ListMoviesPagination(t *testing.T) {
	s, _ := newTestServer(t)

	for _, name := range []string{"Akira", "Brazil", "Contact", "Dogville", "Eraserhead"} {
		rr := doRequest(t, s, http.MethodPost, "/api/v1/movies", AddMovieRequest{
			Name:              name,
			MaxSizeMB:         2000,
			ResolutionProfile: "1080p",
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doRequest(t, s, http.MethodGet, "/api/v1/movies?page=2&pageSize=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Response struct {
			Items []storage.Movie `json:"items"`
			Meta  struct {
				TotalItems int `json:"totalItems"`
				TotalPages int `json:"totalPages"`
			} `json:"meta"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

	require.Len(t, response.Response.Items, 2)
	assert.Equal(t, "Contact", response.Response.Items[0].Name)
	assert.Equal(t, 5, response.Response.Meta.TotalItems)
	assert.Equal(t, 3, response.Response.Meta.TotalPages)

	rr = doRequest(t, s, http.MethodGet, "/api/v1/movies?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_ShowLifecycle(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	rr := doRequest(t, s, http.MethodPost, "/api/v1/shows", AddShowRequest{
		Name:              "The Wire",
		MaxEpisodeSizeMB:  1500,
		ResolutionProfile: "1080p",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := createdID(t, rr)

	show, err := store.GetShow(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.StateSearching, show.MediaState())

	rr = doRequest(t, s, http.MethodGet, fmt.Sprintf("/api/v1/shows/%d/seasons", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, s, http.MethodPut, fmt.Sprintf("/api/v1/shows/%d", id), AddShowRequest{
		Name:              "The Wire",
		MaxEpisodeSizeMB:  3000,
		ResolutionProfile: "1080p,2160p",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	show, err = store.GetShow(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3000)*bytesPerMB, show.MaxEpisodeSizeBytes)

	rr = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/shows/%d", id), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	show, err = store.GetShow(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.StateDeleting, show.MediaState())
}
