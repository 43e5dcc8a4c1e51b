package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/machine"
	"github.com/grabarr/grabarr/pkg/pagination"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/model"
	"go.uber.org/zap"
)

const bytesPerMB = 1_000_000

// AddMovieRequest describes a movie to track. Sizes are in megabytes, matching
// what people actually reason about when bounding a download.
type AddMovieRequest struct {
	Name              string  `json:"name" validate:"required"`
	MaxSizeMB         int64   `json:"maxSizeMB" validate:"required,gt=0"`
	ResolutionProfile string  `json:"resolutionProfile" validate:"required"`
	ImdbID            *string `json:"imdbID,omitempty"`
	CoverURL          *string `json:"coverURL,omitempty" validate:"omitempty,url"`
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// statusForError maps storage failures onto http statuses. Unknown entities are
// a 404 and rejected state transitions a 409.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, machine.ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ListMovies lists tracked movies, optionally filtered by state
func (s Server) ListMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		params, err := ParsePaginationParams(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var movies []*storage.Movie
		if state := r.URL.Query().Get("state"); state != "" {
			movies, err = s.store.ListMoviesByState(r.Context(), storage.MediaState(state))
		} else {
			movies, err = s.store.ListMovies(r.Context())
		}
		if err != nil {
			log.Error("failed to list movies", zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		page, meta := pagination.PageOf(movies, params)
		writeResponse(w, http.StatusOK, GenericResponse{Response: PaginatedResponse{Items: page, Meta: meta}})
	}
}

// GetMovie fetches a single movie by id
func (s Server) GetMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		movie, err := s.store.GetMovie(r.Context(), id)
		if err != nil {
			log.Debug("failed to get movie", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: movie})
	}
}

// CreateMovie starts tracking a new movie in searching
func (s Server) CreateMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		request, ok := s.decodeMovieRequest(w, r)
		if !ok {
			return
		}

		id, err := s.store.CreateMovie(r.Context(), storage.Movie{
			Movie: model.Movie{
				Name:              request.Name,
				MaxSizeBytes:      request.MaxSizeMB * bytesPerMB,
				ResolutionProfile: request.ResolutionProfile,
				ImdbID:            request.ImdbID,
				CoverURL:          request.CoverURL,
			},
		})
		if err != nil {
			log.Error("failed to create movie", zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeResponse(w, http.StatusCreated, GenericResponse{Response: id})
	}
}

// UpdateMovie replaces a movie's attributes so the next search applies the new
// constraints. A movie that already recorded a transfer cannot be edited;
// re-searching it would orphan the old transfer in the client. Delete it and
// add it again instead.
func (s Server) UpdateMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		request, ok := s.decodeMovieRequest(w, r)
		if !ok {
			return
		}

		movie, err := s.store.GetMovie(r.Context(), id)
		if err != nil {
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		if movie.Hash != nil {
			writeErrorResponse(w, http.StatusConflict, fmt.Errorf("movie %d already has a transfer", id))
			return
		}

		movie.Name = request.Name
		movie.MaxSizeBytes = request.MaxSizeMB * bytesPerMB
		movie.ResolutionProfile = request.ResolutionProfile
		movie.ImdbID = request.ImdbID
		movie.CoverURL = request.CoverURL

		if err := s.store.UpdateMovie(r.Context(), *movie); err != nil {
			log.Error("failed to update movie", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

// DeleteMovie marks a movie deleting; the reconciler tears down its transfer
// and removes the row
func (s Server) DeleteMovie() http.HandlerFunc {
	return s.setMovieState(storage.StateDeleting)
}

// PauseMovie pauses a movie's transfer on the next reconcile pass
func (s Server) PauseMovie() http.HandlerFunc {
	return s.setMovieState(storage.StatePaused)
}

// ResumeMovie puts a paused movie back into downloading. Resuming anything
// not paused is a conflict; in particular a still-searching movie must never
// be pushed into downloading without a transfer behind it.
func (s Server) ResumeMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		movie, err := s.store.GetMovie(r.Context(), id)
		if err != nil {
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		if movie.MediaState() != storage.StatePaused {
			writeErrorResponse(w, http.StatusConflict, fmt.Errorf("movie %d is %s, not paused", id, movie.State))
			return
		}

		if err := s.store.UpdateMovieState(r.Context(), id, storage.StateDownloading, nil); err != nil {
			log.Debug("failed to resume movie", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

func (s Server) setMovieState(state storage.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		err = s.store.UpdateMovieState(r.Context(), id, state, nil)
		if err != nil {
			log.Debug("failed to update movie state", zap.Int64("id", id), zap.String("state", string(state)), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

func (s Server) decodeMovieRequest(w http.ResponseWriter, r *http.Request) (AddMovieRequest, bool) {
	log := logger.FromCtx(r.Context())

	var request AddMovieRequest
	b, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("invalid request body", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return request, false
	}

	if err := json.Unmarshal(b, &request); err != nil {
		log.Debug("invalid request body", zap.ByteString("body", b))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return request, false
	}

	if err := s.validate.Struct(request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return request, false
	}

	return request, true
}
