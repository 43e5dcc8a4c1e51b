package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/pagination"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/model"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/table"
	"go.uber.org/zap"
)

// AddShowRequest describes a show to track. The size bound applies per episode
// since a whole-season grab is sized from the episode count.
type AddShowRequest struct {
	Name              string  `json:"name" validate:"required"`
	MaxEpisodeSizeMB  int64   `json:"maxEpisodeSizeMB" validate:"required,gt=0"`
	ResolutionProfile string  `json:"resolutionProfile" validate:"required"`
	ImdbID            *string `json:"imdbID,omitempty"`
	CoverURL          *string `json:"coverURL,omitempty" validate:"omitempty,url"`
}

// ListShows lists tracked shows, optionally filtered by state
func (s Server) ListShows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		params, err := ParsePaginationParams(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var shows []*storage.Show
		if state := r.URL.Query().Get("state"); state != "" {
			shows, err = s.store.ListShowsByState(r.Context(), storage.MediaState(state))
		} else {
			shows, err = s.store.ListShows(r.Context())
		}
		if err != nil {
			log.Error("failed to list shows", zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		page, meta := pagination.PageOf(shows, params)
		writeResponse(w, http.StatusOK, GenericResponse{Response: PaginatedResponse{Items: page, Meta: meta}})
	}
}

// GetShow fetches a single show by id
func (s Server) GetShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		show, err := s.store.GetShow(r.Context(), id)
		if err != nil {
			log.Debug("failed to get show", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: show})
	}
}

// CreateShow starts tracking a new show in searching. Seasons and episodes are
// filled in by the next discovery pass.
func (s Server) CreateShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		request, ok := s.decodeShowRequest(w, r)
		if !ok {
			return
		}

		id, err := s.store.CreateShow(r.Context(), storage.Show{
			Show: model.Show{
				Name:                request.Name,
				MaxEpisodeSizeBytes: request.MaxEpisodeSizeMB * bytesPerMB,
				ResolutionProfile:   request.ResolutionProfile,
				ImdbID:              request.ImdbID,
				CoverURL:            request.CoverURL,
			},
		})
		if err != nil {
			log.Error("failed to create show", zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeResponse(w, http.StatusCreated, GenericResponse{Response: id})
	}
}

// UpdateShow replaces a show's attributes
func (s Server) UpdateShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		request, ok := s.decodeShowRequest(w, r)
		if !ok {
			return
		}

		show, err := s.store.GetShow(r.Context(), id)
		if err != nil {
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		show.Name = request.Name
		show.MaxEpisodeSizeBytes = request.MaxEpisodeSizeMB * bytesPerMB
		show.ResolutionProfile = request.ResolutionProfile
		show.ImdbID = request.ImdbID
		show.CoverURL = request.CoverURL

		if err := s.store.UpdateShow(r.Context(), *show); err != nil {
			log.Error("failed to update show", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

// DeleteShow marks a show deleting; the reconciler fans the state out to its
// seasons and episodes, tears down any transfers, then removes the rows
func (s Server) DeleteShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		err = s.store.UpdateShowState(r.Context(), id, storage.StateDeleting)
		if err != nil {
			log.Debug("failed to mark show deleting", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

// ListShowSeasons lists the seasons under a show
func (s Server) ListShowSeasons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		seasons, err := s.store.ListSeasons(r.Context(), table.Season.ShowID.EQ(sqlite.Int64(id)))
		if err != nil {
			log.Error("failed to list seasons", zap.Int64("showID", id), zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: seasons})
	}
}

func (s Server) decodeShowRequest(w http.ResponseWriter, r *http.Request) (AddShowRequest, bool) {
	log := logger.FromCtx(r.Context())

	var request AddShowRequest
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
