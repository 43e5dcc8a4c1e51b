package server

import (
	"fmt"
	"net/http"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/table"
	"go.uber.org/zap"
)

// ListSeasonEpisodes lists the episodes under a season
func (s Server) ListSeasonEpisodes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		episodes, err := s.store.ListEpisodes(r.Context(), table.Episode.SeasonID.EQ(sqlite.Int64(id)))
		if err != nil {
			log.Error("failed to list episodes", zap.Int64("seasonID", id), zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: episodes})
	}
}

// PauseSeason pauses a whole-season transfer
func (s Server) PauseSeason() http.HandlerFunc {
	return s.setSeasonState(storage.StatePaused)
}

// ResumeSeason puts a paused season back into downloading. Only paused
// seasons can be resumed; anything else is a conflict.
func (s Server) ResumeSeason() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		season, err := s.store.GetSeason(r.Context(), table.Season.ID.EQ(sqlite.Int64(id)))
		if err != nil {
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		if season.MediaState() != storage.StatePaused {
			writeErrorResponse(w, http.StatusConflict, fmt.Errorf("season %d is %s, not paused", id, season.State))
			return
		}

		if err := s.store.UpdateSeasonState(r.Context(), id, storage.StateDownloading, nil); err != nil {
			log.Debug("failed to resume season", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

func (s Server) setSeasonState(state storage.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		err = s.store.UpdateSeasonState(r.Context(), id, state, nil)
		if err != nil {
			log.Debug("failed to update season state", zap.Int64("id", id), zap.String("state", string(state)), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

// PauseEpisode pauses an individually tracked episode's transfer
func (s Server) PauseEpisode() http.HandlerFunc {
	return s.setEpisodeState(storage.StatePaused)
}

// ResumeEpisode puts a paused episode back into downloading. Only paused
// episodes can be resumed; anything else is a conflict.
func (s Server) ResumeEpisode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		episode, err := s.store.GetEpisode(r.Context(), table.Episode.ID.EQ(sqlite.Int64(id)))
		if err != nil {
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		if episode.MediaState() != storage.StatePaused {
			writeErrorResponse(w, http.StatusConflict, fmt.Errorf("episode %d is %s, not paused", id, episode.State))
			return
		}

		if err := s.store.UpdateEpisodeState(r.Context(), id, storage.StateDownloading, nil); err != nil {
			log.Debug("failed to resume episode", zap.Int64("id", id), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}

func (s Server) setEpisodeState(state storage.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		err = s.store.UpdateEpisodeState(r.Context(), id, state, nil)
		if err != nil {
			log.Debug("failed to update episode state", zap.Int64("id", id), zap.String("state", string(state)), zap.Error(err))
			writeErrorResponse(w, statusForError(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: id})
	}
}
