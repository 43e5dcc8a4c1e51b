package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/grabarr/grabarr/pkg/pagination"
	"github.com/grabarr/grabarr/pkg/storage"
	"go.uber.org/zap"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type GenericResponse struct {
	Error    *string `json:"error,omitempty"`
	Response any     `json:"response"`
}

// PaginatedResponse wraps a page of items with its pagination meta
type PaginatedResponse struct {
	Items any             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// Server houses the admin API dependencies such as the logger, the entity
// store, and request validation.
type Server struct {
	baseLogger *zap.SugaredLogger
	store      storage.Storage
	validate   *validator.Validate
}

// New creates a new admin API server
func New(logger *zap.SugaredLogger, store storage.Storage) Server {
	return Server{
		baseLogger: logger,
		store:      store,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, err error) error {
	msg := err.Error()
	return writeResponse(w, status, GenericResponse{
		Error: &msg,
	})
}

func writeResponse(w http.ResponseWriter, status int, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	w.Header().Set("content-type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}

	w.Write(b)
	return nil
}

// Handler builds the admin API routes
func (s Server) Handler() http.Handler {
	rtr := mux.NewRouter()
	rtr.Use(s.LogMiddleware())
	rtr.HandleFunc("/healthz", s.Healthz()).Methods(http.MethodGet)

	api := rtr.PathPrefix("/api").Subrouter()

	v1 := api.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/movies", s.ListMovies()).Methods(http.MethodGet)
	v1.HandleFunc("/movies", s.CreateMovie()).Methods(http.MethodPost)
	v1.HandleFunc("/movies/{id}", s.GetMovie()).Methods(http.MethodGet)
	v1.HandleFunc("/movies/{id}", s.UpdateMovie()).Methods(http.MethodPut)
	v1.HandleFunc("/movies/{id}", s.DeleteMovie()).Methods(http.MethodDelete)
	v1.HandleFunc("/movies/{id}/pause", s.PauseMovie()).Methods(http.MethodPost)
	v1.HandleFunc("/movies/{id}/resume", s.ResumeMovie()).Methods(http.MethodPost)

	v1.HandleFunc("/shows", s.ListShows()).Methods(http.MethodGet)
	v1.HandleFunc("/shows", s.CreateShow()).Methods(http.MethodPost)
	v1.HandleFunc("/shows/{id}", s.GetShow()).Methods(http.MethodGet)
	v1.HandleFunc("/shows/{id}", s.UpdateShow()).Methods(http.MethodPut)
	v1.HandleFunc("/shows/{id}", s.DeleteShow()).Methods(http.MethodDelete)
	v1.HandleFunc("/shows/{id}/seasons", s.ListShowSeasons()).Methods(http.MethodGet)

	v1.HandleFunc("/seasons/{id}/episodes", s.ListSeasonEpisodes()).Methods(http.MethodGet)
	v1.HandleFunc("/seasons/{id}/pause", s.PauseSeason()).Methods(http.MethodPost)
	v1.HandleFunc("/seasons/{id}/resume", s.ResumeSeason()).Methods(http.MethodPost)

	v1.HandleFunc("/episodes/{id}/pause", s.PauseEpisode()).Methods(http.MethodPost)
	v1.HandleFunc("/episodes/{id}/resume", s.ResumeEpisode()).Methods(http.MethodPost)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
	)(rtr)
}

// Serve starts the http server and is a blocking call
func (s Server) Serve(port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	go func() {
		s.baseLogger.Info("serving...", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil {
			s.baseLogger.Error(err.Error())
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	return srv.Shutdown(ctx)
}

// Healthz is an endpoint that can be used for probes
func (s Server) Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := GenericResponse{
			Response: "ok",
		}
		writeResponse(w, http.StatusOK, response)
	}
}
