package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/machine"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/model"
)

var ErrNotFound = errors.New("not found in storage")

//go:embed sqlite/schema/*.sql
var schemaFiles embed.FS

// MediaState is the acquisition lifecycle shared by every tracked entity.
// Movies, whole-season units and episodes move through it as concrete
// transfers; shows and per-episode seasons derive it from their children.
type MediaState string

const (
	StateSearching   MediaState = "searching"
	StateDownloading MediaState = "downloading"
	StateSeeding     MediaState = "seeding"
	StateCompleted   MediaState = "completed"
	StatePaused      MediaState = "paused"
	StateDeleting    MediaState = "deleting"
)

// States lists every valid MediaState value.
func States() []MediaState {
	return []MediaState{
		StateSearching,
		StateDownloading,
		StateSeeding,
		StateCompleted,
		StatePaused,
		StateDeleting,
	}
}

// Valid reports whether s is one of the defined enumeration values
func (s MediaState) Valid() bool {
	switch s {
	case StateSearching, StateDownloading, StateSeeding, StateCompleted, StatePaused, StateDeleting:
		return true
	}
	return false
}

// Machine returns the state machine for an entity currently in the given state.
// Self transitions are rejected so converging reconcile passes write nothing,
// nothing ever leaves deleting except row removal, and completed is terminal
// apart from deletion. Paused is only reachable from states that hold a
// transfer; a still-searching entity has nothing to pause. Searching can jump
// straight to seeding or completed because parent aggregation and whole-season
// episode mirroring follow the children, not the transfer lifecycle.
func Machine(current MediaState) *machine.StateMachine[MediaState] {
	return machine.New(current,
		machine.From(StateSearching).To(StateDownloading, StateSeeding, StateCompleted, StateDeleting),
		machine.From(StateDownloading).To(StateSearching, StateSeeding, StateCompleted, StatePaused, StateDeleting),
		machine.From(StateSeeding).To(StateSearching, StateDownloading, StateCompleted, StatePaused, StateDeleting),
		machine.From(StateCompleted).To(StateDeleting),
		machine.From(StatePaused).To(StateSearching, StateDownloading, StateSeeding, StateCompleted, StateDeleting),
	)
}

type Movie struct {
	model.Movie
}

func (m Movie) MediaState() MediaState {
	return MediaState(m.State)
}

func (m Movie) Machine() *machine.StateMachine[MediaState] {
	return Machine(m.MediaState())
}

type Show struct {
	model.Show
}

func (s Show) MediaState() MediaState {
	return MediaState(s.State)
}

func (s Show) Machine() *machine.StateMachine[MediaState] {
	return Machine(s.MediaState())
}

type Season struct {
	model.Season
}

func (s Season) MediaState() MediaState {
	return MediaState(s.State)
}

func (s Season) Machine() *machine.StateMachine[MediaState] {
	return Machine(s.MediaState())
}

// SeasonDetail joins a season with the show attributes needed to search for it
type SeasonDetail struct {
	model.Season
	ShowName            string  `alias:"show.name"`
	ShowImdbID          *string `alias:"show.imdb_id"`
	ResolutionProfile   string  `alias:"show.resolution_profile"`
	MaxEpisodeSizeBytes int64   `alias:"show.max_episode_size_bytes"`
}

func (s SeasonDetail) MediaState() MediaState {
	return MediaState(s.State)
}

type Episode struct {
	model.Episode
}

func (e Episode) MediaState() MediaState {
	return MediaState(e.State)
}

func (e Episode) Machine() *machine.StateMachine[MediaState] {
	return Machine(e.MediaState())
}

type Storage interface {
	Init(ctx context.Context, schemas ...string) error
	Close() error
	MovieStorage
	ShowStorage
	SeasonStorage
	EpisodeStorage
}

type MovieStorage interface {
	CreateMovie(ctx context.Context, movie Movie) (int64, error)
	GetMovie(ctx context.Context, id int64) (*Movie, error)
	ListMovies(ctx context.Context, where ...sqlite.BoolExpression) ([]*Movie, error)
	ListMoviesByState(ctx context.Context, state MediaState) ([]*Movie, error)
	// UpdateMovie replaces the movie's descriptive attributes; state and hash
	// only change through UpdateMovieState
	UpdateMovie(ctx context.Context, movie Movie) error
	UpdateMovieState(ctx context.Context, id int64, state MediaState, hash *string) error
	DeleteMovie(ctx context.Context, id int64) error
}

type ShowStorage interface {
	CreateShow(ctx context.Context, show Show) (int64, error)
	GetShow(ctx context.Context, id int64) (*Show, error)
	ListShows(ctx context.Context, where ...sqlite.BoolExpression) ([]*Show, error)
	ListShowsByState(ctx context.Context, state MediaState) ([]*Show, error)
	// UpdateShow replaces the show's descriptive attributes; state only changes
	// through UpdateShowState
	UpdateShow(ctx context.Context, show Show) error
	UpdateShowState(ctx context.Context, id int64, state MediaState) error
	// DeleteShow removes the show and cascades to its seasons and episodes
	DeleteShow(ctx context.Context, id int64) error
	// ListSeasonStates returns the state of every season under the show
	ListSeasonStates(ctx context.Context, showID int64) ([]MediaState, error)
}

type SeasonStorage interface {
	CreateSeason(ctx context.Context, season Season) (int64, error)
	GetSeason(ctx context.Context, where sqlite.BoolExpression) (*Season, error)
	ListSeasons(ctx context.Context, where ...sqlite.BoolExpression) ([]*Season, error)
	// ListSeasonDetailsByState returns seasons joined with their show's search attributes
	ListSeasonDetailsByState(ctx context.Context, state MediaState) ([]*SeasonDetail, error)
	UpdateSeasonState(ctx context.Context, id int64, state MediaState, hash *string) error
	UpdateSeasonEpisodeCount(ctx context.Context, id int64, count int32) error
	// DeleteSeason removes the season and cascades to its episodes
	DeleteSeason(ctx context.Context, id int64) error
	// ListEpisodeStates returns the state of every episode under the season
	ListEpisodeStates(ctx context.Context, seasonID int64) ([]MediaState, error)
}

type EpisodeStorage interface {
	CreateEpisode(ctx context.Context, episode Episode) (int64, error)
	GetEpisode(ctx context.Context, where sqlite.BoolExpression) (*Episode, error)
	ListEpisodes(ctx context.Context, where ...sqlite.BoolExpression) ([]*Episode, error)
	UpdateEpisodeState(ctx context.Context, id int64, state MediaState, hash *string) error
	DeleteEpisode(ctx context.Context, id int64) error
}

func ReadSchemaFiles(files ...string) ([]string, error) {
	var schemas []string
	for _, f := range files {
		f, err := os.ReadFile(f)
		if err != nil {
			return schemas, err
		}

		schemas = append(schemas, string(f))
	}

	return schemas, nil
}

// GetSchemas returns the embedded SQL schema as string slices
func GetSchemas() ([]string, error) {
	schemaSQL, err := schemaFiles.ReadFile("sqlite/schema/schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}

	return []string{string(schemaSQL)}, nil
}
