package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/table"
)

// CreateMovie stores a movie. New movies start in searching unless a state is given
func (s *SQLite) CreateMovie(ctx context.Context, movie storage.Movie) (int64, error) {
	if movie.State == "" {
		movie.State = string(storage.StateSearching)
	}

	if !movie.MediaState().Valid() {
		return 0, fmt.Errorf("invalid state: %s", movie.State)
	}

	insertColumns := table.Movie.AllColumns
	if movie.ID == 0 {
		insertColumns = insertColumns.Except(table.Movie.ID)
	}
	if movie.CreatedAt == nil || movie.CreatedAt.IsZero() {
		insertColumns = insertColumns.Except(table.Movie.CreatedAt)
	}

	stmt := table.Movie.
		INSERT(insertColumns).
		MODEL(movie.Movie).
		RETURNING(table.Movie.ID)

	result, err := s.handleInsert(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (s *SQLite) GetMovie(ctx context.Context, id int64) (*storage.Movie, error) {
	stmt := table.Movie.
		SELECT(table.Movie.AllColumns).
		WHERE(table.Movie.ID.EQ(sqlite.Int64(id)))

	movie := new(storage.Movie)
	err := stmt.QueryContext(ctx, s.db, movie)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return movie, nil
}

// ListMovies lists the stored movies matching the given expressions
func (s *SQLite) ListMovies(ctx context.Context, where ...sqlite.BoolExpression) ([]*storage.Movie, error) {
	movies := make([]*storage.Movie, 0)

	stmt := table.Movie.
		SELECT(table.Movie.AllColumns).
		ORDER_BY(table.Movie.Name.ASC())
	for _, w := range where {
		stmt = stmt.WHERE(w)
	}

	err := stmt.QueryContext(ctx, s.db, &movies)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

func (s *SQLite) ListMoviesByState(ctx context.Context, state storage.MediaState) ([]*storage.Movie, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("invalid state: %s", state)
	}

	return s.ListMovies(ctx, table.Movie.State.EQ(sqlite.String(string(state))))
}

// UpdateMovie replaces the movie's descriptive attributes. State and hash are
// managed through UpdateMovieState.
func (s *SQLite) UpdateMovie(ctx context.Context, movie storage.Movie) error {
	stmt := table.Movie.
		UPDATE(
			table.Movie.Name,
			table.Movie.MaxSizeBytes,
			table.Movie.ResolutionProfile,
			table.Movie.ImdbID,
			table.Movie.CoverURL,
		).
		MODEL(movie.Movie).
		WHERE(table.Movie.ID.EQ(sqlite.Int32(movie.ID)))

	_, err := s.handleStatement(ctx, stmt)
	return err
}

// UpdateMovieState transitions a movie to the given state. A nil hash leaves the
// stored hash untouched. Updating to the current state is a no-op.
func (s *SQLite) UpdateMovieState(ctx context.Context, id int64, state storage.MediaState, hash *string) error {
	movie, err := s.GetMovie(ctx, id)
	if err != nil {
		return err
	}

	if movie.MediaState() == state {
		return nil
	}

	err = movie.Machine().ToState(state)
	if err != nil {
		return err
	}

	columns := []interface{}{table.Movie.State.SET(sqlite.String(string(state)))}
	if hash != nil {
		columns = append(columns, table.Movie.Hash.SET(sqlite.String(*hash)))
	}

	stmt := table.Movie.UPDATE().
		SET(columns[0], columns[1:]...).
		WHERE(table.Movie.ID.EQ(sqlite.Int64(id)))

	_, err = s.handleStatement(ctx, stmt)
	return err
}

// DeleteMovie removes a movie by id
func (s *SQLite) DeleteMovie(ctx context.Context, id int64) error {
	stmt := table.Movie.DELETE().WHERE(table.Movie.ID.EQ(sqlite.Int64(id))).RETURNING(table.Movie.ID)
	_, err := s.handleDelete(ctx, stmt)
	return err
}
