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

// CreateEpisode stores an episode. New episodes start in searching unless a state is given
func (s *SQLite) CreateEpisode(ctx context.Context, episode storage.Episode) (int64, error) {
	if episode.State == "" {
		episode.State = string(storage.StateSearching)
	}

	if !episode.MediaState().Valid() {
		return 0, fmt.Errorf("invalid state: %s", episode.State)
	}

	insertColumns := table.Episode.MutableColumns
	if episode.ID != 0 {
		insertColumns = table.Episode.AllColumns
	}

	stmt := table.Episode.
		INSERT(insertColumns).
		MODEL(episode.Episode).
		RETURNING(table.Episode.ID)

	result, err := s.handleInsert(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// GetEpisode gets a single episode matching the given expression
func (s *SQLite) GetEpisode(ctx context.Context, where sqlite.BoolExpression) (*storage.Episode, error) {
	stmt := table.Episode.
		SELECT(table.Episode.AllColumns).
		WHERE(where)

	var episode storage.Episode
	err := stmt.QueryContext(ctx, s.db, &episode)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}

	return &episode, nil
}

// ListEpisodes lists the stored episodes matching the given expressions
func (s *SQLite) ListEpisodes(ctx context.Context, where ...sqlite.BoolExpression) ([]*storage.Episode, error) {
	episodes := make([]*storage.Episode, 0)

	stmt := table.Episode.
		SELECT(table.Episode.AllColumns).
		ORDER_BY(table.Episode.SeasonID.ASC(), table.Episode.Number.ASC())
	for _, w := range where {
		stmt = stmt.WHERE(w)
	}

	err := stmt.QueryContext(ctx, s.db, &episodes)
	if err != nil {
		return nil, err
	}

	return episodes, nil
}

// UpdateEpisodeState transitions an episode to the given state. A nil hash
// leaves the stored hash untouched. Updating to the current state is a no-op.
func (s *SQLite) UpdateEpisodeState(ctx context.Context, id int64, state storage.MediaState, hash *string) error {
	episode, err := s.GetEpisode(ctx, table.Episode.ID.EQ(sqlite.Int64(id)))
	if err != nil {
		return err
	}

	if episode.MediaState() == state {
		return nil
	}

	err = episode.Machine().ToState(state)
	if err != nil {
		return err
	}

	columns := []interface{}{table.Episode.State.SET(sqlite.String(string(state)))}
	if hash != nil {
		columns = append(columns, table.Episode.Hash.SET(sqlite.String(*hash)))
	}

	stmt := table.Episode.UPDATE().
		SET(columns[0], columns[1:]...).
		WHERE(table.Episode.ID.EQ(sqlite.Int64(id)))

	_, err = s.handleStatement(ctx, stmt)
	return err
}

// DeleteEpisode removes an episode by id
func (s *SQLite) DeleteEpisode(ctx context.Context, id int64) error {
	stmt := table.Episode.DELETE().WHERE(table.Episode.ID.EQ(sqlite.Int64(id))).RETURNING(table.Episode.ID)
	_, err := s.handleDelete(ctx, stmt)
	return err
}
