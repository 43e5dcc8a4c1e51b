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

// CreateShow stores a show. New shows start in searching unless a state is given
func (s *SQLite) CreateShow(ctx context.Context, show storage.Show) (int64, error) {
	if show.State == "" {
		show.State = string(storage.StateSearching)
	}

	if !show.MediaState().Valid() {
		return 0, fmt.Errorf("invalid state: %s", show.State)
	}

	insertColumns := table.Show.AllColumns
	if show.ID == 0 {
		insertColumns = insertColumns.Except(table.Show.ID)
	}
	if show.CreatedAt == nil || show.CreatedAt.IsZero() {
		insertColumns = insertColumns.Except(table.Show.CreatedAt)
	}

	stmt := table.Show.
		INSERT(insertColumns).
		MODEL(show.Show).
		RETURNING(table.Show.ID)

	result, err := s.handleInsert(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (s *SQLite) GetShow(ctx context.Context, id int64) (*storage.Show, error) {
	stmt := table.Show.
		SELECT(table.Show.AllColumns).
		WHERE(table.Show.ID.EQ(sqlite.Int64(id)))

	show := new(storage.Show)
	err := stmt.QueryContext(ctx, s.db, show)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}

	return show, nil
}

// ListShows lists the stored shows matching the given expressions
func (s *SQLite) ListShows(ctx context.Context, where ...sqlite.BoolExpression) ([]*storage.Show, error) {
	shows := make([]*storage.Show, 0)

	stmt := table.Show.
		SELECT(table.Show.AllColumns).
		ORDER_BY(table.Show.Name.ASC())
	for _, w := range where {
		stmt = stmt.WHERE(w)
	}

	err := stmt.QueryContext(ctx, s.db, &shows)
	if err != nil {
		return nil, err
	}

	return shows, nil
}

func (s *SQLite) ListShowsByState(ctx context.Context, state storage.MediaState) ([]*storage.Show, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("invalid state: %s", state)
	}

	return s.ListShows(ctx, table.Show.State.EQ(sqlite.String(string(state))))
}

// UpdateShow replaces the show's descriptive attributes. State is managed
// through UpdateShowState.
func (s *SQLite) UpdateShow(ctx context.Context, show storage.Show) error {
	stmt := table.Show.
		UPDATE(
			table.Show.Name,
			table.Show.MaxEpisodeSizeBytes,
			table.Show.ResolutionProfile,
			table.Show.ImdbID,
			table.Show.CoverURL,
		).
		MODEL(show.Show).
		WHERE(table.Show.ID.EQ(sqlite.Int32(show.ID)))

	_, err := s.handleStatement(ctx, stmt)
	return err
}

// UpdateShowState transitions a show to the given state. Updating to the current
// state is a no-op.
func (s *SQLite) UpdateShowState(ctx context.Context, id int64, state storage.MediaState) error {
	show, err := s.GetShow(ctx, id)
	if err != nil {
		return err
	}

	if show.MediaState() == state {
		return nil
	}

	err = show.Machine().ToState(state)
	if err != nil {
		return err
	}

	stmt := table.Show.UPDATE().
		SET(table.Show.State.SET(sqlite.String(string(state)))).
		WHERE(table.Show.ID.EQ(sqlite.Int64(id)))

	_, err = s.handleStatement(ctx, stmt)
	return err
}

// DeleteShow removes a show by id, cascading to its seasons and episodes
func (s *SQLite) DeleteShow(ctx context.Context, id int64) error {
	stmt := table.Show.DELETE().WHERE(table.Show.ID.EQ(sqlite.Int64(id))).RETURNING(table.Show.ID)
	_, err := s.handleDelete(ctx, stmt)
	return err
}

// ListSeasonStates returns the state of every season belonging to the show
func (s *SQLite) ListSeasonStates(ctx context.Context, showID int64) ([]storage.MediaState, error) {
	stmt := table.Season.
		SELECT(table.Season.State).
		WHERE(table.Season.ShowID.EQ(sqlite.Int64(showID))).
		ORDER_BY(table.Season.Number.ASC())

	var rows []struct {
		State string
	}
	err := stmt.QueryContext(ctx, s.db, &rows)
	if err != nil {
		return nil, err
	}

	states := make([]storage.MediaState, len(rows))
	for i, r := range rows {
		states[i] = storage.MediaState(r.State)
	}

	return states, nil
}
