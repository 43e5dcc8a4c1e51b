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

// CreateSeason stores a season. New seasons start in searching unless a state is given
func (s *SQLite) CreateSeason(ctx context.Context, season storage.Season) (int64, error) {
	if season.State == "" {
		season.State = string(storage.StateSearching)
	}

	if !season.MediaState().Valid() {
		return 0, fmt.Errorf("invalid state: %s", season.State)
	}

	insertColumns := table.Season.MutableColumns
	if season.ID != 0 {
		insertColumns = table.Season.AllColumns
	}

	stmt := table.Season.
		INSERT(insertColumns).
		MODEL(season.Season).
		RETURNING(table.Season.ID)

	result, err := s.handleInsert(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// GetSeason gets a single season matching the given expression
func (s *SQLite) GetSeason(ctx context.Context, where sqlite.BoolExpression) (*storage.Season, error) {
	stmt := table.Season.
		SELECT(table.Season.AllColumns).
		WHERE(where)

	var season storage.Season
	err := stmt.QueryContext(ctx, s.db, &season)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}

	return &season, nil
}

// ListSeasons lists the stored seasons matching the given expressions
func (s *SQLite) ListSeasons(ctx context.Context, where ...sqlite.BoolExpression) ([]*storage.Season, error) {
	seasons := make([]*storage.Season, 0)

	stmt := table.Season.
		SELECT(table.Season.AllColumns).
		ORDER_BY(table.Season.ShowID.ASC(), table.Season.Number.ASC())
	for _, w := range where {
		stmt = stmt.WHERE(w)
	}

	err := stmt.QueryContext(ctx, s.db, &seasons)
	if err != nil {
		return nil, err
	}

	return seasons, nil
}

// ListSeasonDetailsByState returns seasons in the given state joined with the
// show attributes needed to search and size their releases
func (s *SQLite) ListSeasonDetailsByState(ctx context.Context, state storage.MediaState) ([]*storage.SeasonDetail, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("invalid state: %s", state)
	}

	stmt := sqlite.
		SELECT(
			table.Season.AllColumns,
			table.Show.Name.AS("show.name"),
			table.Show.ImdbID.AS("show.imdb_id"),
			table.Show.ResolutionProfile.AS("show.resolution_profile"),
			table.Show.MaxEpisodeSizeBytes.AS("show.max_episode_size_bytes"),
		).
		FROM(table.Season.
			INNER_JOIN(table.Show, table.Season.ShowID.EQ(table.Show.ID))).
		WHERE(table.Season.State.EQ(sqlite.String(string(state)))).
		ORDER_BY(table.Season.ShowID.ASC(), table.Season.Number.ASC())

	details := make([]*storage.SeasonDetail, 0)
	err := stmt.QueryContext(ctx, s.db, &details)
	if err != nil {
		return nil, err
	}

	return details, nil
}

// UpdateSeasonState transitions a season to the given state. A nil hash leaves
// the stored hash untouched. Updating to the current state is a no-op.
func (s *SQLite) UpdateSeasonState(ctx context.Context, id int64, state storage.MediaState, hash *string) error {
	season, err := s.GetSeason(ctx, table.Season.ID.EQ(sqlite.Int64(id)))
	if err != nil {
		return err
	}

	if season.MediaState() == state {
		return nil
	}

	err = season.Machine().ToState(state)
	if err != nil {
		return err
	}

	columns := []interface{}{table.Season.State.SET(sqlite.String(string(state)))}
	if hash != nil {
		columns = append(columns, table.Season.Hash.SET(sqlite.String(*hash)))
	}

	stmt := table.Season.UPDATE().
		SET(columns[0], columns[1:]...).
		WHERE(table.Season.ID.EQ(sqlite.Int64(id)))

	_, err = s.handleStatement(ctx, stmt)
	return err
}

// UpdateSeasonEpisodeCount records the number of episodes metadata reports for the season
func (s *SQLite) UpdateSeasonEpisodeCount(ctx context.Context, id int64, count int32) error {
	stmt := table.Season.UPDATE().
		SET(table.Season.EpisodeCount.SET(sqlite.Int32(count))).
		WHERE(table.Season.ID.EQ(sqlite.Int64(id)))

	_, err := s.handleStatement(ctx, stmt)
	return err
}

// DeleteSeason removes a season by id, cascading to its episodes
func (s *SQLite) DeleteSeason(ctx context.Context, id int64) error {
	stmt := table.Season.DELETE().WHERE(table.Season.ID.EQ(sqlite.Int64(id))).RETURNING(table.Season.ID)
	_, err := s.handleDelete(ctx, stmt)
	return err
}

// ListEpisodeStates returns the state of every episode belonging to the season
func (s *SQLite) ListEpisodeStates(ctx context.Context, seasonID int64) ([]storage.MediaState, error) {
	stmt := table.Episode.
		SELECT(table.Episode.State).
		WHERE(table.Episode.SeasonID.EQ(sqlite.Int64(seasonID))).
		ORDER_BY(table.Episode.Number.ASC())

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
