package engine

import (
	"context"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/download"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/table"
	"go.uber.org/zap"
)

type unitKind string

const (
	unitMovie   unitKind = "movie"
	unitSeason  unitKind = "season"
	unitEpisode unitKind = "episode"
)

// unit is a concrete transfer: any entity that carries its own content
// hash, regardless of kind
type unit struct {
	kind  unitKind
	id    int64
	state storage.MediaState
	hash  string
}

// Reconcile advances stored state to match the download client. Leaf
// transfers are handled first, then season state is recomputed from
// episodes, then show state from seasons; parent aggregation needs fresh
// child state.
func (e *Engine) Reconcile(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	units, err := e.collectUnits(ctx)
	if err != nil {
		return err
	}

	for _, u := range units {
		if err := e.reconcileUnit(ctx, u); err != nil {
			log.Error("failed to reconcile transfer",
				zap.String("kind", string(u.kind)),
				zap.Int64("id", u.id),
				zap.Error(err))
		}
	}

	if err := e.reconcileSeasons(ctx); err != nil {
		return err
	}

	return e.reconcileShows(ctx)
}

// collectUnits gathers every entity with a recorded content hash that is
// neither waiting on a search nor already done
func (e *Engine) collectUnits(ctx context.Context) ([]unit, error) {
	var units []unit

	episodes, err := e.storage.ListEpisodes(ctx)
	if err != nil {
		return nil, err
	}
	for _, episode := range episodes {
		if episode.Hash == nil {
			continue
		}
		units = append(units, unit{kind: unitEpisode, id: int64(episode.ID), state: episode.MediaState(), hash: *episode.Hash})
	}

	seasons, err := e.storage.ListSeasons(ctx)
	if err != nil {
		return nil, err
	}
	for _, season := range seasons {
		if season.Hash == nil {
			continue
		}
		units = append(units, unit{kind: unitSeason, id: int64(season.ID), state: season.MediaState(), hash: *season.Hash})
	}

	movies, err := e.storage.ListMovies(ctx)
	if err != nil {
		return nil, err
	}
	for _, movie := range movies {
		if movie.Hash == nil {
			continue
		}
		units = append(units, unit{kind: unitMovie, id: int64(movie.ID), state: movie.MediaState(), hash: *movie.Hash})
	}

	return units, nil
}

func (e *Engine) reconcileUnit(ctx context.Context, u unit) error {
	log := logger.FromCtx(ctx)

	if u.state == storage.StateSearching || u.state == storage.StateCompleted {
		return nil
	}

	statuses, err := e.download.List(ctx, u.hash)
	if err != nil {
		return err
	}

	// the transfer vanished: either the user removed it externally or a
	// pending delete no longer has anything to remove
	if len(statuses) == 0 {
		log.Info("transfer missing from client, removing entity",
			zap.String("kind", string(u.kind)),
			zap.Int64("id", u.id),
			zap.String("hash", u.hash))
		return e.deleteUnit(ctx, u)
	}

	transfer := statuses[0]

	switch {
	case u.state == storage.StateDeleting:
		if err := e.download.Remove(ctx, true, u.hash); err != nil {
			return err
		}
		return e.deleteUnit(ctx, u)

	case u.state == storage.StateSeeding && e.retentionExpired(transfer):
		// keep the files, drop the transfer
		if err := e.download.Remove(ctx, false, u.hash); err != nil {
			return err
		}
		return e.updateUnitState(ctx, u, storage.StateCompleted)

	case u.state == storage.StateDownloading && transfer.IsUploading():
		return e.updateUnitState(ctx, u, storage.StateSeeding)

	case u.state == storage.StatePaused && !transfer.IsPaused():
		return e.download.Pause(ctx, u.hash)

	case u.state != storage.StatePaused && transfer.IsPaused():
		return e.download.Resume(ctx, u.hash)
	}

	return nil
}

func (e *Engine) retentionExpired(transfer download.Status) bool {
	added := transfer.AddedAt
	if added == 0 {
		return false
	}

	return e.clock.Now().Unix()-added >= int64(e.config.Retention.Seconds())
}

func (e *Engine) deleteUnit(ctx context.Context, u unit) error {
	switch u.kind {
	case unitMovie:
		return e.storage.DeleteMovie(ctx, u.id)
	case unitSeason:
		return e.storage.DeleteSeason(ctx, u.id)
	default:
		return e.storage.DeleteEpisode(ctx, u.id)
	}
}

func (e *Engine) updateUnitState(ctx context.Context, u unit, state storage.MediaState) error {
	switch u.kind {
	case unitMovie:
		return e.storage.UpdateMovieState(ctx, u.id, state, nil)
	case unitSeason:
		return e.storage.UpdateSeasonState(ctx, u.id, state, nil)
	default:
		return e.storage.UpdateEpisodeState(ctx, u.id, state, nil)
	}
}

// reconcileSeasons recomputes per-episode season state and mirrors season
// state onto hashless episodes of whole-season transfers
func (e *Engine) reconcileSeasons(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	seasons, err := e.storage.ListSeasons(ctx)
	if err != nil {
		return err
	}

	for _, season := range seasons {
		if err := e.reconcileSeason(ctx, season); err != nil {
			log.Error("failed to reconcile season", zap.Int32("season", season.Number), zap.Error(err))
		}
	}

	return nil
}

func (e *Engine) reconcileSeason(ctx context.Context, season *storage.Season) error {
	// a season downloaded whole was reconciled as a transfer already, its
	// episodes just mirror it
	if season.Hash != nil {
		episodes, err := e.storage.ListEpisodes(ctx, table.Episode.SeasonID.EQ(sqlite.Int32(season.ID)))
		if err != nil {
			return err
		}

		for _, episode := range episodes {
			if episode.Hash != nil {
				continue
			}
			// an episode the machine cannot take there yet, such as a
			// searching one under a paused season, catches up once the
			// season moves again
			if !episode.Machine().Can(season.MediaState()) {
				continue
			}
			if err := e.storage.UpdateEpisodeState(ctx, int64(episode.ID), season.MediaState(), nil); err != nil {
				return err
			}
		}

		return nil
	}

	if season.MediaState() == storage.StateDeleting {
		return e.storage.DeleteSeason(ctx, int64(season.ID))
	}

	states, err := e.storage.ListEpisodeStates(ctx, int64(season.ID))
	if err != nil {
		return err
	}

	computed := aggregateState(season.MediaState(), states)
	if computed == season.MediaState() {
		return nil
	}

	return e.storage.UpdateSeasonState(ctx, int64(season.ID), computed, nil)
}

func (e *Engine) reconcileShows(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	shows, err := e.storage.ListShows(ctx)
	if err != nil {
		return err
	}

	for _, show := range shows {
		if err := e.reconcileShow(ctx, show); err != nil {
			log.Error("failed to reconcile show", zap.String("show", show.Name), zap.Error(err))
		}
	}

	return nil
}

// removeShowTransfers drops every transfer still held under a show about to
// be deleted, so the cascade never strands torrents in the client
func (e *Engine) removeShowTransfers(ctx context.Context, show *storage.Show) error {
	seasons, err := e.storage.ListSeasons(ctx, table.Season.ShowID.EQ(sqlite.Int32(show.ID)))
	if err != nil {
		return err
	}

	var hashes []string
	for _, season := range seasons {
		if season.Hash != nil {
			hashes = append(hashes, *season.Hash)
		}

		episodes, err := e.storage.ListEpisodes(ctx, table.Episode.SeasonID.EQ(sqlite.Int32(season.ID)))
		if err != nil {
			return err
		}
		for _, episode := range episodes {
			if episode.Hash != nil {
				hashes = append(hashes, *episode.Hash)
			}
		}
	}

	if len(hashes) == 0 {
		return nil
	}

	return e.download.Remove(ctx, true, hashes...)
}

func (e *Engine) reconcileShow(ctx context.Context, show *storage.Show) error {
	states, err := e.storage.ListSeasonStates(ctx, int64(show.ID))
	if err != nil {
		return err
	}

	computed := aggregateState(show.MediaState(), states)
	if computed == storage.StateDeleting || show.MediaState() == storage.StateDeleting {
		if err := e.removeShowTransfers(ctx, show); err != nil {
			return err
		}
		return e.storage.DeleteShow(ctx, int64(show.ID))
	}

	if computed == show.MediaState() {
		return nil
	}

	return e.storage.UpdateShowState(ctx, int64(show.ID), computed)
}
