package engine

import (
	"context"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/metadata"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/model"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/table"
	"go.uber.org/zap"
)

// Discover fetches the episode catalog for every show still searching and
// creates any seasons and episodes not yet tracked. A metadata failure for
// one show never blocks discovery for the others.
func (e *Engine) Discover(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	shows, err := e.storage.ListShowsByState(ctx, storage.StateSearching)
	if err != nil {
		return err
	}

	for _, show := range shows {
		if err := e.discoverShow(ctx, show); err != nil {
			log.Error("failed to discover show", zap.String("show", show.Name), zap.Error(err))
		}
	}

	return nil
}

func (e *Engine) discoverShow(ctx context.Context, show *storage.Show) error {
	log := logger.FromCtx(ctx)

	catalog, err := e.metadata.Catalog(ctx, show.Name)
	if err != nil {
		return err
	}

	seasons, err := e.storage.ListSeasons(ctx, table.Season.ShowID.EQ(sqlite.Int32(show.ID)))
	if err != nil {
		return err
	}

	tracked := make(map[int32]*storage.Season, len(seasons))
	latest := int32(0)
	for _, season := range seasons {
		tracked[season.Number] = season
		if season.Number > latest {
			latest = season.Number
		}
	}

	for number, episodes := range catalog {
		season, ok := tracked[int32(number)]
		if !ok {
			if err := e.createSeason(ctx, show, int32(number), episodes); err != nil {
				return err
			}
			log.Info("discovered new season", zap.String("show", show.Name), zap.Int("season", number))
			continue
		}

		// only the most recent season still announces new episodes
		if season.Number == latest {
			if err := e.refreshSeason(ctx, season, episodes); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Engine) createSeason(ctx context.Context, show *storage.Show, number int32, episodes []metadata.Episode) error {
	seasonID, err := e.storage.CreateSeason(ctx, storage.Season{
		Season: model.Season{
			ShowID:       show.ID,
			Number:       number,
			EpisodeCount: int32(len(episodes)),
		},
	})
	if err != nil {
		return err
	}

	for _, episode := range episodes {
		// episodes without an announced air date are not tracked yet; a
		// later refresh picks them up once the catalog dates them
		if episode.AirDate == "" {
			continue
		}
		if err := e.createEpisode(ctx, seasonID, episode); err != nil {
			return err
		}
	}

	return nil
}

// refreshSeason adds newly announced episodes and keeps the recorded
// episode count in line with the catalog
func (e *Engine) refreshSeason(ctx context.Context, season *storage.Season, episodes []metadata.Episode) error {
	log := logger.FromCtx(ctx)

	existing, err := e.storage.ListEpisodes(ctx, table.Episode.SeasonID.EQ(sqlite.Int32(season.ID)))
	if err != nil {
		return err
	}

	known := make(map[int32]struct{}, len(existing))
	for _, episode := range existing {
		known[episode.Number] = struct{}{}
	}

	for _, episode := range episodes {
		if _, ok := known[int32(episode.Number)]; ok {
			continue
		}
		if episode.AirDate == "" {
			continue
		}

		if err := e.createEpisode(ctx, int64(season.ID), episode); err != nil {
			return err
		}
		log.Info("discovered new episode", zap.Int32("season", season.Number), zap.Int("episode", episode.Number))
	}

	if season.EpisodeCount != int32(len(episodes)) {
		return e.storage.UpdateSeasonEpisodeCount(ctx, int64(season.ID), int32(len(episodes)))
	}

	return nil
}

func (e *Engine) createEpisode(ctx context.Context, seasonID int64, episode metadata.Episode) error {
	row := model.Episode{
		SeasonID: int32(seasonID),
		Number:   int32(episode.Number),
	}
	if episode.Title != "" {
		title := episode.Title
		row.Title = &title
	}
	if episode.AirDate != "" {
		airDate := episode.AirDate
		row.AirDate = &airDate
	}

	_, err := e.storage.CreateEpisode(ctx, storage.Episode{Episode: row})
	return err
}
