package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/search"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/table"
	"go.uber.org/zap"
)

// metadata can lag on release day, only consider an episode aired once its
// air date is a full day in the past
const airDateLag = 24 * time.Hour

// Acquire searches for everything still in the searching state and submits
// the best candidate transfer. Movies search directly; seasons download
// whole when complete, per episode otherwise.
func (e *Engine) Acquire(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	if err := e.acquireMovies(ctx); err != nil {
		log.Error("failed to acquire movies", zap.Error(err))
	}

	return e.acquireSeasons(ctx)
}

func (e *Engine) acquireMovies(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	movies, err := e.storage.ListMoviesByState(ctx, storage.StateSearching)
	if err != nil {
		return err
	}

	for _, movie := range movies {
		var releases []*search.Release
		for _, query := range profileQueries(movie.Name, movie.ResolutionProfile) {
			found, err := e.search.SearchMovie(ctx, query)
			if err != nil {
				log.Error("movie search failed", zap.String("movie", movie.Name), zap.String("query", query), zap.Error(err))
				continue
			}
			releases = append(releases, found...)
		}

		constraints := searchConstraints{
			maxSizeBytes: movie.MaxSizeBytes,
			minSeeders:   e.config.MinSeeders,
			language:     e.config.Language,
			imdbID:       movie.ImdbID,
		}

		chosen := chooseRelease(ctx, releases, constraints)
		if chosen == nil {
			log.Info("no acceptable release found", zap.String("movie", movie.Name))
			continue
		}

		hash, err := e.submit(ctx, chosen, e.config.MovieDir)
		if err != nil {
			log.Error("failed to submit movie transfer", zap.String("movie", movie.Name), zap.Error(err))
			continue
		}

		if err := e.storage.UpdateMovieState(ctx, int64(movie.ID), storage.StateDownloading, &hash); err != nil {
			log.Error("failed to update movie state", zap.String("movie", movie.Name), zap.Error(err))
		}
	}

	return nil
}

func (e *Engine) acquireSeasons(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	seasons, err := e.storage.ListSeasonDetailsByState(ctx, storage.StateSearching)
	if err != nil {
		return err
	}

	for _, season := range seasons {
		if err := e.acquireSeason(ctx, season); err != nil {
			log.Error("failed to acquire season",
				zap.String("show", season.ShowName),
				zap.Int32("season", season.Number),
				zap.Error(err))
		}
	}

	return nil
}

func (e *Engine) acquireSeason(ctx context.Context, season *storage.SeasonDetail) error {
	episodes, err := e.storage.ListEpisodes(ctx, table.Episode.SeasonID.EQ(sqlite.Int32(season.ID)))
	if err != nil {
		return err
	}

	if e.seasonComplete(episodes) {
		return e.acquireWholeSeason(ctx, season)
	}

	return e.acquireEpisodes(ctx, season, episodes)
}

// seasonComplete reports whether the season can be fetched as a single
// transfer: nothing in it was acquired individually and its last episode
// aired at least a day ago. An unparseable air date never declares the
// season complete.
func (e *Engine) seasonComplete(episodes []*storage.Episode) bool {
	if len(episodes) == 0 {
		return false
	}

	var last time.Time
	for _, episode := range episodes {
		if episode.MediaState() != storage.StateSearching {
			return false
		}

		if episode.AirDate == nil {
			return false
		}

		aired, ok := parseAirDate(*episode.AirDate)
		if !ok {
			return false
		}

		if aired.After(last) {
			last = aired
		}
	}

	return e.clock.Now().Sub(last) >= airDateLag
}

func (e *Engine) acquireWholeSeason(ctx context.Context, season *storage.SeasonDetail) error {
	log := logger.FromCtx(ctx)

	var releases []*search.Release
	for _, query := range profileQueries(fmt.Sprintf("%s S%02d", season.ShowName, season.Number), season.ResolutionProfile) {
		found, err := e.search.SearchSeries(ctx, query)
		if err != nil {
			return err
		}
		releases = append(releases, found...)
	}

	constraints := searchConstraints{
		maxSizeBytes: season.MaxEpisodeSizeBytes * int64(season.EpisodeCount),
		minSeeders:   e.config.MinSeeders,
		language:     e.config.Language,
		imdbID:       season.ShowImdbID,
		titlePattern: seasonPattern(season.Number),
	}

	chosen := chooseRelease(ctx, releases, constraints)
	if chosen == nil {
		log.Info("no acceptable season release found", zap.String("show", season.ShowName), zap.Int32("season", season.Number))
		return nil
	}

	hash, err := e.submit(ctx, chosen, e.config.TVDir)
	if err != nil {
		return err
	}

	return e.storage.UpdateSeasonState(ctx, int64(season.ID), storage.StateDownloading, &hash)
}

func (e *Engine) acquireEpisodes(ctx context.Context, season *storage.SeasonDetail, episodes []*storage.Episode) error {
	log := logger.FromCtx(ctx)

	for _, episode := range episodes {
		if episode.MediaState() != storage.StateSearching {
			continue
		}

		if !e.episodeAired(episode) {
			continue
		}

		var releases []*search.Release
		for _, query := range profileQueries(fmt.Sprintf("%s S%02dE%02d", season.ShowName, season.Number, episode.Number), season.ResolutionProfile) {
			found, err := e.search.SearchSeries(ctx, query)
			if err != nil {
				log.Error("episode search failed",
					zap.String("show", season.ShowName),
					zap.Int32("episode", episode.Number),
					zap.Error(err))
				continue
			}
			releases = append(releases, found...)
		}

		constraints := searchConstraints{
			maxSizeBytes: season.MaxEpisodeSizeBytes,
			minSeeders:   e.config.MinSeeders,
			language:     e.config.Language,
			imdbID:       season.ShowImdbID,
			titlePattern: episodePattern(season.Number, episode.Number),
		}

		chosen := chooseRelease(ctx, releases, constraints)
		if chosen == nil {
			log.Info("no acceptable episode release found",
				zap.String("show", season.ShowName),
				zap.Int32("season", season.Number),
				zap.Int32("episode", episode.Number))
			continue
		}

		hash, err := e.submit(ctx, chosen, e.config.TVDir)
		if err != nil {
			log.Error("failed to submit episode transfer", zap.Int32("episode", episode.Number), zap.Error(err))
			continue
		}

		if err := e.storage.UpdateEpisodeState(ctx, int64(episode.ID), storage.StateDownloading, &hash); err != nil {
			log.Error("failed to update episode state", zap.Int32("episode", episode.Number), zap.Error(err))
		}
	}

	return nil
}

func (e *Engine) episodeAired(episode *storage.Episode) bool {
	if episode.AirDate == nil {
		return false
	}

	aired, ok := parseAirDate(*episode.AirDate)
	if !ok {
		return false
	}

	return e.clock.Now().After(aired)
}

// chooseRelease filters the candidates and picks the one with the most seeders
func chooseRelease(ctx context.Context, releases []*search.Release, constraints searchConstraints) *search.Release {
	candidates := slices.DeleteFunc(slices.Clone(releases), rejectReleaseFunc(ctx, constraints))
	if len(candidates) == 0 {
		return nil
	}

	slices.SortStableFunc(candidates, sortReleaseFunc())
	return candidates[len(candidates)-1]
}

// submit hands the release to the download client and returns its info hash
func (e *Engine) submit(ctx context.Context, release *search.Release, dir string) (string, error) {
	link, err := release.DownloadLink()
	if err != nil {
		return "", err
	}

	hash, err := release.InfoHash.Get()
	if err != nil {
		return "", err
	}

	if err := e.download.Add(ctx, link, dir); err != nil {
		return "", err
	}

	return hash, nil
}
