package engine

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/search"
	"github.com/oapi-codegen/nullable"
	"go.uber.org/zap"
)

// profileQueries expands a comma separated resolution profile into one search
// query per resolution. A resolution of "any" searches the bare name.
func profileQueries(name, profile string) []string {
	var queries []string
	for _, res := range strings.Split(profile, ",") {
		res = strings.TrimSpace(res)
		if res == "" || strings.EqualFold(res, "any") {
			queries = append(queries, name)
			continue
		}

		queries = append(queries, fmt.Sprintf("%s %s", name, res))
	}

	return queries
}

// searchConstraints are the per-entity filters applied to indexer results
type searchConstraints struct {
	maxSizeBytes int64
	minSeeders   int32
	language     string
	imdbID       *string
	titlePattern *regexp.Regexp
}

// rejectReleaseFunc returns a function that returns true if the given release should be rejected
func rejectReleaseFunc(ctx context.Context, c searchConstraints) func(*search.Release) bool {
	log := logger.FromCtx(ctx)

	return func(r *search.Release) bool {
		title, err := r.Title.Get()
		if err != nil {
			return true
		}

		// the info hash is how transfers are correlated later, it is required
		hash, err := r.InfoHash.Get()
		if err != nil || hash == "" {
			return true
		}

		if size, err := r.Size.Get(); err != nil || size > c.maxSizeBytes {
			log.Debug("rejecting release over size ceiling", zap.String("title", title))
			return true
		}

		if seeders, err := r.Seeders.Get(); err != nil || seeders < c.minSeeders {
			return true
		}

		if c.language != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(c.language)) {
			return true
		}

		if c.titlePattern != nil && !c.titlePattern.MatchString(title) {
			return true
		}

		// require an exact catalog identifier match only when both sides expose one
		if c.imdbID != nil {
			if imdb, err := r.Imdb.Get(); err == nil && imdb != 0 {
				if imdbNumber(*c.imdbID) != imdb {
					return true
				}
			}
		}

		return false
	}
}

// sortReleaseFunc returns a function that sorts releases by their number of seeders currently
func sortReleaseFunc() func(*search.Release, *search.Release) int {
	return func(r1, r2 *search.Release) int {
		return cmp.Compare(nullableDefault(r1.Seeders), nullableDefault(r2.Seeders))
	}
}

func nullableDefault[T any](n nullable.Nullable[T]) T {
	v, _ := n.Get()
	return v
}

// imdbNumber strips the tt prefix from an imdb id, leaving the numeric part
func imdbNumber(id string) int64 {
	n, err := strconv.ParseInt(strings.TrimPrefix(strings.ToLower(id), "tt"), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// seasonPattern matches season markers like "Season 2", "S02" or "s2" in a release title
func seasonPattern(season int32) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)(season|s)\W?0?%d\b`, season))
}

// episodePattern matches a specific episode marker like "S02E05" in a release title
func episodePattern(season, episode int32) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)s0?%d\W?e0?%d\b`, season, episode))
}

var airDateFormats = []string{
	"2006-01-02",
	"02 Jan 06",
	"Jan 02, 2006",
	"2 January 2006",
}

// parseAirDate attempts the date formats metadata providers are known to
// emit. ok is false when none of them match.
func parseAirDate(value string) (time.Time, bool) {
	for _, format := range airDateFormats {
		if t, err := time.Parse(format, strings.TrimSpace(value)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
