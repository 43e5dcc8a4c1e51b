package search

import (
	"context"
	"errors"

	"github.com/oapi-codegen/nullable"
)

// Client searches indexers for candidate releases
type Client interface {
	SearchMovie(ctx context.Context, query string) ([]*Release, error)
	SearchSeries(ctx context.Context, query string) ([]*Release, error)
}

// Release is a single indexer result. Fields are nullable since trackers
// report wildly different subsets of them.
type Release struct {
	Title     nullable.Nullable[string] `json:"Title,omitempty"`
	Guid      nullable.Nullable[string] `json:"Guid,omitempty"`
	Link      nullable.Nullable[string] `json:"Link,omitempty"`
	MagnetURI nullable.Nullable[string] `json:"MagnetUri,omitempty"`
	InfoHash  nullable.Nullable[string] `json:"InfoHash,omitempty"`
	Tracker   nullable.Nullable[string] `json:"Tracker,omitempty"`
	Size      nullable.Nullable[int64]  `json:"Size,omitempty"`
	Seeders   nullable.Nullable[int32]  `json:"Seeders,omitempty"`
	Imdb      nullable.Nullable[int64]  `json:"Imdb,omitempty"`
}

// DownloadLink returns the uri to hand to a download client, preferring a
// magnet uri over a tracker link
func (r *Release) DownloadLink() (string, error) {
	if magnet, err := r.MagnetURI.Get(); err == nil && magnet != "" {
		return magnet, nil
	}

	if link, err := r.Link.Get(); err == nil && link != "" {
		return link, nil
	}

	return "", errors.New("release has no usable download link")
}
