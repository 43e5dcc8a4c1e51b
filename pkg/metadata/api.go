package metadata

import (
	"context"
)

// Client fetches the episode catalog for a show from a metadata provider
type Client interface {
	// Catalog returns every known episode keyed by season number
	Catalog(ctx context.Context, show string) (map[int][]Episode, error)
}

// Episode is provider metadata for a single episode
type Episode struct {
	Season  int    `json:"season"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	AirDate string `json:"release_date"`
}
