package download

import (
	"context"
	"strings"
)

// Client talks to a torrent download client
type Client interface {
	// Add submits a magnet uri or torrent link, saving into the given directory
	Add(ctx context.Context, link string, downloadDir string) error
	// List returns transfers known to the client, optionally filtered by info hash
	List(ctx context.Context, hashes ...string) ([]Status, error)
	Pause(ctx context.Context, hashes ...string) error
	Resume(ctx context.Context, hashes ...string) error
	// Remove drops transfers from the client, optionally deleting their data
	Remove(ctx context.Context, deleteFiles bool, hashes ...string) error
}

// Status is the client's view of a single transfer
type Status struct {
	Hash     string  `json:"hash"`
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	AddedAt  int64   `json:"added_on"`
}

// IsPaused reports whether the transfer is stopped in the client.
// Newer qBittorrent versions report paused states as stopped.
func (s Status) IsPaused() bool {
	return strings.Contains(s.State, "paused") || strings.Contains(s.State, "stopped")
}

// IsUploading reports whether the transfer finished downloading and is actively seeding
func (s Status) IsUploading() bool {
	return s.State == "uploading"
}
