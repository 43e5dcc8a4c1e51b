package engine

import (
	"testing"

	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func TestAggregateState(t *testing.T) {
	tests := []struct {
		name     string
		current  storage.MediaState
		children []storage.MediaState
		want     storage.MediaState
	}{
		{
			name:     "unanimous seeding advances parent",
			current:  storage.StateDownloading,
			children: []storage.MediaState{storage.StateSeeding, storage.StateSeeding},
			want:     storage.StateSeeding,
		},
		{
			name:     "searching dominates",
			current:  storage.StateDownloading,
			children: []storage.MediaState{storage.StateSearching, storage.StateSeeding},
			want:     storage.StateSearching,
		},
		{
			name:     "mixed advanced states leave parent unchanged",
			current:  storage.StateDownloading,
			children: []storage.MediaState{storage.StateSeeding, storage.StateCompleted},
			want:     storage.StateDownloading,
		},
		{
			name:     "downloading beats paused",
			current:  storage.StateSearching,
			children: []storage.MediaState{storage.StateDownloading, storage.StatePaused},
			want:     storage.StateDownloading,
		},
		{
			name:     "paused beats unanimity",
			current:  storage.StateSeeding,
			children: []storage.MediaState{storage.StatePaused, storage.StateSeeding},
			want:     storage.StatePaused,
		},
		{
			name:     "unanimous completed",
			current:  storage.StateSeeding,
			children: []storage.MediaState{storage.StateCompleted, storage.StateCompleted},
			want:     storage.StateCompleted,
		},
		{
			name:     "unanimous deleting",
			current:  storage.StateSeeding,
			children: []storage.MediaState{storage.StateDeleting},
			want:     storage.StateDeleting,
		},
		{
			name:     "no children leaves parent unchanged",
			current:  storage.StateCompleted,
			children: nil,
			want:     storage.StateCompleted,
		},
		{
			name:     "unanimous value equal to parent is unchanged",
			current:  storage.StateSeeding,
			children: []storage.MediaState{storage.StateSeeding, storage.StateSeeding},
			want:     storage.StateSeeding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregateState(tt.current, tt.children))
		})
	}
}
