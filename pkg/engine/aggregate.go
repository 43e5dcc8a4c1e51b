package engine

import "github.com/grabarr/grabarr/pkg/storage"

// aggregateState computes a parent's state from its children. Least
// advanced states win so a child still needing work holds the parent back;
// the parent only advances when every child unanimously agrees.
func aggregateState(current storage.MediaState, children []storage.MediaState) storage.MediaState {
	if len(children) == 0 {
		return current
	}

	set := make(map[storage.MediaState]struct{}, len(children))
	for _, child := range children {
		set[child] = struct{}{}
	}

	if _, ok := set[storage.StateSearching]; ok {
		return storage.StateSearching
	}

	if _, ok := set[storage.StateDownloading]; ok {
		return storage.StateDownloading
	}

	if _, ok := set[storage.StatePaused]; ok {
		return storage.StatePaused
	}

	if len(set) == 1 {
		only := children[0]
		if only != current {
			return only
		}
	}

	return current
}
