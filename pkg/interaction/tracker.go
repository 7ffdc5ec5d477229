// Package interaction holds the canonical snapshot of transient UI state:
// hover, selection and search.
//
// The [Tracker] owns a single immutable [State] value that is replaced
// wholesale on every update. Consumers (the style pipeline, the demo
// viewer, the demo server) read the snapshot by stable reference each
// frame instead of being re-registered per change, so interaction updates
// cost one pointer swap rather than a reducer reinstall.
//
// All operations are synchronous; derived sets (search suggestions,
// hover neighbors) are computed inside the same update that changes the
// field they derive from, so no snapshot ever pairs a hover with a stale
// neighbor set.
package interaction

import (
	"sync"

	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/observability"
)

// Tracker owns the canonical interaction snapshot.
//
// The view core itself is single-threaded, but the demo server reads
// snapshots from HTTP handlers, so the snapshot swap is guarded by a
// mutex. Snapshots themselves are immutable and safe to retain.
type Tracker struct {
	mu    sync.RWMutex
	store graph.Store
	index *graph.LabelIndex
	state *State
}

// NewTracker creates a tracker reading adjacency from the given store.
// The label index powering search suggestions is supplied separately via
// [Tracker.SetIndex] because it is rebuilt on every data load.
func NewTracker(store graph.Store) *Tracker {
	return &Tracker{
		store: store,
		state: &State{},
	}
}

// SetIndex installs the label index used for search suggestions and
// re-derives the suggestion set for the current query against it.
func (t *Tracker) SetIndex(idx *graph.LabelIndex) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index = idx
	if t.state.Query != "" {
		next := *t.state
		next.Suggestions = NewIDSet(idx.Search(next.Query)...)
		t.state = &next
	}
}

// SetHover updates the hovered entity. Pass "" to clear. The neighbor set
// is recomputed in the same update; hovering an ID the store does not know
// yields an empty neighbor set.
func (t *Tracker) SetHover(id string) {
	t.mu.Lock()
	next := *t.state
	next.Hovered = id
	next.Neighbors = nil
	if id != "" {
		next.Neighbors = NewIDSet(t.store.Neighbors(id)...)
	}
	t.state = &next
	t.mu.Unlock()

	observability.Interaction().OnHover(id, next.Neighbors.Len())
}

// SetSelection updates the selected entity. Pass "" to clear. Selection is
// independent of hover and search.
func (t *Tracker) SetSelection(id string) {
	t.mu.Lock()
	next := *t.state
	next.Selected = id
	t.state = &next
	t.mu.Unlock()

	observability.Interaction().OnSelect(id)
}

// SetSearchQuery updates the search text and re-derives the suggestion set
// by case-insensitive substring match. An empty query yields an empty
// suggestion set, not "all entities".
func (t *Tracker) SetSearchQuery(query string) {
	t.mu.Lock()
	next := *t.state
	next.Query = query
	next.Suggestions = nil
	if query != "" {
		next.Suggestions = NewIDSet(t.index.Search(query)...)
	}
	t.state = &next
	t.mu.Unlock()

	observability.Interaction().OnSearch(query, next.Suggestions.Len())
}

// Reset clears all interaction axes at once.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.state = &State{}
	t.mu.Unlock()
}

// Snapshot returns the current immutable snapshot. The returned value must
// not be mutated; hold it for the duration of one frame and re-read on the
// next.
func (t *Tracker) Snapshot() *State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}
