package interaction

// =============================================================================
// IDSet - Immutable Entity ID Set
// =============================================================================

// IDSet is a set of entity IDs. Sets inside a [State] snapshot are
// immutable: they are built once by the tracker and never mutated, so any
// number of readers can share them across frames.
type IDSet map[string]bool

// NewIDSet builds a set from the given IDs.
func NewIDSet(ids ...string) IDSet {
	if len(ids) == 0 {
		return nil
	}
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports whether id is in the set. Safe on a nil set.
func (s IDSet) Has(id string) bool { return s[id] }

// Len returns the number of IDs in the set.
func (s IDSet) Len() int { return len(s) }

// =============================================================================
// State - Interaction Snapshot
// =============================================================================

// State is an immutable snapshot of transient interaction state. Each
// tracker operation produces a complete new snapshot; no consumer ever
// observes a partially updated one. The zero value is the idle state.
//
// Hovered, Selected and Query are independent axes: clearing one never
// clears the others.
type State struct {
	// Hovered is the ID of the entity under the pointer, or "" when none.
	Hovered string

	// Selected is the ID of the clicked entity, or "" when none.
	Selected string

	// Query is the current search text.
	Query string

	// Suggestions holds the IDs whose label matches Query. Empty when the
	// query is empty.
	Suggestions IDSet

	// Neighbors holds the IDs adjacent to Hovered. Recomputed atomically
	// with every hover change, so it can never be stale relative to
	// Hovered. Empty when nothing is hovered.
	Neighbors IDSet
}

// Idle reports whether the snapshot carries no interaction state at all.
func (s *State) Idle() bool {
	return s.Hovered == "" && s.Selected == "" && s.Query == ""
}
