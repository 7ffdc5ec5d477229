// Package style computes final display attributes for graph entities from
// their base attributes and the current interaction snapshot.
//
// # Rule Order
//
// Node styles are produced by a fixed ordered rule list, each rule capable
// of overriding the previous one:
//
//  1. Base attributes from the data store.
//  2. Hover dimming: while a hover with neighbors is active, every node
//     that is neither the hovered node nor one of its neighbors loses its
//     label and has its color desaturated. The hovered node itself is
//     highlighted.
//  3. Selection: the selected node is always highlighted, overriding any
//     dimming from rule 2.
//  4. Search: while suggestions exist, matching nodes get a forced label
//     and everything else (except the selected node) is dimmed like rule 2.
//
// An edge is hidden while a hover is active and neither endpoint is the
// hovered node or adjacent to it, and likewise while suggestions exist and
// either endpoint falls outside them.
//
// # Contracts
//
// Style computation is idempotent: the same (store, snapshot) pair always
// produces value-identical styles, which lets the rendering engine treat a
// repaint after an interaction change as a pure style change and skip
// spatial re-indexing. Interaction state referencing entities that no
// longer exist in the store is treated as unset rather than an error, and
// a failure while styling one entity falls back to that entity's base
// style without aborting the frame.
package style

import (
	"github.com/charmbracelet/log"

	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/interaction"
)

// Styler computes final display styles for one frame. Implementations are
// bound to a single interaction snapshot, so every call within a frame
// sees the same state.
type Styler interface {
	Node(n *graph.Node) graph.NodeStyle
	Edge(e *graph.Edge) graph.EdgeStyle
}

// Source yields per-frame stylers. The rendering engine registers one
// Source and calls Frame once per paint; it never needs a new registration
// when the interaction state changes.
type Source interface {
	Frame() Styler
}

// =============================================================================
// Pipeline
// =============================================================================

// Pipeline is the canonical Source implementation. It is installed into
// the rendering engine once and reads the tracker's snapshot by stable
// reference each frame.
type Pipeline struct {
	store   graph.Store
	tracker *interaction.Tracker
	logger  *log.Logger
}

// NewPipeline creates a style pipeline over the given store and tracker.
// A nil logger falls back to log.Default().
func NewPipeline(store graph.Store, tracker *interaction.Tracker, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{store: store, tracker: tracker, logger: logger}
}

// Frame binds a styler to the interaction snapshot current at call time.
// Stale hover or selection references are resolved here, once per frame:
// an ID the store no longer knows behaves exactly as if that axis were
// cleared.
func (p *Pipeline) Frame() Styler {
	state := p.tracker.Snapshot()

	f := &frame{store: p.store, state: state, logger: p.logger}
	f.hovered = p.resolve(state.Hovered)
	f.selected = p.resolve(state.Selected)
	if f.hovered != "" {
		f.neighbors = state.Neighbors
	}
	return f
}

// resolve maps stale entity references to "".
func (p *Pipeline) resolve(id string) string {
	if id == "" {
		return ""
	}
	if _, ok := p.store.Node(id); !ok {
		return ""
	}
	return id
}

// Ensure Pipeline implements Source.
var _ Source = (*Pipeline)(nil)

// =============================================================================
// frame - Snapshot-Bound Styler
// =============================================================================

type frame struct {
	store  graph.Store
	state  *interaction.State
	logger *log.Logger

	hovered   string // "" when unset or stale
	selected  string // "" when unset or stale
	neighbors interaction.IDSet
}

// Node applies the ordered rule list to one node.
func (f *frame) Node(n *graph.Node) (out graph.NodeStyle) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("node style failed, using base style", "node", n.ID, "panic", r)
			out = graph.BaseNodeStyle(n.Attrs)
		}
	}()

	s := graph.BaseNodeStyle(n.Attrs)

	// Rule 2: hover dimming.
	dimmed := false
	if f.neighbors.Len() > 0 && n.ID != f.hovered && !f.neighbors.Has(n.ID) {
		s = dimNode(s)
		dimmed = true
	}
	if n.ID == f.hovered {
		s.Highlighted = true
	}

	// Rule 3: selection always wins over hover-dimming.
	if f.selected != "" && n.ID == f.selected {
		s.Highlighted = true
		s.Color = graph.BaseNodeStyle(n.Attrs).Color
		s.Label = n.Attrs.Label
		return s
	}

	// Rule 4: search emphasis.
	if f.state.Suggestions.Len() > 0 {
		if f.state.Suggestions.Has(n.ID) {
			s.ForceLabel = true
		} else if !dimmed {
			s = dimNode(s)
		}
	}

	return s
}

// Edge applies the edge visibility rules.
func (f *frame) Edge(e *graph.Edge) (out graph.EdgeStyle) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("edge style failed, using base style", "edge", e.Key(), "panic", r)
			out = graph.BaseEdgeStyle(e.Attrs)
		}
	}()

	s := graph.BaseEdgeStyle(e.Attrs)

	if f.hovered != "" && !f.nearHover(e.Source) && !f.nearHover(e.Target) {
		s.Hidden = true
	}
	if f.state.Suggestions.Len() > 0 &&
		(!f.state.Suggestions.Has(e.Source) || !f.state.Suggestions.Has(e.Target)) {
		s.Hidden = true
	}

	return s
}

// nearHover reports whether id is the hovered node or one of its neighbors.
func (f *frame) nearHover(id string) bool {
	return id == f.hovered || f.neighbors.Has(id)
}

// dimNode applies the shared "dim" treatment: label cleared, color
// desaturated.
func dimNode(s graph.NodeStyle) graph.NodeStyle {
	s.Label = ""
	s.Color = Dim(s.Color)
	return s
}
