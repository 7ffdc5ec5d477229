package graph

import "fmt"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Default display values applied when a loaded graph omits them.
const (
	DefaultNodeSize  = 5.0
	DefaultNodeColor = "#999999"
	DefaultEdgeColor = "#cccccc"
)

// Attribute keys for the display-attribute whitelist. Style computation may
// override exactly these attributes and nothing else; topology and position
// are owned by other collaborators.
const (
	AttrColor       = "color"
	AttrForceLabel  = "forceLabel"
	AttrHighlighted = "highlighted"
	AttrHidden      = "hidden"
	AttrSizeScale   = "sizeScale"
)

// =============================================================================
// Node - Graph Vertex
// =============================================================================

// NodeAttrs are the base display attributes of a node, owned by the data
// store. X/Y are world coordinates written by layout providers.
type NodeAttrs struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size,omitempty"`
	Color   string  `json:"color,omitempty"`
	Label   string  `json:"label,omitempty"`
	Hidden  bool    `json:"hidden,omitempty"`
	ZIndex  int     `json:"z_index,omitempty"`
	Cluster string  `json:"cluster,omitempty"` // Cluster membership for overlay anchors
}

// Node is a vertex in the graph.
//
// The zero value is not usable - ID must be set before adding to a store.
type Node struct {
	ID    string    `json:"id"`
	Attrs NodeAttrs `json:"attrs"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Attrs.Label != "" {
		return n.Attrs.Label
	}
	return n.ID
}

// =============================================================================
// Edge - Graph Link
// =============================================================================

// EdgeAttrs are the base display attributes of an edge.
type EdgeAttrs struct {
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
	Label  string  `json:"label,omitempty"`
	Hidden bool    `json:"hidden,omitempty"`
	ZIndex int     `json:"z_index,omitempty"`
}

// Edge is a link between two nodes.
type Edge struct {
	ID     string    `json:"id,omitempty"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	Attrs  EdgeAttrs `json:"attrs,omitempty"`
}

// Key returns the edge's ID, or a synthesized source--target key when the
// graph data carries no explicit edge IDs.
func (e *Edge) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s--%s", e.Source, e.Target)
}

// Incident reports whether the edge touches the given node.
func (e *Edge) Incident(id string) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint opposite to id. Returns "" if id is not an
// endpoint of this edge.
func (e *Edge) Other(id string) string {
	switch id {
	case e.Source:
		return e.Target
	case e.Target:
		return e.Source
	default:
		return ""
	}
}

// =============================================================================
// NodeStyle / EdgeStyle - Final Display Attributes
// =============================================================================

// NodeStyle is the final per-frame display style of a node, computed from
// its base attributes and the current interaction state. All fields are
// value types so two styles can be compared with ==, which is how the
// rendering engine detects pure-style changes.
//
// Every field corresponds to an entry in the display-attribute whitelist;
// style computation never produces anything outside it.
type NodeStyle struct {
	Color       string  `json:"color"`
	Label       string  `json:"label,omitempty"`
	ForceLabel  bool    `json:"force_label,omitempty"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Hidden      bool    `json:"hidden,omitempty"`
	SizeScale   float64 `json:"size_scale"`
}

// EdgeStyle is the final per-frame display style of an edge.
type EdgeStyle struct {
	Color  string `json:"color"`
	Hidden bool   `json:"hidden,omitempty"`
}

// BaseNodeStyle returns the style a node has with no interaction state
// applied, with defaults filled in for unset attributes.
func BaseNodeStyle(a NodeAttrs) NodeStyle {
	s := NodeStyle{
		Color:     a.Color,
		Label:     a.Label,
		Hidden:    a.Hidden,
		SizeScale: 1,
	}
	if s.Color == "" {
		s.Color = DefaultNodeColor
	}
	return s
}

// BaseEdgeStyle returns the style an edge has with no interaction state
// applied.
func BaseEdgeStyle(a EdgeAttrs) EdgeStyle {
	s := EdgeStyle{
		Color:  a.Color,
		Hidden: a.Hidden,
	}
	if s.Color == "" {
		s.Color = DefaultEdgeColor
	}
	return s
}
