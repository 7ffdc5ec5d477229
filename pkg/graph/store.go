package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [MemoryStore.AddNode] when the node ID
	// is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [MemoryStore.AddNode] when a node
	// with the same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [MemoryStore.AddEdge] when the
	// Source node does not exist in the store.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [MemoryStore.AddEdge] when the
	// Target node does not exist in the store.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// =============================================================================
// Store - Read Surface Consumed by the View Core
// =============================================================================

// Store is the graph data surface the view core reads. The core never
// creates or destroys entities through it; mutation belongs to the data
// loading and editing collaborators.
type Store interface {
	// Node returns the node with the given ID.
	Node(id string) (*Node, bool)

	// Nodes returns all nodes, sorted by ID for deterministic iteration.
	Nodes() []*Node

	// Edges returns all edges, sorted by key.
	Edges() []*Edge

	// Neighbors returns the IDs of nodes adjacent to id, sorted.
	// Returns nil for unknown nodes.
	Neighbors(id string) []string

	// NodeCount returns the number of nodes in the store.
	NodeCount() int
}

// =============================================================================
// MemoryStore - In-Memory Reference Implementation
// =============================================================================

// MemoryStore is the in-memory Store implementation used by the demo viewer,
// the demo server, and tests. It is not safe for concurrent mutation; the
// view core runs single-threaded on the event loop and layout providers
// confine their position writes to [MemoryStore.SetPosition].
type MemoryStore struct {
	nodes    map[string]*Node
	edges    map[string]*Edge
	adjacent map[string]map[string]bool // node ID → set of neighbor IDs
	incident map[string][]string        // node ID → incident edge keys
}

// NewMemoryStore creates an empty in-memory graph store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		adjacent: make(map[string]map[string]bool),
		incident: make(map[string][]string),
	}
}

// AddNode adds a node to the store. Size and color defaults are filled in
// when unset.
func (s *MemoryStore) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := s.nodes[n.ID]; ok {
		return ErrDuplicateNodeID
	}
	if n.Attrs.Size == 0 {
		n.Attrs.Size = DefaultNodeSize
	}
	if n.Attrs.Color == "" {
		n.Attrs.Color = DefaultNodeColor
	}
	s.nodes[n.ID] = &n
	s.adjacent[n.ID] = make(map[string]bool)
	return nil
}

// AddEdge adds an edge to the store. Both endpoints must exist.
func (s *MemoryStore) AddEdge(e Edge) error {
	if _, ok := s.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := s.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	key := e.Key()
	s.edges[key] = &e
	s.adjacent[e.Source][e.Target] = true
	s.adjacent[e.Target][e.Source] = true
	s.incident[e.Source] = append(s.incident[e.Source], key)
	s.incident[e.Target] = append(s.incident[e.Target], key)
	return nil
}

// RemoveNode removes a node and all its incident edges. Removing an unknown
// node is a no-op.
func (s *MemoryStore) RemoveNode(id string) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	for _, key := range s.incident[id] {
		e, ok := s.edges[key]
		if !ok {
			continue
		}
		other := e.Other(id)
		delete(s.edges, key)
		if adj, ok := s.adjacent[other]; ok {
			delete(adj, id)
		}
		s.incident[other] = slices.DeleteFunc(s.incident[other], func(k string) bool { return k == key })
	}
	delete(s.nodes, id)
	delete(s.adjacent, id)
	delete(s.incident, id)
}

// SetPosition writes a node's world position. This is the single write
// entry point for layout providers; unknown IDs are ignored so a provider
// finishing a step after a node was removed cannot corrupt the store.
func (s *MemoryStore) SetPosition(id string, x, y float64) {
	if n, ok := s.nodes[id]; ok {
		n.Attrs.X = x
		n.Attrs.Y = y
	}
}

// Node returns the node with the given ID.
func (s *MemoryStore) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID.
func (s *MemoryStore) Nodes() []*Node {
	out := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *Node) int {
		return compareStrings(a.ID, b.ID)
	})
	return out
}

// Edges returns all edges sorted by key.
func (s *MemoryStore) Edges() []*Edge {
	out := make([]*Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *Edge) int {
		return compareStrings(a.Key(), b.Key())
	})
	return out
}

// Neighbors returns the sorted IDs of nodes adjacent to id.
func (s *MemoryStore) Neighbors(id string) []string {
	adj, ok := s.adjacent[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(adj))
	for nid := range adj {
		out = append(out, nid)
	}
	slices.Sort(out)
	return out
}

// NodeCount returns the number of nodes.
func (s *MemoryStore) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *MemoryStore) EdgeCount() int { return len(s.edges) }

func compareStrings(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
