package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph - Canonical Serialization Format
// =============================================================================

// Graph is the canonical serialization format for graph data files.
//
// The format is human-readable and designed for round-trip fidelity:
// read → layout → write → re-read produces identical results.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// FromStore converts a store's contents to the serialization format.
// Nodes and edges are sorted for deterministic output.
func FromStore(s *MemoryStore) Graph {
	nodes := s.Nodes()
	edges := s.Edges()

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = *n
	}
	for i, e := range edges {
		out.Edges[i] = *e
	}
	return out
}

// ToStore converts a Graph to a populated MemoryStore.
// Returns an error when the data violates store constraints (empty or
// duplicate node IDs, edges referencing unknown nodes).
func ToStore(g Graph) (*MemoryStore, error) {
	s := NewMemoryStore()
	for _, n := range g.Nodes {
		if err := s.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := s.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.Source, e.Target, err)
		}
	}
	return s, nil
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalGraph converts a store to indented JSON bytes.
func MarshalGraph(s *MemoryStore) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a store to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(s *MemoryStore, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(s, f)
}

// ReadGraphFile reads a JSON graph file into a MemoryStore.
func ReadGraphFile(path string) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes a JSON graph from an io.Reader into a MemoryStore.
func ReadGraph(r io.Reader) (*MemoryStore, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToStore(data)
}

func writeGraphTo(s *MemoryStore, w io.Writer) error {
	out := FromStore(s)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
