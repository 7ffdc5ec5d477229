// Package graph provides the entity model and data store surface for the
// view core.
//
// This package defines the canonical node-link data format for Graphlens,
// the read surface the interaction/style pipeline consumes, and an
// in-memory reference store used by the demo viewer, the demo server, and
// tests.
//
// # Architecture
//
// The package sits between graph data files and the reactive view core:
//
//   - [Graph]: node-link JSON serialization format
//   - [Store]: the read surface consumed by pkg/interaction and pkg/style
//   - [MemoryStore]: in-memory reference implementation
//   - [LabelIndex]: prepared case-insensitive label search
//
// # Display Attributes
//
// Base display attributes ([NodeAttrs], [EdgeAttrs]) belong to the store.
// Final per-frame styles ([NodeStyle], [EdgeStyle]) are computed by
// pkg/style and are restricted to the display-attribute whitelist: color,
// label visibility, highlighted flag, hidden flag, size multiplier. The
// view core never writes topology or position.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "attrs": {"x": 1, "y": 2, "label": "Alice"}}],
//	  "edges": [{"source": "a", "target": "b"}]
//	}
package graph
