package graph

import (
	"bytes"
	"slices"
	"testing"
)

func TestMemoryStoreAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{name: "Valid", node: Node{ID: "a"}},
		{name: "EmptyID", node: Node{}, wantErr: ErrInvalidNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			err := s.AddNode(tt.node)
			if err != tt.wantErr {
				t.Fatalf("AddNode error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("Duplicate", func(t *testing.T) {
		s := NewMemoryStore()
		if err := s.AddNode(Node{ID: "a"}); err != nil {
			t.Fatalf("first AddNode: %v", err)
		}
		if err := s.AddNode(Node{ID: "a"}); err != ErrDuplicateNodeID {
			t.Fatalf("second AddNode error = %v, want ErrDuplicateNodeID", err)
		}
	})
}

func TestMemoryStoreAddEdge(t *testing.T) {
	s := NewMemoryStore()
	s.AddNode(Node{ID: "a"})
	s.AddNode(Node{ID: "b"})

	if err := s.AddEdge(Edge{Source: "a", Target: "x"}); err != ErrUnknownTargetNode {
		t.Errorf("unknown target error = %v, want ErrUnknownTargetNode", err)
	}
	if err := s.AddEdge(Edge{Source: "x", Target: "b"}); err != ErrUnknownSourceNode {
		t.Errorf("unknown source error = %v, want ErrUnknownSourceNode", err)
	}
	if err := s.AddEdge(Edge{Source: "a", Target: "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if got := s.Neighbors("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Neighbors(a) = %v, want [b]", got)
	}
	if got := s.Neighbors("b"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Neighbors(b) = %v, want [a]", got)
	}
}

func TestMemoryStoreRemoveNode(t *testing.T) {
	s := NewMemoryStore()
	s.AddNode(Node{ID: "a"})
	s.AddNode(Node{ID: "b"})
	s.AddNode(Node{ID: "c"})
	s.AddEdge(Edge{Source: "a", Target: "b"})
	s.AddEdge(Edge{Source: "b", Target: "c"})

	s.RemoveNode("b")

	if _, ok := s.Node("b"); ok {
		t.Error("node b still present after RemoveNode")
	}
	if got := s.EdgeCount(); got != 0 {
		t.Errorf("EdgeCount = %d, want 0 (incident edges removed)", got)
	}
	if got := s.Neighbors("a"); len(got) != 0 {
		t.Errorf("Neighbors(a) = %v, want empty", got)
	}

	// Removing an unknown node is a no-op.
	s.RemoveNode("zzz")
}

func TestMemoryStoreSetPosition(t *testing.T) {
	s := NewMemoryStore()
	s.AddNode(Node{ID: "a"})

	s.SetPosition("a", 3, -7)
	n, _ := s.Node("a")
	if n.Attrs.X != 3 || n.Attrs.Y != -7 {
		t.Errorf("position = (%v, %v), want (3, -7)", n.Attrs.X, n.Attrs.Y)
	}

	// Unknown IDs are ignored.
	s.SetPosition("gone", 1, 1)
}

func TestGraphRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	s.AddNode(Node{ID: "a", Attrs: NodeAttrs{X: 1, Y: 2, Label: "Alice", Cluster: "left"}})
	s.AddNode(Node{ID: "b", Attrs: NodeAttrs{X: 3, Y: 4, Label: "Bob"}})
	s.AddEdge(Edge{Source: "a", Target: "b"})

	data, err := MarshalGraph(s)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	got, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Fatalf("round trip: %d nodes, %d edges, want 2/1", got.NodeCount(), got.EdgeCount())
	}
	n, _ := got.Node("a")
	if n.Attrs.Label != "Alice" || n.Attrs.Cluster != "left" {
		t.Errorf("node a attrs = %+v, want label Alice cluster left", n.Attrs)
	}
}

func TestLabelIndexSearch(t *testing.T) {
	s := NewMemoryStore()
	s.AddNode(Node{ID: "1", Attrs: NodeAttrs{Label: "Alice"}})
	s.AddNode(Node{ID: "2", Attrs: NodeAttrs{Label: "Bob"}})
	s.AddNode(Node{ID: "3", Attrs: NodeAttrs{Label: "Alan"}})
	s.AddNode(Node{ID: "4"}) // no label, falls back to ID

	idx := BuildLabelIndex(s)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "Substring", query: "al", want: []string{"1", "3"}},
		{name: "CaseInsensitive", query: "ALICE", want: []string{"1"}},
		{name: "IDFallback", query: "4", want: []string{"4"}},
		{name: "NoMatch", query: "zzz", want: nil},
		{name: "EmptyMatchesNothing", query: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Search(tt.query)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
