package loader

import (
	"math"
	"strings"
	"testing"

	"github.com/graphlens/graphlens/pkg/errors"
	"github.com/graphlens/graphlens/pkg/graph"
)

const sampleGraph = `{
  "nodes": [
    {"id": "a", "attrs": {"x": 0, "y": 0, "label": "Alpha", "cluster": "left"}},
    {"id": "b", "attrs": {"x": 10, "y": 20, "label": "Beta", "cluster": "left"}},
    {"id": "c", "attrs": {"x": 100, "y": 100, "label": "Gamma", "cluster": "right"}},
    {"id": "d", "attrs": {"x": 5, "y": 5}}
  ],
  "edges": [
    {"source": "a", "target": "b"},
    {"source": "b", "target": "c"}
  ]
}`

func TestLoadBuildsSession(t *testing.T) {
	l := New()
	s, err := l.Load(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Token == "" {
		t.Error("expected non-empty session token")
	}
	if s.Store.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4", s.Store.NodeCount())
	}
	if got := s.Index.Search("alpha"); len(got) != 1 || got[0] != "a" {
		t.Errorf("Search(alpha) = %v, want [a]", got)
	}
	if !l.Loaded() {
		t.Error("expected Loaded() after Load")
	}
}

func TestLoadTwiceFails(t *testing.T) {
	l := New()
	if _, err := l.Load(strings.NewReader(sampleGraph)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err := l.Load(strings.NewReader(sampleGraph))
	if !errors.Is(err, errors.ErrCodeAlreadyLoaded) {
		t.Fatalf("second Load error = %v, want ALREADY_LOADED", err)
	}
	// the original session survives the failed reload
	if l.Session() == nil || l.Session().Store.NodeCount() != 4 {
		t.Error("original session was disturbed by failed reload")
	}
}

func TestLoadEmptyGraphFails(t *testing.T) {
	l := New()
	_, err := l.Load(strings.NewReader(`{"nodes": [], "edges": []}`))
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("error = %v, want INVALID_GRAPH", err)
	}
	if l.Loaded() {
		t.Error("failed load must not mark the loader as loaded")
	}
}

func TestClusterAnchors(t *testing.T) {
	l := New()
	s, err := l.Load(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(s.Anchors) != 2 {
		t.Fatalf("anchors = %d, want 2 (unclustered node excluded)", len(s.Anchors))
	}
	left := s.Anchors[0]
	if left.ClusterID != "left" {
		t.Fatalf("anchors not sorted by cluster: %v", s.Anchors)
	}
	if left.WorldX != 5 || left.WorldY != 10 {
		t.Errorf("left centroid = (%v,%v), want (5,10)", left.WorldX, left.WorldY)
	}
	if left.Color == "" || left.Color == s.Anchors[1].Color {
		t.Errorf("expected distinct cluster colors, got %q and %q", left.Color, s.Anchors[1].Color)
	}
	if left.Label != "left" {
		t.Errorf("label = %q, want cluster id", left.Label)
	}
}

func TestClusterAnchorsSkipNonFinite(t *testing.T) {
	store := graph.NewMemoryStore()
	if err := store.AddNode(graph.Node{ID: "a", Attrs: graph.NodeAttrs{X: math.NaN(), Y: 0, Cluster: "ghost"}}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := store.AddNode(graph.Node{ID: "b", Attrs: graph.NodeAttrs{X: 4, Y: 8, Cluster: "solid"}}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	anchors := ClusterAnchors(store, map[string]string{"solid": "#112233"})
	if len(anchors) != 1 {
		t.Fatalf("anchors = %v, want only the finite cluster", anchors)
	}
	if anchors[0].ClusterID != "solid" || anchors[0].WorldX != 4 || anchors[0].WorldY != 8 {
		t.Fatalf("anchor = %+v", anchors[0])
	}
}

func TestAssignClusterColorsDeterministic(t *testing.T) {
	l := New()
	s, err := l.Load(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l2 := New()
	s2, err := l2.Load(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for id, c := range s.ClusterColors {
		if s2.ClusterColors[id] != c {
			t.Errorf("cluster %q color differs across loads: %q vs %q", id, c, s2.ClusterColors[id])
		}
	}
}
