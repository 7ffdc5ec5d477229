// Package loader turns a serialized graph into a ready-to-view session:
// an in-memory store, a label index for search, cluster overlay anchors
// and a palette of cluster colors.
//
// A Loader hands out exactly one session per instance. The session token
// is the guard against double initialization: a second Load on the same
// Loader fails instead of silently re-registering collaborators that were
// wired against the first session.
package loader

import (
	"io"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/graphlens/graphlens/pkg/errors"
	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/overlay"
)

// clusterPalette colors clusters in registration order. Wraps around for
// graphs with more clusters than entries.
var clusterPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b4",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
	"#9c755f", "#bab0ac",
}

// Session is one loaded graph plus everything derived from it.
type Session struct {
	// Token identifies this session. Collaborators that cache derived
	// state key it by token so a reload invalidates them wholesale.
	Token string

	Store *graph.MemoryStore
	Index *graph.LabelIndex

	// Anchors holds one overlay anchor per non-empty cluster, sorted by
	// cluster ID.
	Anchors []overlay.Anchor

	// ClusterColors maps cluster IDs to their palette color.
	ClusterColors map[string]string
}

// Loader builds at most one Session.
type Loader struct {
	session *Session
}

// New returns an unused Loader.
func New() *Loader {
	return &Loader{}
}

// Loaded reports whether this loader already produced a session.
func (l *Loader) Loaded() bool {
	return l.session != nil
}

// Session returns the loaded session, or nil.
func (l *Loader) Session() *Session {
	return l.session
}

// LoadFile reads a graph file and builds the session.
func (l *Loader) LoadFile(path string) (*Session, error) {
	if l.session != nil {
		return nil, errors.New(errors.ErrCodeAlreadyLoaded, "graph already loaded in session %s", l.session.Token)
	}
	store, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	return l.build(store)
}

// Load reads a serialized graph from r and builds the session.
func (l *Loader) Load(r io.Reader) (*Session, error) {
	if l.session != nil {
		return nil, errors.New(errors.ErrCodeAlreadyLoaded, "graph already loaded in session %s", l.session.Token)
	}
	store, err := graph.ReadGraph(r)
	if err != nil {
		return nil, err
	}
	return l.build(store)
}

// LoadStore builds the session from an existing store.
func (l *Loader) LoadStore(store *graph.MemoryStore) (*Session, error) {
	if l.session != nil {
		return nil, errors.New(errors.ErrCodeAlreadyLoaded, "graph already loaded in session %s", l.session.Token)
	}
	return l.build(store)
}

func (l *Loader) build(store *graph.MemoryStore) (*Session, error) {
	if store.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph has no nodes")
	}
	colors := assignClusterColors(store)
	s := &Session{
		Token:         uuid.NewString(),
		Store:         store,
		Index:         graph.BuildLabelIndex(store),
		Anchors:       ClusterAnchors(store, colors),
		ClusterColors: colors,
	}
	l.session = s
	return s, nil
}

// assignClusterColors walks clusters in sorted order so the same graph
// always gets the same palette assignment.
func assignClusterColors(store graph.Store) map[string]string {
	ids := clusterIDs(store)
	colors := make(map[string]string, len(ids))
	for i, id := range ids {
		colors[id] = clusterPalette[i%len(clusterPalette)]
	}
	return colors
}

// ClusterAnchors computes one world-space anchor per cluster at the
// centroid of its member nodes. Clusters whose members all sit at
// non-finite positions are dropped here rather than carried as
// unmappable anchors.
func ClusterAnchors(store graph.Store, colors map[string]string) []overlay.Anchor {
	type acc struct {
		x, y  float64
		count int
	}
	sums := make(map[string]*acc)
	for _, n := range store.Nodes() {
		if n.Attrs.Cluster == "" {
			continue
		}
		if math.IsNaN(n.Attrs.X) || math.IsInf(n.Attrs.X, 0) ||
			math.IsNaN(n.Attrs.Y) || math.IsInf(n.Attrs.Y, 0) {
			continue
		}
		a := sums[n.Attrs.Cluster]
		if a == nil {
			a = &acc{}
			sums[n.Attrs.Cluster] = a
		}
		a.x += n.Attrs.X
		a.y += n.Attrs.Y
		a.count++
	}

	anchors := make([]overlay.Anchor, 0, len(sums))
	for id, a := range sums {
		if a.count == 0 {
			continue
		}
		anchors = append(anchors, overlay.Anchor{
			ClusterID: id,
			WorldX:    a.x / float64(a.count),
			WorldY:    a.y / float64(a.count),
			Color:     colors[id],
			Label:     id,
		})
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].ClusterID < anchors[j].ClusterID })
	return anchors
}

func clusterIDs(store graph.Store) []string {
	seen := make(map[string]bool)
	for _, n := range store.Nodes() {
		if n.Attrs.Cluster != "" {
			seen[n.Attrs.Cluster] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
