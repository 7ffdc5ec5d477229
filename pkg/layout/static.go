package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/graphlens/graphlens/pkg/cache"
	"github.com/graphlens/graphlens/pkg/errors"
	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/observability"
)

// =============================================================================
// Static placement (Graphviz)
// =============================================================================

// StaticOptions configures a one-shot Graphviz placement.
type StaticOptions struct {
	// Engine selects the Graphviz layout engine (neato, dot, sfdp, circo).
	Engine string
	// Scale multiplies Graphviz point coordinates into world units.
	Scale float64
	// Cache, when non-nil, memoizes placements keyed by topology.
	Cache cache.Cache
}

// DefaultStaticOptions returns neato placement at unit scale.
func DefaultStaticOptions() StaticOptions {
	return StaticOptions{Engine: "neato", Scale: 1.0}
}

// posRe matches a Graphviz pos attribute on a node statement.
var posRe = regexp.MustCompile(`pos="(-?[0-9.]+),(-?[0-9.]+)"`)

// nodeStmtRe matches a node statement and captures the (optionally quoted)
// node name and its attribute list.
var nodeStmtRe = regexp.MustCompile(`^\s*(?:"((?:[^"\\]|\\.)*)"|([A-Za-z0-9_]+))\s+\[(.+)\];?\s*$`)

// Place computes a static placement for every node in the store. It does
// not write the store; callers apply the result through a [Controller] so
// a running iterative provider is stopped first.
func Place(ctx context.Context, store graph.Store, opts StaticOptions) (Positions, error) {
	start := time.Now()
	positions, err := place(ctx, store, opts)
	observability.Layout().OnPlacement(len(positions), time.Since(start), err)
	return positions, err
}

func place(ctx context.Context, store graph.Store, opts StaticOptions) (Positions, error) {
	if opts.Engine == "" {
		opts.Engine = "neato"
	}
	if opts.Scale == 0 {
		opts.Scale = 1.0
	}
	if store.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "cannot place an empty graph")
	}

	dot := buildDOT(store)

	var key string
	if opts.Cache != nil {
		key = cache.LayoutKey(cache.Hash([]byte(dot)), cache.LayoutKeyOpts{Engine: opts.Engine})
		if data, ok, err := opts.Cache.Get(ctx, key); err == nil && ok {
			var cached Positions
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "failed to initialize graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(opts.Engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "failed to parse DOT graph")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "graphviz layout failed")
	}

	positions := ParsePositions(buf.String(), opts.Scale)
	if len(positions) == 0 {
		return nil, errors.New(errors.ErrCodeLayoutFailed, "graphviz output contained no positions")
	}

	if opts.Cache != nil {
		if data, err := json.Marshal(positions); err == nil {
			_ = opts.Cache.Set(ctx, key, data, cache.DefaultTTL)
		}
	}
	return positions, nil
}

// buildDOT serializes the store topology as an undirected DOT graph with
// deterministic statement order, so identical topologies hash identically.
func buildDOT(store graph.Store) string {
	var b strings.Builder
	b.WriteString("graph G {\n")
	nodes := store.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %s;\n", quoteDOT(n.ID))
	}
	edges := store.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i].Key() < edges[j].Key() })
	for _, e := range edges {
		fmt.Fprintf(&b, "  %s -- %s;\n", quoteDOT(e.Source), quoteDOT(e.Target))
	}
	b.WriteString("}\n")
	return b.String()
}

func quoteDOT(id string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id) + `"`
}

// ParsePositions extracts node positions from attributed DOT output.
// Edge statements carry pos attributes too, so only node statements are
// considered.
func ParsePositions(rendered string, scale float64) Positions {
	positions := make(Positions)
	for _, line := range strings.Split(rendered, "\n") {
		if strings.Contains(line, "--") || strings.Contains(line, "->") {
			continue
		}
		m := nodeStmtRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name == "graph" || name == "node" || name == "edge" {
			continue
		}
		name = strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(name)
		pm := posRe.FindStringSubmatch(m[3])
		if pm == nil {
			continue
		}
		x, errX := strconv.ParseFloat(pm[1], 64)
		y, errY := strconv.ParseFloat(pm[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		positions[name] = Point{X: x * scale, Y: y * scale}
	}
	return positions
}
