package engine

import (
	"github.com/graphlens/graphlens/pkg/camera"
	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/style"
)

// RenderedFrame is the output of one headless paint: the final style of
// every entity in the store.
type RenderedFrame struct {
	Nodes map[string]graph.NodeStyle
	Edges map[string]graph.EdgeStyle
}

// Headless is an in-memory Engine for tests and the demo server. It paints
// on demand via [Headless.Paint] instead of an animation-frame loop, which
// makes paint scheduling deterministic in tests.
type Headless struct {
	store  graph.Store
	cam    camera.State
	width  float64
	height float64

	styler     style.Source
	handler    Handler
	afterPaint func()

	needsPaint      bool
	topologyChanged bool

	// Paint bookkeeping, readable by tests.
	PaintCount   int
	ReindexCount int
}

// NewHeadless creates a headless engine over the given store and viewport.
func NewHeadless(store graph.Store, width, height float64) *Headless {
	return &Headless{
		store:  store,
		cam:    camera.State{Ratio: 1},
		width:  width,
		height: height,
	}
}

// Camera returns the current camera state.
func (e *Headless) Camera() camera.State { return e.cam }

// SetCamera writes the camera state. Writes alone never trigger a paint;
// the engine decides paint scheduling.
func (e *Headless) SetCamera(c camera.State) { e.cam = c }

// Viewport returns the configured surface size.
func (e *Headless) Viewport() (float64, float64) { return e.width, e.height }

// SetStyler installs the style source, replacing any previous one.
func (e *Headless) SetStyler(s style.Source) { e.styler = s }

// SetInputHandler installs the input handler, replacing any previous one.
func (e *Headless) SetInputHandler(h Handler) { e.handler = h }

// SetAfterPaint installs the post-render callback, replacing any previous
// one.
func (e *Headless) SetAfterPaint(fn func()) { e.afterPaint = fn }

// RequestPaint marks the engine dirty. Structural invalidation is sticky
// until the next paint: a style-only request never downgrades a pending
// topology request.
func (e *Headless) RequestPaint(topologyChanged bool) {
	e.needsPaint = true
	if topologyChanged {
		e.topologyChanged = true
	}
}

// Emit delivers one input event to the installed handler.
func (e *Headless) Emit(ev Event) {
	if e.handler != nil {
		e.handler(ev)
	}
}

// Paint renders one frame: computes the final style of every entity via
// the installed styler, then fires the after-paint callback. Spatial
// re-indexing is simulated by the ReindexCount counter and skipped for
// pure style changes.
func (e *Headless) Paint() RenderedFrame {
	e.PaintCount++
	if e.topologyChanged {
		e.ReindexCount++
	}
	e.needsPaint = false
	e.topologyChanged = false

	frame := RenderedFrame{
		Nodes: make(map[string]graph.NodeStyle),
		Edges: make(map[string]graph.EdgeStyle),
	}

	var styler style.Styler
	if e.styler != nil {
		styler = e.styler.Frame()
	}
	for _, n := range e.store.Nodes() {
		if styler != nil {
			frame.Nodes[n.ID] = styler.Node(n)
		} else {
			frame.Nodes[n.ID] = graph.BaseNodeStyle(n.Attrs)
		}
	}
	for _, edge := range e.store.Edges() {
		if styler != nil {
			frame.Edges[edge.Key()] = styler.Edge(edge)
		} else {
			frame.Edges[edge.Key()] = graph.BaseEdgeStyle(edge.Attrs)
		}
	}

	if e.afterPaint != nil {
		e.afterPaint()
	}
	return frame
}

// Dirty reports whether a paint has been requested since the last Paint.
func (e *Headless) Dirty() bool { return e.needsPaint }

// Ensure Headless implements Engine.
var _ Engine = (*Headless)(nil)
