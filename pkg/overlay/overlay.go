// Package overlay keeps world-anchored annotation elements pixel-aligned
// with a panning, zooming and rotating canvas.
//
// The [Synchronizer] owns a map from anchor ID to last computed screen
// position. Positions are recomputed in exactly one place: the engine's
// post-render signal. Any number of camera mutations between two
// consecutive signals collapse into one recompute that reads the camera as
// of the second signal, never an intermediate state, so the overlay layer
// can never tear against the canvas. Initial positions are computed
// eagerly when anchors are supplied - overlays are present on first paint
// without waiting for the camera to move.
package overlay

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphlens/graphlens/pkg/camera"
	"github.com/graphlens/graphlens/pkg/observability"
)

// Anchor is a world-space point with annotation content rendered outside
// the primary canvas draw pipeline. Anchors are created once at data-load
// time and read every frame.
type Anchor struct {
	ClusterID string  `json:"cluster_id"`
	WorldX    float64 `json:"world_x"`
	WorldY    float64 `json:"world_y"`
	Color     string  `json:"color,omitempty"`
	Label     string  `json:"label,omitempty"`
}

// Position is a computed screen-space anchor position.
type Position struct {
	ScreenX float64 `json:"screen_x"`
	ScreenY float64 `json:"screen_y"`
}

// Listener receives the updated position map after each recompute. The
// map belongs to the synchronizer; listeners must not retain or mutate it
// past the call.
type Listener func(map[string]Position)

// =============================================================================
// Synchronizer
// =============================================================================

// Synchronizer recomputes anchor screen positions on each post-render
// signal and publishes them to the overlay rendering layer.
type Synchronizer struct {
	mapper    camera.Mapper
	logger    *log.Logger
	anchors   []Anchor
	positions map[string]Position
	listener  Listener
}

// NewSynchronizer creates a synchronizer mapping anchors through the given
// camera mapper. A nil logger falls back to log.Default().
func NewSynchronizer(m camera.Mapper, logger *log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Synchronizer{
		mapper:    m,
		logger:    logger,
		positions: make(map[string]Position),
	}
}

// SetListener installs the overlay layer callback. Registration replaces
// any previous listener.
func (s *Synchronizer) SetListener(fn Listener) {
	s.listener = fn
}

// SetAnchors replaces the anchor set and computes positions immediately,
// so the overlay layer has coordinates before the first camera movement.
func (s *Synchronizer) SetAnchors(anchors []Anchor) {
	s.anchors = anchors
	s.recompute()
}

// AfterPaint is the sole steady-state recompute trigger. Wire it to the
// engine's post-render signal; camera mutations on their own never cause a
// recompute, which is what coalesces N mutations per frame into one pass.
func (s *Synchronizer) AfterPaint() {
	s.recompute()
}

// Positions returns a copy of the current position map.
func (s *Synchronizer) Positions() map[string]Position {
	out := make(map[string]Position, len(s.positions))
	for id, p := range s.positions {
		out[id] = p
	}
	return out
}

// Anchors returns the current anchor set.
func (s *Synchronizer) Anchors() []Anchor {
	return s.anchors
}

func (s *Synchronizer) recompute() {
	start := time.Now()

	clear(s.positions)
	for _, a := range s.anchors {
		if !validCoord(a.WorldX) || !validCoord(a.WorldY) {
			// Anchors from empty clusters carry NaN centroids; skip them
			// rather than publishing invalid coordinates.
			s.logger.Warn("skipping overlay anchor with invalid coordinates", "cluster", a.ClusterID)
			observability.Overlay().OnAnchorSkipped(a.ClusterID)
			continue
		}
		p := s.mapper.WorldToScreen(camera.Point{X: a.WorldX, Y: a.WorldY})
		s.positions[a.ClusterID] = Position{ScreenX: p.X, ScreenY: p.Y}
	}

	observability.Overlay().OnSync(len(s.positions), time.Since(start))
	if s.listener != nil {
		s.listener(s.positions)
	}
}

func validCoord(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
