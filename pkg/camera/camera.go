// Package camera provides the world↔screen coordinate mapping and camera
// animation for graph views.
//
// The camera transform itself is owned and mutated by the rendering
// engine; this package only reads it. [Mapper] is a stateless adapter:
// both directions of the mapping are pure functions of the engine's live
// camera and viewport, re-read on every call, so callers can never observe
// a cached transform.
package camera

import "math"

// State is the pan/zoom/rotation transform the rendering engine applies
// between world and screen coordinates. X/Y are the world coordinates at
// the viewport center, Ratio is world units per screen pixel (larger means
// zoomed out), Angle is the view rotation in radians.
type State struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Ratio float64 `json:"ratio"`
	Angle float64 `json:"angle"`
}

// Point is a 2D coordinate in either world or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Source provides the live camera and viewport dimensions. The rendering
// engine implements this; the mapper holds no copy of either.
type Source interface {
	// Camera returns the current camera state.
	Camera() State

	// Viewport returns the current drawing surface size in pixels.
	Viewport() (width, height float64)
}

// =============================================================================
// Mapper
// =============================================================================

// Mapper converts between world and screen coordinates. The zero value is
// not usable; construct with [NewMapper].
type Mapper struct {
	src Source
}

// NewMapper creates a mapper reading the live transform from src.
func NewMapper(src Source) Mapper {
	return Mapper{src: src}
}

// WorldToScreen maps a world-space point to screen pixels under the
// current camera and viewport.
func (m Mapper) WorldToScreen(p Point) Point {
	cam := m.src.Camera()
	w, h := m.src.Viewport()
	ratio := safeRatio(cam.Ratio)

	dx := (p.X - cam.X) / ratio
	dy := (p.Y - cam.Y) / ratio
	sin, cos := math.Sincos(-cam.Angle)
	return Point{
		X: w/2 + dx*cos - dy*sin,
		Y: h/2 + dx*sin + dy*cos,
	}
}

// ScreenToWorld maps a screen-pixel point back to world space. It is the
// exact inverse of [Mapper.WorldToScreen] under the same camera.
func (m Mapper) ScreenToWorld(p Point) Point {
	cam := m.src.Camera()
	w, h := m.src.Viewport()
	ratio := safeRatio(cam.Ratio)

	dx := p.X - w/2
	dy := p.Y - h/2
	sin, cos := math.Sincos(cam.Angle)
	return Point{
		X: cam.X + (dx*cos-dy*sin)*ratio,
		Y: cam.Y + (dx*sin+dy*cos)*ratio,
	}
}

// safeRatio guards against a zero ratio from an engine that has not been
// sized yet.
func safeRatio(r float64) float64 {
	if r == 0 {
		return 1
	}
	return r
}
