package camera

import (
	"math"
	"time"

	"github.com/graphlens/graphlens/pkg/graph"
)

// Writer accepts camera writes. The rendering engine implements this; the
// animator is the only view-core component that writes camera state, and
// it admits at most one in-flight animation so the engine never sees two
// competing position writers.
type Writer interface {
	SetCamera(State)
}

// =============================================================================
// Animator
// =============================================================================

// Animator eases the camera toward a target state. Starting a new
// animation cancels any in-flight one before the first write; animations
// are never queued. The animator is driven by the host event loop via
// [Animator.Tick], so it runs no goroutine of its own.
type Animator struct {
	src    Source
	writer Writer
	active *animation
}

type animation struct {
	from, to State
	start    time.Time
	duration time.Duration
}

// NewAnimator creates an animator over the given camera source and writer.
func NewAnimator(src Source, w Writer) *Animator {
	return &Animator{src: src, writer: w}
}

// AnimateTo starts an eased transition from the current camera to target.
// A running animation is cancelled first. A non-positive duration applies
// the target immediately.
func (a *Animator) AnimateTo(target State, d time.Duration) {
	a.Cancel()
	if d <= 0 {
		a.writer.SetCamera(target)
		return
	}
	a.active = &animation{
		from:     a.src.Camera(),
		to:       target,
		start:    time.Now(),
		duration: d,
	}
}

// CenterOn animates the camera center to the given world position, keeping
// the current zoom and rotation.
func (a *Animator) CenterOn(x, y float64, d time.Duration) {
	target := a.src.Camera()
	target.X = x
	target.Y = y
	a.AnimateTo(target, d)
}

// Fit animates the camera to frame the given nodes with the given pixel
// padding, resetting rotation. It is a no-op when ids selects no nodes, so
// fitting an empty cluster cannot produce a degenerate zoom.
func (a *Animator) Fit(store graph.Store, ids []string, padding float64, d time.Duration) {
	target, ok := FitTarget(a.src, store, ids, padding)
	if !ok {
		return
	}
	a.AnimateTo(target, d)
}

// Cancel stops the in-flight animation, leaving the camera wherever the
// last tick wrote it.
func (a *Animator) Cancel() {
	a.active = nil
}

// Active reports whether an animation is in flight.
func (a *Animator) Active() bool { return a.active != nil }

// Tick advances the in-flight animation to now, writing the interpolated
// camera state. It reports whether an animation is still running; hosts
// typically stop scheduling ticks once it returns false.
func (a *Animator) Tick(now time.Time) bool {
	anim := a.active
	if anim == nil {
		return false
	}

	t := float64(now.Sub(anim.start)) / float64(anim.duration)
	if t >= 1 {
		a.writer.SetCamera(anim.to)
		a.active = nil
		return false
	}
	if t < 0 {
		t = 0
	}

	e := easeInOutQuad(t)
	a.writer.SetCamera(State{
		X:     lerp(anim.from.X, anim.to.X, e),
		Y:     lerp(anim.from.Y, anim.to.Y, e),
		Ratio: lerp(anim.from.Ratio, anim.to.Ratio, e),
		Angle: lerp(anim.from.Angle, anim.to.Angle, e),
	})
	return true
}

// =============================================================================
// Target Computation
// =============================================================================

// FitTarget computes the camera state that frames the given nodes inside
// the viewport with the given pixel padding. Rotation is reset. Returns
// false when ids selects no nodes. Passing nil ids frames every node.
func FitTarget(src Source, store graph.Store, ids []string, padding float64) (State, bool) {
	var nodes []*graph.Node
	if ids == nil {
		nodes = store.Nodes()
	} else {
		for _, id := range ids {
			if n, ok := store.Node(id); ok {
				nodes = append(nodes, n)
			}
		}
	}
	if len(nodes) == 0 {
		return State{}, false
	}

	minX, minY := nodes[0].Attrs.X, nodes[0].Attrs.Y
	maxX, maxY := minX, minY
	for _, n := range nodes[1:] {
		minX = math.Min(minX, n.Attrs.X)
		minY = math.Min(minY, n.Attrs.Y)
		maxX = math.Max(maxX, n.Attrs.X)
		maxY = math.Max(maxY, n.Attrs.Y)
	}

	w, h := src.Viewport()
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	availW := math.Max(w-2*padding, 1)
	availH := math.Max(h-2*padding, 1)
	ratio := math.Max(spanX/availW, spanY/availH)

	return State{
		X:     (minX + maxX) / 2,
		Y:     (minY + maxY) / 2,
		Ratio: ratio,
		Angle: 0,
	}, true
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}
