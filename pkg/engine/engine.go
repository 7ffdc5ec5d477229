// Package engine defines the contract the view core expects from a
// rendering engine, and a headless in-memory implementation of it.
//
// A rendering engine owns the camera, the paint loop and the input event
// stream. The view core plugs into it through three replace-only
// registration points: a style source consulted once per paint, an input
// handler, and an after-paint callback. Replace-only means a second
// registration fully supersedes the first - there is no way to accumulate
// duplicate handlers across re-mounts.
package engine

import (
	"github.com/graphlens/graphlens/pkg/camera"
	"github.com/graphlens/graphlens/pkg/style"
)

// EventKind identifies an input event from the engine's event stream.
type EventKind int

const (
	// EventEnterEntity fires when the pointer moves onto an entity.
	EventEnterEntity EventKind = iota
	// EventLeaveEntity fires when the pointer leaves an entity.
	EventLeaveEntity
	// EventClickEntity fires when an entity is clicked.
	EventClickEntity
	// EventClickBackground fires when the empty canvas is clicked.
	EventClickBackground
)

// String returns the event kind name for logs.
func (k EventKind) String() string {
	switch k {
	case EventEnterEntity:
		return "enterEntity"
	case EventLeaveEntity:
		return "leaveEntity"
	case EventClickEntity:
		return "clickEntity"
	case EventClickBackground:
		return "clickBackground"
	default:
		return "unknown"
	}
}

// Event is one input event. EntityID is empty for background events.
type Event struct {
	Kind     EventKind
	EntityID string
}

// Handler consumes input events.
type Handler func(Event)

// Engine is the rendering-engine surface the view core is wired against.
// The terminal viewer and the headless engine both implement it.
type Engine interface {
	camera.Source
	camera.Writer

	// SetStyler installs the style source consulted on each paint.
	// Registration fully replaces the previous source.
	SetStyler(style.Source)

	// SetInputHandler installs the input event handler.
	// Registration fully replaces the previous handler.
	SetInputHandler(Handler)

	// SetAfterPaint installs the post-render callback.
	// Registration fully replaces the previous callback.
	SetAfterPaint(func())

	// RequestPaint schedules a repaint. topologyChanged distinguishes
	// structural changes from pure style changes; engines skip spatial
	// re-indexing for the latter.
	RequestPaint(topologyChanged bool)
}
