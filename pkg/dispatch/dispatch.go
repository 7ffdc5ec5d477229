// Package dispatch forwards rendering-engine input events into the
// interaction state tracker.
//
// Binding is a full replacement of the engine's input handler, never an
// addition, so mounting a view twice can not register duplicate handlers.
// Unbinding is deterministic: after the returned teardown runs, no further
// events reach the tracker.
package dispatch

import (
	"github.com/charmbracelet/log"

	"github.com/graphlens/graphlens/pkg/engine"
	"github.com/graphlens/graphlens/pkg/interaction"
)

// Dispatcher routes input events to tracker operations: enter/leave drive
// hover, entity clicks drive selection, background clicks clear it.
type Dispatcher struct {
	tracker *interaction.Tracker
	logger  *log.Logger
}

// New creates a dispatcher feeding the given tracker. A nil logger falls
// back to log.Default().
func New(tracker *interaction.Tracker, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{tracker: tracker, logger: logger}
}

// Bind installs the dispatcher as the engine's input handler, replacing
// whatever handler was installed before. It returns the teardown function;
// calling it detaches the dispatcher so re-mounts never stack handlers.
//
// Each handled event requests a pure-style repaint: interaction changes
// touch only whitelisted display attributes, so the engine can skip
// spatial re-indexing.
func (d *Dispatcher) Bind(eng engine.Engine) func() {
	eng.SetInputHandler(func(ev engine.Event) {
		d.handle(eng, ev)
	})
	return func() {
		eng.SetInputHandler(nil)
	}
}

// handle maps one event to its tracker operation. A failure inside the
// tracker must not cross the event-dispatch boundary, so the handler
// recovers, logs and drops the event.
func (d *Dispatcher) handle(eng engine.Engine, ev engine.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("dropping input event", "kind", ev.Kind, "entity", ev.EntityID, "panic", r)
		}
	}()

	switch ev.Kind {
	case engine.EventEnterEntity:
		d.tracker.SetHover(ev.EntityID)
	case engine.EventLeaveEntity:
		d.tracker.SetHover("")
	case engine.EventClickEntity:
		d.tracker.SetSelection(ev.EntityID)
	case engine.EventClickBackground:
		d.tracker.SetSelection("")
	default:
		d.logger.Debug("ignoring unknown input event", "kind", int(ev.Kind))
		return
	}

	eng.RequestPaint(false)
}
