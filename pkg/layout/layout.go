// Package layout provides node placement for graph views.
//
// Two kinds of placement exist: an iterative force-directed provider that
// refines positions continuously on a worker goroutine, and a one-shot
// static placement computed by Graphviz. The view core itself never
// touches positions; it only consumes them through the camera mapper and
// the overlay synchronizer. A [Controller] guards the switch between
// providers so entity positions never have two writers at once.
package layout

import (
	"github.com/graphlens/graphlens/pkg/errors"
)

// Point is a world-space position produced by a provider.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps node IDs to placed positions.
type Positions map[string]Point

// Apply delivers one batch of positions to the host. Providers running on
// a worker goroutine never write the store directly; the host applies
// batches on its own event loop, which keeps the store single-writer.
type Apply func(Positions)

// Provider is an iterative layout process with start/stop handles.
type Provider interface {
	// Name identifies the provider in logs and hooks.
	Name() string

	// Start begins producing position batches. Starting a running
	// provider is a no-op.
	Start()

	// Stop halts the provider and waits for its worker to exit, so no
	// batch is produced after Stop returns.
	Stop()

	// IsRunning reports whether the provider is producing batches.
	IsRunning() bool
}

// =============================================================================
// Controller
// =============================================================================

// Controller owns the currently active provider. Switching providers, or
// applying a static placement, first stops whatever is running - entity
// positions must never have two concurrent writers.
type Controller struct {
	active Provider
}

// NewController creates a controller with no active provider.
func NewController() *Controller {
	return &Controller{}
}

// Switch stops the active provider, installs p and starts it.
// Passing nil just stops the active provider.
func (c *Controller) Switch(p Provider) {
	if c.active != nil && c.active.IsRunning() {
		c.active.Stop()
	}
	c.active = p
	if p != nil {
		p.Start()
	}
}

// ApplyStatic stops any running provider, then applies a static placement
// through the given Apply. Returns an error when positions is empty.
func (c *Controller) ApplyStatic(positions Positions, apply Apply) error {
	if len(positions) == 0 {
		return errors.New(errors.ErrCodeLayoutFailed, "static placement produced no positions")
	}
	if c.active != nil && c.active.IsRunning() {
		c.active.Stop()
	}
	apply(positions)
	return nil
}

// Active returns the current provider, or nil.
func (c *Controller) Active() Provider {
	return c.active
}

// Stop stops the active provider if one is running.
func (c *Controller) Stop() {
	if c.active != nil && c.active.IsRunning() {
		c.active.Stop()
	}
}
