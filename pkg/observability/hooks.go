// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about interaction changes, overlay
// synchronization, and layout runs.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the view core dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetInteractionHooks(&myInteractionHooks{})
//	    observability.SetOverlayHooks(&myOverlayHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Overlay().OnSync(len(anchors), time.Since(start))
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from the interaction state tracker.
type InteractionHooks interface {
	// OnHover records a hover change. id is "" when hover is cleared.
	OnHover(id string, neighborCount int)

	// OnSelect records a selection change. id is "" when cleared.
	OnSelect(id string)

	// OnSearch records a search query update and its match count.
	OnSearch(query string, matches int)
}

// =============================================================================
// Overlay Hooks
// =============================================================================

// OverlayHooks receives events from the overlay synchronizer.
type OverlayHooks interface {
	// OnSync records one position recompute pass.
	OnSync(anchors int, duration time.Duration)

	// OnAnchorSkipped records an anchor dropped for invalid coordinates.
	OnAnchorSkipped(clusterID string)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout providers.
type LayoutHooks interface {
	// OnStart records a layout provider starting.
	OnStart(provider string, nodeCount int)

	// OnStop records a layout provider stopping.
	OnStop(provider string)

	// OnPlacement records one complete static placement.
	OnPlacement(nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnHover(string, int)  {}
func (NoopInteractionHooks) OnSelect(string)      {}
func (NoopInteractionHooks) OnSearch(string, int) {}

// NoopOverlayHooks is a no-op implementation of OverlayHooks.
type NoopOverlayHooks struct{}

func (NoopOverlayHooks) OnSync(int, time.Duration) {}
func (NoopOverlayHooks) OnAnchorSkipped(string)    {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnStart(string, int)                   {}
func (NoopLayoutHooks) OnStop(string)                         {}
func (NoopLayoutHooks) OnPlacement(int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	overlayHooks     OverlayHooks     = NoopOverlayHooks{}
	layoutHooks      LayoutHooks      = NoopLayoutHooks{}
	hooksMu          sync.RWMutex
)

// SetInteractionHooks registers custom interaction hooks.
// This should be called once at application startup.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetOverlayHooks registers custom overlay hooks.
// This should be called once at application startup.
func SetOverlayHooks(h OverlayHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		overlayHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// Overlay returns the registered overlay hooks.
func Overlay() OverlayHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return overlayHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	interactionHooks = NoopInteractionHooks{}
	overlayHooks = NoopOverlayHooks{}
	layoutHooks = NoopLayoutHooks{}
}
