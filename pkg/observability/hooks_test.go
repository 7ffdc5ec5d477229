package observability

import (
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	// Interaction hooks
	i := NoopInteractionHooks{}
	i.OnHover("a", 3)
	i.OnSelect("b")
	i.OnSearch("al", 2)

	// Overlay hooks
	o := NoopOverlayHooks{}
	o.OnSync(4, time.Millisecond)
	o.OnAnchorSkipped("empty")

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnStart("force", 100)
	l.OnStop("force")
	l.OnPlacement(100, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Error("Interaction() should return NoopInteractionHooks by default")
	}
	if _, ok := Overlay().(NoopOverlayHooks); !ok {
		t.Error("Overlay() should return NoopOverlayHooks by default")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}

	// Set custom hooks
	customInteraction := &testInteractionHooks{}
	SetInteractionHooks(customInteraction)
	if Interaction() != customInteraction {
		t.Error("SetInteractionHooks should set custom hooks")
	}

	customOverlay := &testOverlayHooks{}
	SetOverlayHooks(customOverlay)
	if Overlay() != customOverlay {
		t.Error("SetOverlayHooks should set custom hooks")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Error("Reset() should restore NoopInteractionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testInteractionHooks{}
	SetInteractionHooks(custom)
	SetInteractionHooks(nil)
	if Interaction() != custom {
		t.Error("SetInteractionHooks(nil) should keep the previous hooks")
	}

	Reset()
}

// testInteractionHooks counts received events.
type testInteractionHooks struct {
	hovers, selects, searches int
}

func (h *testInteractionHooks) OnHover(string, int)  { h.hovers++ }
func (h *testInteractionHooks) OnSelect(string)      { h.selects++ }
func (h *testInteractionHooks) OnSearch(string, int) { h.searches++ }

type testOverlayHooks struct {
	syncs int
}

func (h *testOverlayHooks) OnSync(int, time.Duration) { h.syncs++ }
func (h *testOverlayHooks) OnAnchorSkipped(string)    {}

type testLayoutHooks struct {
	starts int
}

func (h *testLayoutHooks) OnStart(string, int)                   { h.starts++ }
func (h *testLayoutHooks) OnStop(string)                         {}
func (h *testLayoutHooks) OnPlacement(int, time.Duration, error) {}
