package layout

import (
	"sync"
	"testing"
	"time"

	"github.com/graphlens/graphlens/pkg/graph"
)

func buildStore(t *testing.T) *graph.MemoryStore {
	t.Helper()
	s := graph.NewMemoryStore()
	for _, id := range []string{"a", "b", "c"} {
		if err := s.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	if err := s.AddEdge(graph.Edge{Source: "a", Target: "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := s.AddEdge(graph.Edge{Source: "b", Target: "c"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return s
}

func TestForceDeliversBatches(t *testing.T) {
	store := buildStore(t)

	var mu sync.Mutex
	var batches []Positions
	cfg := DefaultForceConfig()
	cfg.Interval = time.Millisecond
	f := NewForce(store, cfg, func(p Positions) {
		mu.Lock()
		batches = append(batches, p)
		mu.Unlock()
	})

	f.Start()
	if !f.IsRunning() {
		t.Fatal("expected provider to be running after Start")
	}
	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(batches)
		mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for position batches")
		case <-time.After(time.Millisecond):
		}
	}
	f.Stop()
	if f.IsRunning() {
		t.Fatal("expected provider to be stopped after Stop")
	}

	mu.Lock()
	defer mu.Unlock()
	last := batches[len(batches)-1]
	if len(last) != 3 {
		t.Fatalf("batch size = %d, want 3", len(last))
	}
	for _, id := range []string{"a", "b", "c"} {
		if _, ok := last[id]; !ok {
			t.Errorf("batch missing node %q", id)
		}
	}
}

func TestForceStopIsFinal(t *testing.T) {
	store := buildStore(t)

	var mu sync.Mutex
	count := 0
	cfg := DefaultForceConfig()
	cfg.Interval = time.Millisecond
	f := NewForce(store, cfg, func(Positions) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	f.Start()
	time.Sleep(10 * time.Millisecond)
	f.Stop()

	mu.Lock()
	afterStop := count
	mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != afterStop {
		t.Fatalf("batches delivered after Stop: %d -> %d", afterStop, count)
	}
}

func TestForceStartTwice(t *testing.T) {
	store := buildStore(t)
	f := NewForce(store, DefaultForceConfig(), func(Positions) {})
	f.Start()
	f.Start()
	f.Stop()
	f.Stop()
	if f.IsRunning() {
		t.Fatal("expected provider to be stopped")
	}
}

func TestControllerSwitchStopsPrevious(t *testing.T) {
	store := buildStore(t)
	cfg := DefaultForceConfig()
	cfg.Interval = time.Millisecond

	first := NewForce(store, cfg, func(Positions) {})
	second := NewForce(store, cfg, func(Positions) {})

	ctl := NewController()
	ctl.Switch(first)
	if !first.IsRunning() {
		t.Fatal("expected first provider running")
	}
	ctl.Switch(second)
	if first.IsRunning() {
		t.Fatal("expected first provider stopped after switch")
	}
	if !second.IsRunning() {
		t.Fatal("expected second provider running after switch")
	}
	ctl.Switch(nil)
	if second.IsRunning() {
		t.Fatal("expected second provider stopped after switch to nil")
	}
}

func TestControllerApplyStatic(t *testing.T) {
	store := buildStore(t)
	cfg := DefaultForceConfig()
	cfg.Interval = time.Millisecond
	running := NewForce(store, cfg, func(Positions) {})

	ctl := NewController()
	ctl.Switch(running)

	var applied Positions
	err := ctl.ApplyStatic(Positions{"a": {X: 1, Y: 2}}, func(p Positions) { applied = p })
	if err != nil {
		t.Fatalf("ApplyStatic: %v", err)
	}
	if running.IsRunning() {
		t.Fatal("expected running provider stopped before static placement")
	}
	if applied["a"] != (Point{X: 1, Y: 2}) {
		t.Fatalf("applied = %v", applied)
	}

	if err := ctl.ApplyStatic(nil, func(Positions) {}); err == nil {
		t.Fatal("expected error for empty placement")
	}
}

func TestBuildDOTDeterministic(t *testing.T) {
	store := buildStore(t)
	want := "graph G {\n  \"a\";\n  \"b\";\n  \"c\";\n  \"a\" -- \"b\";\n  \"b\" -- \"c\";\n}\n"
	for i := 0; i < 3; i++ {
		if got := buildDOT(store); got != want {
			t.Fatalf("buildDOT =\n%s\nwant\n%s", got, want)
		}
	}
}

func TestParsePositions(t *testing.T) {
	rendered := `graph G {
	graph [bb="0,0,100,100"];
	node [label="\N"];
	"a"	[height=0.5, pos="27,90", width=0.75];
	b	[height=0.5, pos="54,-18.5", width=0.75];
	"a" -- b	[pos="30,72 40,40 50,10"];
}`
	got := ParsePositions(rendered, 2.0)
	if len(got) != 2 {
		t.Fatalf("parsed %d positions, want 2: %v", len(got), got)
	}
	if got["a"] != (Point{X: 54, Y: 180}) {
		t.Errorf("a = %v, want {54 180}", got["a"])
	}
	if got["b"] != (Point{X: 108, Y: -37}) {
		t.Errorf("b = %v, want {108 -37}", got["b"])
	}
}
