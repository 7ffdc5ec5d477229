package layout

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/observability"
)

// =============================================================================
// Force-directed provider
// =============================================================================

// ForceConfig tunes the force simulation.
type ForceConfig struct {
	// Gravity pulls nodes toward the origin.
	Gravity float64
	// Repulsion scales the pairwise node repulsion force.
	Repulsion float64
	// Attraction scales the edge spring force.
	Attraction float64
	// MaxSpeed caps per-iteration node displacement.
	MaxSpeed float64
	// Interval is the delay between position batches.
	Interval time.Duration
	// Seed initializes placement of nodes that start at the origin.
	Seed int64
}

// DefaultForceConfig returns the tuning used by the interactive viewer.
func DefaultForceConfig() ForceConfig {
	return ForceConfig{
		Gravity:    0.02,
		Repulsion:  120.0,
		Attraction: 0.015,
		MaxSpeed:   8.0,
		Interval:   33 * time.Millisecond,
		Seed:       1,
	}
}

// Force is an iterative force-directed provider. The worker simulates on a
// private copy of the topology and never reads the live store after Start,
// so the host is free to mutate the store between batches.
type Force struct {
	cfg   ForceConfig
	apply Apply

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	// simulation state, owned by the worker
	ids   []string
	pos   map[string]Point
	edges [][2]string
}

// NewForce snapshots the store's topology and current positions.
func NewForce(store graph.Store, cfg ForceConfig, apply Apply) *Force {
	f := &Force{
		cfg:   cfg,
		apply: apply,
		pos:   make(map[string]Point),
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, n := range store.Nodes() {
		f.ids = append(f.ids, n.ID)
		p := Point{X: n.Attrs.X, Y: n.Attrs.Y}
		if p.X == 0 && p.Y == 0 {
			p = Point{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		}
		f.pos[n.ID] = p
	}
	for _, e := range store.Edges() {
		f.edges = append(f.edges, [2]string{e.Source, e.Target})
	}
	return f
}

// Name implements Provider.
func (f *Force) Name() string { return "force" }

// IsRunning implements Provider.
func (f *Force) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Start implements Provider. Starting a running provider is a no-op.
func (f *Force) Start() {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return
	}
	f.running = true
	f.stop = make(chan struct{})
	f.done = make(chan struct{})
	f.mu.Unlock()

	observability.Layout().OnStart(f.Name(), len(f.ids))
	go f.run(f.stop, f.done)
}

// Stop implements Provider. It blocks until the worker has exited, so no
// batch is delivered after Stop returns.
func (f *Force) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	stop, done := f.stop, f.done
	f.mu.Unlock()

	close(stop)
	<-done
	observability.Layout().OnStop(f.Name())
}

func (f *Force) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			f.iterate()
			batch := make(Positions, len(f.pos))
			for id, p := range f.pos {
				batch[id] = p
			}
			f.apply(batch)
		}
	}
}

// iterate advances the simulation by one step.
func (f *Force) iterate() {
	disp := make(map[string]Point, len(f.ids))

	// repulsion between every pair
	for i, a := range f.ids {
		pa := f.pos[a]
		for _, b := range f.ids[i+1:] {
			pb := f.pos[b]
			dx, dy := pa.X-pb.X, pa.Y-pb.Y
			d2 := dx*dx + dy*dy
			if d2 < 0.01 {
				d2 = 0.01
			}
			force := f.cfg.Repulsion / d2
			fx, fy := dx*force, dy*force
			da, db := disp[a], disp[b]
			da.X += fx
			da.Y += fy
			db.X -= fx
			db.Y -= fy
			disp[a] = da
			disp[b] = db
		}
	}

	// spring attraction along edges
	for _, e := range f.edges {
		pa, pb := f.pos[e[0]], f.pos[e[1]]
		dx, dy := pb.X-pa.X, pb.Y-pa.Y
		fx, fy := dx*f.cfg.Attraction, dy*f.cfg.Attraction
		da, db := disp[e[0]], disp[e[1]]
		da.X += fx
		da.Y += fy
		db.X -= fx
		db.Y -= fy
		disp[e[0]] = da
		disp[e[1]] = db
	}

	// gravity and capped displacement
	for _, id := range f.ids {
		p := f.pos[id]
		d := disp[id]
		d.X -= p.X * f.cfg.Gravity
		d.Y -= p.Y * f.cfg.Gravity
		speed := math.Hypot(d.X, d.Y)
		if speed > f.cfg.MaxSpeed {
			scale := f.cfg.MaxSpeed / speed
			d.X *= scale
			d.Y *= scale
		}
		f.pos[id] = Point{X: p.X + d.X, Y: p.Y + d.Y}
	}
}
