// Package pkg provides the core libraries for GraphLens graph exploration.
//
// # Overview
//
// GraphLens is an interaction core for node-link graph views: it turns raw
// input events into interaction state, derives per-frame display styles
// from that state, and keeps world-anchored overlays locked to the camera.
// The pkg directory is organized into these areas:
//
//  1. [graph] - Graph data model, storage and label search
//  2. [interaction] - Hover, selection and search state
//  3. [style] - Per-frame style computation from interaction state
//  4. [camera] / [overlay] - Viewport mapping and overlay positioning
//  5. [engine] / [dispatch] - Rendering engine contract and input routing
//  6. [layout] / [loader] / [cache] - Placement, session loading, memoization
//
// # Architecture
//
// The typical frame cycle:
//
//	Input Event (enter/leave/click)
//	         ↓
//	    [dispatch] package (route to interaction state)
//	         ↓
//	    [interaction] package (atomic state snapshot)
//	         ↓
//	    [style] package (ordered rules → final styles)
//	         ↓
//	    engine paints → [overlay] recomputes screen positions
//
// The engine owns paint scheduling: collaborators request paints, the
// engine decides when to render, and the overlay synchronizer recomputes
// only from the post-paint camera so labels never lag the frame they
// belong to.
//
// # Quick Start
//
// Load a graph and wire the interaction surface around an engine:
//
//	import (
//	    "github.com/graphlens/graphlens/pkg/dispatch"
//	    "github.com/graphlens/graphlens/pkg/engine"
//	    "github.com/graphlens/graphlens/pkg/interaction"
//	    "github.com/graphlens/graphlens/pkg/loader"
//	    "github.com/graphlens/graphlens/pkg/style"
//	)
//
//	session, _ := loader.New().LoadFile("graph.json")
//	eng := engine.NewHeadless(session.Store, 800, 600)
//
//	tracker := interaction.NewTracker(session.Store)
//	tracker.SetIndex(session.Index)
//	eng.SetStyler(style.NewPipeline(session.Store, tracker, nil))
//
//	unbind := dispatch.New(tracker, nil).Bind(eng)
//	defer unbind()
//
//	eng.Emit(engine.Event{Kind: engine.EventEnterEntity, EntityID: "a"})
//	frame := eng.Paint()
//
// Every mutation flows through the tracker, every style through the
// pipeline; handlers and renderers stay free of interaction logic.
package pkg
