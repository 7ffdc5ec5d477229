// Package server exposes a loaded graph session over an HTTP API.
//
// The server drives a headless engine: every mutating request goes through
// the same input path as the interactive viewer (engine events into the
// dispatcher, search into the tracker), then the engine paints once and
// the overlay synchronizer recomputes from the post-paint camera. Handlers
// never compute styles themselves.
package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/graphlens/graphlens/pkg/camera"
	"github.com/graphlens/graphlens/pkg/dispatch"
	"github.com/graphlens/graphlens/pkg/engine"
	"github.com/graphlens/graphlens/pkg/errors"
	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/interaction"
	"github.com/graphlens/graphlens/pkg/loader"
	"github.com/graphlens/graphlens/pkg/overlay"
	"github.com/graphlens/graphlens/pkg/style"
)

// Server wires a session's collaborators behind an HTTP handler.
type Server struct {
	logger  *log.Logger
	session *loader.Session

	// mu serializes interaction, camera writes and paints. The engine and
	// its collaborators assume a single driving goroutine.
	mu      sync.Mutex
	eng     *engine.Headless
	tracker *interaction.Tracker
	sync    *overlay.Synchronizer
	unbind  func()

	router chi.Router
}

// New builds a server around an already loaded session. Width and height
// define the virtual viewport used for overlay positioning.
func New(session *loader.Session, logger *log.Logger, width, height float64) *Server {
	if logger == nil {
		logger = log.Default()
	}

	eng := engine.NewHeadless(session.Store, width, height)

	tracker := interaction.NewTracker(session.Store)
	tracker.SetIndex(session.Index)
	eng.SetStyler(style.NewPipeline(session.Store, tracker, logger))

	unbind := dispatch.New(tracker, logger).Bind(eng)

	synchronizer := overlay.NewSynchronizer(camera.NewMapper(eng), logger)
	synchronizer.SetAnchors(session.Anchors)
	eng.SetAfterPaint(synchronizer.AfterPaint)

	s := &Server{
		logger:  logger,
		session: session,
		eng:     eng,
		tracker: tracker,
		sync:    synchronizer,
		unbind:  unbind,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close detaches the input path.
func (s *Server) Close() {
	if s.unbind != nil {
		s.unbind()
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/graph", s.handleGraph)
	r.Get("/frame", s.handleFrame)
	r.Get("/interaction", s.handleInteraction)
	r.Post("/interaction/hover", s.handleHover)
	r.Post("/interaction/select", s.handleSelect)
	r.Post("/interaction/search", s.handleSearch)
	r.Get("/camera", s.handleCameraGet)
	r.Post("/camera", s.handleCameraSet)
	r.Get("/overlay/positions", s.handleOverlay)
	return r
}

// logRequests logs each request with the charm logger at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).Round(time.Microsecond))
	})
}

// paint renders one frame if anything requested it. Callers hold mu.
func (s *Server) paint() {
	if s.eng.Dirty() {
		s.eng.Paint()
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	g := graph.FromStore(s.session.Store)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	frame := s.eng.Paint()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{
		"nodes": frame.Nodes,
		"edges": frame.Edges,
	})
}

// interactionDTO is the wire form of the interaction state.
type interactionDTO struct {
	Hovered     string   `json:"hovered,omitempty"`
	Selected    string   `json:"selected,omitempty"`
	Query       string   `json:"query,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Neighbors   []string `json:"neighbors,omitempty"`
}

func stateDTO(st *interaction.State) interactionDTO {
	return interactionDTO{
		Hovered:     st.Hovered,
		Selected:    st.Selected,
		Query:       st.Query,
		Suggestions: sortedIDs(st.Suggestions),
		Neighbors:   sortedIDs(st.Neighbors),
	}
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, stateDTO(s.tracker.Snapshot()))
}

type entityRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ID != "" {
		if _, ok := s.session.Store.Node(req.ID); !ok {
			respondError(w, errors.New(errors.ErrCodeNodeNotFound, "node %s not found", req.ID))
			return
		}
	}

	s.mu.Lock()
	if req.ID == "" {
		s.eng.Emit(engine.Event{Kind: engine.EventLeaveEntity})
	} else {
		s.eng.Emit(engine.Event{Kind: engine.EventEnterEntity, EntityID: req.ID})
	}
	s.paint()
	st := s.tracker.Snapshot()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, stateDTO(st))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req entityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ID != "" {
		if _, ok := s.session.Store.Node(req.ID); !ok {
			respondError(w, errors.New(errors.ErrCodeNodeNotFound, "node %s not found", req.ID))
			return
		}
	}

	s.mu.Lock()
	if req.ID == "" {
		s.eng.Emit(engine.Event{Kind: engine.EventClickBackground})
	} else {
		s.eng.Emit(engine.Event{Kind: engine.EventClickEntity, EntityID: req.ID})
	}
	s.paint()
	st := s.tracker.Snapshot()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, stateDTO(st))
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	s.tracker.SetSearchQuery(req.Query)
	s.eng.RequestPaint(false)
	s.paint()
	st := s.tracker.Snapshot()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, stateDTO(st))
}

func (s *Server) handleCameraGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cam := s.eng.Camera()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, cam)
}

func (s *Server) handleCameraSet(w http.ResponseWriter, r *http.Request) {
	var cam camera.State
	if err := decodeJSON(r, &cam); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	s.eng.SetCamera(cam)
	s.eng.RequestPaint(false)
	s.paint()
	positions := s.sync.Positions()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, positions)
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	positions := s.sync.Positions()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, positions)
}

// =============================================================================
// Helpers
// =============================================================================

func sortedIDs(set interaction.IDSet) []string {
	if set.Len() == 0 {
		return nil
	}
	ids := make([]string, 0, set.Len())
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeAlreadyLoaded, errors.ErrCodeLayoutRunning:
		status = http.StatusConflict
	}
	respondJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
