package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphlens/graphlens/pkg/loader"
)

const testGraph = `{
  "nodes": [
    {"id": "a", "attrs": {"x": 0, "y": 0, "label": "Alpha", "cluster": "core"}},
    {"id": "b", "attrs": {"x": 10, "y": 0, "label": "Beta", "cluster": "core"}},
    {"id": "c", "attrs": {"x": 0, "y": 10, "label": "Gamma"}}
  ],
  "edges": [
    {"source": "a", "target": "b"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	session, err := loader.New().Load(strings.NewReader(testGraph))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return New(session, nil, 800, 600)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestGraphEndpoint(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	rec := do(t, s, http.MethodGet, "/graph", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var g struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	decode(t, rec, &g)
	if len(g.Nodes) != 3 || len(g.Edges) != 1 {
		t.Fatalf("graph = %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestHoverUpdatesNeighbors(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	rec := do(t, s, http.MethodPost, "/interaction/hover", `{"id": "a"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var st interactionDTO
	decode(t, rec, &st)
	if st.Hovered != "a" {
		t.Errorf("hovered = %q, want a", st.Hovered)
	}
	if len(st.Neighbors) != 1 || st.Neighbors[0] != "b" {
		t.Errorf("neighbors = %v, want [b]", st.Neighbors)
	}

	// leaving clears hover and neighbors together
	rec = do(t, s, http.MethodPost, "/interaction/hover", `{"id": ""}`)
	st = interactionDTO{}
	decode(t, rec, &st)
	if st.Hovered != "" || len(st.Neighbors) != 0 {
		t.Errorf("after leave: hovered=%q neighbors=%v", st.Hovered, st.Neighbors)
	}
}

func TestHoverUnknownNode(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	rec := do(t, s, http.MethodPost, "/interaction/hover", `{"id": "zzz"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSelectAndClearViaBackground(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	var st interactionDTO
	rec := do(t, s, http.MethodPost, "/interaction/select", `{"id": "b"}`)
	decode(t, rec, &st)
	if st.Selected != "b" {
		t.Fatalf("selected = %q, want b", st.Selected)
	}

	rec = do(t, s, http.MethodPost, "/interaction/select", `{"id": ""}`)
	st = interactionDTO{}
	decode(t, rec, &st)
	if st.Selected != "" {
		t.Fatalf("selected = %q after background click, want empty", st.Selected)
	}
}

func TestSearchSuggestions(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	var st interactionDTO
	rec := do(t, s, http.MethodPost, "/interaction/search", `{"query": "a"}`)
	decode(t, rec, &st)
	// Alpha, Beta and Gamma all contain "a"
	if len(st.Suggestions) != 3 {
		t.Fatalf("suggestions = %v", st.Suggestions)
	}

	rec = do(t, s, http.MethodPost, "/interaction/search", `{"query": ""}`)
	st = interactionDTO{}
	decode(t, rec, &st)
	if len(st.Suggestions) != 0 {
		t.Fatalf("empty query must clear suggestions, got %v", st.Suggestions)
	}
}

func TestCameraDrivesOverlayPositions(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	rec := do(t, s, http.MethodPost, "/camera", `{"x": 5, "y": 0, "ratio": 1, "angle": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var positions map[string]struct {
		ScreenX float64 `json:"screen_x"`
		ScreenY float64 `json:"screen_y"`
	}
	decode(t, rec, &positions)

	// cluster "core" centroid is (5,0); with the camera on it the anchor
	// sits at the viewport center
	core, ok := positions["core"]
	if !ok {
		t.Fatalf("positions = %v, want core anchor", positions)
	}
	if core.ScreenX != 400 || core.ScreenY != 300 {
		t.Errorf("core anchor = (%v,%v), want (400,300)", core.ScreenX, core.ScreenY)
	}
}

func TestFrameStylesReflectHover(t *testing.T) {
	s := newTestServer(t)
	defer s.Close()

	do(t, s, http.MethodPost, "/interaction/hover", `{"id": "a"}`)

	rec := do(t, s, http.MethodGet, "/frame", "")
	var frame struct {
		Nodes map[string]struct {
			Highlighted bool `json:"highlighted"`
			Hidden      bool `json:"hidden"`
		} `json:"nodes"`
		Edges map[string]struct {
			Hidden bool `json:"hidden"`
		} `json:"edges"`
	}
	decode(t, rec, &frame)
	if !frame.Nodes["a"].Highlighted {
		t.Error("hovered node must be highlighted")
	}
	if frame.Edges["a--b"].Hidden {
		t.Error("edge into the hover neighborhood must stay visible")
	}
}
