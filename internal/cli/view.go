package cli

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/graphlens/graphlens/pkg/camera"
	"github.com/graphlens/graphlens/pkg/dispatch"
	"github.com/graphlens/graphlens/pkg/engine"
	"github.com/graphlens/graphlens/pkg/graph"
	"github.com/graphlens/graphlens/pkg/interaction"
	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/loader"
	"github.com/graphlens/graphlens/pkg/overlay"
	"github.com/graphlens/graphlens/pkg/style"
)

// newViewCmd creates the interactive terminal viewer command.
func newViewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "view <graph.json>",
		Short: "Explore a graph file interactively in the terminal",
		Long: `View renders a graph in the terminal and wires up the full interaction
surface: hover neighborhoods, selection, label search, camera pan/zoom/rotate
and cluster overlays that track the camera.

Keys:
  tab / shift+tab   cycle hover through nodes
  enter             select the hovered node
  esc               clear selection (or leave search)
  /                 search labels
  arrows / hjkl     pan
  + / -             zoom
  r / R             rotate
  f                 fit all nodes (F: fit search results)
  c                 center on the hovered node
  space             toggle force layout
  g                 static Graphviz placement
  q                 quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			session, err := loader.New().LoadFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("graph loaded", "nodes", session.Store.NodeCount(), "edges", session.Store.EdgeCount(), "session", session.Token)

			m := newViewModel(cmd.Context(), session, cfg)
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen())
			m.relay.bind(p)
			defer m.shutdown()

			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	return cmd
}

// =============================================================================
// termEngine - a rendering engine drawing to terminal cells
// =============================================================================

// termEngine renders the graph into a cell grid. It satisfies the same
// engine contract as the headless engine; the bubbletea model drives its
// paint scheduling from tick messages.
type termEngine struct {
	store  graph.Store
	cam    camera.State
	width  float64
	height float64

	styler     style.Source
	handler    engine.Handler
	afterPaint func()

	needsPaint      bool
	topologyChanged bool

	grid [][]string
}

func newTermEngine(store graph.Store, width, height float64) *termEngine {
	return &termEngine{
		store:  store,
		cam:    camera.State{Ratio: 1},
		width:  width,
		height: height,
	}
}

func (e *termEngine) Camera() camera.State             { return e.cam }
func (e *termEngine) SetCamera(c camera.State)         { e.cam = c }
func (e *termEngine) Viewport() (float64, float64)     { return e.width, e.height }
func (e *termEngine) SetStyler(s style.Source)         { e.styler = s }
func (e *termEngine) SetInputHandler(h engine.Handler) { e.handler = h }
func (e *termEngine) SetAfterPaint(fn func())          { e.afterPaint = fn }

func (e *termEngine) RequestPaint(topologyChanged bool) {
	e.needsPaint = true
	if topologyChanged {
		e.topologyChanged = true
	}
}

func (e *termEngine) emit(ev engine.Event) {
	if e.handler != nil {
		e.handler(ev)
	}
}

func (e *termEngine) resize(w, h float64) {
	e.width, e.height = w, h
	e.needsPaint = true
}

// cell grid glyphs
const (
	glyphNode        = "●"
	glyphHighlighted = "◉"
	glyphEdge        = "·"
)

// paint rasterizes one frame into e.grid and fires the after-paint
// callback. Node glyphs overwrite edge dots; labels overwrite both.
func (e *termEngine) paint() {
	e.needsPaint = false
	e.topologyChanged = false

	w, h := int(e.width), int(e.height)
	if w < 1 || h < 1 {
		e.grid = nil
		return
	}
	grid := make([][]string, h)
	for i := range grid {
		grid[i] = make([]string, w)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	var styler style.Styler
	if e.styler != nil {
		styler = e.styler.Frame()
	}
	mapper := camera.NewMapper(e)

	type placed struct {
		x, y  int
		style graph.NodeStyle
	}
	screen := make(map[string]camera.Point)
	var nodes []placed
	for _, n := range e.store.Nodes() {
		st := graph.BaseNodeStyle(n.Attrs)
		if styler != nil {
			st = styler.Node(n)
		}
		p := mapper.WorldToScreen(camera.Point{X: n.Attrs.X, Y: n.Attrs.Y})
		screen[n.ID] = p
		if st.Hidden {
			continue
		}
		nodes = append(nodes, placed{x: int(math.Round(p.X)), y: int(math.Round(p.Y)), style: st})
	}

	for _, edge := range e.store.Edges() {
		st := graph.BaseEdgeStyle(edge.Attrs)
		if styler != nil {
			st = styler.Edge(edge)
		}
		if st.Hidden {
			continue
		}
		a, aok := screen[edge.Source]
		b, bok := screen[edge.Target]
		if !aok || !bok {
			continue
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(st.Color)).Render(glyphEdge)
		plotLine(grid, w, h, a, b, dot)
	}

	for _, p := range nodes {
		if p.x < 0 || p.x >= w || p.y < 0 || p.y >= h {
			continue
		}
		glyph := glyphNode
		nodeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.style.Color))
		if p.style.Highlighted {
			glyph = glyphHighlighted
			nodeStyle = nodeStyle.Bold(true)
		}
		grid[p.y][p.x] = nodeStyle.Render(glyph)

		if p.style.Label != "" && (p.style.Highlighted || p.style.ForceLabel) {
			writeLabel(grid, w, p.x+2, p.y, nodeStyle.Render(p.style.Label))
		}
	}

	e.grid = grid

	if e.afterPaint != nil {
		e.afterPaint()
	}
}

// plotLine draws a straight segment of dots between two screen points.
func plotLine(grid [][]string, w, h int, a, b camera.Point, dot string) {
	steps := int(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)))
	if steps < 1 {
		return
	}
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(a.X + (b.X-a.X)*t))
		y := int(math.Round(a.Y + (b.Y-a.Y)*t))
		if x >= 0 && x < w && y >= 0 && y < h && grid[y][x] == " " {
			grid[y][x] = dot
		}
	}
}

// writeLabel writes styled text into the grid one cell per rune.
func writeLabel(grid [][]string, w, x, y int, styled string) {
	if y < 0 || y >= len(grid) {
		return
	}
	// styled text cannot be split mid-sequence; place it only when it fits
	plain := lipgloss.Width(styled)
	if x < 0 || x+plain > w {
		return
	}
	grid[y][x] = styled
	for i := 1; i < plain; i++ {
		grid[y][x+i] = ""
	}
}

var _ engine.Engine = (*termEngine)(nil)

// =============================================================================
// programRelay - worker goroutine to event loop bridge
// =============================================================================

// programRelay forwards messages to the program's event loop. Layout
// workers call send before p.Run has necessarily started delivering, so
// messages sent with no program bound are dropped.
type programRelay struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRelay) bind(p *tea.Program) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()
}

func (r *programRelay) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// =============================================================================
// viewModel
// =============================================================================

type tickMsg time.Time

type layoutBatchMsg layout.Positions

type placementMsg struct {
	positions layout.Positions
	err       error
}

const frameInterval = 33 * time.Millisecond

// viewModel is the bubbletea model wiring every collaborator around a
// terminal engine.
type viewModel struct {
	ctx     cfgContext
	session *loader.Session
	eng     *termEngine
	relay   *programRelay

	tracker    *interaction.Tracker
	pipeline   *style.Pipeline
	dispatcher *dispatch.Dispatcher
	unbind     func()
	animator   *camera.Animator
	sync       *overlay.Synchronizer
	layouts    *layout.Controller

	// hover cycling order, stable across frames
	order  []string
	cursor int

	searchMode bool
	query      string

	placing bool
	status  string
}

// cfgContext bundles the command context with the loaded config.
type cfgContext struct {
	ctx context.Context
	cfg Config
}

func newViewModel(ctx context.Context, session *loader.Session, cfg Config) *viewModel {
	eng := newTermEngine(session.Store, 80, 24)

	tracker := interaction.NewTracker(session.Store)
	tracker.SetIndex(session.Index)

	pipeline := style.NewPipeline(session.Store, tracker, nil)
	eng.SetStyler(pipeline)

	dispatcher := dispatch.New(tracker, nil)
	unbind := dispatcher.Bind(eng)

	synchronizer := overlay.NewSynchronizer(camera.NewMapper(eng), nil)
	synchronizer.SetAnchors(session.Anchors)
	eng.SetAfterPaint(synchronizer.AfterPaint)

	m := &viewModel{
		ctx:        cfgContext{ctx: ctx, cfg: cfg},
		session:    session,
		eng:        eng,
		relay:      &programRelay{},
		tracker:    tracker,
		pipeline:   pipeline,
		dispatcher: dispatcher,
		unbind:     unbind,
		animator:   camera.NewAnimator(eng, eng),
		sync:       synchronizer,
		layouts:    layout.NewController(),
		cursor:     -1,
	}
	for _, n := range session.Store.Nodes() {
		m.order = append(m.order, n.ID)
	}
	sort.Strings(m.order)
	return m
}

// shutdown stops background layout workers and detaches the dispatcher.
func (m *viewModel) shutdown() {
	m.layouts.Stop()
	if m.unbind != nil {
		m.unbind()
	}
}

func (m *viewModel) Init() tea.Cmd {
	m.eng.RequestPaint(true)
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.eng.resize(float64(msg.Width), float64(max(1, msg.Height-2)))
		return m, nil

	case tickMsg:
		if m.animator.Tick(time.Time(msg)) {
			m.eng.RequestPaint(false)
		}
		if m.eng.needsPaint {
			m.eng.paint()
		}
		return m, tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })

	case layoutBatchMsg:
		m.applyPositions(layout.Positions(msg))
		return m, nil

	case placementMsg:
		m.placing = false
		if msg.err != nil {
			m.status = "placement failed: " + msg.err.Error()
			return m, nil
		}
		if err := m.layouts.ApplyStatic(msg.positions, m.applyPositions); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("placed %d nodes", len(msg.positions))
		}
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// applyPositions writes one batch of positions into the store, refreshes
// cluster anchors and schedules a repaint. Runs on the event loop, which
// keeps the store single-writer.
func (m *viewModel) applyPositions(pos layout.Positions) {
	for id, p := range pos {
		m.session.Store.SetPosition(id, p.X, p.Y)
	}
	m.sync.SetAnchors(loader.ClusterAnchors(m.session.Store, m.session.ClusterColors))
	m.eng.RequestPaint(false)
}

func (m *viewModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
	case "esc":
		m.searchMode = false
		m.query = ""
		m.tracker.SetSearchQuery("")
		m.eng.RequestPaint(false)
	case "backspace":
		if m.query != "" {
			m.query = m.query[:len(m.query)-1]
			m.tracker.SetSearchQuery(m.query)
			m.eng.RequestPaint(false)
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.query += string(msg.Runes)
			m.tracker.SetSearchQuery(m.query)
			m.eng.RequestPaint(false)
		}
	}
	return m, nil
}

func (m *viewModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.ctx.cfg
	cam := m.eng.Camera()
	pan := cfg.Camera.PanStep * cam.Ratio

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.cycleHover(1)
	case "shift+tab":
		m.cycleHover(-1)
	case "H":
		m.cursor = -1
		m.eng.emit(engine.Event{Kind: engine.EventLeaveEntity})

	case "enter":
		if m.cursor >= 0 {
			m.eng.emit(engine.Event{Kind: engine.EventClickEntity, EntityID: m.order[m.cursor]})
		}
	case "esc":
		m.eng.emit(engine.Event{Kind: engine.EventClickBackground})

	case "/":
		m.searchMode = true

	case "left", "h":
		cam.X -= pan
		m.writeCamera(cam)
	case "right", "l":
		cam.X += pan
		m.writeCamera(cam)
	case "up", "k":
		cam.Y -= pan
		m.writeCamera(cam)
	case "down", "j":
		cam.Y += pan
		m.writeCamera(cam)
	case "+", "=":
		cam.Ratio /= cfg.Camera.ZoomFactor
		m.writeCamera(cam)
	case "-", "_":
		cam.Ratio *= cfg.Camera.ZoomFactor
		m.writeCamera(cam)
	case "r":
		cam.Angle += cfg.Camera.RotateStep
		m.writeCamera(cam)
	case "R":
		cam.Angle -= cfg.Camera.RotateStep
		m.writeCamera(cam)

	case "f":
		m.animator.Fit(m.session.Store, nil, cfg.Camera.FitPadding, cfg.AnimationDuration())
	case "F":
		if ids := m.tracker.Snapshot().Suggestions; ids.Len() > 0 {
			list := make([]string, 0, ids.Len())
			for id := range ids {
				list = append(list, id)
			}
			m.animator.Fit(m.session.Store, list, cfg.Camera.FitPadding, cfg.AnimationDuration())
		}
	case "c":
		if m.cursor >= 0 {
			if n, ok := m.session.Store.Node(m.order[m.cursor]); ok {
				m.animator.CenterOn(n.Attrs.X, n.Attrs.Y, cfg.AnimationDuration())
			}
		}

	case " ":
		m.toggleForce()
	case "g":
		return m, m.startPlacement()
	}
	return m, nil
}

// writeCamera cancels any running animation before a manual camera write.
func (m *viewModel) writeCamera(cam camera.State) {
	m.animator.Cancel()
	m.eng.SetCamera(cam)
	m.eng.RequestPaint(false)
}

func (m *viewModel) cycleHover(step int) {
	if len(m.order) == 0 {
		return
	}
	m.cursor = ((m.cursor+step)%len(m.order) + len(m.order)) % len(m.order)
	m.eng.emit(engine.Event{Kind: engine.EventEnterEntity, EntityID: m.order[m.cursor]})
}

func (m *viewModel) toggleForce() {
	if active := m.layouts.Active(); active != nil && active.IsRunning() {
		m.layouts.Switch(nil)
		m.status = "force layout stopped"
		return
	}
	provider := layout.NewForce(m.session.Store, m.ctx.cfg.ForceLayoutConfig(), func(pos layout.Positions) {
		m.relay.send(layoutBatchMsg(pos))
	})
	m.layouts.Switch(provider)
	m.status = "force layout running"
}

func (m *viewModel) startPlacement() tea.Cmd {
	if m.placing {
		return nil
	}
	m.placing = true
	m.status = "computing placement..."
	ctx := m.ctx.ctx
	store := m.session.Store
	opts := m.ctx.cfg.StaticLayoutOptions()
	return func() tea.Msg {
		pos, err := layout.Place(ctx, store, opts)
		return placementMsg{positions: pos, err: err}
	}
}

func (m *viewModel) View() string {
	grid := make([][]string, len(m.eng.grid))
	for i := range grid {
		grid[i] = append([]string(nil), m.eng.grid[i]...)
	}

	// cluster overlay labels sit on top of the rasterized frame, at the
	// screen positions the synchronizer computed after the last paint
	anchors := make(map[string]overlay.Anchor, len(m.sync.Anchors()))
	for _, a := range m.sync.Anchors() {
		anchors[a.ClusterID] = a
	}
	w := int(m.eng.width)
	for id, pos := range m.sync.Positions() {
		a, ok := anchors[id]
		if !ok {
			continue
		}
		label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(a.Color)).Render("[" + a.Label + "]")
		writeLabel(grid, w, int(math.Round(pos.ScreenX)), int(math.Round(pos.ScreenY)), label)
	}

	lines := make([]string, 0, len(grid)+1)
	for _, row := range grid {
		lines = append(lines, strings.Join(row, ""))
	}
	lines = append(lines, m.statusBar())
	return strings.Join(lines, "\n")
}

func (m *viewModel) statusBar() string {
	state := m.tracker.Snapshot()
	parts := []string{
		fmt.Sprintf("%d nodes", m.session.Store.NodeCount()),
		fmt.Sprintf("%d edges", m.session.Store.EdgeCount()),
	}
	if state.Hovered != "" {
		parts = append(parts, "hover:"+state.Hovered)
	}
	if state.Selected != "" {
		parts = append(parts, "sel:"+state.Selected)
	}
	if m.searchMode {
		parts = append(parts, StyleHighlight.Render("/"+m.query+"▌"))
	} else if m.query != "" {
		parts = append(parts, fmt.Sprintf("/%s (%d)", m.query, state.Suggestions.Len()))
	}
	if active := m.layouts.Active(); active != nil && active.IsRunning() {
		parts = append(parts, StyleSuccess.Render("force"))
	}
	if m.status != "" {
		parts = append(parts, StyleDim.Render(m.status))
	}
	return StyleDim.Render(strings.Join(parts, " · "))
}
