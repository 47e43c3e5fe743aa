package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	spacesio "github.com/BenJenkinson/react-spaces/pkg/io"
	"github.com/BenJenkinson/react-spaces/pkg/pipeline"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// Lines above and below the layout area.
const (
	tuiHeaderLines = 1
	tuiFooterLines = 1
)

// Box styles cycle by depth.
var (
	tuiBoxStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorGray),
		lipgloss.NewStyle().Foreground(colorCyan),
		lipgloss.NewStyle().Foreground(colorGreen),
		lipgloss.NewStyle().Foreground(colorWhite),
	}
	tuiHandleStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	tuiResizingStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	tuiLabelStyle    = lipgloss.NewStyle().Bold(true)
)

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "tui [layout]",
		Short: "Resize a layout's spaces with the mouse in the terminal",
		Long: `Tui draws a layout in the terminal, one cell per cell_width x cell_height
pixels, and lets you drag resize handles with the mouse.

Keys: r resets every drag, esc cancels the drag in progress, q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLayoutFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.handleSize, "handle-size", 0, "resize handle thickness for spaces that do not set one")

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, input string, opts renderOpts) error {
	doc, _, err := spacesio.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.renderPipelineOptions(ctx, opts)
	mount := func() (*pipeline.Result, error) {
		return runner.Layout(ctx, doc, popts)
	}
	result, err := mount()
	if err != nil {
		return err
	}

	m := newLayoutModel(displayName(doc, input), result, doc.Labels(), c.Config.CellWidth, c.Config.CellHeight)
	m.remount = mount

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return m.err
}

// =============================================================================
// layoutModel - Interactive resizing
// =============================================================================

// layoutModel is the bubbletea model of the tui command. Terminal cells map
// to cellW x cellH pixel blocks; the layout area starts below the header.
type layoutModel struct {
	title  string
	labels map[string]string
	cellW  float64
	cellH  float64

	store    *spaces.Store
	root     *spaces.Space
	viewport spaces.Rect
	boxes    []geometry.Box

	// events feeds pointer motion to the active drag.
	events  *spaces.Dispatcher
	session *spaces.ResizeSession

	// remount rebuilds the store from the document.
	remount func() (*pipeline.Result, error)

	cols, rows int
	status     string
	err        error
}

func newLayoutModel(title string, result *pipeline.Result, labels map[string]string, cellW, cellH float64) *layoutModel {
	if cellW <= 0 || cellH <= 0 {
		def := DefaultConfig()
		cellW, cellH = def.CellWidth, def.CellHeight
	}
	m := &layoutModel{
		title:  title,
		labels: labels,
		cellW:  cellW,
		cellH:  cellH,
		events: spaces.NewDispatcher(),
		cols:   int(result.Viewport.W / cellW),
		rows:   int(result.Viewport.H / cellH),
		status: "drag a handle to resize",
	}
	m.load(result)
	return m
}

func (m *layoutModel) load(result *pipeline.Result) {
	m.store = result.Store
	m.root = result.Root
	m.viewport = spaces.Rect{W: float64(m.cols) * m.cellW, H: float64(m.rows) * m.cellH}
	m.session = nil
	m.resolve()
}

func (m *layoutModel) resolve() {
	boxes, err := geometry.Resolve(m.root, m.viewport)
	if err != nil {
		m.err = err
		m.status = err.Error()
		return
	}
	m.boxes = boxes
}

func (m *layoutModel) Init() tea.Cmd {
	return nil
}

func (m *layoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(msg.Height-tuiHeaderLines-tuiFooterLines, 1)
		m.viewport = spaces.Rect{W: float64(m.cols) * m.cellW, H: float64(m.rows) * m.cellH}
		m.resolve()
	}
	return m, nil
}

func (m *layoutModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.session != nil && m.session.Active() {
			m.session.Cancel()
			m.session = nil
			m.status = "drag cancelled"
			m.resolve()
			return m, nil
		}
		return m, tea.Quit
	case "r":
		if m.remount == nil {
			return m, nil
		}
		result, err := m.remount()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.load(result)
		m.status = "layout reset"
	}
	return m, nil
}

func (m *layoutModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p, ok := m.pointAt(msg.X, msg.Y)
	if !ok && msg.Action == tea.MouseActionPress {
		return m, nil
	}
	ev := spaces.MouseEvent{PageX: p.X, PageY: p.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		box, ok := m.handleAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		sp, ok := m.store.GetSpace(box.ID)
		if !ok {
			return m, nil
		}
		id := sp.ID
		m.session = m.store.StartMouseResize(box.ResizeType, sp, sp.CrossSize(), m.events, ev,
			spaces.WithOnResizeEnd(func(resized float64) {
				m.status = formatDrag(m.labelOf(id), resized)
			}))
		if m.session != nil {
			m.status = "resizing " + m.labelOf(id)
		}
		m.resolve()
	case tea.MouseActionMotion:
		if m.session == nil {
			return m, nil
		}
		m.events.Dispatch(spaces.MouseMove, ev)
		m.resolve()
	case tea.MouseActionRelease:
		if m.session == nil {
			return m, nil
		}
		m.events.Dispatch(spaces.MouseUp, ev)
		m.session = nil
		m.resolve()
	}
	return m, nil
}

// pointAt returns the pixel at the centre of a screen cell. It reports
// false for cells outside the layout area.
func (m *layoutModel) pointAt(x, y int) (spaces.Point, bool) {
	row := y - tuiHeaderLines
	p := spaces.Point{
		X: (float64(x) + 0.5) * m.cellW,
		Y: (float64(row) + 0.5) * m.cellH,
	}
	return p, x >= 0 && x < m.cols && row >= 0 && row < m.rows
}

// handleAt returns the top-most box whose handle overlaps the screen cell.
// Handles are usually thinner than a cell, so a centre hit test would miss.
func (m *layoutModel) handleAt(x, y int) (geometry.Box, bool) {
	area := spaces.Rect{
		X: float64(x) * m.cellW,
		Y: float64(y-tuiHeaderLines) * m.cellH,
		W: m.cellW,
		H: m.cellH,
	}
	for i := len(m.boxes) - 1; i >= 0; i-- {
		b := m.boxes[i]
		if b.HasHandle && overlaps(b.Handle, area) {
			return b, true
		}
	}
	return geometry.Box{}, false
}

func overlaps(a, b spaces.Rect) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}

func (m *layoutModel) labelOf(id string) string {
	if l, ok := m.labels[id]; ok {
		return l
	}
	return id
}

// =============================================================================
// View
// =============================================================================

func (m *layoutModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString(StyleDim.Render("  "+formatViewport(m.viewport)))
	b.WriteString("\n")

	g := newCellGrid(m.cols, m.rows)
	for _, box := range m.boxes {
		style := tuiBoxStyles[box.Depth%len(tuiBoxStyles)]
		if box.Resizing {
			style = tuiResizingStyle
		}
		g.box(m.cellRect(box.Rect), style)
		g.label(m.cellRect(box.Rect), m.labelOf(box.ID), tuiLabelStyle)
	}
	for _, box := range m.boxes {
		if !box.HasHandle {
			continue
		}
		style := tuiHandleStyle
		if box.Resizing {
			style = tuiResizingStyle
		}
		ch := '┃'
		if spaces.OrientationOf(box.Anchor) == spaces.Vertical {
			ch = '━'
		}
		g.fill(m.handleCells(box.Handle), ch, style)
	}
	b.WriteString(g.String())

	b.WriteString(StyleDim.Render(m.status + "  ·  r reset  esc cancel  q quit"))
	return b.String()
}

// cellRect rounds a pixel rect to cell coordinates.
func (m *layoutModel) cellRect(r spaces.Rect) cellBounds {
	return cellBounds{
		x0: int(math.Round(r.X / m.cellW)),
		y0: int(math.Round(r.Y / m.cellH)),
		x1: int(math.Round(r.Right() / m.cellW)),
		y1: int(math.Round(r.Bottom() / m.cellH)),
	}
}

// handleCells covers every cell a handle touches, at least one wide.
func (m *layoutModel) handleCells(r spaces.Rect) cellBounds {
	c := cellBounds{
		x0: int(math.Floor(r.X / m.cellW)),
		y0: int(math.Floor(r.Y / m.cellH)),
		x1: int(math.Ceil(r.Right() / m.cellW)),
		y1: int(math.Ceil(r.Bottom() / m.cellH)),
	}
	c.x1 = max(c.x1, c.x0+1)
	c.y1 = max(c.y1, c.y0+1)
	return c
}

// cellBounds is a half-open range of cells.
type cellBounds struct{ x0, y0, x1, y1 int }

type cell struct {
	ch    rune
	style *lipgloss.Style
}

// cellGrid is a character canvas; later draws overwrite earlier ones.
type cellGrid struct {
	w, h  int
	cells []cell
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i].ch = ' '
	}
	return g
}

func (g *cellGrid) set(x, y int, ch rune, style *lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{ch: ch, style: style}
}

func (g *cellGrid) fill(c cellBounds, ch rune, style lipgloss.Style) {
	for y := c.y0; y < c.y1; y++ {
		for x := c.x0; x < c.x1; x++ {
			g.set(x, y, ch, &style)
		}
	}
}

// box clears c and draws its border.
func (g *cellGrid) box(c cellBounds, style lipgloss.Style) {
	if c.x1 <= c.x0 || c.y1 <= c.y0 {
		return
	}
	g.fill(c, ' ', style)
	right, bottom := c.x1-1, c.y1-1
	for x := c.x0; x <= right; x++ {
		g.set(x, c.y0, '─', &style)
		g.set(x, bottom, '─', &style)
	}
	for y := c.y0; y <= bottom; y++ {
		g.set(c.x0, y, '│', &style)
		g.set(right, y, '│', &style)
	}
	g.set(c.x0, c.y0, '┌', &style)
	g.set(right, c.y0, '┐', &style)
	g.set(c.x0, bottom, '└', &style)
	g.set(right, bottom, '┘', &style)
}

// label writes text into the top border of c, truncated to fit.
func (g *cellGrid) label(c cellBounds, text string, style lipgloss.Style) {
	room := c.x1 - c.x0 - 2
	if room <= 0 || c.y1 <= c.y0 {
		return
	}
	runes := []rune(text)
	if len(runes) > room {
		runes = runes[:room]
	}
	for i, r := range runes {
		g.set(c.x0+1+i, c.y0, r, &style)
	}
}

// String renders the grid, one styled run per change of style.
func (g *cellGrid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		row := g.cells[y*g.w : (y+1)*g.w]
		for i := 0; i < len(row); {
			j := i
			var run strings.Builder
			for j < len(row) && row[j].style == row[i].style {
				run.WriteRune(row[j].ch)
				j++
			}
			if row[i].style != nil {
				b.WriteString(row[i].style.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			i = j
		}
		b.WriteString("\n")
	}
	return b.String()
}
