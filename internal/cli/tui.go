package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unleex/simchain/pkg/chain"
	"github.com/unleex/simchain/pkg/style"
)

// =============================================================================
// Interaction Tuning
// =============================================================================

const (
	// dragSpeed damps mouse-drag panning.
	dragSpeed = 0.7

	// Zoom steps resize the visible extent: a step in shrinks it to 0.8x,
	// a step out grows it to 1.2x. Zoom re-centers on the viewport midpoint.
	zoomInRate  = 0.8
	zoomOutRate = 1.2

	minZoom = 0.1
	maxZoom = 16.0

	// Keyboard pan step in terminal cells. Columns are roughly half as
	// wide as rows are tall, so horizontal steps are doubled.
	panStepX = 4
	panStepY = 2
)

// =============================================================================
// CanvasModel - Interactive Chain Viewer
// =============================================================================

// nodeWidget is one positioned, labeled, colored product on the canvas.
type nodeWidget struct {
	ID     int
	Label  string
	PPHPL  float64
	Pos    chain.Position
	Colors style.Style
}

// canvasModel is the bubbletea model for the chain viewer. The layout's
// abstract canvas is projected onto the terminal grid; pan offsets are
// kept in terminal cells, zoom is a unitless scale factor.
type canvasModel struct {
	canvas  chain.Size
	widgets []nodeWidget

	zoom    float64
	offsetX float64
	offsetY float64

	width  int
	height int

	dragging bool
	dragX    int
	dragY    int
}

// newCanvasModel creates the viewer model. Widgets are sorted into
// reading order so overlap resolution is deterministic.
func newCanvasModel(canvas chain.Size, widgets []nodeWidget) canvasModel {
	sort.Slice(widgets, func(i, j int) bool {
		if widgets[i].Pos.Y != widgets[j].Pos.Y {
			return widgets[i].Pos.Y < widgets[j].Pos.Y
		}
		if widgets[i].Pos.X != widgets[j].Pos.X {
			return widgets[i].Pos.X < widgets[j].Pos.X
		}
		return widgets[i].ID < widgets[j].ID
	})
	return canvasModel{canvas: canvas, widgets: widgets, zoom: 1}
}

func (m canvasModel) Init() tea.Cmd {
	return nil
}

func (m canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.offsetX += panStepX
		case "right", "l":
			m.offsetX -= panStepX
		case "up", "k":
			m.offsetY += panStepY
		case "down", "j":
			m.offsetY -= panStepY
		case "+", "=":
			m.zoomBy(1 / zoomInRate)
		case "-", "_":
			m.zoomBy(1 / zoomOutRate)
		case "0", "r":
			m.zoom = 1
			m.offsetX = 0
			m.offsetY = 0
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

// handleMouse implements drag panning and wheel zooming.
func (m *canvasModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.dragging = true
			m.dragX = msg.X
			m.dragY = msg.Y
		case tea.MouseButtonWheelUp:
			m.zoomBy(1 / zoomInRate)
		case tea.MouseButtonWheelDown:
			m.zoomBy(1 / zoomOutRate)
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.offsetX += float64(msg.X-m.dragX) * dragSpeed
			m.offsetY += float64(msg.Y-m.dragY) * dragSpeed
			m.dragX = msg.X
			m.dragY = msg.Y
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
}

// zoomBy scales the view by factor and re-centers on the viewport
// midpoint, so the product under the center stays put.
func (m *canvasModel) zoomBy(factor float64) {
	next := m.zoom * factor
	if next < minZoom || next > maxZoom {
		return
	}
	m.zoom = next

	cx := float64(m.width) / 2
	cy := float64(m.height-1) / 2
	m.offsetX = cx*(1-factor) + m.offsetX*factor
	m.offsetY = cy*(1-factor) + m.offsetY*factor
}

func (m canvasModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	viewHeight := m.height - 1 // bottom line is the status bar
	scaleX := m.zoom * float64(m.width) / float64(m.canvas.Width)
	scaleY := m.zoom * float64(viewHeight) / float64(m.canvas.Height)

	type placed struct {
		col int
		w   nodeWidget
	}
	rows := make(map[int][]placed)
	for _, w := range m.widgets {
		col := int(float64(w.Pos.X)*scaleX + m.offsetX)
		row := int(float64(w.Pos.Y)*scaleY + m.offsetY)
		if row < 0 || row >= viewHeight {
			continue
		}
		rows[row] = append(rows[row], placed{col: col, w: w})
	}

	var b strings.Builder
	for row := 0; row < viewHeight; row++ {
		cursor := 0
		for _, p := range rows[row] {
			cell := " " + p.w.Label + " "
			if p.col < cursor || p.col >= m.width {
				continue // clipped or overlapped by an earlier widget
			}
			if over := p.col + len([]rune(cell)) - m.width; over > 0 {
				runes := []rune(cell)
				cell = string(runes[:len(runes)-over])
			}
			b.WriteString(strings.Repeat(" ", p.col-cursor))
			b.WriteString(renderWidget(p.w, cell))
			cursor = p.col + len([]rune(cell))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	return b.String()
}

// renderWidget paints a label cell with its profitability colors.
func renderWidget(w nodeWidget, cell string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(w.Colors.Foreground.Hex())).
		Background(lipgloss.Color(w.Colors.Background.Hex())).
		Render(cell)
}

func (m canvasModel) statusLine() string {
	info := fmt.Sprintf(" %d products · zoom %.0f%%", len(m.widgets), m.zoom*100)
	hints := "arrows pan · +/- zoom · 0 reset · q quit "

	pad := m.width - len([]rune(info)) - len([]rune(hints))
	if pad < 1 {
		return StyleDim.Render(info)
	}
	return StyleDim.Render(info + strings.Repeat(" ", pad) + hints)
}
