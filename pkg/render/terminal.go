package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/algoviz/pkg/scene"
)

// TermRenderer rasterizes a scene onto a character cell grid, colored with
// lipgloss styles that mirror the phase palette. The grid is rebuilt from
// scratch on every call; nothing leaks between renders.
type TermRenderer struct {
	Cols int
	Rows int

	styles map[scene.Phase]lipgloss.Style
	faint  lipgloss.Style
	text   lipgloss.Style
}

// NewTermRenderer creates a renderer for a Cols x Rows cell viewport.
func NewTermRenderer(cols, rows int) *TermRenderer {
	if cols < 20 {
		cols = 20
	}
	if rows < 8 {
		rows = 8
	}
	styles := make(map[scene.Phase]lipgloss.Style, 4)
	for _, p := range []scene.Phase{
		scene.PhasePending, scene.PhaseCurrent, scene.PhaseProcessed, scene.PhaseNeutral,
	} {
		styles[p] = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fill()))
	}
	styles[scene.PhaseCurrent] = styles[scene.PhaseCurrent].Bold(true)

	return &TermRenderer{
		Cols:   cols,
		Rows:   rows,
		styles: styles,
		faint:  lipgloss.NewStyle().Foreground(lipgloss.Color("#475569")),
		text:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0")),
	}
}

type cell struct {
	r     rune
	phase scene.Phase
	faint bool
	text  bool
}

type grid struct {
	cols, rows int
	cells      []cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i] = cell{r: ' '}
	}
	return g
}

func (g *grid) set(x, y int, c cell) {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return
	}
	g.cells[y*g.cols+x] = c
}

// Render draws the scene and returns the styled multi-line string.
func (r *TermRenderer) Render(s *scene.Scene) string {
	g := newGrid(r.Cols, r.Rows)

	if s.Width <= 0 || s.Height <= 0 {
		return r.flush(g)
	}
	sx := float64(r.Cols) / s.Width
	sy := float64(r.Rows) / s.Height

	for _, line := range s.Lines {
		r.drawLine(g, line, sx, sy)
	}
	for _, rect := range s.Rects {
		r.drawRect(g, rect, sx, sy)
	}
	for _, c := range s.Circles {
		r.drawCircle(g, c, sx, sy)
	}
	for _, t := range s.Texts {
		r.drawText(g, t, sx, sy)
	}

	return r.flush(g)
}

func (r *TermRenderer) drawRect(g *grid, rect scene.Rect, sx, sy float64) {
	x1, y1 := int(rect.X*sx), int(rect.Y*sy)
	x2, y2 := int((rect.X+rect.W)*sx), int((rect.Y+rect.H)*sy)
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	fill := '█'
	if rect.Emphasis {
		fill = '▓'
	}
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			g.set(x, y, cell{r: fill, phase: rect.Phase})
		}
	}
}

func (r *TermRenderer) drawCircle(g *grid, c scene.Circle, sx, sy float64) {
	cx, cy := int(c.X*sx), int(c.Y*sy)
	glyph := '●'
	if c.Emphasis {
		glyph = '◉'
	}
	g.set(cx, cy, cell{r: glyph, phase: c.Phase})
}

func (r *TermRenderer) drawLine(g *grid, line scene.Line, sx, sy float64) {
	x1, y1 := int(line.X1*sx), int(line.Y1*sy)
	x2, y2 := int(line.X2*sx), int(line.Y2*sy)

	steps := abs(x2-x1)
	if abs(y2-y1) > steps {
		steps = abs(y2 - y1)
	}
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		x := x1 + (x2-x1)*i/steps
		y := y1 + (y2-y1)*i/steps
		g.set(x, y, cell{r: '·', faint: line.Faint, text: !line.Faint})
	}
	if line.Arrow {
		g.set(x2, y2, cell{r: '▸', faint: line.Faint, text: !line.Faint})
	}
}

func (r *TermRenderer) drawText(g *grid, t scene.Text, sx, sy float64) {
	runes := []rune(t.S)
	x := int(t.X*sx) - len(runes)/2
	y := int(t.Y * sy)
	for i, ch := range runes {
		g.set(x+i, y, cell{r: ch, phase: t.Phase, text: true})
	}
}

func (r *TermRenderer) flush(g *grid) string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			c := g.cells[y*g.cols+x]
			switch {
			case c.r == ' ':
				b.WriteRune(' ')
			case c.text:
				b.WriteString(r.text.Render(string(c.r)))
			case c.faint:
				b.WriteString(r.faint.Render(string(c.r)))
			default:
				b.WriteString(r.styles[c.phase].Render(string(c.r)))
			}
		}
		if y < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
