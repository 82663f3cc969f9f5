package layout

import (
	"math"

	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

const (
	listBoxHeight   = 48
	listMaxBoxWidth = 96
	listDataShare   = 0.6 // fraction of the box given to the data compartment
	stripCellHeight = 30
	stripMaxCellW   = 44
)

// ListEngine renders linked-list payloads: two-compartment node boxes with
// pointer arrows, head/tail markers, a circularity indicator, and a
// synchronized array-representation strip beneath the diagram.
type ListEngine struct {
	cfg Config
}

// NewListEngine creates a linked-list layout engine for the given canvas.
func NewListEngine(cfg Config) *ListEngine {
	return &ListEngine{cfg: cfg.normalize()}
}

// Layout positions nodes left to right at uniform spacing. Coloring follows
// the shared step rule on list position; connection arrows are drawn for
// every declared connection regardless of coloring.
func (e *ListEngine) Layout(p payload.Parsed, step int) *scene.Scene {
	s := scene.New(string(payload.KindLinkedList), e.cfg.Width, e.cfg.Height)
	l := p.List
	if l == nil || len(l.Nodes) == 0 {
		return s
	}

	n := len(l.Nodes)
	spacing := e.cfg.innerWidth() / float64(n)
	boxW := math.Min(listMaxBoxWidth, spacing*0.8)
	boxY := e.cfg.Padding + e.cfg.innerHeight()*0.30 - listBoxHeight/2

	// Index the horizontal geometry by node id for arrows and markers.
	type geom struct {
		index int
		x     float64 // left edge of the box
	}
	byID := make(map[string]geom, n)

	next := make(map[string]string, len(l.Connections))
	for _, c := range l.Connections {
		if _, claimed := next[c.From]; !claimed {
			next[c.From] = c.To
		}
	}

	for i, node := range l.Nodes {
		x := e.cfg.Padding + float64(i)*spacing + (spacing-boxW)/2
		byID[node.ID] = geom{index: i, x: x}
		phase := scene.PhaseFor(i, step)

		dataW := boxW * listDataShare
		ptrW := boxW - dataW

		s.Rects = append(s.Rects,
			scene.Rect{
				ID: "data-" + node.ID, X: x, Y: boxY, W: dataW, H: listBoxHeight,
				Phase: phase, Emphasis: phase == scene.PhaseCurrent,
			},
			scene.Rect{
				ID: "ptr-" + node.ID, X: x + dataW, Y: boxY, W: ptrW, H: listBoxHeight,
				Phase: phase,
			},
		)

		pointerLabel := "/"
		if to, ok := next[node.ID]; ok {
			pointerLabel = to
		}
		s.Texts = append(s.Texts,
			scene.Text{X: x + dataW/2, Y: boxY + listBoxHeight/2, S: formatValue(node.Value), Phase: phase},
			scene.Text{X: x + dataW + ptrW/2, Y: boxY + listBoxHeight/2, S: pointerLabel, Small: true},
			scene.Text{X: x + boxW/2, Y: boxY + listBoxHeight + 12, S: node.ID, Small: true},
		)
	}

	// Pointer arrows: from the pointer compartment of the source to the
	// left edge of the target. Every declared connection is drawn.
	for _, c := range l.Connections {
		from, okFrom := byID[c.From]
		to, okTo := byID[c.To]
		if !okFrom || !okTo {
			continue
		}
		s.Lines = append(s.Lines, scene.Line{
			X1: from.x + boxW, Y1: boxY + listBoxHeight/2,
			X2: to.x, Y2: boxY + listBoxHeight/2,
			Arrow: true,
		})
	}

	// Head marker above the node, tail marker below; both optional, and
	// both may be declared (doubly-linked visualizations set each).
	if head, ok := byID[l.HeadID()]; ok && l.HeadID() != "" {
		cx := head.x + boxW/2
		s.Texts = append(s.Texts, scene.Text{X: cx, Y: boxY - 26, S: "HEAD"})
		s.Lines = append(s.Lines, scene.Line{X1: cx, Y1: boxY - 18, X2: cx, Y2: boxY - 2, Arrow: true})
	}
	if tail, ok := byID[l.TailID()]; ok && l.TailID() != "" {
		cx := tail.x + boxW/2
		bottom := boxY + listBoxHeight
		s.Texts = append(s.Texts, scene.Text{X: cx, Y: bottom + 38, S: "TAIL"})
		s.Lines = append(s.Lines, scene.Line{X1: cx, Y1: bottom + 30, X2: cx, Y2: bottom + 14, Arrow: true})
	}

	if l.IsCircular() {
		s.Circular = true
		s.Texts = append(s.Texts, scene.Text{
			X: e.cfg.Width - e.cfg.Padding - 30, Y: e.cfg.Padding, S: "circular",
		})
	}

	e.layoutStrip(s, l, step, spacing, boxW, boxY)
	return s
}

// layoutStrip renders the array-representation strip: one cell per node in
// list order with the identical step coloring, plus a faint connector from
// each node box down to its cell. The strip makes the point that list
// order is independent of any underlying storage order.
func (e *ListEngine) layoutStrip(s *scene.Scene, l *payload.ListData, step int, spacing, boxW, boxY float64) {
	n := len(l.Nodes)
	cellW := math.Min(stripMaxCellW, spacing*0.6)
	rowW := cellW * float64(n)
	startX := e.cfg.Padding + (e.cfg.innerWidth()-rowW)/2
	cellY := e.cfg.Padding + e.cfg.innerHeight()*0.78

	for i, node := range l.Nodes {
		phase := scene.PhaseFor(i, step)
		x := startX + float64(i)*cellW

		s.Rects = append(s.Rects, scene.Rect{
			ID: "cell-" + node.ID, X: x, Y: cellY, W: cellW, H: stripCellHeight,
			Phase: phase, Emphasis: phase == scene.PhaseCurrent,
		})
		s.Texts = append(s.Texts, scene.Text{
			X: x + cellW/2, Y: cellY + stripCellHeight/2, S: formatValue(node.Value), Phase: phase,
		})

		boxCX := e.cfg.Padding + float64(i)*spacing + spacing/2
		s.Lines = append(s.Lines, scene.Line{
			X1: boxCX, Y1: boxY + listBoxHeight + 44,
			X2: x + cellW/2, Y2: cellY,
			Faint: true,
		})
	}
}
