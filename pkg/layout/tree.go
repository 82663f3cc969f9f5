package layout

import (
	"math"

	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

const treeNodeRadius = 20

// TreeEngine renders a flat level-order sequence as a single row of
// uniformly spaced nodes. It does not reconstruct parent/child edges from
// the flat sequence; this is deliberately a minimal placeholder
// visualization rather than a full tree layout.
type TreeEngine struct {
	cfg Config
}

// NewTreeEngine creates a tree layout engine for the given canvas.
func NewTreeEngine(cfg Config) *TreeEngine {
	return &TreeEngine{cfg: cfg.normalize()}
}

// Layout places every value in one horizontal row. The step parameter is
// accepted for interface symmetry with the other engines but does not
// affect coloring: all nodes share the neutral color.
func (e *TreeEngine) Layout(p payload.Parsed, step int) *scene.Scene {
	s := scene.New(string(payload.KindTree), e.cfg.Width, e.cfg.Height)
	values := p.Tree
	if len(values) == 0 {
		return s
	}

	spacing := e.cfg.innerWidth() / float64(len(values))
	radius := math.Min(treeNodeRadius, spacing*0.4)
	cy := e.cfg.Height / 2

	for i, v := range values {
		cx := e.cfg.Padding + float64(i)*spacing + spacing/2
		s.Circles = append(s.Circles, scene.Circle{
			X: cx, Y: cy, R: radius, Phase: scene.PhaseNeutral,
		})
		s.Texts = append(s.Texts, scene.Text{X: cx, Y: cy, S: formatValue(v)})
	}

	return s
}
