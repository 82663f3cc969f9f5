package layout

import (
	"math"

	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

const (
	graphNodeRadius = 22
	dragReheatAlpha = 0.3
	pulseTicks      = 8
	pulseAmplitude  = 6

	// Zoom bounds for the whole-group transform.
	minZoomScale = 0.2
	maxZoomScale = 5.0

	// How many physics ticks a single render may consume while the
	// simulation is still hot. Keeps a render bounded while the layout
	// converges over successive renders.
	ticksPerRender = 30
)

// GraphEngine renders graph payloads with a force-directed layout. Unlike
// the other engines it is stateful: physics positions, pin overrides, the
// zoom/pan transform, and pulse animations persist across renders so the
// diagram stays visually continuous while steps advance. New data (a
// changed node or edge set) discards the old simulation entirely.
type GraphEngine struct {
	cfg   Config
	force ForceConfig

	sim     *Simulation
	dataKey string
	view    scene.Transform
	pulses  map[string]int
}

// NewGraphEngine creates a graph layout engine for the given canvas.
func NewGraphEngine(cfg Config) *GraphEngine {
	return &GraphEngine{
		cfg:    cfg.normalize(),
		force:  DefaultForceConfig(),
		view:   scene.Identity(),
		pulses: make(map[string]int),
	}
}

// SetForceConfig overrides the physics tuning. Takes effect on the next
// data change.
func (e *GraphEngine) SetForceConfig(fc ForceConfig) {
	e.force = fc
}

// Layout renders the graph for the given step. The simulation is advanced
// a bounded number of ticks per call; repeated renders with identical data
// converge on the settled layout and then become pure.
func (e *GraphEngine) Layout(p payload.Parsed, step int) *scene.Scene {
	s := scene.New(string(payload.KindGraph), e.cfg.Width, e.cfg.Height)
	s.View = e.view

	g := p.Graph
	if g == nil || len(g.Nodes) == 0 {
		return s
	}

	e.ensureSimulation(g)
	e.sim.RunToStable(ticksPerRender)

	edges := g.Edges()
	for _, edge := range edges {
		from, to := e.sim.Node(edge[0]), e.sim.Node(edge[1])
		if from == nil || to == nil {
			continue
		}
		s.Lines = append(s.Lines, scene.Line{
			X1: from.X, Y1: from.Y + e.pulseOffset(from.ID),
			X2: to.X, Y2: to.Y + e.pulseOffset(to.ID),
			Arrow: true,
		})
	}

	for _, n := range g.Nodes {
		sn := e.sim.Node(n.ID)
		if sn == nil {
			continue
		}
		phase := graphPhase(n, step)
		s.Circles = append(s.Circles, scene.Circle{
			ID:       n.ID,
			X:        sn.X,
			Y:        sn.Y + e.pulseOffset(n.ID),
			R:        graphNodeRadius,
			Phase:    phase,
			Emphasis: phase == scene.PhaseCurrent,
		})
		s.Texts = append(s.Texts, scene.Text{
			X: sn.X, Y: sn.Y + e.pulseOffset(n.ID), S: n.ID,
		})
	}

	e.decayPulses()
	return s
}

// graphPhase colors a node for the step. The first step always renders the
// whole graph in the neutral start color; traversal has not begun yet.
func graphPhase(n payload.GraphNode, step int) scene.Phase {
	if step == 0 {
		return scene.PhaseNeutral
	}
	switch {
	case n.Current:
		return scene.PhaseCurrent
	case n.Visited:
		return scene.PhaseProcessed
	default:
		return scene.PhasePending
	}
}

// ensureSimulation builds a fresh simulation when the node/edge set
// changes, and keeps the existing one (with its positions and pins)
// otherwise.
func (e *GraphEngine) ensureSimulation(g *payload.GraphData) {
	key := graphKey(g)
	if e.sim != nil && key == e.dataKey {
		return
	}

	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}

	cx, cy := e.cfg.Width/2, e.cfg.Height/2
	radius := math.Min(e.cfg.innerWidth(), e.cfg.innerHeight()) / 2
	e.sim = NewSimulation(e.force, ids, g.Edges(), cx, cy, radius)
	e.dataKey = key
	e.pulses = make(map[string]int)
}

// graphKey fingerprints the structural content of the payload so renders
// with identical data reuse the running simulation.
func graphKey(g *payload.GraphData) string {
	key := ""
	for _, n := range g.Nodes {
		key += n.ID + ";"
	}
	key += "|"
	for _, edge := range g.Edges() {
		key += edge[0] + ">" + edge[1] + ";"
	}
	return key
}

// StartDrag pins the node at its current position and reheats the
// simulation so neighbors adjust around it.
func (e *GraphEngine) StartDrag(id string) {
	if e.sim == nil {
		return
	}
	n := e.sim.Node(id)
	if n == nil {
		return
	}
	n.Pin(n.X, n.Y)
	e.sim.Reheat(dragReheatAlpha)
}

// Drag moves a pinned node to (x, y).
func (e *GraphEngine) Drag(id string, x, y float64) {
	if e.sim == nil {
		return
	}
	if n := e.sim.Node(id); n != nil {
		n.Pin(x, y)
	}
}

// EndDrag releases the pin; the node rejoins the simulation.
func (e *GraphEngine) EndDrag(id string) {
	if e.sim == nil {
		return
	}
	if n := e.sim.Node(id); n != nil {
		n.Unpin()
	}
	e.sim.Cool()
}

// Pulse starts a transient bounce on a node. The animation is cosmetic:
// it offsets the rendered position for a few renders and never touches
// the simulation state.
func (e *GraphEngine) Pulse(id string) {
	if e.sim != nil && e.sim.Node(id) != nil {
		e.pulses[id] = pulseTicks
	}
}

func (e *GraphEngine) pulseOffset(id string) float64 {
	remaining, ok := e.pulses[id]
	if !ok || remaining <= 0 {
		return 0
	}
	progress := float64(pulseTicks-remaining) / float64(pulseTicks)
	return -pulseAmplitude * math.Sin(math.Pi*progress)
}

func (e *GraphEngine) decayPulses() {
	for id, remaining := range e.pulses {
		if remaining <= 1 {
			delete(e.pulses, id)
			continue
		}
		e.pulses[id] = remaining - 1
	}
}

// Zoom scales the whole-group view transform, clamped to the bounded range.
func (e *GraphEngine) Zoom(scale float64) {
	e.view.Scale = math.Min(math.Max(scale, minZoomScale), maxZoomScale)
}

// Pan translates the whole-group view transform.
func (e *GraphEngine) Pan(dx, dy float64) {
	e.view.TranslateX += dx
	e.view.TranslateY += dy
}

// View returns the current zoom/pan transform.
func (e *GraphEngine) View() scene.Transform {
	return e.view
}

// Simulation exposes the physics state, mainly for the host's drag
// hit-testing and for tests.
func (e *GraphEngine) Simulation() *Simulation {
	return e.sim
}

// Reset discards all physics state, pins, pulses, and the view transform.
// Call when the component is torn down or handed an unrelated payload.
func (e *GraphEngine) Reset() {
	e.sim = nil
	e.dataKey = ""
	e.view = scene.Identity()
	e.pulses = make(map[string]int)
}
