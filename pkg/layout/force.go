package layout

import (
	"math"
)

// ForceConfig tunes the graph physics. The defaults are critically damped:
// alpha decays geometrically, so the simulation settles within a bounded
// number of ticks instead of oscillating.
type ForceConfig struct {
	Repulsion       float64 // pairwise repulsive charge
	SpringLength    float64 // target distance along edges
	SpringStiffness float64 // attraction strength toward SpringLength
	Gravity         float64 // centering pull toward the canvas center
	CollideRadius   float64 // minimum half-separation between node centers
	Damping         float64 // velocity decay per tick
	AlphaDecay      float64 // per-tick approach rate toward alphaTarget
	AlphaMin        float64 // below this the simulation counts as settled
	MaxTicks        int     // hard ceiling regardless of alpha
}

// DefaultForceConfig returns the tuned parameter set.
func DefaultForceConfig() ForceConfig {
	return ForceConfig{
		Repulsion:       2500,
		SpringLength:    100,
		SpringStiffness: 0.05,
		Gravity:         0.02,
		CollideRadius:   26,
		Damping:         0.85,
		AlphaDecay:      0.05,
		AlphaMin:        0.005,
		MaxTicks:        500,
	}
}

// SimNode carries the physics state for one graph node. Pinned overrides
// (dragging) hold the node at a fixed position until released.
type SimNode struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Pinned bool
	PX, PY float64
}

// Pin fixes the node at (x, y); the simulation will not move it.
func (n *SimNode) Pin(x, y float64) {
	n.Pinned = true
	n.PX, n.PY = x, y
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
}

// Unpin releases the node back to the simulation.
func (n *SimNode) Unpin() {
	n.Pinned = false
}

// Simulation is an iterative force relaxation over a fixed node set.
// State persists across renders by stable node id.
type Simulation struct {
	cfg    ForceConfig
	nodes  []*SimNode
	index  map[string]*SimNode
	links  [][2]*SimNode
	cx, cy float64

	alpha       float64
	alphaTarget float64
	ticks       int
}

// NewSimulation seeds nodes evenly around a circle centered on (cx, cy);
// the circle is the deterministic starting layout the relaxation refines.
func NewSimulation(cfg ForceConfig, ids []string, edges [][2]string, cx, cy, radius float64) *Simulation {
	s := &Simulation{
		cfg:   cfg,
		index: make(map[string]*SimNode, len(ids)),
		cx:    cx,
		cy:    cy,
		alpha: 1,
	}

	n := len(ids)
	for i, id := range ids {
		angle := 2 * math.Pi * float64(i) / float64(max(n, 1))
		node := &SimNode{
			ID: id,
			X:  cx + radius*math.Cos(angle),
			Y:  cy + radius*math.Sin(angle),
		}
		s.nodes = append(s.nodes, node)
		s.index[id] = node
	}

	for _, e := range edges {
		from, okFrom := s.index[e[0]]
		to, okTo := s.index[e[1]]
		if !okFrom || !okTo || from == to {
			continue
		}
		s.links = append(s.links, [2]*SimNode{from, to})
	}

	return s
}

// Node returns the physics state for id, or nil if unknown.
func (s *Simulation) Node(id string) *SimNode {
	return s.index[id]
}

// Nodes returns the simulation's nodes in declaration order.
func (s *Simulation) Nodes() []*SimNode {
	return s.nodes
}

// Alpha returns the current simulation energy.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Settled reports whether the relaxation has cooled below AlphaMin (with no
// reheat target holding it up) or hit the tick ceiling.
func (s *Simulation) Settled() bool {
	if s.cfg.MaxTicks > 0 && s.ticks >= s.cfg.MaxTicks {
		return true
	}
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

// Reheat raises the simulation energy, used when a drag begins so the rest
// of the graph adjusts around the pinned node.
func (s *Simulation) Reheat(target float64) {
	s.alphaTarget = target
	if s.alpha < target {
		s.alpha = target
	}
	s.ticks = 0
}

// Cool clears the reheat target so the simulation can settle again.
func (s *Simulation) Cool() {
	s.alphaTarget = 0
}

// Tick advances the relaxation by one time step. It is a no-op once the
// simulation has settled, so render loops may call it unconditionally.
func (s *Simulation) Tick() {
	if s.Settled() || len(s.nodes) == 0 {
		return
	}
	s.ticks++
	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	// Pairwise repulsion.
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			distSq := dx*dx + dy*dy
			if distSq < 0.01 {
				distSq = 0.01
				dx = 0.1
			}
			dist := math.Sqrt(distSq)
			force := s.cfg.Repulsion * s.alpha / distSq
			fx, fy := (dx/dist)*force, (dy/dist)*force
			a.VX += fx
			a.VY += fy
			b.VX -= fx
			b.VY -= fy
		}
	}

	// Link attraction toward the target distance.
	for _, link := range s.links {
		a, b := link[0], link[1]
		dx, dy := b.X-a.X, b.Y-a.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < 0.01 {
			continue
		}
		force := (dist - s.cfg.SpringLength) * s.cfg.SpringStiffness * s.alpha
		fx, fy := (dx/dist)*force, (dy/dist)*force
		a.VX += fx
		a.VY += fy
		b.VX -= fx
		b.VY -= fy
	}

	// Centering.
	for _, n := range s.nodes {
		n.VX += (s.cx - n.X) * s.cfg.Gravity * s.alpha
		n.VY += (s.cy - n.Y) * s.cfg.Gravity * s.alpha
	}

	// Integrate with damping; pinned nodes stay put.
	for _, n := range s.nodes {
		if n.Pinned {
			n.X, n.Y = n.PX, n.PY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= s.cfg.Damping
		n.VY *= s.cfg.Damping
		n.X += n.VX
		n.Y += n.VY
	}

	// Collision avoidance: enforce the minimum separation directly.
	minSep := 2 * s.cfg.CollideRadius
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= minSep {
				continue
			}
			if dist < 0.01 {
				dist = 0.01
				dx = 0.1
			}
			push := (minSep - dist) / 2
			px, py := (dx/dist)*push, (dy/dist)*push
			if !a.Pinned {
				a.X -= px
				a.Y -= py
			}
			if !b.Pinned {
				b.X += px
				b.Y += py
			}
		}
	}
}

// RunToStable ticks until the simulation settles or limit ticks elapse.
// It returns the number of ticks executed.
func (s *Simulation) RunToStable(limit int) int {
	ran := 0
	for ran < limit && !s.Settled() {
		s.Tick()
		ran++
	}
	return ran
}
