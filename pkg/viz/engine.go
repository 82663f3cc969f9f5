// Package viz ties the classifier, layout engines, and scene model into the
// render pipeline: a pure, idempotent function of (payload, step index).
package viz

import (
	"sync"
	"time"

	"github.com/dd0wney/algoviz/pkg/layout"
	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

// Engine derives a full scene from (visualization payload, step index). It
// never consults prior rendered output; only the graph engine's physics
// state survives between calls, keyed by payload content.
//
// Render calls are serialized by an internal lock so a new render can never
// begin before the previous one has finished building its scene.
type Engine struct {
	mu sync.Mutex

	cfg   layout.Config
	array *layout.ArrayEngine
	graph *layout.GraphEngine
	list  *layout.ListEngine
	tree  *layout.TreeEngine

	log     logging.Logger
	metrics *metrics.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics attaches a metrics registry; render counts and durations are
// recorded per structure kind.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an engine for the given canvas.
func New(cfg layout.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:   cfg,
		array: layout.NewArrayEngine(cfg),
		graph: layout.NewGraphEngine(cfg),
		list:  layout.NewListEngine(cfg),
		tree:  layout.NewTreeEngine(cfg),
		log:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render classifies the payload and produces the scene for the step.
// Unrecognized or malformed payloads yield an empty scene, never an error:
// the payload originates from an untrusted generator and "nothing to draw"
// is the correct degradation.
func (e *Engine) Render(raw payload.Raw, step int) *scene.Scene {
	return e.RenderParsed(payload.Parse(raw), step)
}

// RenderParsed renders an already-parsed payload. Hosts that render the
// same payload repeatedly should parse once and use this entry point.
func (e *Engine) RenderParsed(p payload.Parsed, step int) *scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	var s *scene.Scene

	switch p.Kind {
	case payload.KindArray:
		s = e.array.Layout(p, step)
	case payload.KindGraph:
		s = e.graph.Layout(p, step)
	case payload.KindLinkedList:
		s = e.list.Layout(p, step)
	case payload.KindTree:
		s = e.tree.Layout(p, step)
	default:
		s = scene.New(string(payload.KindUnknown), e.cfg.Width, e.cfg.Height)
		e.log.Warn("payload not renderable, emitting empty scene")
	}

	if e.metrics != nil {
		e.metrics.RecordRender(string(p.Kind), s.Empty(), time.Since(start))
	}
	e.log.Debug("scene rendered",
		logging.Structure(string(p.Kind)),
		logging.Step(step),
		logging.Count(s.ElementCount()),
	)
	return s
}

// Graph exposes the stateful graph engine for interaction handlers
// (drag, pulse, zoom, pan).
func (e *Engine) Graph() *layout.GraphEngine {
	return e.graph
}

// Reset discards the graph engine's physics state. Call on teardown or
// before loading an unrelated payload so stale simulation state cannot
// leak into the next session.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph.Reset()
}
