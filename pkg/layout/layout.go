// Package layout turns parsed visualization payloads into scene graphs.
//
// Every engine is a pure function of (data, step index) except the graph
// engine, which keeps physics state (node positions, pin overrides) across
// renders so the diagram does not jump between steps.
package layout

import (
	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

// Config describes the canvas all engines lay out into.
type Config struct {
	Width   float64
	Height  float64
	Padding float64
}

// DefaultConfig returns the canvas used when the host supplies nothing.
func DefaultConfig() Config {
	return Config{Width: 800, Height: 420, Padding: 40}
}

// normalize fills zero fields so engines can divide safely.
func (c Config) normalize() Config {
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 420
	}
	if c.Padding <= 0 {
		c.Padding = 40
	}
	return c
}

func (c Config) innerWidth() float64  { return c.Width - 2*c.Padding }
func (c Config) innerHeight() float64 { return c.Height - 2*c.Padding }

// Engine renders one structure kind for a given step index.
type Engine interface {
	Layout(p payload.Parsed, step int) *scene.Scene
}
