// Package render draws scene graphs. Renderers are stateless: each call
// starts from an empty canvas and emits the complete output for the scene,
// so redrawing the same scene is idempotent by construction.
package render

import (
	"fmt"
	"strings"

	"github.com/dd0wney/algoviz/pkg/scene"
)

// SVGRenderer serializes a scene to a standalone SVG document. The whole
// scene sits inside one group carrying the zoom/pan transform, matching the
// rule that zoom transforms the group rather than element positions.
type SVGRenderer struct {
	Background string
}

// NewSVGRenderer creates a renderer with the default background.
func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{Background: "#0b1220"}
}

// Render emits the SVG document for one scene.
func (r *SVGRenderer) Render(s *scene.Scene) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`,
		s.Width, s.Height, s.Width, s.Height)
	b.WriteString("\n")
	b.WriteString(`<defs><marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="#cbd5e1"/></marker></defs>` + "\n")
	fmt.Fprintf(&b, `<rect width="%g" height="%g" fill="%s"/>`, s.Width, s.Height, r.Background)
	b.WriteString("\n")

	view := s.View
	if view.Scale == 0 {
		view = scene.Identity()
	}
	fmt.Fprintf(&b, `<g transform="translate(%g %g) scale(%g)">`, view.TranslateX, view.TranslateY, view.Scale)
	b.WriteString("\n")

	for _, line := range s.Lines {
		stroke := "#cbd5e1"
		opacity := "1"
		if line.Faint {
			stroke = "#475569"
			opacity = "0.5"
		}
		marker := ""
		if line.Arrow {
			marker = ` marker-end="url(#arrow)"`
		}
		fmt.Fprintf(&b, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-opacity="%s" stroke-width="1.5"%s/>`,
			line.X1, line.Y1, line.X2, line.Y2, stroke, opacity, marker)
		b.WriteString("\n")
	}

	for _, rect := range s.Rects {
		fmt.Fprintf(&b, `<rect x="%g" y="%g" width="%g" height="%g" rx="3" fill="%s" stroke="%s" stroke-width="%g"/>`,
			rect.X, rect.Y, rect.W, rect.H,
			rect.Phase.Fill(), rect.Phase.Stroke(), strokeWidth(rect.Phase, rect.Emphasis))
		b.WriteString("\n")
	}

	for _, c := range s.Circles {
		fmt.Fprintf(&b, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="%g"/>`,
			c.X, c.Y, c.R, c.Phase.Fill(), c.Phase.Stroke(), strokeWidth(c.Phase, c.Emphasis))
		b.WriteString("\n")
	}

	for _, t := range s.Texts {
		size := 13
		if t.Small {
			size = 10
		}
		fmt.Fprintf(&b, `<text x="%g" y="%g" font-size="%d" fill="#e2e8f0" text-anchor="middle" dominant-baseline="middle" font-family="monospace">%s</text>`,
			t.X, t.Y, size, escapeText(t.S))
		b.WriteString("\n")
	}

	b.WriteString("</g>\n</svg>\n")
	return []byte(b.String())
}

func strokeWidth(p scene.Phase, emphasis bool) float64 {
	w := p.StrokeWidth()
	if emphasis && w < 3 {
		w = 3
	}
	return w
}

func escapeText(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
