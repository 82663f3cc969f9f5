package render

import (
	"strings"
	"testing"

	"github.com/dd0wney/algoviz/pkg/scene"
)

func sampleScene() *scene.Scene {
	s := scene.New("array", 800, 420)
	s.Rects = append(s.Rects,
		scene.Rect{ID: "bar-0", X: 40, Y: 100, W: 60, H: 200, Phase: scene.PhaseProcessed},
		scene.Rect{ID: "bar-1", X: 120, Y: 60, W: 60, H: 240, Phase: scene.PhaseCurrent, Emphasis: true},
	)
	s.Circles = append(s.Circles, scene.Circle{ID: "A", X: 400, Y: 200, R: 22, Phase: scene.PhaseNeutral})
	s.Lines = append(s.Lines,
		scene.Line{X1: 0, Y1: 0, X2: 10, Y2: 10, Arrow: true},
		scene.Line{X1: 5, Y1: 5, X2: 15, Y2: 15, Faint: true},
	)
	s.Texts = append(s.Texts, scene.Text{X: 70, Y: 320, S: "5 < 7 & 9"})
	return s
}

func TestSVGRenderElements(t *testing.T) {
	out := string(NewSVGRenderer().Render(sampleScene()))

	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatal("output is not a complete SVG document")
	}
	// Background rect plus the two scene rects.
	if got := strings.Count(out, "<rect"); got != 3 {
		t.Errorf("rect count = %d, want 3", got)
	}
	if got := strings.Count(out, "<circle"); got != 1 {
		t.Errorf("circle count = %d, want 1", got)
	}
	if got := strings.Count(out, "<line"); got != 2 {
		t.Errorf("line count = %d, want 2", got)
	}
	if !strings.Contains(out, `marker-end="url(#arrow)"`) {
		t.Error("arrowed line missing marker")
	}

	// Phase palette flows through.
	if !strings.Contains(out, scene.PhaseCurrent.Fill()) {
		t.Error("current fill color missing")
	}
	if !strings.Contains(out, scene.PhaseProcessed.Fill()) {
		t.Error("processed fill color missing")
	}
}

func TestSVGRenderEscapesText(t *testing.T) {
	out := string(NewSVGRenderer().Render(sampleScene()))
	if !strings.Contains(out, "5 &lt; 7 &amp; 9") {
		t.Error("text content not escaped")
	}
	if strings.Contains(out, "5 < 7 & 9") {
		t.Error("raw markup characters leaked into output")
	}
}

func TestSVGRenderDefaultsViewTransform(t *testing.T) {
	s := scene.New("graph", 800, 420)
	out := string(NewSVGRenderer().Render(s))
	if !strings.Contains(out, `scale(1)`) {
		t.Error("zero-value view should fall back to the identity transform")
	}

	s.View = scene.Transform{Scale: 2, TranslateX: 10, TranslateY: -5}
	out = string(NewSVGRenderer().Render(s))
	if !strings.Contains(out, `translate(10 -5) scale(2)`) {
		t.Errorf("view transform missing from output")
	}
}

func TestTermRenderNonEmpty(t *testing.T) {
	r := NewTermRenderer(60, 16)
	out := r.Render(sampleScene())

	lines := strings.Split(out, "\n")
	if len(lines) != 16 {
		t.Fatalf("expected 16 rows, got %d", len(lines))
	}
	if strings.TrimSpace(out) == "" {
		t.Error("rendered scene is blank")
	}
}

func TestTermRenderEmptySceneIsBlank(t *testing.T) {
	r := NewTermRenderer(40, 10)
	out := r.Render(scene.New("array", 800, 420))
	if strings.TrimSpace(out) != "" {
		t.Error("empty scene should render blank")
	}
}

func TestTermLineFaintnessFollowsScene(t *testing.T) {
	r := NewTermRenderer(40, 10)
	g := newGrid(40, 10)

	r.drawLine(g, scene.Line{X1: 0, Y1: 100, X2: 800, Y2: 100, Arrow: true}, 0.05, 10.0/420)
	r.drawLine(g, scene.Line{X1: 0, Y1: 300, X2: 800, Y2: 300, Faint: true}, 0.05, 10.0/420)

	// Row of the solid edge: full-strength cells. Row of the connector:
	// faint cells.
	yScale := 10.0 / 420
	solidRow := int(100 * yScale)
	faintRow := int(300 * yScale)
	for x := 0; x < g.cols; x++ {
		if c := g.cells[solidRow*g.cols+x]; c.r != ' ' && c.faint {
			t.Fatalf("solid line cell at x=%d rendered faint", x)
		}
		if c := g.cells[faintRow*g.cols+x]; c.r != ' ' && !c.faint {
			t.Fatalf("faint line cell at x=%d rendered solid", x)
		}
	}
}

func TestTermRenderIdempotent(t *testing.T) {
	r := NewTermRenderer(60, 16)
	s := sampleScene()
	if r.Render(s) != r.Render(s) {
		t.Error("same scene rendered differently on consecutive calls")
	}
}
