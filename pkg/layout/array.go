package layout

import (
	"strconv"

	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

// bandPadding is the fraction of each band left empty between bars.
const bandPadding = 0.15

// labelBand reserves vertical room under the bars for the stacked
// value/index labels.
const labelBand = 36

// ArrayEngine renders a number sequence as bars on a uniform banded scale.
type ArrayEngine struct {
	cfg Config
}

// NewArrayEngine creates an array layout engine for the given canvas.
func NewArrayEngine(cfg Config) *ArrayEngine {
	return &ArrayEngine{cfg: cfg.normalize()}
}

// Layout produces one bar per element. Bar i is colored by the shared rule
// against the step index; the current bar gets the emphasized border.
func (e *ArrayEngine) Layout(p payload.Parsed, step int) *scene.Scene {
	s := scene.New(string(payload.KindArray), e.cfg.Width, e.cfg.Height)
	values := p.Array
	if len(values) == 0 {
		return s
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		// Guard against all-zero and negative-only inputs.
		maxVal = 1
	}

	band := e.cfg.innerWidth() / float64(len(values))
	barW := band * (1 - bandPadding)
	plotH := e.cfg.innerHeight() - labelBand
	baseline := e.cfg.Padding + plotH

	for i, v := range values {
		phase := scene.PhaseFor(i, step)
		h := (v / maxVal) * plotH
		if h < 0 {
			h = 0
		}
		x := e.cfg.Padding + float64(i)*band + (band-barW)/2

		s.Rects = append(s.Rects, scene.Rect{
			ID:       "bar-" + strconv.Itoa(i),
			X:        x,
			Y:        baseline - h,
			W:        barW,
			H:        h,
			Phase:    phase,
			Emphasis: phase == scene.PhaseCurrent,
		})

		// Value label, then index label, stacked beneath the bar.
		cx := x + barW/2
		s.Texts = append(s.Texts,
			scene.Text{X: cx, Y: baseline + 14, S: formatValue(v), Phase: phase},
			scene.Text{X: cx, Y: baseline + 28, S: strconv.Itoa(i), Small: true},
		)
	}

	return s
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
