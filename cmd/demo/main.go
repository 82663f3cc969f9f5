// algoviz-demo renders an algorithm fixture offline: one SVG per step plus
// a compressed recording of the whole session. No translation endpoint or
// terminal needed.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/algoviz/pkg/layout"
	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/render"
	"github.com/dd0wney/algoviz/pkg/viz"
)

func main() {
	fixturePath := flag.String("fixture", "examples/bubble_sort.yaml", "path to YAML algorithm fixture")
	outDir := flag.String("out", "out", "output directory for SVG frames")
	recordingPath := flag.String("recording", "", "optional path for the compressed session recording")
	flag.Parse()

	log := logging.DefaultLogger()

	data, err := payload.LoadFixture(*fixturePath)
	if err != nil {
		log.Error("failed to load fixture", logging.Error(err))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error("failed to create output directory", logging.Error(err))
		os.Exit(1)
	}

	engine := viz.New(layout.DefaultConfig(), viz.WithLogger(log))
	svg := render.NewSVGRenderer()
	parsed := payload.Parse(data.Visualization)

	var recorder *render.Recorder
	if *recordingPath != "" {
		f, err := os.Create(*recordingPath)
		if err != nil {
			log.Error("failed to create recording file", logging.Error(err))
			os.Exit(1)
		}
		defer f.Close()
		recorder = render.NewRecorder(f)
	}

	for step := range data.Steps {
		sc := engine.RenderParsed(parsed, step)

		framePath := filepath.Join(*outDir, fmt.Sprintf("step_%03d.svg", step))
		if err := os.WriteFile(framePath, svg.Render(sc), 0o644); err != nil {
			log.Error("failed to write frame", logging.Step(step), logging.Error(err))
			os.Exit(1)
		}

		if recorder != nil {
			if err := recorder.WriteFrame(step, sc); err != nil {
				log.Error("failed to record frame", logging.Step(step), logging.Error(err))
				os.Exit(1)
			}
		}
	}

	if recorder != nil {
		if err := recorder.Flush(); err != nil {
			log.Error("failed to flush recording", logging.Error(err))
			os.Exit(1)
		}
		log.Info("recording written",
			logging.String("path", *recordingPath),
			logging.Count(recorder.Frames()))
	}

	log.Info("demo complete",
		logging.String("algorithm", data.Name),
		logging.Count(len(data.Steps)),
		logging.String("out", *outDir))
}
