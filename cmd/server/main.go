// algoviz-server exposes the visualization engine over HTTP: translate
// prompts, render one-shot SVG frames, and drive live playback sessions
// over websockets.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dd0wney/algoviz/pkg/api"
	"github.com/dd0wney/algoviz/pkg/config"
	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/server"
	"github.com/dd0wney/algoviz/pkg/translate"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	reg := metrics.NewRegistry()

	translator := translate.New(translate.Config{
		Endpoint: cfg.Translate.Endpoint,
		Model:    cfg.Translate.Model,
		APIKey:   cfg.APIKey(),
		Timeout:  cfg.Translate.Timeout(),
	}, translate.WithLogger(log), translate.WithMetrics(reg))

	apiServer := api.NewServer(cfg, translator, log, reg)

	gs := server.NewGracefulServer(apiServer.Addr(), apiServer.Handler(), log)
	gs.SetTimeouts(cfg.Server.ReadTimeout(), cfg.Server.WriteTimeout())
	gs.SetConfigReloadFunc(func() error {
		reloaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		log.SetLevel(logging.ParseLevel(reloaded.LogLevel))
		return nil
	})

	if err := gs.Start(); err != nil {
		log.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
}
