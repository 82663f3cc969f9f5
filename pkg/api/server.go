// Package api exposes the visualization engine over HTTP: one-shot
// translate and render endpoints plus a websocket session surface that
// streams playback frames.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dd0wney/algoviz/pkg/config"
	"github.com/dd0wney/algoviz/pkg/layout"
	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/render"
	"github.com/dd0wney/algoviz/pkg/translate"
	"github.com/dd0wney/algoviz/pkg/viz"
)

// Server is the HTTP API server.
type Server struct {
	cfg        *config.Config
	translator *translate.Client
	svg        *render.SVGRenderer
	log        logging.Logger
	metrics    *metrics.Registry
	startTime  time.Time
	version    string
}

// NewServer creates an API server. translator may be nil when no
// translation endpoint is configured; /api/visualize then returns 503.
func NewServer(cfg *config.Config, translator *translate.Client, log logging.Logger, m *metrics.Registry) *Server {
	return &Server{
		cfg:        cfg,
		translator: translator,
		svg:        render.NewSVGRenderer(),
		log:        log,
		metrics:    m,
		startTime:  time.Now(),
		version:    "1.0.0",
	}
}

// Handler builds the full route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	mux.HandleFunc("/api/visualize", s.handleVisualize)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/session/ws", s.handleSession)

	return s.loggingMiddleware(s.metricsMiddleware(s.corsMiddleware(mux)))
}

// Addr returns the listen address from the configuration.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Server.Port)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
	})
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.translator == nil {
		s.respondError(w, http.StatusServiceUnavailable, "no translation endpoint configured")
		return
	}

	var req VisualizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	data, err := s.translator.Translate(r.Context(), req.Prompt)
	if err != nil {
		if err == translate.ErrEmptyPrompt {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, VisualizeResponse{
		Algorithm: data,
		ElapsedMs: time.Since(start).Milliseconds(),
	})
}

// handleRender is the stateless one-shot render: payload plus step index
// in, SVG document (or the scene as JSON, when requested) out. Each
// request gets a fresh engine so concurrent renders cannot share graph
// physics state.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Step < 0 {
		s.respondError(w, http.StatusBadRequest, "step must be non-negative")
		return
	}

	engine := viz.New(s.layoutConfig(), viz.WithLogger(s.log), viz.WithMetrics(s.metrics))
	sc := engine.Render(req.Visualization, req.Step)

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		s.respondJSON(w, http.StatusOK, sc)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(s.svg.Render(sc)); err != nil {
		s.log.Warn("failed to write svg response", logging.Error(err))
	}
}

func (s *Server) layoutConfig() layout.Config {
	return layout.Config{
		Width:   s.cfg.Canvas.Width,
		Height:  s.cfg.Canvas.Height,
		Padding: s.cfg.Canvas.Padding,
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
