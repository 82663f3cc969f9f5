package api

import (
	"time"

	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

// HealthResponse is the /health body.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// VisualizeRequest asks the translation collaborator to turn a prompt into
// algorithm data.
type VisualizeRequest struct {
	Prompt string `json:"prompt"`
}

// VisualizeResponse carries the translated algorithm data.
type VisualizeResponse struct {
	Algorithm *payload.AlgorithmData `json:"algorithm"`
	ElapsedMs int64                  `json:"elapsed_ms"`
}

// RenderRequest renders one step of a visualization payload.
type RenderRequest struct {
	Visualization payload.Raw `json:"visualizationData"`
	Step          int         `json:"step"`
}

// clientCommand is one inbound websocket message. Action selects the
// operation; the optional fields only apply to some actions.
type clientCommand struct {
	Action  string                 `json:"action"`
	Prompt  string                 `json:"prompt,omitempty"`
	Data    *payload.AlgorithmData `json:"data,omitempty"`
	SpeedMs int                    `json:"speed_ms,omitempty"`
}

// serverFrame is one outbound websocket message. Type selects which of the
// optional fields are present.
type serverFrame struct {
	Type      string                 `json:"type"`
	Status    string                 `json:"status,omitempty"`
	Step      int                    `json:"step"`
	SpeedMs   int                    `json:"speed_ms,omitempty"`
	Scene     *scene.Scene           `json:"scene,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Algorithm *payload.AlgorithmData `json:"algorithm,omitempty"`
	Message   string                 `json:"message,omitempty"`
}

const (
	frameState       = "state"
	frameScene       = "scene"
	frameSpeak       = "speak"
	frameCancelSpeak = "cancelSpeech"
	frameAlgorithm   = "algorithm"
	frameError       = "error"
)
