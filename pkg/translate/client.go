// Package translate calls the remote translation collaborator that turns a
// natural-language prompt into structured algorithm data.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/payload"
)

// ErrEmptyPrompt is returned when the prompt contains no content.
var ErrEmptyPrompt = errors.New("prompt is empty")

// Config holds client settings. APIKey may be empty for endpoints that do
// not authenticate.
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Client talks to the translation endpoint. The service is treated as an
// untrusted collaborator: responses are validated before they reach the
// engine, and a failed call never takes the process down.
type Client struct {
	cfg     Config
	httpc   *http.Client
	log     logging.Logger
	metrics *metrics.Registry
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a translation client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	c := &Client{
		cfg: cfg,
		log: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc == nil {
		c.httpc = &http.Client{Timeout: cfg.Timeout}
	}
	return c
}

type translateRequest struct {
	Model     string `json:"model,omitempty"`
	Prompt    string `json:"prompt"`
	RequestID string `json:"request_id"`
}

// Translate sends the prompt and returns the validated algorithm data.
func (c *Client) Translate(ctx context.Context, prompt string) (*payload.AlgorithmData, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	requestID := uuid.NewString()
	start := time.Now()

	data, err := c.call(ctx, requestID, prompt)
	elapsed := time.Since(start)

	if err != nil {
		c.recordTranslation("error", elapsed)
		c.log.Error("translation failed",
			logging.Component("translate"),
			logging.String("request_id", requestID),
			logging.Latency(elapsed),
			logging.Error(err))
		return nil, err
	}

	c.recordTranslation("ok", elapsed)
	c.log.Info("translation complete",
		logging.Component("translate"),
		logging.String("request_id", requestID),
		logging.String("algorithm", data.Name),
		logging.Count(len(data.Steps)),
		logging.Latency(elapsed))
	return data, nil
}

func (c *Client) call(ctx context.Context, requestID, prompt string) (*payload.AlgorithmData, error) {
	body, err := json.Marshal(translateRequest{
		Model:     c.cfg.Model,
		Prompt:    prompt,
		RequestID: requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("translation service returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var data payload.AlgorithmData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) recordTranslation(status string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordTranslation(status, d)
	}
}
