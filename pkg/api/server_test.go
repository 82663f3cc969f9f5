package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/algoviz/pkg/config"
	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/translate"
)

// newTestServer wires a full API server against an optional fake
// translation upstream.
func newTestServer(t *testing.T, upstream http.HandlerFunc) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	var translator *translate.Client
	if upstream != nil {
		fake := httptest.NewServer(upstream)
		t.Cleanup(fake.Close)
		translator = translate.New(translate.Config{Endpoint: fake.URL, Timeout: 5 * time.Second})
	}

	s := NewServer(cfg, translator, logging.NewNopLogger(), metrics.NewRegistry())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	body, _ := json.Marshal(RenderRequest{
		Visualization: payload.Raw{Kind: "array", Data: json.RawMessage(`[5, 2, 8]`)},
		Step:          1,
	})
	resp, err := http.Post(srv.URL+"/api/render", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "<svg"))
	assert.Equal(t, 3, strings.Count(out.String(), "<rect")-1, "one bar per array element")
}

func TestRenderEndpointSceneJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	body, _ := json.Marshal(RenderRequest{
		Visualization: payload.Raw{Kind: "array", Data: json.RawMessage(`[5, 2, 8]`)},
		Step:          0,
	})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/render", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var sc struct {
		Kind  string `json:"kind"`
		Rects []any  `json:"rects"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sc))
	assert.Equal(t, "array", sc.Kind)
	assert.Len(t, sc.Rects, 3)
}

func TestRenderEndpointRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/render", "application/json", strings.NewReader(`{broken`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := json.Marshal(RenderRequest{Step: -1})
	resp, err = http.Post(srv.URL+"/api/render", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/render")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestVisualizeEndpoint(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(payload.AlgorithmData{
			Name:  "Linear Search",
			Steps: []payload.AlgorithmStep{{Description: "scan"}},
		})
	})

	body, _ := json.Marshal(VisualizeRequest{Prompt: "explain linear search"})
	resp, err := http.Post(srv.URL+"/api/visualize", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out VisualizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Linear Search", out.Algorithm.Name)
}

func TestVisualizeWithoutTranslator(t *testing.T) {
	srv := newTestServer(t, nil)

	body, _ := json.Marshal(VisualizeRequest{Prompt: "anything"})
	resp, err := http.Post(srv.URL+"/api/visualize", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestVisualizeEmptyPrompt(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an empty prompt")
	})

	body, _ := json.Marshal(VisualizeRequest{Prompt: "  "})
	resp, err := http.Post(srv.URL+"/api/visualize", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVisualizeUpstreamFailure(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	body, _ := json.Marshal(VisualizeRequest{Prompt: "anything"})
	resp, err := http.Post(srv.URL+"/api/visualize", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/render", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
