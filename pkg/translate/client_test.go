package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/algoviz/pkg/payload"
)

func validResponse() payload.AlgorithmData {
	return payload.AlgorithmData{
		Name: "Bubble Sort",
		Steps: []payload.AlgorithmStep{
			{Index: 0, Description: "start"},
			{Index: 1, Description: "compare"},
		},
		Visualization: payload.Raw{Kind: "array", Data: json.RawMessage(`[3, 1, 2]`)},
	}
}

func TestTranslateSuccess(t *testing.T) {
	var gotReq translateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(validResponse())
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, Model: "demo", APIKey: "sekrit", Timeout: 5 * time.Second})
	data, err := c.Translate(context.Background(), "show me bubble sort")
	require.NoError(t, err)

	assert.Equal(t, "Bubble Sort", data.Name)
	assert.Len(t, data.Steps, 2)
	assert.Equal(t, "demo", gotReq.Model)
	assert.Equal(t, "show me bubble sort", gotReq.Prompt)
	assert.NotEmpty(t, gotReq.RequestID)
}

func TestTranslateEmptyPrompt(t *testing.T) {
	c := New(Config{Endpoint: "http://unused.invalid"})
	_, err := c.Translate(context.Background(), "   \n  ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestTranslateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL})
	_, err := c.Translate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestTranslateRejectsInvalidResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Missing steps: the validation contract requires at least one.
		json.NewEncoder(w).Encode(payload.AlgorithmData{Name: "Empty"})
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL})
	_, err := c.Translate(context.Background(), "anything")
	assert.Error(t, err)
}

func TestTranslateRejectsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL})
	_, err := c.Translate(context.Background(), "anything")
	assert.Error(t, err)
}

func TestTranslateHonorsContext(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c := New(Config{Endpoint: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Translate(ctx, "anything")
	assert.Error(t, err)
}
