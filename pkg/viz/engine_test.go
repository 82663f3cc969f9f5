package viz

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/dd0wney/algoviz/pkg/layout"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/payload"
)

func rawPayload(kind, data string) payload.Raw {
	return payload.Raw{Kind: kind, Data: json.RawMessage(data)}
}

func TestRenderIdempotent(t *testing.T) {
	e := New(layout.DefaultConfig())
	p := rawPayload("array", `[5, 2, 8, 1]`)

	first := e.Render(p, 2)
	second := e.Render(p, 2)

	if !reflect.DeepEqual(first, second) {
		t.Error("rendering the same payload and step twice produced different scenes")
	}
}

func TestRenderUnknownDegradesToEmptyScene(t *testing.T) {
	e := New(layout.DefaultConfig())
	s := e.Render(rawPayload("", `{"no": "shape"}`), 0)
	if !s.Empty() {
		t.Error("unrenderable payload should produce an empty scene")
	}
}

func TestRenderDispatchesByKind(t *testing.T) {
	e := New(layout.DefaultConfig())

	tests := []struct {
		name string
		raw  payload.Raw
		kind string
	}{
		{"array", rawPayload("array", `[1, 2]`), "array"},
		{"graph", rawPayload("graph", `["A", "B"]`), "graph"},
		{"list", rawPayload("linkedlist", `{"nodes": [{"id": "n1", "value": 1}]}`), "linkedlist"},
		{"tree", rawPayload("tree", `[1, 2, 3]`), "tree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := e.Render(tt.raw, 0)
			if s.Kind != tt.kind {
				t.Errorf("scene kind = %q, want %q", s.Kind, tt.kind)
			}
			if s.Empty() {
				t.Error("expected a non-empty scene")
			}
		})
	}
}

func TestRenderRecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	e := New(layout.DefaultConfig(), WithMetrics(reg))

	e.Render(rawPayload("array", `[1, 2, 3]`), 0)
	e.Render(rawPayload("", `{"junk": true}`), 0)

	families, err := reg.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		switch mf.GetName() {
		case "algoviz_renders_total":
			found["renders"] = true
		case "algoviz_empty_scenes_total":
			found["empty"] = true
			if mf.GetMetric()[0].GetCounter().GetValue() != 1 {
				t.Errorf("empty scene counter = %v, want 1", mf.GetMetric()[0].GetCounter().GetValue())
			}
		}
	}
	if !found["renders"] || !found["empty"] {
		t.Errorf("missing metric families: %v", found)
	}
}

func TestResetClearsGraphState(t *testing.T) {
	e := New(layout.DefaultConfig())
	e.Render(rawPayload("graph", `["A", "B"]`), 0)
	if e.Graph().Simulation() == nil {
		t.Fatal("expected a running simulation")
	}
	e.Reset()
	if e.Graph().Simulation() != nil {
		t.Error("reset kept the graph simulation")
	}
}
