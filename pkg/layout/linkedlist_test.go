package layout

import (
	"strings"
	"testing"

	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/scene"
)

func listParsed(nodes []payload.ListNode, conns []payload.ListConn, head, tail string) payload.Parsed {
	return payload.Parsed{
		Kind: payload.KindLinkedList,
		List: &payload.ListData{Nodes: nodes, Connections: conns, Head: head, Tail: tail},
	}
}

func threeNodeList(circular bool) payload.Parsed {
	conns := []payload.ListConn{
		{From: "n1", To: "n2"},
		{From: "n2", To: "n3"},
	}
	if circular {
		conns = append(conns, payload.ListConn{From: "n3", To: "n1"})
	}
	return listParsed([]payload.ListNode{
		{ID: "n1", Value: 3},
		{ID: "n2", Value: 7},
		{ID: "n3", Value: 12},
	}, conns, "", "")
}

func sceneTexts(s *scene.Scene) []string {
	out := make([]string, 0, len(s.Texts))
	for _, t := range s.Texts {
		out = append(out, t.S)
	}
	return out
}

func TestListLayoutStructure(t *testing.T) {
	e := NewListEngine(DefaultConfig())
	s := e.Layout(threeNodeList(false), 0)

	// Two compartments per node box plus one strip cell per node.
	if len(s.Rects) != 9 {
		t.Fatalf("expected 9 rects, got %d", len(s.Rects))
	}

	texts := strings.Join(sceneTexts(s), " ")
	if !strings.Contains(texts, "HEAD") || !strings.Contains(texts, "TAIL") {
		t.Errorf("missing head/tail markers in %q", texts)
	}
	if strings.Contains(texts, "circular") {
		t.Error("non-circular list shows the circular indicator")
	}

	// Pointer compartments name their successor; the tail shows the null
	// marker.
	if !strings.Contains(texts, "n2") || !strings.Contains(texts, "/") {
		t.Errorf("missing pointer labels in %q", texts)
	}
}

func TestListLayoutCircular(t *testing.T) {
	e := NewListEngine(DefaultConfig())
	s := e.Layout(threeNodeList(true), 0)

	if !s.Circular {
		t.Error("scene should be flagged circular")
	}
	texts := strings.Join(sceneTexts(s), " ")
	if !strings.Contains(texts, "circular") {
		t.Error("missing circular indicator text")
	}

	// The closing connection draws an arrow back toward the head.
	arrows := 0
	for _, l := range s.Lines {
		if l.Arrow {
			arrows++
		}
	}
	// Three connections plus the head and tail marker arrows.
	if arrows != 5 {
		t.Errorf("expected 5 arrows, got %d", arrows)
	}
}

func TestListLayoutStepColoring(t *testing.T) {
	e := NewListEngine(DefaultConfig())
	s := e.Layout(threeNodeList(false), 1)

	var dataPhases []scene.Phase
	var cellPhases []scene.Phase
	for _, r := range s.Rects {
		if strings.HasPrefix(r.ID, "data-") {
			dataPhases = append(dataPhases, r.Phase)
		}
		if strings.HasPrefix(r.ID, "cell-") {
			cellPhases = append(cellPhases, r.Phase)
		}
	}

	want := []scene.Phase{scene.PhaseProcessed, scene.PhaseCurrent, scene.PhasePending}
	for i := range want {
		if dataPhases[i] != want[i] {
			t.Errorf("box %d phase = %v, want %v", i, dataPhases[i], want[i])
		}
		if cellPhases[i] != dataPhases[i] {
			t.Errorf("strip cell %d phase diverges from its node box", i)
		}
	}
}

func TestListLayoutEmpty(t *testing.T) {
	e := NewListEngine(DefaultConfig())
	s := e.Layout(payload.Parsed{Kind: payload.KindLinkedList}, 0)
	if !s.Empty() {
		t.Error("nil list should render an empty scene")
	}
}

func TestTreeLayoutNeutralRow(t *testing.T) {
	e := NewTreeEngine(DefaultConfig())
	s := e.Layout(payload.Parsed{Kind: payload.KindTree, Tree: []float64{10, 5, 15}}, 2)

	if len(s.Circles) != 3 {
		t.Fatalf("expected 3 circles, got %d", len(s.Circles))
	}
	for i, c := range s.Circles {
		if c.Phase != scene.PhaseNeutral {
			t.Errorf("tree node %d phase = %v, want neutral", i, c.Phase)
		}
	}
}
