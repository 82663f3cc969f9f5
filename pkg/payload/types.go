package payload

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Kind identifies the structure a visualization payload describes. The tag
// carried on the wire is advisory; Classify re-derives the kind from shape
// when the tag is missing or contradicted.
type Kind string

const (
	KindArray      Kind = "array"
	KindGraph      Kind = "graph"
	KindTree       Kind = "tree"
	KindLinkedList Kind = "linkedlist"
	KindUnknown    Kind = "unknown"
)

// Raw is the wire form of a visualization payload as produced by the
// translation service. Data is kept opaque until Parse runs; the generator
// is untrusted and the shape frequently disagrees with the tag.
type Raw struct {
	Kind string          `json:"kind,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// AlgorithmStep is one entry of the ordered step sequence. The Index field
// is advisory source numbering; position within the slice is authoritative
// for navigation.
type AlgorithmStep struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// AlgorithmData is the full result object returned by the translation
// collaborator. Optional fields may be absent; the engine tolerates that.
type AlgorithmData struct {
	Name            string          `json:"name" validate:"required"`
	Description     string          `json:"description"`
	Steps           []AlgorithmStep `json:"steps" validate:"required,min=1"`
	Pseudocode      string          `json:"pseudocode"`
	TimeComplexity  string          `json:"timeComplexity"`
	SpaceComplexity string          `json:"spaceComplexity"`
	Visualization   Raw             `json:"visualizationData"`
}

var validate = validator.New()

// Validate checks the minimal contract a usable result must satisfy: a name
// and at least one step. Everything else is best-effort content the engine
// renders as-is.
func (a *AlgorithmData) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("algorithm data failed validation: %w", err)
	}
	return nil
}

// GraphNode is a declared graph node with optional traversal flags supplied
// by the payload.
type GraphNode struct {
	ID      string
	Visited bool
	Current bool
}

// GraphData is a parsed graph payload. Exactly one of the two declared
// forms applies: sequential (edges join consecutive entries of Sequence) or
// adjacency (edges fan out from each node to its declared neighbors).
// Nodes holds each declared node once, in first-appearance order.
type GraphData struct {
	Nodes      []GraphNode
	Sequence   []string
	Adjacency  map[string][]string
	Sequential bool
}

// Edges resolves the declared edge set. Adjacency neighbors that are not
// declared nodes are dropped here and never reach a renderer.
func (g *GraphData) Edges() [][2]string {
	edges := make([][2]string, 0, len(g.Nodes))

	if g.Sequential {
		for i := 0; i+1 < len(g.Sequence); i++ {
			if g.Sequence[i] == g.Sequence[i+1] {
				continue
			}
			edges = append(edges, [2]string{g.Sequence[i], g.Sequence[i+1]})
		}
		return edges
	}

	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}
	for _, n := range g.Nodes {
		for _, neighbor := range g.Adjacency[n.ID] {
			if !known[neighbor] {
				continue
			}
			edges = append(edges, [2]string{n.ID, neighbor})
		}
	}
	return edges
}

// ListNode is one linked-list cell.
type ListNode struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// ListConn is one declared pointer between list cells.
type ListConn struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ListData is a parsed linked-list payload. Head and Tail are optional;
// when absent the first and last declared nodes stand in for them.
type ListData struct {
	Nodes       []ListNode `json:"nodes"`
	Connections []ListConn `json:"connections"`
	Head        string     `json:"head,omitempty"`
	Tail        string     `json:"tail,omitempty"`
}

// HeadID returns the declared head, falling back to the first node.
func (l *ListData) HeadID() string {
	if l.Head != "" {
		return l.Head
	}
	if len(l.Nodes) > 0 {
		return l.Nodes[0].ID
	}
	return ""
}

// TailID returns the declared tail, falling back to the last node.
func (l *ListData) TailID() string {
	if l.Tail != "" {
		return l.Tail
	}
	if len(l.Nodes) > 0 {
		return l.Nodes[len(l.Nodes)-1].ID
	}
	return ""
}

// IsCircular reports whether any declared connection closes the list from
// the tail node back onto the head node.
func (l *ListData) IsCircular() bool {
	head, tail := l.HeadID(), l.TailID()
	if head == "" || tail == "" || head == tail {
		return false
	}
	for _, c := range l.Connections {
		if c.From == tail && c.To == head {
			return true
		}
	}
	return false
}

// Parsed is the closed union produced by Parse. Exactly the field matching
// Kind is populated; layout engines only ever see these known shapes.
type Parsed struct {
	Kind  Kind
	Array []float64
	Graph *GraphData
	List  *ListData
	Tree  []float64
}

// Renderable reports whether the payload resolved to a known structure.
func (p *Parsed) Renderable() bool {
	return p.Kind != KindUnknown
}
