package payload

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Classify resolves the structure kind for a raw payload.
//
// Rule order, first match wins:
//  1. A recognized kind tag is used directly, except that a graph/linkedlist
//     tag is corrected when the data shape contradicts it (a "nodes" key is
//     definitive for linkedlist; a linkedlist tag over a bare sequence
//     degrades to the sequence rules). This is a defensive fallback only,
//     not full re-validation.
//  2. With no usable tag, a non-array object containing a "nodes" key is a
//     linked list.
//  3. Otherwise an ordered sequence is an array.
//  4. Anything else is unrenderable; callers emit an empty scene, never an
//     error, because the payload originates from an untrusted generator.
func Classify(raw Raw) Kind {
	hasNodes := hasNodesKey(raw.Data)
	isSeq := isSequence(raw.Data)

	switch Kind(strings.ToLower(strings.TrimSpace(raw.Kind))) {
	case KindArray:
		return KindArray
	case KindTree:
		return KindTree
	case KindGraph:
		if hasNodes {
			return KindLinkedList
		}
		return KindGraph
	case KindLinkedList:
		if hasNodes {
			return KindLinkedList
		}
		if isSeq {
			return KindArray
		}
		return KindUnknown
	}

	if hasNodes {
		return KindLinkedList
	}
	if isSeq {
		return KindArray
	}
	return KindUnknown
}

// Parse runs the single validating parse from the wire form to the closed
// union. It never fails: shapes that cannot be decoded resolve to
// KindUnknown and render as an empty scene.
func Parse(raw Raw) Parsed {
	switch Classify(raw) {
	case KindArray:
		if values, ok := decodeNumbers(raw.Data); ok {
			return Parsed{Kind: KindArray, Array: values}
		}
	case KindTree:
		if values, ok := decodeNumbers(raw.Data); ok {
			return Parsed{Kind: KindTree, Tree: values}
		}
	case KindGraph:
		if g, ok := decodeGraph(raw.Data); ok {
			return Parsed{Kind: KindGraph, Graph: g}
		}
	case KindLinkedList:
		if l, ok := decodeList(raw.Data); ok {
			return Parsed{Kind: KindLinkedList, List: l}
		}
	}
	return Parsed{Kind: KindUnknown}
}

// hasNodesKey reports whether data is a JSON object with a "nodes" member.
func hasNodesKey(data json.RawMessage) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return false
	}
	_, ok := obj["nodes"]
	return ok
}

// isSequence reports whether data is a JSON array.
func isSequence(data json.RawMessage) bool {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	return strings.HasPrefix(trimmed, "[")
}

// decodeNumbers reads an ordered sequence of numbers, tolerating numeric
// strings and skipping entries that are neither.
func decodeNumbers(data json.RawMessage) ([]float64, bool) {
	var rawItems []json.RawMessage
	if err := json.Unmarshal(data, &rawItems); err != nil {
		return nil, false
	}

	values := make([]float64, 0, len(rawItems))
	for _, item := range rawItems {
		var f float64
		if err := json.Unmarshal(item, &f); err == nil {
			values = append(values, f)
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				values = append(values, f)
			}
		}
	}
	return values, true
}

// graphEntry is one element of a sequential-form node list: either a bare
// id (string or number) or an object carrying traversal flags.
type graphEntry struct {
	ID      string `json:"id"`
	Visited bool   `json:"visited"`
	Current bool   `json:"current"`
}

func decodeGraph(data json.RawMessage) (*GraphData, bool) {
	// Sequential form: ordered list of node ids, edges join consecutive
	// entries.
	var rawItems []json.RawMessage
	if err := json.Unmarshal(data, &rawItems); err == nil {
		nodes := make([]GraphNode, 0, len(rawItems))
		sequence := make([]string, 0, len(rawItems))
		seen := make(map[string]bool, len(rawItems))
		for _, item := range rawItems {
			node, ok := decodeGraphEntry(item)
			if !ok {
				continue
			}
			sequence = append(sequence, node.ID)
			if seen[node.ID] {
				continue
			}
			seen[node.ID] = true
			nodes = append(nodes, node)
		}
		return &GraphData{Nodes: nodes, Sequence: sequence, Sequential: true}, true
	}

	// Adjacency form: mapping from node id to declared neighbor ids. Keys
	// are sorted so downstream layout is deterministic.
	var adj map[string][]string
	if err := json.Unmarshal(data, &adj); err == nil {
		ids := make([]string, 0, len(adj))
		for id := range adj {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		nodes := make([]GraphNode, 0, len(ids))
		for _, id := range ids {
			nodes = append(nodes, GraphNode{ID: id})
		}
		return &GraphData{Nodes: nodes, Adjacency: adj}, true
	}

	return nil, false
}

func decodeGraphEntry(item json.RawMessage) (GraphNode, bool) {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return GraphNode{ID: s}, s != ""
	}

	var f float64
	if err := json.Unmarshal(item, &f); err == nil {
		return GraphNode{ID: strconv.FormatFloat(f, 'g', -1, 64)}, true
	}

	var entry graphEntry
	if err := json.Unmarshal(item, &entry); err == nil && entry.ID != "" {
		return GraphNode{ID: entry.ID, Visited: entry.Visited, Current: entry.Current}, true
	}

	return GraphNode{}, false
}

func decodeList(data json.RawMessage) (*ListData, bool) {
	var l ListData
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, false
	}

	// Connections that reference undeclared nodes are dropped, mirroring
	// the dangling-edge rule for graphs.
	known := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		known[n.ID] = true
	}
	kept := l.Connections[:0]
	for _, c := range l.Connections {
		if known[c.From] && known[c.To] {
			kept = append(kept, c)
		}
	}
	l.Connections = kept

	return &l, true
}
