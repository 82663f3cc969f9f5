package scene

// Phase is the step-relative state of an element. All engines that carry
// "visited" semantics share the same rule: the element at the current step
// index is Current, elements before it are Processed, elements after it are
// Pending. Neutral is used where step emphasis does not apply (tree nodes,
// graph step zero).
type Phase int

const (
	PhasePending Phase = iota
	PhaseCurrent
	PhaseProcessed
	PhaseNeutral
)

// String returns the lowercase name used in JSON scenes and CSS-ish classes.
func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseCurrent:
		return "current"
	case PhaseProcessed:
		return "processed"
	case PhaseNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// PhaseFor applies the shared coloring rule for position i at step s.
func PhaseFor(i, s int) Phase {
	switch {
	case i == s:
		return PhaseCurrent
	case i < s:
		return PhaseProcessed
	default:
		return PhasePending
	}
}

// Fill returns the hex fill color for a phase. Renderers may map these onto
// their own palettes (the terminal renderer uses lipgloss equivalents).
func (p Phase) Fill() string {
	switch p {
	case PhaseCurrent:
		return "#f59e0b"
	case PhaseProcessed:
		return "#22c55e"
	case PhaseNeutral:
		return "#64748b"
	default:
		return "#94a3b8"
	}
}

// Stroke returns the border color for a phase.
func (p Phase) Stroke() string {
	if p == PhaseCurrent {
		return "#b45309"
	}
	return "#334155"
}

// StrokeWidth returns the border width; the current element gets the
// heavier highlighted border.
func (p Phase) StrokeWidth() float64 {
	if p == PhaseCurrent {
		return 3
	}
	return 1
}
