package scene

// Scene is the fully-resolved set of positioned, colored visual primitives
// for one render call. Layout engines rebuild it from scratch on every call;
// renderers consume it without retaining state between calls.
type Scene struct {
	Kind   string    `json:"kind"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	View   Transform `json:"view"`

	Rects   []Rect   `json:"rects,omitempty"`
	Circles []Circle `json:"circles,omitempty"`
	Lines   []Line   `json:"lines,omitempty"`
	Texts   []Text   `json:"texts,omitempty"`

	// Circular is set by the linked-list engine when a declared connection
	// closes the list back onto its head.
	Circular bool `json:"circular,omitempty"`
}

// Transform is a whole-scene zoom/pan applied by renderers to the group,
// never to individual element positions.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"tx"`
	TranslateY float64 `json:"ty"`
}

// Identity returns the no-op transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Rect is an axis-aligned rectangle (array bars, list compartments, strip cells).
type Rect struct {
	ID       string  `json:"id,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Phase    Phase   `json:"phase"`
	Emphasis bool    `json:"emphasis,omitempty"`
}

// Circle is a node disc (graph and tree nodes).
type Circle struct {
	ID       string  `json:"id,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	R        float64 `json:"r"`
	Phase    Phase   `json:"phase"`
	Emphasis bool    `json:"emphasis,omitempty"`
}

// Line is a segment, optionally arrow-headed (edges, pointers, markers).
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Arrow bool    `json:"arrow,omitempty"`
	Faint bool    `json:"faint,omitempty"`
}

// Text is a positioned label, anchored at its center.
type Text struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	S     string  `json:"s"`
	Small bool    `json:"small,omitempty"`
	Phase Phase   `json:"phase,omitempty"`
}

// ElementCount returns the total number of primitives. Used by idempotence
// checks: rendering the same inputs twice must yield identical counts.
func (s *Scene) ElementCount() int {
	return len(s.Rects) + len(s.Circles) + len(s.Lines) + len(s.Texts)
}

// Empty reports whether the scene holds no primitives at all.
func (s *Scene) Empty() bool {
	return s.ElementCount() == 0
}

// New returns an empty scene of the given kind and canvas size with an
// identity view transform.
func New(kind string, width, height float64) *Scene {
	return &Scene{
		Kind:   kind,
		Width:  width,
		Height: height,
		View:   Identity(),
	}
}
