package narration

import (
	"strings"
	"sync"
)

// UtteranceBuffer accumulates text deltas and emits chunks sized for a
// speech backend. A chunk is released on sentence punctuation, or once a
// word-count threshold is crossed at a word boundary. Streaming narration
// sources (an LLM emitting step explanations token by token) feed deltas
// through Add and flush at end of stream.
type UtteranceBuffer struct {
	mu          sync.Mutex
	text        strings.Builder
	minWords    int
	punctuation string
}

// NewUtteranceBuffer creates a buffer with default chunking thresholds.
func NewUtteranceBuffer() *UtteranceBuffer {
	return &UtteranceBuffer{
		minWords:    5,
		punctuation: ",.!?",
	}
}

// Add appends a delta and returns the next utterance to speak, or "" while
// more text should accumulate.
func (b *UtteranceBuffer) Add(delta string) string {
	if delta == "" {
		return ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prevContent := b.text.String()
	prevWordCount := len(strings.Fields(prevContent))

	// A word boundary exists when the delta starts with whitespace or the
	// buffered text already ends with it.
	boundary := delta[0] == ' ' || delta[0] == '\n'
	if !boundary && prevContent != "" {
		last := prevContent[len(prevContent)-1]
		boundary = last == ' ' || last == '\n'
	}

	b.text.WriteString(delta)
	content := b.text.String()

	// Punctuation releases everything up to and including the last mark.
	if strings.ContainsAny(delta, b.punctuation) {
		lastPunct := strings.LastIndexAny(content, b.punctuation)
		if lastPunct >= 0 {
			out := strings.TrimSpace(content[:lastPunct+1])
			remainder := strings.TrimSpace(content[lastPunct+1:])
			b.text.Reset()
			if remainder != "" {
				b.text.WriteString(remainder)
			}
			return out
		}
	}

	// Word threshold releases the completed words once the incoming delta
	// confirms a boundary.
	if prevWordCount >= b.minWords && boundary {
		out := strings.TrimSpace(prevContent)
		b.text.Reset()
		b.text.WriteString(strings.TrimLeft(delta, " \n"))
		return out
	}

	return ""
}

// Flush returns any remaining buffered text and resets the buffer. Call at
// end of stream.
func (b *UtteranceBuffer) Flush() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := strings.TrimSpace(b.text.String())
	b.text.Reset()
	return out
}

// Reset discards buffered text without emitting it. Call on cancellation.
func (b *UtteranceBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text.Reset()
}

// Chunks splits a complete text into utterances using the same rules as
// the streaming path. Whole-step descriptions are chunked this way before
// being handed to a speech backend with limited utterance length.
func Chunks(text string) []string {
	b := NewUtteranceBuffer()
	var out []string
	for _, word := range strings.SplitAfter(text, " ") {
		if chunk := b.Add(word); chunk != "" {
			out = append(out, chunk)
		}
	}
	if rest := b.Flush(); rest != "" {
		out = append(out, rest)
	}
	return out
}
