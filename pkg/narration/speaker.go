// Package narration defines the opaque speech capability consumed by the
// playback controller. The engine only ever calls Speak and Stop; actual
// text-to-speech lives behind whatever implementation the host injects.
package narration

import (
	"sync"

	"github.com/dd0wney/algoviz/pkg/logging"
)

// Speaker is the narration capability. Narration is a single exclusive
// resource: callers must Stop any in-flight utterance before Speak, and
// the playback controller enforces that discipline.
type Speaker interface {
	Speak(text string) error
	Stop()
}

// NopSpeaker discards all narration. Used when the host has no speech
// backend.
type NopSpeaker struct{}

func (NopSpeaker) Speak(text string) error { return nil }
func (NopSpeaker) Stop()                   {}

// CaptionSpeaker "speaks" by exposing the current utterance as a caption
// string. The terminal front-end uses it to show narration as a subtitle
// line.
type CaptionSpeaker struct {
	mu      sync.Mutex
	current string
}

// NewCaptionSpeaker creates an empty caption speaker.
func NewCaptionSpeaker() *CaptionSpeaker {
	return &CaptionSpeaker{}
}

// Speak replaces the caption with the new utterance.
func (c *CaptionSpeaker) Speak(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = text
	return nil
}

// Stop clears the caption.
func (c *CaptionSpeaker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = ""
}

// Current returns the caption for the utterance in flight, or "".
func (c *CaptionSpeaker) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// LoggedSpeaker wraps another speaker and logs every utterance boundary.
type LoggedSpeaker struct {
	Inner Speaker
	Log   logging.Logger
}

func (l *LoggedSpeaker) Speak(text string) error {
	l.Log.Debug("narration start", logging.Count(len(text)))
	if err := l.Inner.Speak(text); err != nil {
		l.Log.Warn("narration failed", logging.Error(err))
		return err
	}
	return nil
}

func (l *LoggedSpeaker) Stop() {
	l.Log.Debug("narration stop")
	l.Inner.Stop()
}
