// Package playback implements the step playback state machine. The
// controller exclusively owns the step index, the auto-play timer, and the
// narration resource; state transitions are the only code paths that create
// or cancel timers.
package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/narration"
	"github.com/dd0wney/algoviz/pkg/payload"
)

// Status is the playback state.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

var (
	// ErrSpeedLocked is returned by SetSpeed during playback. Changing the
	// interval mid-play would require a timer restart; the speed control is
	// inert until playback pauses or stops.
	ErrSpeedLocked = errors.New("speed cannot change during playback")

	// ErrInvalidSpeed is returned for non-positive intervals.
	ErrInvalidSpeed = errors.New("speed must be positive")
)

// DefaultSpeed is the auto-play interval when the host sets none.
const DefaultSpeed = 1500 * time.Millisecond

// Snapshot is the externally observable playback state.
type Snapshot struct {
	Status Status        `json:"status"`
	Step   int           `json:"step"`
	Speed  time.Duration `json:"speed"`
}

// Controller drives a step index over an ordered step sequence.
//
// Invariants: 0 <= step < len(steps) whenever steps is non-empty; at most
// one timer is live at any time; every transition out of StatusPlaying
// cancels the pending timer and stops in-flight narration before returning.
type Controller struct {
	mu    sync.Mutex
	steps []payload.AlgorithmStep

	// announceMu serializes narration and onStep delivery. It is acquired
	// before mu is released on a commit, so announce order always matches
	// commit order even when a timer tick races manual navigation.
	announceMu sync.Mutex

	status Status
	step   int
	speed  time.Duration
	closed bool

	speaker narration.Speaker
	onStep  func(step int)
	log     logging.Logger
	metrics *metrics.Registry

	timer    *time.Timer
	timerGen uint64

	// Timer accounting for the single-timer invariant: a timer counts as
	// retired when it is canceled or when its callback is consumed, so
	// started-retired is 1 while playing and 0 otherwise.
	timersStarted int
	timersRetired int
}

// Option configures a Controller.
type Option func(*Controller)

// WithSpeaker injects the narration capability.
func WithSpeaker(s narration.Speaker) Option {
	return func(c *Controller) { c.speaker = s }
}

// WithOnStep registers the step-change notification. It fires exactly once
// per committed step change, after narration for that step has started.
func WithOnStep(fn func(step int)) Option {
	return func(c *Controller) { c.onStep = fn }
}

// WithSpeed sets the initial auto-play interval.
func WithSpeed(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.speed = d
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *Controller) { c.metrics = m }
}

// New creates a stopped controller at step zero.
func New(steps []payload.AlgorithmStep, opts ...Option) *Controller {
	c := &Controller{
		steps:   steps,
		speed:   DefaultSpeed,
		speaker: narration.NopSpeaker{},
		log:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the observable playback state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Status: c.status, Step: c.step, Speed: c.speed}
}

// Steps returns the step sequence the controller navigates.
func (c *Controller) Steps() []payload.AlgorithmStep {
	return c.steps
}

// Current returns the step at the current index, or a zero step when the
// sequence is empty.
func (c *Controller) Current() payload.AlgorithmStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.steps) == 0 {
		return payload.AlgorithmStep{}
	}
	return c.steps[c.step]
}

// Play starts auto-advance. Playing from the final step rewinds to step
// zero first. A no-op while already playing or with no steps.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.closed || len(c.steps) == 0 || c.status == StatusPlaying {
		c.mu.Unlock()
		return
	}

	rewound := false
	if c.step == c.last() {
		c.step = 0
		rewound = true
	}
	c.status = StatusPlaying
	c.startTimerLocked()
	step, desc := c.step, c.steps[c.step].Description
	if rewound {
		c.announceAndUnlock(step, desc)
	} else {
		c.mu.Unlock()
	}

	c.log.Debug("playback started", logging.Step(step))
}

// Pause cancels the timer, stops narration, and holds the current step.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.status != StatusPlaying {
		c.mu.Unlock()
		return
	}
	c.cancelTimerLocked()
	c.status = StatusPaused
	c.mu.Unlock()

	c.speaker.Stop()
	c.log.Debug("playback paused")
}

// Next advances one step and narrates it. While playing at the final step
// it transitions to stopped (auto-stop, not looping); otherwise at the
// final step it is a no-op.
func (c *Controller) Next() {
	c.mu.Lock()
	if c.closed || len(c.steps) == 0 {
		c.mu.Unlock()
		return
	}

	if c.step < c.last() {
		c.step++
		step, desc := c.step, c.steps[c.step].Description
		c.announceAndUnlock(step, desc)
		return
	}

	if c.status == StatusPlaying {
		c.cancelTimerLocked()
		c.status = StatusStopped
		c.mu.Unlock()
		c.speaker.Stop()
		c.log.Debug("playback finished", logging.Step(c.last()))
		return
	}
	c.mu.Unlock()
}

// Previous steps back one step and narrates it. A no-op at step zero.
func (c *Controller) Previous() {
	c.mu.Lock()
	if c.closed || c.step == 0 {
		c.mu.Unlock()
		return
	}
	c.step--
	step, desc := c.step, c.steps[c.step].Description
	c.announceAndUnlock(step, desc)
}

// Reset cancels the timer, stops narration, rewinds to step zero, and
// narrates step zero.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed || len(c.steps) == 0 {
		c.mu.Unlock()
		return
	}
	c.cancelTimerLocked()
	c.status = StatusStopped
	c.step = 0
	desc := c.steps[0].Description
	c.announceAndUnlock(0, desc)
	c.log.Debug("playback reset")
}

// SetSpeed updates the auto-play interval for subsequent playback. It is
// rejected during playback; the interval of a live timer never changes.
func (c *Controller) SetSpeed(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d <= 0 {
		return ErrInvalidSpeed
	}
	if c.status == StatusPlaying {
		return ErrSpeedLocked
	}
	c.speed = d
	return nil
}

// Close tears the controller down: the timer is canceled and narration
// stopped before Close returns, so no tick can fire afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelTimerLocked()
	c.status = StatusStopped
	c.mu.Unlock()

	c.speaker.Stop()
}

// TimerStats reports timers started and retired. started-retired is 1
// while a timer is pending and 0 otherwise; it can never exceed 1.
func (c *Controller) TimerStats() (started, retired int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timersStarted, c.timersRetired
}

func (c *Controller) last() int {
	return len(c.steps) - 1
}

// announceAndUnlock narrates a committed step change and then notifies the
// host. Callers hold mu; the announce lock is taken before mu is released,
// so two commits can never deliver their announcements out of order. The
// previous utterance is always canceled before the new one starts, and
// narration starts before the host re-renders the scene.
func (c *Controller) announceAndUnlock(step int, desc string) {
	c.announceMu.Lock()
	c.mu.Unlock()
	defer c.announceMu.Unlock()

	c.speaker.Stop()
	if err := c.speaker.Speak(desc); err != nil {
		// Narration failure never affects rendering; playback reverts to
		// not-playing so the timer does not keep outrunning a dead voice.
		c.log.Warn("narration failed", logging.Step(step), logging.Error(err))
		if c.metrics != nil {
			c.metrics.RecordNarrationFailure()
		}
		c.Pause()
	} else if c.metrics != nil {
		c.metrics.RecordNarration()
	}

	if c.metrics != nil {
		c.metrics.RecordPlaybackStep()
	}
	if c.onStep != nil {
		c.onStep(step)
	}
}

// startTimerLocked arms the auto-advance timer. Callers hold the lock.
func (c *Controller) startTimerLocked() {
	if c.timer != nil {
		c.cancelTimerLocked()
	}
	c.timerGen++
	gen := c.timerGen
	c.timersStarted++
	c.timer = time.AfterFunc(c.speed, func() { c.tick(gen) })
}

// cancelTimerLocked retires any pending timer. The generation bump makes a
// concurrently-firing callback a structural no-op, so a tick can never act
// on a controller that already left the playing state.
func (c *Controller) cancelTimerLocked() {
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	c.timer = nil
	c.timerGen++
	c.timersRetired++
}

// tick is the timer callback: consume the fired timer, advance, re-arm.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.timerGen || c.status != StatusPlaying {
		c.mu.Unlock()
		return
	}

	// The fired timer is consumed.
	c.timer = nil
	c.timersRetired++

	if c.step < c.last() {
		c.step++
		step, desc := c.step, c.steps[c.step].Description
		c.startTimerLocked()
		c.announceAndUnlock(step, desc)
		return
	}

	// Auto-stop at the end rather than looping.
	c.status = StatusStopped
	c.mu.Unlock()
	c.speaker.Stop()
	c.log.Debug("playback finished", logging.Step(c.last()))
}
