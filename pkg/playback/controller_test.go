package playback

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/algoviz/pkg/payload"
)

// recordingSpeaker captures the narration call sequence so tests can check
// the cancel-before-speak discipline.
type recordingSpeaker struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (r *recordingSpeaker) Speak(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("speech backend unavailable")
	}
	r.events = append(r.events, "speak:"+text)
	return nil
}

func (r *recordingSpeaker) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "stop")
}

func (r *recordingSpeaker) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func steps(n int) []payload.AlgorithmStep {
	out := make([]payload.AlgorithmStep, n)
	for i := range out {
		out[i] = payload.AlgorithmStep{Index: i, Description: descFor(i)}
	}
	return out
}

func descFor(i int) string {
	return "step " + string(rune('a'+i))
}

// Narration and onStep delivery must follow commit order even when several
// goroutines navigate at once: the speak sequence and the onStep sequence
// have to agree exactly.
func TestConcurrentNavigationAnnouncesInCommitOrder(t *testing.T) {
	speaker := &recordingSpeaker{}

	var cbMu sync.Mutex
	var onStepOrder []int
	c := New(steps(26),
		WithSpeaker(speaker),
		WithOnStep(func(step int) {
			cbMu.Lock()
			onStepOrder = append(onStepOrder, step)
			cbMu.Unlock()
		}),
	)
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if (g+i)%3 == 0 {
					c.Previous()
				} else {
					c.Next()
				}
			}
		}(g)
	}
	wg.Wait()

	var spokenOrder []int
	for _, ev := range speaker.Events() {
		if desc, ok := strings.CutPrefix(ev, "speak:step "); ok {
			spokenOrder = append(spokenOrder, int(desc[0]-'a'))
		}
	}

	require.Equal(t, len(onStepOrder), len(spokenOrder))
	assert.Equal(t, spokenOrder, onStepOrder)
}

func TestManualNavigation(t *testing.T) {
	c := New(steps(3))
	defer c.Close()

	assert.Equal(t, 0, c.Snapshot().Step)

	c.Next()
	assert.Equal(t, 1, c.Snapshot().Step)
	c.Next()
	assert.Equal(t, 2, c.Snapshot().Step)

	// Next at the final step while not playing is a no-op.
	c.Next()
	assert.Equal(t, 2, c.Snapshot().Step)
	assert.Equal(t, StatusStopped, c.Snapshot().Status)

	c.Previous()
	assert.Equal(t, 1, c.Snapshot().Step)
	c.Previous()
	c.Previous() // no-op at step zero
	assert.Equal(t, 0, c.Snapshot().Step)
}

func TestResetRewindsAndNarrates(t *testing.T) {
	spk := &recordingSpeaker{}
	c := New(steps(3), WithSpeaker(spk))
	defer c.Close()

	c.Next()
	c.Next()
	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Step)
	assert.Equal(t, StatusStopped, snap.Status)

	events := spk.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "speak:"+descFor(0), events[len(events)-1])
}

func TestAutoPlayAdvancesAndStops(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	c := New(steps(3),
		WithSpeed(20*time.Millisecond),
		WithOnStep(func(step int) {
			mu.Lock()
			seen = append(seen, step)
			mu.Unlock()
		}),
	)
	defer c.Close()

	c.Play()
	assert.Equal(t, StatusPlaying, c.Snapshot().Status)

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusStopped
	}, 2*time.Second, 5*time.Millisecond, "playback should auto-stop at the final step")

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Step, "auto-stop holds the final step, no loop")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, seen)
}

func TestPlayFromEndRewinds(t *testing.T) {
	spk := &recordingSpeaker{}
	c := New(steps(2), WithSpeed(15*time.Millisecond), WithSpeaker(spk))
	defer c.Close()

	c.Next() // at final step, stopped
	require.Equal(t, 1, c.Snapshot().Step)

	c.Play()
	assert.Equal(t, 0, c.Snapshot().Step, "play from the final step rewinds first")

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusStopped
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPauseHoldsStep(t *testing.T) {
	c := New(steps(5), WithSpeed(10*time.Millisecond))
	defer c.Close()

	c.Play()
	require.Eventually(t, func() bool {
		return c.Snapshot().Step >= 1
	}, 2*time.Second, time.Millisecond)

	c.Pause()
	held := c.Snapshot().Step
	assert.Equal(t, StatusPaused, c.Snapshot().Status)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, held, c.Snapshot().Step, "paused playback must not advance")
}

func TestSetSpeed(t *testing.T) {
	c := New(steps(3))
	defer c.Close()

	assert.ErrorIs(t, c.SetSpeed(0), ErrInvalidSpeed)
	assert.ErrorIs(t, c.SetSpeed(-time.Second), ErrInvalidSpeed)

	require.NoError(t, c.SetSpeed(500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, c.Snapshot().Speed)

	c.Play()
	assert.ErrorIs(t, c.SetSpeed(time.Second), ErrSpeedLocked)
	c.Pause()
	assert.NoError(t, c.SetSpeed(time.Second))
}

func TestSingleTimerInvariant(t *testing.T) {
	c := New(steps(10), WithSpeed(5*time.Millisecond))
	defer c.Close()

	check := func() {
		started, retired := c.TimerStats()
		live := started - retired
		if live < 0 || live > 1 {
			t.Fatalf("timer invariant violated: started=%d retired=%d", started, retired)
		}
	}

	for i := 0; i < 5; i++ {
		c.Play()
		check()
		c.Pause()
		check()
	}

	c.Play()
	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusStopped
	}, 2*time.Second, time.Millisecond)

	started, retired := c.TimerStats()
	assert.Equal(t, started, retired, "all timers must be retired after auto-stop")
}

func TestNarrationCancelBeforeSpeak(t *testing.T) {
	spk := &recordingSpeaker{}
	c := New(steps(4), WithSpeaker(spk))
	defer c.Close()

	c.Next()
	c.Next()

	events := spk.Events()
	require.NotEmpty(t, events)
	for i, ev := range events {
		if ev == "speak:"+descFor(1) || ev == "speak:"+descFor(2) {
			require.Greater(t, i, 0, "an utterance started without a preceding stop")
			assert.Equal(t, "stop", events[i-1], "previous narration must be canceled before speaking")
		}
	}
}

func TestNarrationFailurePausesPlayback(t *testing.T) {
	spk := &recordingSpeaker{fail: true}
	c := New(steps(5), WithSpeed(10*time.Millisecond), WithSpeaker(spk))
	defer c.Close()

	c.Play()
	require.Eventually(t, func() bool {
		return c.Snapshot().Status != StatusPlaying
	}, 2*time.Second, time.Millisecond, "failed narration should stop auto-advance")
}

func TestCloseStopsEverything(t *testing.T) {
	c := New(steps(5), WithSpeed(5*time.Millisecond))
	c.Play()
	c.Close()

	step := c.Snapshot().Step
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, step, c.Snapshot().Step, "closed controller must not advance")

	// All operations are no-ops after Close.
	c.Play()
	c.Next()
	assert.Equal(t, StatusStopped, c.Snapshot().Status)
}

func TestEmptyStepsAreInert(t *testing.T) {
	c := New(nil)
	defer c.Close()

	c.Play()
	c.Next()
	c.Previous()
	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, StatusStopped, snap.Status)
	assert.Equal(t, 0, snap.Step)
	assert.Equal(t, payload.AlgorithmStep{}, c.Current())
}
