package playback

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Any sequence of manual navigation commands keeps the step inside the
// sequence bounds and the timer accounting balanced.
func TestNavigationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("step stays within bounds under any command sequence", prop.ForAll(
		func(n int, commands []int) bool {
			c := New(steps(n))
			defer c.Close()

			for _, cmd := range commands {
				switch cmd % 4 {
				case 0:
					c.Next()
				case 1:
					c.Previous()
				case 2:
					c.Reset()
				case 3:
					c.Pause()
				}
				snap := c.Snapshot()
				if snap.Step < 0 || snap.Step >= n {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("manual commands never leave a timer live", prop.ForAll(
		func(n int, commands []int) bool {
			c := New(steps(n))
			defer c.Close()

			for _, cmd := range commands {
				switch cmd % 3 {
				case 0:
					c.Next()
				case 1:
					c.Previous()
				case 2:
					c.Reset()
				}
			}
			started, retired := c.TimerStats()
			return started == retired
		},
		gen.IntRange(1, 10),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
