package animator

import (
	"math"
	"time"
)

// Animation constants. These are fixed, not user-configurable.
const (
	Frames       = 5
	MaxFrame     = Frames - 1
	BaseDelay    = 200 * time.Millisecond
	MinLoad      = 1.0
	MaxLoad      = 20.0
	LoadDivisor  = 5.0
	DefaultUsage = 1.0
)

// Tick is one animation step handed to the UI: which frame of which icon
// sequence to show.
type Tick struct {
	Frame int
	Theme Theme
}

// IsDark reports whether the tick selects the dark icon sequence.
func (t Tick) IsDark() bool {
	return t.Theme.IsDark()
}

// State is everything the animator carries from one iteration to the next.
type State struct {
	Frame int
	Theme Theme
	Usage float64
}

// NewState returns the state the animator starts from.
func NewState() State {
	return State{
		Frame: 0,
		Theme: ThemeLight,
		Usage: DefaultUsage,
	}
}

// Delay returns the inter-frame sleep for a CPU usage percentage:
// BaseDelay divided by usage/LoadDivisor clamped to [MinLoad, MaxLoad].
// The result lies in [10ms, 200ms]. NaN usage runs at the idle rate.
func Delay(usage float64) time.Duration {
	load := usage / LoadDivisor
	if math.IsNaN(load) {
		load = MinLoad
	}
	load = max(MinLoad, min(MaxLoad, load))
	return time.Duration(float64(BaseDelay) / load)
}

// Step advances the animator by one iteration. usage and cmd are the values
// received this iteration, or nil when nothing was pending. It returns the
// next state, the tick to deliver after sleeping, and the sleep duration.
func Step(s State, usage *float64, cmd *int) (State, Tick, time.Duration) {
	if usage != nil {
		s.Usage = *usage
	}
	if cmd != nil {
		s.Theme = ThemeFromCommand(*cmd)
	}
	if s.Frame > MaxFrame || s.Frame < 0 {
		s.Frame = 0
	}

	delay := Delay(s.Usage)
	tick := Tick{Frame: s.Frame, Theme: s.Theme}
	s.Frame++

	return s, tick, delay
}
