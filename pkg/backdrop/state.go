package backdrop

import (
	"math"
	"time"

	"github.com/matzehuels/ridgeline/pkg/terrain"
)

// State is the render loop's progress since the last mount.
type State struct {
	// Time is the animation accumulator, advanced by Motion.TimeStep per
	// executed frame.
	Time float64
	// LastFrame is when the last executed frame ran. Zero before the first.
	LastFrame time.Time
	// Frames counts executed frames; Skipped counts throttled callbacks.
	Frames  int
	Skipped int
}

// Due reports whether a frame at now should execute given the minimum
// interval between frames.
func (s State) Due(now time.Time, interval time.Duration) bool {
	return s.LastFrame.IsZero() || now.Sub(s.LastFrame) >= interval
}

// Advance executes one animation step at now: it moves the accumulator,
// spins each layer about Z and sets its sway about Y.
func Advance(s *State, layers []*terrain.Layer, m Motion, now time.Time) {
	s.Time += m.TimeStep
	for i, l := range layers {
		fi := float64(i)
		l.Rotation.Z += m.BaseSpin + m.SpinStep*fi
		l.Rotation.Y = math.Sin(s.Time*m.SwayFreq+fi) * m.SwayAmp
	}
	s.LastFrame = now
	s.Frames++
}
