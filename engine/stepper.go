package engine

import (
	"log"
	"time"
)

// Stepper converts variable frame time into whole fixed ticks
// Owned by a single simulation loop; not safe for concurrent use
type Stepper struct {
	clock *Clock
	mode  SteppingMode

	// maxTicksPerFrame bounds DrainAndRun; 0 is unlimited
	maxTicksPerFrame int
	dropped          uint64
}

// NewStepper creates a free-running stepper over clock
func NewStepper(clock *Clock, maxTicksPerFrame int) *Stepper {
	if maxTicksPerFrame < 0 {
		maxTicksPerFrame = 0
	}
	return &Stepper{
		clock:            clock,
		mode:             FreeRunning,
		maxTicksPerFrame: maxTicksPerFrame,
	}
}

// Clock returns the stepper's clock
func (s *Stepper) Clock() *Clock {
	return s.clock
}

// Mode returns the active stepping mode
func (s *Stepper) Mode() SteppingMode {
	return s.mode
}

// SetMode switches mode; accumulated overstep is kept
func (s *Stepper) SetMode(mode SteppingMode) {
	s.mode = mode
}

// Toggle flips between FreeRunning and SinglePulse and returns the new mode
func (s *Stepper) Toggle() SteppingMode {
	if s.mode == FreeRunning {
		s.mode = SinglePulse
	} else {
		s.mode = FreeRunning
	}
	return s.mode
}

// Dropped returns the total ticks discarded by the per-frame clamp
func (s *Stepper) Dropped() uint64 {
	return s.dropped
}

// Accumulate adds one frame's elapsed real time to the overstep
// Negative deltas are ignored
func (s *Stepper) Accumulate(delta time.Duration) {
	if delta <= 0 {
		return
	}
	s.clock.overstep += delta
}

// DrainAndRun runs tickFn once per whole tick owed while FreeRunning and returns the count
func (s *Stepper) DrainAndRun(tickFn func()) int {
	if s.mode != FreeRunning {
		return 0
	}

	c := s.clock
	ran := 0
	for c.overstep >= c.tick {
		if s.maxTicksPerFrame > 0 && ran >= s.maxTicksPerFrame {
			owed := c.overstep / c.tick
			c.overstep -= owed * c.tick
			s.dropped += uint64(owed)
			log.Printf("[engine] frame clamp at %d ticks, dropped %d", s.maxTicksPerFrame, owed)
			break
		}
		c.overstep -= c.tick
		c.elapsed += c.tick
		tickFn()
		ran++
	}
	return ran
}

// RunSingleTick runs tickFn exactly once without touching overstep
func (s *Stepper) RunSingleTick(tickFn func()) {
	s.clock.elapsed += s.clock.tick
	tickFn()
}
