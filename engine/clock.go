package engine

import (
	"fmt"
	"time"
)

// SteppingMode selects how the Stepper converts real time into ticks
type SteppingMode uint8

const (
	// FreeRunning drains every owed tick each frame
	FreeRunning SteppingMode = iota
	// SinglePulse holds ticks until an explicit single-step request
	SinglePulse
)

func (m SteppingMode) String() string {
	switch m {
	case FreeRunning:
		return "FreeRunning"
	case SinglePulse:
		return "SinglePulse"
	default:
		return fmt.Sprintf("SteppingMode(%d)", uint8(m))
	}
}

// Clock holds simulation time
// overstep is real time accumulated but not yet converted into ticks
type Clock struct {
	tick     time.Duration
	overstep time.Duration
	elapsed  time.Duration
}

// NewClock creates a clock with fixed tick duration
func NewClock(tick time.Duration) (*Clock, error) {
	if tick <= 0 {
		return nil, fmt.Errorf("tick duration must be positive, got %v", tick)
	}
	return &Clock{tick: tick}, nil
}

// Tick returns the fixed tick duration
func (c *Clock) Tick() time.Duration {
	return c.tick
}

// Overstep returns the unconsumed accumulated time
func (c *Clock) Overstep() time.Duration {
	return c.overstep
}

// Elapsed returns current simulation time, always a whole number of ticks
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}
