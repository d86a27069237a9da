package engine

import (
	"testing"
	"time"
)

const testTick = 15625 * time.Microsecond

func newTestStepper(t *testing.T, maxTicks int) *Stepper {
	t.Helper()
	clock, err := NewClock(testTick)
	if err != nil {
		t.Fatalf("NewClock failed: %v", err)
	}
	return NewStepper(clock, maxTicks)
}

func TestNewClock_RejectsNonPositiveTick(t *testing.T) {
	if _, err := NewClock(0); err == nil {
		t.Error("Expected error for zero tick")
	}
	if _, err := NewClock(-time.Millisecond); err == nil {
		t.Error("Expected error for negative tick")
	}
}

func TestStepper_AccumulationIsAssociative(t *testing.T) {
	splits := map[string][]time.Duration{
		"single slow frame": {1 * time.Second},
		"steady 60fps":      repeat(16666667*time.Nanosecond, 60),
		"jittery":           {3 * time.Millisecond, 250 * time.Millisecond, 7 * time.Millisecond, 740*time.Millisecond - 2},
		"sub-tick frames":   repeat(time.Millisecond, 1000),
	}

	for name, deltas := range splits {
		t.Run(name, func(t *testing.T) {
			s := newTestStepper(t, 0)
			initial := 5 * time.Millisecond
			s.Accumulate(initial)

			var total time.Duration
			ran := 0
			for _, d := range deltas {
				total += d
				s.Accumulate(d)
				ran += s.DrainAndRun(func() {})
			}

			budget := total + initial
			wantTicks := int(budget / testTick)
			wantOverstep := budget % testTick

			if ran != wantTicks {
				t.Errorf("Expected %d ticks, got %d", wantTicks, ran)
			}
			if got := s.Clock().Overstep(); got != wantOverstep {
				t.Errorf("Expected overstep %v, got %v", wantOverstep, got)
			}
			if got := s.Clock().Elapsed(); got != time.Duration(wantTicks)*testTick {
				t.Errorf("Expected elapsed %v, got %v", time.Duration(wantTicks)*testTick, got)
			}
		})
	}
}

func TestStepper_OverstepBelowTickAfterDrain(t *testing.T) {
	s := newTestStepper(t, 0)
	for _, d := range []time.Duration{40 * time.Millisecond, 1, 15625 * time.Microsecond, 99 * time.Millisecond} {
		s.Accumulate(d)
		s.DrainAndRun(func() {})
		if o := s.Clock().Overstep(); o < 0 || o >= testTick {
			t.Fatalf("Expected 0 <= overstep < tick, got %v", o)
		}
	}
}

func TestStepper_NegativeDeltaIgnored(t *testing.T) {
	s := newTestStepper(t, 0)
	s.Accumulate(10 * time.Millisecond)
	s.Accumulate(-time.Second)

	if got := s.Clock().Overstep(); got != 10*time.Millisecond {
		t.Errorf("Expected overstep 10ms, got %v", got)
	}
}

func TestStepper_SinglePulse(t *testing.T) {
	s := newTestStepper(t, 0)
	s.SetMode(SinglePulse)

	s.Accumulate(200 * time.Millisecond)
	if ran := s.DrainAndRun(func() {}); ran != 0 {
		t.Errorf("Expected no automatic ticks in SinglePulse, got %d", ran)
	}

	count := 0
	for i := 0; i < 3; i++ {
		s.RunSingleTick(func() { count++ })
	}
	if count != 3 {
		t.Errorf("Expected 3 single ticks, got %d", count)
	}
	if got := s.Clock().Overstep(); got != 200*time.Millisecond {
		t.Errorf("Expected overstep preserved at 200ms, got %v", got)
	}
	if got := s.Clock().Elapsed(); got != 3*testTick {
		t.Errorf("Expected elapsed of 3 ticks, got %v", got)
	}

	// Resuming catches up on owed ticks
	if mode := s.Toggle(); mode != FreeRunning {
		t.Fatalf("Expected FreeRunning after toggle, got %v", mode)
	}
	if ran := s.DrainAndRun(func() {}); ran != 12 {
		t.Errorf("Expected 12 owed ticks (200ms / 15.625ms), got %d", ran)
	}
	if got := s.Clock().Overstep(); got != 200*time.Millisecond-12*testTick {
		t.Errorf("Expected overstep %v, got %v", 200*time.Millisecond-12*testTick, got)
	}
}

func TestStepper_ToggleRoundTrip(t *testing.T) {
	s := newTestStepper(t, 0)
	if s.Mode() != FreeRunning {
		t.Fatalf("Expected initial FreeRunning, got %v", s.Mode())
	}
	s.Toggle()
	if s.Mode() != SinglePulse {
		t.Errorf("Expected SinglePulse, got %v", s.Mode())
	}
	s.Toggle()
	if s.Mode() != FreeRunning {
		t.Errorf("Expected FreeRunning, got %v", s.Mode())
	}
}

func TestStepper_FrameClamp(t *testing.T) {
	s := newTestStepper(t, 4)
	s.Accumulate(10*testTick + 3*time.Millisecond)

	ran := s.DrainAndRun(func() {})
	if ran != 4 {
		t.Errorf("Expected clamp at 4 ticks, got %d", ran)
	}
	if got := s.Dropped(); got != 6 {
		t.Errorf("Expected 6 dropped ticks, got %d", got)
	}
	if got := s.Clock().Overstep(); got != 3*time.Millisecond {
		t.Errorf("Expected sub-tick remainder 3ms kept, got %v", got)
	}
}

func TestSteppingMode_String(t *testing.T) {
	if FreeRunning.String() != "FreeRunning" || SinglePulse.String() != "SinglePulse" {
		t.Errorf("Unexpected mode names %q %q", FreeRunning, SinglePulse)
	}
	if SteppingMode(9).String() != "SteppingMode(9)" {
		t.Errorf("Unexpected unknown mode name %q", SteppingMode(9))
	}
}

func repeat(d time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = d
	}
	return out
}
