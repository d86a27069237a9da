package engine

import "time"

// TimeProvider supplies wall time to frame pacing and key hold tracking
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// FrameTimer measures elapsed wall time between consecutive frames
type FrameTimer struct {
	provider TimeProvider
	last     time.Time
}

// NewFrameTimer starts measuring from the provider's current time
func NewFrameTimer(provider TimeProvider) *FrameTimer {
	return &FrameTimer{
		provider: provider,
		last:     provider.Now(),
	}
}

// Lap returns time since the previous Lap and restarts the measurement
// A provider stepping backwards yields zero
func (f *FrameTimer) Lap() time.Duration {
	now := f.provider.Now()
	delta := now.Sub(f.last)
	f.last = now
	if delta < 0 {
		return 0
	}
	return delta
}
