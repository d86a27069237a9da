package replay

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/parameter"
)

// Recording maps tick index to the desired velocity sampled on that tick
type Recording struct {
	// TickHz is the simulation rate the velocities were sampled at
	TickHz int

	velocities map[uint32]mgl64.Vec3
}

// NewRecording creates an empty recording at the default tick rate
func NewRecording() *Recording {
	return &Recording{
		TickHz:     parameter.TickHz,
		velocities: make(map[uint32]mgl64.Vec3),
	}
}

// Set stores the velocity for tick, replacing any previous entry
func (r *Recording) Set(tick uint32, v mgl64.Vec3) {
	r.velocities[tick] = v
}

// Get returns the velocity for tick
func (r *Recording) Get(tick uint32) (mgl64.Vec3, bool) {
	v, ok := r.velocities[tick]
	return v, ok
}

// Len returns the number of recorded ticks
func (r *Recording) Len() int {
	return len(r.velocities)
}

// Ticks returns recorded tick indices in ascending order
func (r *Recording) Ticks() []uint32 {
	ticks := make([]uint32, 0, len(r.velocities))
	for t := range r.velocities {
		ticks = append(ticks, t)
	}
	slices.Sort(ticks)
	return ticks
}

// Equal reports whether both recordings hold identical entries
func (r *Recording) Equal(other *Recording) bool {
	if r.TickHz != other.TickHz || r.Len() != other.Len() {
		return false
	}
	for t, v := range r.velocities {
		if ov, ok := other.velocities[t]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Sample implements the simulation's velocity source for playback
// A tick without an entry leaves the body's velocity unchanged
func (r *Recording) Sample(tick uint32) (mgl64.Vec3, bool) {
	return r.Get(tick)
}
