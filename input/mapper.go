package input

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/replay"
	"github.com/lixenwraith/kcc/vmath"
)

// moveAxes is the camera-local direction for each movement intent
var moveAxes = [...]struct {
	intent IntentType
	dir    mgl64.Vec3
}{
	{IntentMoveForward, mgl64.Vec3{0, 0, -1}},
	{IntentMoveLeft, mgl64.Vec3{-1, 0, 0}},
	{IntentMoveBack, mgl64.Vec3{0, 0, 1}},
	{IntentMoveRight, mgl64.Vec3{1, 0, 0}},
}

// Mapper converts held movement intents into a world-space desired velocity
type Mapper struct {
	Speed float64
}

// Velocity sums held directions, rotates them by the camera heading and scales to Speed
// Opposing keys cancel to zero
func (m Mapper) Velocity(held func(IntentType) bool, heading mgl64.Quat) mgl64.Vec3 {
	var dir mgl64.Vec3
	for _, axis := range moveAxes {
		if held(axis.intent) {
			dir = dir.Add(axis.dir)
		}
	}
	return vmath.NormalizeOrZero(heading.Rotate(dir)).Mul(m.Speed)
}

// Heading supplies the yaw-only rotation movement is relative to
type Heading interface {
	YawRotation() mgl64.Quat
}

// LiveSource samples held keys each tick and records what it produced
type LiveSource struct {
	keys      *KeyState
	heading   Heading
	mapper    Mapper
	recording *replay.Recording
}

// NewLiveSource creates a source reading keys; a nil recording disables capture
func NewLiveSource(keys *KeyState, heading Heading, mapper Mapper, recording *replay.Recording) *LiveSource {
	return &LiveSource{
		keys:      keys,
		heading:   heading,
		mapper:    mapper,
		recording: recording,
	}
}

// Sample implements the simulation's velocity source
func (s *LiveSource) Sample(tick uint32) (mgl64.Vec3, bool) {
	v := s.mapper.Velocity(s.keys.Held, s.heading.YawRotation())
	if s.recording != nil {
		s.recording.Set(tick, v)
	}
	return v, true
}
