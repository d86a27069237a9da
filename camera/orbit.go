package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/physics"
)

// Rotation is the orbit camera's pitch and yaw in radians
type Rotation struct {
	Pitch float64
	Yaw   float64

	// Sensitivity converts pointer delta to radians
	Sensitivity float64
}

// NewRotation creates a level camera facing -Z
func NewRotation() *Rotation {
	return &Rotation{Sensitivity: parameter.CameraSensitivity}
}

// ApplyPointer rotates by a pointer delta; pitch is clamped so the camera never flips
func (r *Rotation) ApplyPointer(dx, dy float64) {
	r.Pitch = mgl64.Clamp(r.Pitch-r.Sensitivity*dy, parameter.CameraPitchMin, parameter.CameraPitchMax)
	r.Yaw -= r.Sensitivity * dx
}

// YawRotation returns the heading-only rotation used to orient movement input
func (r *Rotation) YawRotation() mgl64.Quat {
	return mgl64.QuatRotate(r.Yaw, mgl64.Vec3{0, 1, 0})
}

// Orientation returns yaw applied after pitch
func (r *Rotation) Orientation() mgl64.Quat {
	return r.YawRotation().Mul(mgl64.QuatRotate(r.Pitch, mgl64.Vec3{1, 0, 0}))
}

// Transform places the camera on its boom behind target, looking along its local -Z
func (r *Rotation) Transform(target mgl64.Vec3) physics.Pose {
	rot := r.Orientation()
	return physics.Pose{
		Position: target.Add(rot.Rotate(mgl64.Vec3{0, 0, parameter.CameraDistance})),
		Rotation: rot,
	}
}

// Forward returns the camera's viewing direction
func (r *Rotation) Forward() mgl64.Vec3 {
	return r.Orientation().Rotate(mgl64.Vec3{0, 0, -1})
}
