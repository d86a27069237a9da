package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid placement: world position plus orientation
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewPose creates a pose with identity rotation
func NewPose(x, y, z float64) Pose {
	return Pose{
		Position: mgl64.Vec3{x, y, z},
		Rotation: mgl64.QuatIdent(),
	}
}

// WithEuler returns a copy rotated by XYZ euler angles in degrees, applied Y then X then Z
func (p Pose) WithEuler(xDeg, yDeg, zDeg float64) Pose {
	qx := mgl64.QuatRotate(mgl64.DegToRad(xDeg), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(yDeg), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(zDeg), mgl64.Vec3{0, 0, 1})
	p.Rotation = qy.Mul(qx).Mul(qz).Normalize()
	return p
}

// Translated returns the pose moved by offset
func (p Pose) Translated(offset mgl64.Vec3) Pose {
	p.Position = p.Position.Add(offset)
	return p
}

// ToWorld maps a local point into world space
func (p Pose) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.rotation().Rotate(local))
}

// ToLocal maps a world point into the pose frame
func (p Pose) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return p.rotation().Conjugate().Rotate(world.Sub(p.Position))
}

// DirToLocal rotates a world direction into the pose frame
func (p Pose) DirToLocal(d mgl64.Vec3) mgl64.Vec3 {
	return p.rotation().Conjugate().Rotate(d)
}

// rotation treats the zero quaternion as identity so zero-value poses stay usable
func (p Pose) rotation() mgl64.Quat {
	if p.Rotation.W == 0 && p.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return p.Rotation
}
