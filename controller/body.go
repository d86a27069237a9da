package controller

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/physics"
)

// Body is a kinematic character driven by a desired velocity
// DesiredVelocity is written by the input stage once per tick; Pose is written only by the Mover
type Body struct {
	ID              physics.EntityID
	DesiredVelocity mgl64.Vec3
	Collider        physics.Shape
	Pose            physics.Pose
}

// NewBody creates a body at pose with zero desired velocity
func NewBody(id physics.EntityID, collider physics.Shape, pose physics.Pose) *Body {
	return &Body{
		ID:       id,
		Collider: collider,
		Pose:     pose,
	}
}

// Position returns the committed world position
func (b *Body) Position() mgl64.Vec3 {
	return b.Pose.Position
}
