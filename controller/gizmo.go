package controller

import (
	"github.com/go-gl/mathgl/mgl64"
)

// DebugSink receives observational primitives from the mover
// Implementations must not feed anything back into the simulation
type DebugSink interface {
	Ray(origin, dir mgl64.Vec3)
	Contact(point, normal mgl64.Vec3)
}

type nopSink struct{}

func (nopSink) Ray(mgl64.Vec3, mgl64.Vec3)     {}
func (nopSink) Contact(mgl64.Vec3, mgl64.Vec3) {}

// GizmoRay is a recorded sweep direction
type GizmoRay struct {
	Origin, Dir mgl64.Vec3
}

// GizmoContact is a recorded hit point
type GizmoContact struct {
	Point, Normal mgl64.Vec3
}

// Gizmos is one tick's worth of debug primitives
type Gizmos struct {
	Rays     []GizmoRay
	Contacts []GizmoContact
}

// GizmoBuffer collects primitives for the tick in progress and exposes the last completed tick
// Begin clears the working set, Commit publishes it
type GizmoBuffer struct {
	working   Gizmos
	committed Gizmos
}

// NewGizmoBuffer creates an empty buffer
func NewGizmoBuffer() *GizmoBuffer {
	return &GizmoBuffer{}
}

// Begin starts a new tick
func (g *GizmoBuffer) Begin() {
	g.working.Rays = g.working.Rays[:0]
	g.working.Contacts = g.working.Contacts[:0]
}

// Ray implements DebugSink
func (g *GizmoBuffer) Ray(origin, dir mgl64.Vec3) {
	g.working.Rays = append(g.working.Rays, GizmoRay{Origin: origin, Dir: dir})
}

// Contact implements DebugSink
func (g *GizmoBuffer) Contact(point, normal mgl64.Vec3) {
	g.working.Contacts = append(g.working.Contacts, GizmoContact{Point: point, Normal: normal})
}

// Commit publishes the working set as the latest completed tick
func (g *GizmoBuffer) Commit() {
	g.committed.Rays = append(g.committed.Rays[:0], g.working.Rays...)
	g.committed.Contacts = append(g.committed.Contacts[:0], g.working.Contacts...)
}

// Snapshot returns a copy of the last committed tick
func (g *GizmoBuffer) Snapshot() Gizmos {
	return Gizmos{
		Rays:     append([]GizmoRay(nil), g.committed.Rays...),
		Contacts: append([]GizmoContact(nil), g.committed.Contacts...),
	}
}
