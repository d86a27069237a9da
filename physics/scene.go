package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/vmath"
)

// EntityID identifies a collider owner in the scene
type EntityID uint64

// Obstacle is a static collider
type Obstacle struct {
	ID     EntityID
	Shape  Shape
	Pose   Pose
	bounds vmath.AABB
}

// Bounds returns the cached world AABB
func (o *Obstacle) Bounds() vmath.AABB {
	return o.bounds
}

// Contains reports whether a world point lies inside the obstacle
func (o *Obstacle) Contains(p mgl64.Vec3) bool {
	if !o.bounds.Contains(p) {
		return false
	}
	return o.Shape.ContainsLocal(o.Pose.ToLocal(p))
}

// QueryFilter selects which entities a query may hit
// Zero value allows everything
type QueryFilter struct {
	excluded map[EntityID]struct{}
}

// ExcludeEntities builds a filter that ignores the given entities
func ExcludeEntities(ids ...EntityID) QueryFilter {
	f := QueryFilter{excluded: make(map[EntityID]struct{}, len(ids))}
	for _, id := range ids {
		f.excluded[id] = struct{}{}
	}
	return f
}

// Allows reports whether id passes the filter
func (f QueryFilter) Allows(id EntityID) bool {
	_, skip := f.excluded[id]
	return !skip
}

// SpatialQuery answers swept-shape queries against static geometry
type SpatialQuery interface {
	// CastShape sweeps shape from origin along unit dir up to maxDist and returns the nearest blocking hit
	CastShape(shape Shape, origin Pose, dir mgl64.Vec3, maxDist float64, filter QueryFilter) (ShapeHit, bool)
}

// Scene is an immutable set of static obstacles
// Safe for concurrent queries once built
type Scene struct {
	obstacles []Obstacle
}

// NewScene validates obstacles and caches their bounds
func NewScene(obstacles ...Obstacle) (*Scene, error) {
	seen := make(map[EntityID]struct{}, len(obstacles))
	list := make([]Obstacle, len(obstacles))
	for i, o := range obstacles {
		if err := o.Shape.Validate(); err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", o.ID, err)
		}
		if _, dup := seen[o.ID]; dup {
			return nil, fmt.Errorf("obstacle %d: duplicate entity id", o.ID)
		}
		seen[o.ID] = struct{}{}

		o.Pose.Rotation = o.Pose.rotation().Normalize()
		o.bounds = o.Shape.Bounds(o.Pose)
		list[i] = o
	}
	return &Scene{obstacles: list}, nil
}

// Obstacles returns the obstacles for read-only use
func (s *Scene) Obstacles() []Obstacle {
	return s.obstacles
}

// Len returns the obstacle count
func (s *Scene) Len() int {
	return len(s.obstacles)
}

// CastShape implements SpatialQuery
func (s *Scene) CastShape(shape Shape, origin Pose, dir mgl64.Vec3, maxDist float64, filter QueryFilter) (ShapeHit, bool) {
	if !(maxDist > 0) || !vmath.IsFinite(dir) || !vmath.IsFinite(origin.Position) {
		return ShapeHit{}, false
	}

	// Broadphase: swept bounds of the moving shape with a margin covering the cast gap
	swept := shape.Bounds(origin).Sweep(dir, maxDist).Expand(castTargetGap)

	var best ShapeHit
	found := false
	for i := range s.obstacles {
		o := &s.obstacles[i]
		if !filter.Allows(o.ID) || !swept.Overlaps(o.bounds) {
			continue
		}

		hit, ok := CastPair(shape, origin, dir, maxDist, o.Shape, o.Pose)
		if !ok {
			continue
		}
		if !found || hit.TimeOfImpact < best.TimeOfImpact {
			hit.Entity = o.ID
			best = hit
			found = true
		}
	}
	return best, found
}

// Touching returns the ids of obstacles within margin of shape at pose
func (s *Scene) Touching(shape Shape, pose Pose, margin float64, filter QueryFilter) []EntityID {
	bounds := shape.Bounds(pose).Expand(margin)
	var ids []EntityID
	for i := range s.obstacles {
		o := &s.obstacles[i]
		if !filter.Allows(o.ID) || !bounds.Overlaps(o.bounds) {
			continue
		}
		if out := Distance(shape, pose, o.Shape, o.Pose); out.CoreOverlap || out.Distance <= margin {
			ids = append(ids, o.ID)
		}
	}
	return ids
}
