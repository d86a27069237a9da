package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/vmath"
)

// ShapeKind tags the collider variant
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeCapsule
	ShapeCylinder
	ShapeBox
)

var shapeKindNames = [...]string{
	ShapeSphere:   "sphere",
	ShapeCapsule:  "capsule",
	ShapeCylinder: "cylinder",
	ShapeBox:      "box",
}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return fmt.Sprintf("shape(%d)", uint8(k))
}

// ParseShapeKind resolves a kind from its lowercase name
func ParseShapeKind(name string) (ShapeKind, error) {
	for i, n := range shapeKindNames {
		if n == name {
			return ShapeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", name)
}

// Shape is a convex collider in its local frame
// Capsule and cylinder axes run along local Y
// Sphere and capsule are stored as a core (point, segment) inflated by Radius
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfHeight  float64
	HalfExtents mgl64.Vec3
}

// Sphere creates a sphere collider
func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Capsule creates a capsule whose straight section is 2*halfHeight long
func Capsule(radius, halfHeight float64) Shape {
	return Shape{Kind: ShapeCapsule, Radius: radius, HalfHeight: halfHeight}
}

// Cylinder creates a cylinder from radius and full height
func Cylinder(radius, height float64) Shape {
	return Shape{Kind: ShapeCylinder, Radius: radius, HalfHeight: height / 2}
}

// Cuboid creates a box from full side lengths
func Cuboid(x, y, z float64) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{x / 2, y / 2, z / 2}}
}

// Validate rejects shapes with non-positive or non-finite dimensions
func (s Shape) Validate() error {
	positive := func(name string, v float64) error {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s %s must be positive, got %v", s.Kind, name, v)
		}
		return nil
	}

	switch s.Kind {
	case ShapeSphere:
		return positive("radius", s.Radius)
	case ShapeCapsule, ShapeCylinder:
		if err := positive("radius", s.Radius); err != nil {
			return err
		}
		return positive("half height", s.HalfHeight)
	case ShapeBox:
		for i, axis := range [3]string{"x", "y", "z"} {
			if err := positive("half extent "+axis, s.HalfExtents[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown shape kind %d", s.Kind)
	}
}

// margin is the inflation radius applied around the core
func (s Shape) margin() float64 {
	switch s.Kind {
	case ShapeSphere, ShapeCapsule:
		return s.Radius
	default:
		return 0
	}
}

// coreSupport returns the core point furthest along local direction d
func (s Shape) coreSupport(d mgl64.Vec3) mgl64.Vec3 {
	switch s.Kind {
	case ShapeCapsule:
		return mgl64.Vec3{0, vmath.SignNonZero(d[1]) * s.HalfHeight, 0}
	case ShapeCylinder:
		var x, z float64
		if r := math.Hypot(d[0], d[2]); r > 1e-12 {
			x = d[0] / r * s.Radius
			z = d[2] / r * s.Radius
		}
		return mgl64.Vec3{x, vmath.SignNonZero(d[1]) * s.HalfHeight, z}
	case ShapeBox:
		h := s.HalfExtents
		return mgl64.Vec3{
			vmath.SignNonZero(d[0]) * h[0],
			vmath.SignNonZero(d[1]) * h[1],
			vmath.SignNonZero(d[2]) * h[2],
		}
	default:
		return mgl64.Vec3{}
	}
}

// Support returns the local surface point furthest along direction d
func (s Shape) Support(d mgl64.Vec3) mgl64.Vec3 {
	p := s.coreSupport(d)
	if r := s.margin(); r > 0 {
		if n, ok := vmath.TryNormalize(d); ok {
			p = p.Add(n.Mul(r))
		}
	}
	return p
}

// ContainsLocal reports whether a local point is inside or on the shape
func (s Shape) ContainsLocal(p mgl64.Vec3) bool {
	switch s.Kind {
	case ShapeSphere:
		return p.LenSqr() <= s.Radius*s.Radius
	case ShapeCapsule:
		y := math.Max(-s.HalfHeight, math.Min(s.HalfHeight, p[1]))
		return p.Sub(mgl64.Vec3{0, y, 0}).LenSqr() <= s.Radius*s.Radius
	case ShapeCylinder:
		return math.Abs(p[1]) <= s.HalfHeight && p[0]*p[0]+p[2]*p[2] <= s.Radius*s.Radius
	case ShapeBox:
		h := s.HalfExtents
		return math.Abs(p[0]) <= h[0] && math.Abs(p[1]) <= h[1] && math.Abs(p[2]) <= h[2]
	default:
		return false
	}
}

// Bounds returns the world AABB of the shape placed at pose
func (s Shape) Bounds(pose Pose) vmath.AABB {
	w := worldProxy{shape: s, pose: pose}
	b := vmath.EmptyAABB()
	for i := 0; i < 3; i++ {
		var axis mgl64.Vec3
		axis[i] = 1
		b = b.Extend(w.support(axis)).Extend(w.support(axis.Mul(-1)))
	}
	return b.Expand(s.margin())
}

// worldProxy exposes a shape's core support mapping in world space
type worldProxy struct {
	shape Shape
	pose  Pose
}

func (w worldProxy) support(d mgl64.Vec3) mgl64.Vec3 {
	return w.pose.ToWorld(w.shape.coreSupport(w.pose.DirToLocal(d)))
}

func (w worldProxy) center() mgl64.Vec3 {
	return w.pose.Position
}

func (w worldProxy) radius() float64 {
	return w.shape.margin()
}
