package level

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/physics"
)

// ErrInvalid marks a level that parsed but cannot be built
var ErrInvalid = errors.New("invalid level")

// ShapeSpec describes a collider in level files
// Box uses Size as full edge lengths; cylinder and capsule use Radius and Height,
// where a capsule's Height excludes its caps
type ShapeSpec struct {
	Kind   string     `toml:"kind"`
	Size   [3]float64 `toml:"size,omitempty"`
	Radius float64    `toml:"radius,omitempty"`
	Height float64    `toml:"height,omitempty"`
}

// Shape converts the description into a validated collider
func (s ShapeSpec) Shape() (physics.Shape, error) {
	kind, err := physics.ParseShapeKind(s.Kind)
	if err != nil {
		return physics.Shape{}, err
	}

	var shape physics.Shape
	switch kind {
	case physics.ShapeBox:
		shape = physics.Cuboid(s.Size[0], s.Size[1], s.Size[2])
	case physics.ShapeSphere:
		shape = physics.Sphere(s.Radius)
	case physics.ShapeCylinder:
		shape = physics.Cylinder(s.Radius, s.Height)
	case physics.ShapeCapsule:
		shape = physics.Capsule(s.Radius, s.Height/2)
	}
	if err := shape.Validate(); err != nil {
		return physics.Shape{}, err
	}
	return shape, nil
}

// Placement is a position plus Euler rotation in degrees
type Placement struct {
	Position [3]float64 `toml:"position"`
	Rotation [3]float64 `toml:"rotation,omitempty"`
}

// Pose converts the placement to a physics pose
func (p Placement) Pose() physics.Pose {
	return physics.NewPose(p.Position[0], p.Position[1], p.Position[2]).
		WithEuler(p.Rotation[0], p.Rotation[1], p.Rotation[2])
}

// ObstacleSpec is one static obstacle
type ObstacleSpec struct {
	ShapeSpec
	Placement
}

// PlayerSpec is the controllable body
type PlayerSpec struct {
	ShapeSpec
	Placement
}

// Level is the static scene plus the player spawn
type Level struct {
	Name      string         `toml:"name"`
	Player    PlayerSpec     `toml:"player"`
	Obstacles []ObstacleSpec `toml:"obstacle"`
}

// Default returns the built-in test course: six cuboids around a cylinder body at (0,1,0)
func Default() *Level {
	box := func(x, y, z float64) ShapeSpec {
		return ShapeSpec{Kind: "box", Size: [3]float64{x, y, z}}
	}
	at := func(x, y, z float64, rot ...float64) Placement {
		p := Placement{Position: [3]float64{x, y, z}}
		copy(p.Rotation[:], rot)
		return p
	}

	return &Level{
		Name: "default",
		Player: PlayerSpec{
			ShapeSpec: ShapeSpec{Kind: "cylinder", Radius: parameter.PlayerRadius, Height: parameter.PlayerHeight},
			Placement: at(0, parameter.PlayerHeight/2, 0),
		},
		Obstacles: []ObstacleSpec{
			{box(2, 5, 10), at(15, 2.5, 0)},
			{box(10, 5, 2), at(-15, 2.5, 0, 0, 15, 0)},
			{box(10, 5, 2), at(0, 2.5, 15, 0, -15, 0)},
			{box(2, 5, 10), at(0, 2.5, 15, 0, 35, 0)},
			{box(2, 5, 10), at(0, 2.5, 30, 35, 0, 0)},
			{box(10, 2, 30), at(-15, -2, 30, 35, 0, 0)},
		},
	}
}

// Parse decodes a level from TOML
func Parse(data []byte) (*Level, error) {
	var lvl Level
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lvl); err != nil {
		return nil, fmt.Errorf("level parse: %w", err)
	}
	return &lvl, nil
}

// Load reads a level file
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// Marshal encodes the level as TOML
func (l *Level) Marshal() ([]byte, error) {
	return toml.Marshal(l)
}

// Build creates the immutable scene and the player body
// Obstacles get ids 1..n in file order
func (l *Level) Build() (*physics.Scene, *controller.Body, error) {
	obstacles := make([]physics.Obstacle, 0, len(l.Obstacles))
	for i, obs := range l.Obstacles {
		shape, err := obs.Shape()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: obstacle %d: %v", ErrInvalid, i, err)
		}
		obstacles = append(obstacles, physics.Obstacle{
			ID:    physics.EntityID(i + 1),
			Shape: shape,
			Pose:  obs.Pose(),
		})
	}

	scene, err := physics.NewScene(obstacles...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	playerShape, err := l.Player.Shape()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: player: %v", ErrInvalid, err)
	}
	player := controller.NewBody(parameter.PlayerEntity, playerShape, l.Player.Pose())

	if hits := scene.Touching(player.Collider, player.Pose, 0, physics.QueryFilter{}); len(hits) > 0 {
		return nil, nil, fmt.Errorf("%w: player spawn overlaps obstacles %v", ErrInvalid, hits)
	}

	return scene, player, nil
}

// Extent returns the XZ bounds of every obstacle and the spawn, for framing views
func (l *Level) Extent(scene *physics.Scene) (lo, hi mgl64.Vec2) {
	spawn := l.Player.Pose().Position
	lo = mgl64.Vec2{spawn.X(), spawn.Z()}
	hi = lo
	for _, o := range scene.Obstacles() {
		b := o.Bounds()
		lo = mgl64.Vec2{min(lo.X(), b.Min.X()), min(lo.Y(), b.Min.Z())}
		hi = mgl64.Vec2{max(hi.X(), b.Max.X()), max(hi.Y(), b.Max.Z())}
	}
	return lo, hi
}
