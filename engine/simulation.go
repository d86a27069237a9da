package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/physics"
	"github.com/lixenwraith/kcc/status"
)

// VelocitySource supplies the controlled body's desired velocity for a tick index
// ok=false leaves the previous velocity in place
type VelocitySource interface {
	Sample(tick uint32) (velocity mgl64.Vec3, ok bool)
}

// Options configures a Simulation
type Options struct {
	Tick             time.Duration
	MaxTicksPerFrame int
	Mover            controller.MoverConfig

	Scene  *physics.Scene
	Bodies []*controller.Body
	// Controlled receives velocities from Input; zero selects the first body
	Controlled physics.EntityID
	Input      VelocitySource

	// Status is optional; a private registry is created when nil
	Status *status.Registry
	Gizmos *controller.GizmoBuffer
}

// Simulation is the explicitly owned simulation context
// It owns the clock, the body collection and the static scene
type Simulation struct {
	stepper    *Stepper
	scene      *physics.Scene
	mover      *controller.Mover
	bodies     []*controller.Body
	controlled *controller.Body
	input      VelocitySource
	gizmos     *controller.GizmoBuffer

	tickIndex uint32
	frame     uint64
	reports   []controller.Report
	colliding bool

	statusReg     *status.Registry
	statFrame     *atomic.Int64
	statTicks     *atomic.Int64
	statDropped   *atomic.Int64
	statBounces   *atomic.Int64
	statHits      *atomic.Int64
	statColliding *atomic.Bool
	statMode      *status.Text
	statNormal    *status.Text
	statSimTime   *status.Float
}

// NewSimulation validates options and builds a simulation starting in FreeRunning
func NewSimulation(opts Options) (*Simulation, error) {
	if opts.Scene == nil {
		return nil, errors.New("simulation requires a scene")
	}
	if len(opts.Bodies) == 0 {
		return nil, errors.New("simulation requires at least one body")
	}
	if opts.Tick == 0 {
		opts.Tick = parameter.TickDuration
	}

	clock, err := NewClock(opts.Tick)
	if err != nil {
		return nil, err
	}

	seen := make(map[physics.EntityID]struct{}, len(opts.Bodies))
	for _, b := range opts.Bodies {
		if err := b.Collider.Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", b.ID, err)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("duplicate body id %d", b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	controlled := opts.Bodies[0]
	if opts.Controlled != 0 {
		controlled = nil
		for _, b := range opts.Bodies {
			if b.ID == opts.Controlled {
				controlled = b
				break
			}
		}
		if controlled == nil {
			return nil, fmt.Errorf("controlled body %d not found", opts.Controlled)
		}
	}

	gizmos := opts.Gizmos
	if gizmos == nil {
		gizmos = controller.NewGizmoBuffer()
	}
	reg := opts.Status
	if reg == nil {
		reg = status.NewRegistry()
	}

	s := &Simulation{
		stepper:    NewStepper(clock, opts.MaxTicksPerFrame),
		scene:      opts.Scene,
		mover:      controller.NewMover(opts.Scene, opts.Mover, gizmos),
		bodies:     opts.Bodies,
		controlled: controlled,
		input:      opts.Input,
		gizmos:     gizmos,
		reports:    make([]controller.Report, 0, len(opts.Bodies)),

		statusReg:     reg,
		statFrame:     reg.Ints.Get("engine.frame"),
		statTicks:     reg.Ints.Get("engine.ticks"),
		statDropped:   reg.Ints.Get("engine.ticks_dropped"),
		statBounces:   reg.Ints.Get("mover.bounces"),
		statHits:      reg.Ints.Get("mover.hits"),
		statColliding: reg.Bools.Get("mover.colliding"),
		statMode:      reg.Strings.Get("engine.mode"),
		statNormal:    reg.Strings.Get("mover.normal"),
		statSimTime:   reg.Floats.Get("engine.sim_time"),
	}
	s.statMode.Store(s.stepper.Mode().String())
	return s, nil
}

// Frame accumulates one frame's elapsed time and runs every owed tick
// Returns the number of ticks run
func (s *Simulation) Frame(delta time.Duration) int {
	s.frame++
	s.statFrame.Store(int64(s.frame))

	s.stepper.Accumulate(delta)
	ran := s.stepper.DrainAndRun(s.tick)
	s.statDropped.Store(int64(s.stepper.Dropped()))
	return ran
}

// StepOnce runs exactly one tick when in SinglePulse and reports whether it ran
func (s *Simulation) StepOnce() bool {
	if s.stepper.Mode() != SinglePulse {
		return false
	}
	s.stepper.RunSingleTick(s.tick)
	return true
}

// ToggleMode flips the stepping mode; owed ticks are kept for the next frame
func (s *Simulation) ToggleMode() SteppingMode {
	mode := s.stepper.Toggle()
	s.statMode.Store(mode.String())
	return mode
}

// SetMode forces a stepping mode
func (s *Simulation) SetMode(mode SteppingMode) {
	s.stepper.SetMode(mode)
	s.statMode.Store(mode.String())
}

// tick is the fixed-step stage: input, move, publish
func (s *Simulation) tick() {
	s.gizmos.Begin()

	if s.input != nil {
		if v, ok := s.input.Sample(s.tickIndex); ok {
			s.controlled.DesiredVelocity = v
		}
	}

	s.reports = s.mover.MoveAll(s.bodies, s.stepper.Clock().Tick(), s.reports)
	s.gizmos.Commit()
	s.tickIndex++

	s.publish()
}

func (s *Simulation) publish() {
	s.statTicks.Store(int64(s.tickIndex))
	s.statSimTime.Store(s.stepper.Clock().Elapsed().Seconds())

	var bounces, hits int
	var normal mgl64.Vec3
	for _, r := range s.reports {
		bounces += r.Bounces
		hits += r.Hits
		if r.Body == s.controlled.ID {
			normal = r.LastNormal
		}
	}
	s.statBounces.Store(int64(bounces))
	s.statHits.Store(int64(hits))
	s.statNormal.Store(fmt.Sprintf("%.2f,%.2f,%.2f", normal.X(), normal.Y(), normal.Z()))

	filter := physics.ExcludeEntities(s.controlled.ID)
	touching := s.scene.Touching(s.controlled.Collider, s.controlled.Pose, parameter.ContactMargin, filter)
	s.colliding = len(touching) > 0
	s.statColliding.Store(s.colliding)
}

// Stepper exposes the scheduling state
func (s *Simulation) Stepper() *Stepper {
	return s.stepper
}

// Mode returns the active stepping mode
func (s *Simulation) Mode() SteppingMode {
	return s.stepper.Mode()
}

// TickIndex returns the index the next tick will sample
func (s *Simulation) TickIndex() uint32 {
	return s.tickIndex
}

// FrameCount returns frames processed so far
func (s *Simulation) FrameCount() uint64 {
	return s.frame
}

// Bodies returns the body collection; callers outside the loop must treat it as read-only
func (s *Simulation) Bodies() []*controller.Body {
	return s.bodies
}

// Controlled returns the body driven by the velocity source
func (s *Simulation) Controlled() *controller.Body {
	return s.controlled
}

// Scene returns the static scene
func (s *Simulation) Scene() *physics.Scene {
	return s.scene
}

// LastReports returns mover reports from the most recent tick
func (s *Simulation) LastReports() []controller.Report {
	return s.reports
}

// Colliding reports whether the controlled body was within contact margin after the last tick
func (s *Simulation) Colliding() bool {
	return s.colliding
}

// Gizmos returns debug primitives from the most recent tick
func (s *Simulation) Gizmos() controller.Gizmos {
	return s.gizmos.Snapshot()
}

// Status returns the metrics registry
func (s *Simulation) Status() *status.Registry {
	return s.statusReg
}
