package engine

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/physics"
)

// scriptedInput returns fixed velocities per tick and records which ticks were sampled
type scriptedInput struct {
	velocities map[uint32]mgl64.Vec3
	sampled    []uint32
}

func (s *scriptedInput) Sample(tick uint32) (mgl64.Vec3, bool) {
	s.sampled = append(s.sampled, tick)
	v, ok := s.velocities[tick]
	return v, ok
}

func newTestSimulation(t *testing.T, input VelocitySource, obstacles ...physics.Obstacle) *Simulation {
	t.Helper()
	scene, err := physics.NewScene(obstacles...)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	body := controller.NewBody(1<<32, physics.Cylinder(0.5, 2), physics.NewPose(0, 1, 0))
	sim, err := NewSimulation(Options{
		Tick:   testTick,
		Mover:  controller.DefaultMoverConfig(),
		Scene:  scene,
		Bodies: []*controller.Body{body},
		Input:  input,
	})
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}
	return sim
}

func TestSimulation_RequiresSceneAndBodies(t *testing.T) {
	if _, err := NewSimulation(Options{}); err == nil {
		t.Error("Expected error without scene")
	}

	scene, _ := physics.NewScene()
	if _, err := NewSimulation(Options{Scene: scene}); err == nil {
		t.Error("Expected error without bodies")
	}

	body := controller.NewBody(5, physics.Cylinder(0.5, 2), physics.NewPose(0, 1, 0))
	if _, err := NewSimulation(Options{Scene: scene, Bodies: []*controller.Body{body}, Controlled: 6}); err == nil {
		t.Error("Expected error for unknown controlled body")
	}

	dup := controller.NewBody(5, physics.Sphere(1), physics.NewPose(4, 1, 0))
	if _, err := NewSimulation(Options{Scene: scene, Bodies: []*controller.Body{body, dup}}); err == nil {
		t.Error("Expected error for duplicate body ids")
	}
}

func TestSimulation_ZeroVelocityHoldsPosition(t *testing.T) {
	sim := newTestSimulation(t, nil)
	start := sim.Controlled().Position()

	for i := 0; i < 30; i++ {
		sim.Frame(50 * time.Millisecond)
	}

	if sim.TickIndex() == 0 {
		t.Fatal("Expected ticks to run")
	}
	if sim.Controlled().Position() != start {
		t.Errorf("Expected position %v unchanged, got %v", start, sim.Controlled().Position())
	}
}

func TestSimulation_TickIndexSamplingAndFallback(t *testing.T) {
	input := &scriptedInput{velocities: map[uint32]mgl64.Vec3{
		0: {64, 0, 0},
		// tick 1 has no entry: velocity carries over
		2: {0, 0, 0},
	}}
	sim := newTestSimulation(t, input)

	sim.Frame(3 * testTick)

	if len(input.sampled) != 3 || input.sampled[0] != 0 || input.sampled[2] != 2 {
		t.Fatalf("Expected ticks 0..2 sampled in order, got %v", input.sampled)
	}

	// Ticks 0 and 1 each move one unit along +X, tick 2 stops
	want := mgl64.Vec3{2, 1, 0}
	if !sim.Controlled().Position().ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("Expected position %v, got %v", want, sim.Controlled().Position())
	}
}

func TestSimulation_StepOnceOnlyInSinglePulse(t *testing.T) {
	input := &scriptedInput{velocities: map[uint32]mgl64.Vec3{}}
	sim := newTestSimulation(t, input)

	if sim.StepOnce() {
		t.Error("Expected StepOnce to be ignored while FreeRunning")
	}

	sim.ToggleMode()
	sim.Frame(time.Second)
	if sim.TickIndex() != 0 {
		t.Errorf("Expected no ticks while SinglePulse, got %d", sim.TickIndex())
	}

	for i := 0; i < 4; i++ {
		if !sim.StepOnce() {
			t.Fatal("Expected StepOnce to run in SinglePulse")
		}
	}
	if sim.TickIndex() != 4 {
		t.Errorf("Expected 4 ticks, got %d", sim.TickIndex())
	}
	if got := sim.Stepper().Clock().Overstep(); got != time.Second {
		t.Errorf("Expected overstep kept at 1s, got %v", got)
	}

	sim.ToggleMode()
	if ran := sim.Frame(0); ran != 64 {
		t.Errorf("Expected 64 owed ticks on resume, got %d", ran)
	}
}

func TestSimulation_PublishesStatus(t *testing.T) {
	wall := physics.Obstacle{ID: 1, Shape: physics.Cuboid(1, 10, 40), Pose: physics.NewPose(1.5, 1, 0)}
	input := &scriptedInput{velocities: map[uint32]mgl64.Vec3{0: {64, 0, 0}}}
	sim := newTestSimulation(t, input, wall)

	sim.Frame(testTick)
	reg := sim.Status()

	if got := reg.Ints.Get("engine.frame").Load(); got != 1 {
		t.Errorf("Expected frame 1, got %d", got)
	}
	if got := reg.Ints.Get("engine.ticks").Load(); got != 1 {
		t.Errorf("Expected 1 tick, got %d", got)
	}
	if got := reg.Ints.Get("mover.hits").Load(); got != 1 {
		t.Errorf("Expected 1 hit against wall, got %d", got)
	}
	if !reg.Bools.Get("mover.colliding").Load() || !sim.Colliding() {
		t.Error("Expected body resting against wall to report colliding")
	}
	if got := reg.Strings.Get("engine.mode").Load(); got != "FreeRunning" {
		t.Errorf("Expected mode FreeRunning, got %q", got)
	}

	gizmos := sim.Gizmos()
	if len(gizmos.Contacts) != 1 {
		t.Errorf("Expected one contact gizmo, got %d", len(gizmos.Contacts))
	}
	if len(sim.LastReports()) != 1 {
		t.Errorf("Expected one report per body, got %d", len(sim.LastReports()))
	}
}
