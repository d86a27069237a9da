package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/camera"
	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/physics"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Expected screen init, got %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newSim(t *testing.T) (*engine.Simulation, *controller.Body) {
	t.Helper()
	scene, err := physics.NewScene(physics.Obstacle{
		ID:    1,
		Shape: physics.Cuboid(2, 4, 4),
		Pose:  physics.NewPose(5, 1, 0),
	})
	if err != nil {
		t.Fatalf("Expected scene, got %v", err)
	}
	player := controller.NewBody(parameter.PlayerEntity, physics.Cylinder(0.5, 2), physics.NewPose(0, 1, 0))
	sim, err := engine.NewSimulation(engine.Options{
		Mover:  controller.DefaultMoverConfig(),
		Scene:  scene,
		Bodies: []*controller.Body{player},
	})
	if err != nil {
		t.Fatalf("Expected simulation, got %v", err)
	}
	return sim, player
}

func cell(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func row(s tcell.Screen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(cell(s, x, y))
	}
	return b.String()
}

func count(s tcell.Screen, glyph rune, w, h int) int {
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if cell(s, x, y) == glyph {
				n++
			}
		}
	}
	return n
}

func TestViewer_DrawsMap(t *testing.T) {
	screen := newScreen(t, 40, 20)
	sim, _ := newSim(t)
	sim.Frame(40 * time.Millisecond)

	NewViewer(screen).Draw(sim, camera.NewRotation())

	if got := cell(screen, 20, 10); got != GlyphPlayer {
		t.Errorf("Expected player at center, got %q", got)
	}
	// Box spans x 4..6, two cells per unit
	if got := cell(screen, 30, 10); got != GlyphObstacle {
		t.Errorf("Expected obstacle at (30,10), got %q", got)
	}
	if got := cell(screen, 25, 10); got == GlyphObstacle {
		t.Error("Expected free floor between player and obstacle")
	}
	// Default camera looks along -Z, which is up on the map
	if got := cell(screen, 20, 8); got != GlyphHeading {
		t.Errorf("Expected heading marker above player, got %q", got)
	}
}

func TestViewer_Overlay(t *testing.T) {
	screen := newScreen(t, 60, 20)
	sim, _ := newSim(t)
	sim.Frame(40 * time.Millisecond)

	NewViewer(screen).Draw(sim, camera.NewRotation())

	if top := row(screen, 0, 60); !strings.HasPrefix(top, "FRAME 1  TICK 2  FreeRunning") {
		t.Errorf("Expected frame header, got %q", top)
	}
	if line := row(screen, 1, 60); !strings.HasPrefix(line, "bounces 0  hits 0  normal 0.00,0.00,0.00") {
		t.Errorf("Expected mover line, got %q", line)
	}
	if line := row(screen, 2, 60); !strings.HasPrefix(line, "Not colliding") {
		t.Errorf("Expected not colliding, got %q", line)
	}

	lines := OverlayLines(sim)
	if len(lines) != 3 {
		t.Fatalf("Expected 3 overlay lines, got %d", len(lines))
	}
}

func TestViewer_CollidingOverlay(t *testing.T) {
	sim, player := newSim(t)
	player.DesiredVelocity = mgl64.Vec3{parameter.PlayerSpeed, 0, 0}
	sim.Frame(time.Second)

	if !sim.Colliding() {
		t.Fatal("Expected body to rest against the box")
	}
	if got := OverlayLines(sim)[2]; got != "Colliding" {
		t.Errorf("Expected Colliding, got %q", got)
	}
}

func TestViewer_GizmoToggle(t *testing.T) {
	screen := newScreen(t, 40, 20)
	sim, player := newSim(t)
	player.DesiredVelocity = mgl64.Vec3{0, 0, parameter.PlayerSpeed}
	sim.Frame(20 * time.Millisecond)

	v := NewViewer(screen)
	v.Draw(sim, camera.NewRotation())
	if count(screen, GlyphRay, 40, 20) == 0 {
		t.Error("Expected sweep ray to be drawn")
	}

	if v.ToggleGizmos() {
		t.Error("Expected gizmos off after toggle")
	}
	v.Draw(sim, camera.NewRotation())
	if n := count(screen, GlyphRay, 40, 20); n != 0 {
		t.Errorf("Expected no rays with gizmos off, got %d", n)
	}
}

func TestViewer_StatusPanel(t *testing.T) {
	screen := newScreen(t, 60, 30)
	sim, _ := newSim(t)
	sim.Frame(20 * time.Millisecond)

	v := NewViewer(screen)
	if !v.ToggleStatus() {
		t.Fatal("Expected status panel on")
	}
	v.Draw(sim, camera.NewRotation())

	found := false
	for y := 4; y < 30; y++ {
		if strings.HasPrefix(row(screen, y, 60), "engine.ticks ") {
			found = true
		}
	}
	if !found {
		t.Error("Expected engine.ticks in status panel")
	}
}
