package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/camera"
	"github.com/lixenwraith/kcc/config"
	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/input"
	"github.com/lixenwraith/kcc/level"
	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/render"
	"github.com/lixenwraith/kcc/replay"
)

func newTestApp(t *testing.T) (*app, *engine.MockTimeProvider, *replay.Recording) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	scene, player, err := level.Default().Build()
	if err != nil {
		t.Fatalf("Failed to build level: %v", err)
	}

	clock := engine.NewMockTimeProvider(time.Unix(1000, 0))
	cam := camera.NewRotation()
	keys := input.NewKeyState(clock, parameter.KeyHoldWindow)
	rec := replay.NewRecording()

	sim, err := engine.NewSimulation(engine.Options{
		Mover:  controller.DefaultMoverConfig(),
		Scene:  scene,
		Bodies: []*controller.Body{player},
		Input:  input.NewLiveSource(keys, cam, input.Mapper{Speed: parameter.PlayerSpeed}, rec),
	})
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}

	return &app{
		screen:        screen,
		sim:           sim,
		viewer:        render.NewViewer(screen),
		cam:           cam,
		keys:          keys,
		keymap:        input.DefaultKeyTable(),
		timer:         engine.NewFrameTimer(clock),
		frameInterval: parameter.FrameUpdateInterval,
	}, clock, rec
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestApp_MoveKeyDrivesBody(t *testing.T) {
	a, clock, rec := newTestApp(t)

	if !a.handleEvent(key('w')) {
		t.Fatal("Expected session to continue")
	}
	clock.Advance(parameter.TickDuration)
	a.frame()

	pos := a.sim.Controlled().Position()
	want := -parameter.PlayerSpeed * parameter.TickDuration.Seconds()
	if diff := pos.Z() - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected z %f after one tick forward, got %f", want, pos.Z())
	}
	if v, ok := rec.Get(0); !ok || v != (mgl64.Vec3{0, 0, -parameter.PlayerSpeed}) {
		t.Errorf("Expected tick 0 recorded as forward velocity, got %v (%v)", v, ok)
	}

	// Hold window lapses without a repeat
	clock.Advance(parameter.KeyHoldWindow)
	a.frame()
	if v, _ := rec.Get(uint32(rec.Len() - 1)); v != (mgl64.Vec3{}) {
		t.Errorf("Expected released key to record zero velocity, got %v", v)
	}
}

func TestApp_FocusLossReleasesKeys(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.handleEvent(key('d'))
	if !a.keys.Held(input.IntentMoveRight) {
		t.Fatal("Expected d to be held")
	}
	a.handleEvent(tcell.NewEventFocus(false))
	if a.keys.Held(input.IntentMoveRight) {
		t.Error("Expected focus loss to release held keys")
	}
}

func TestApp_SteppingKeys(t *testing.T) {
	a, clock, _ := newTestApp(t)

	a.handleEvent(key('r'))
	if a.sim.TickIndex() != 0 {
		t.Error("Expected step key to be ignored while free running")
	}

	a.handleEvent(key('t'))
	if a.sim.Mode() != engine.SinglePulse {
		t.Fatalf("Expected SinglePulse after toggle, got %s", a.sim.Mode())
	}

	clock.Advance(time.Second)
	a.frame()
	if a.sim.TickIndex() != 0 {
		t.Errorf("Expected no ticks while paused, got %d", a.sim.TickIndex())
	}

	a.handleEvent(key('r'))
	a.handleEvent(key('R'))
	if a.sim.TickIndex() != 2 {
		t.Errorf("Expected 2 single steps, got %d", a.sim.TickIndex())
	}

	a.handleEvent(key('t'))
	if a.sim.Mode() != engine.FreeRunning {
		t.Errorf("Expected FreeRunning after second toggle, got %s", a.sim.Mode())
	}
}

func TestApp_CameraAndQuit(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.handleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	want := parameter.CameraSensitivity * parameter.CameraKeyStep
	if diff := a.cam.Yaw - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("Expected yaw %f, got %f", want, a.cam.Yaw)
	}

	a.handleEvent(key('i'))
	if a.cam.Pitch <= 0 {
		t.Errorf("Expected camera up to raise pitch, got %f", a.cam.Pitch)
	}

	if a.handleEvent(key('q')) {
		t.Error("Expected q to end the session")
	}
	if a.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Expected Esc to end the session")
	}
}

func screenHas(s tcell.Screen, text string) bool {
	w, h := s.Size()
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		if strings.Contains(b.String(), text) {
			return true
		}
	}
	return false
}

func TestApp_StatusKeyTogglesPanel(t *testing.T) {
	a, clock, _ := newTestApp(t)
	clock.Advance(20 * time.Millisecond)
	a.frame()
	if screenHas(a.screen, "engine.ticks") {
		t.Fatal("Expected status panel hidden by default")
	}

	a.handleEvent(key('p'))
	if !screenHas(a.screen, "engine.ticks") {
		t.Error("Expected p to show the status panel")
	}

	a.handleEvent(key('p'))
	if screenHas(a.screen, "engine.ticks") {
		t.Error("Expected second p to hide the status panel")
	}
}

func TestApp_PresentDrawsOverlay(t *testing.T) {
	a, clock, _ := newTestApp(t)
	clock.Advance(40 * time.Millisecond)
	a.frame()

	var b strings.Builder
	for x := 0; x < 30; x++ {
		r, _, _, _ := a.screen.GetContent(x, 0)
		b.WriteRune(r)
	}
	if !strings.HasPrefix(b.String(), "FRAME 1  TICK 2") {
		t.Errorf("Expected overlay header, got %q", b.String())
	}
}

func TestRunHeadless_PrintsFinalPositions(t *testing.T) {
	scene, player, err := level.Default().Build()
	if err != nil {
		t.Fatalf("Failed to build level: %v", err)
	}
	rec := replay.NewRecording()
	for i := uint32(0); i < 64; i++ {
		rec.Set(i, mgl64.Vec3{parameter.PlayerSpeed, 0, 0})
	}
	sim, err := engine.NewSimulation(engine.Options{
		Mover:  controller.DefaultMoverConfig(),
		Scene:  scene,
		Bodies: []*controller.Body{player},
		Input:  rec,
	})
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}

	var out bytes.Buffer
	runHeadless(sim, 50, 20*time.Millisecond, &out)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", out.String())
	}
	if lines[0] != "frames 50 ticks 64 sim_time 1.000000 dropped 0" {
		t.Errorf("Unexpected summary %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "body 4294967296 13.49") {
		t.Errorf("Expected body stopped before the first wall, got %q", lines[1])
	}
}

func TestLoadPlayback_RejectsTickRateMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	rec := replay.NewRecording()
	rec.TickHz = 30
	rec.Set(0, mgl64.Vec3{1, 0, 0})
	if err := replay.Save(path, rec); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if _, err := loadPlayback(path, parameter.TickHz); err == nil {
		t.Error("Expected tick rate mismatch to fail")
	}
	if got, err := loadPlayback(path, 30); err != nil || got.Len() != 1 {
		t.Errorf("Expected matching rate to load, got %v", err)
	}
	if _, err := loadPlayback(filepath.Join(t.TempDir(), "missing.toml"), parameter.TickHz); err == nil {
		t.Error("Expected missing file to fail")
	}
}

func TestLoadKeymap_MergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.toml")
	data := "[runes]\nz = \"step_once\"\nr = \"none\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write keymap: %v", err)
	}

	kt, err := loadKeymap(path)
	if err != nil {
		t.Fatalf("Failed to load keymap: %v", err)
	}
	if got := kt.Lookup(key('z')); got != input.IntentStepOnce {
		t.Errorf("Expected z bound to step, got %d", got)
	}
	if got := kt.Lookup(key('r')); got != input.IntentNone {
		t.Errorf("Expected r unbound, got %d", got)
	}
	if got := kt.Lookup(key('w')); got != input.IntentMoveForward {
		t.Errorf("Expected defaults kept, got %d", got)
	}

	if kt, err := loadKeymap(""); err != nil || kt.Lookup(key('t')) != input.IntentToggleStepping {
		t.Errorf("Expected default keymap without a path, got %v", err)
	}
}

func TestNewServices_RegistersEnabled(t *testing.T) {
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))

	none, err := newServices(config.Default(), clock)
	if err != nil {
		t.Fatalf("newServices failed: %v", err)
	}
	if len(none.Names()) != 0 || none.cues != nil || none.feed != nil {
		t.Errorf("Expected no services by default, got %v", none.Names())
	}

	cfg := config.Default()
	cfg.Audio.Enabled = true
	cfg.Feed.Enabled = true
	both, err := newServices(cfg, clock)
	if err != nil {
		t.Fatalf("newServices failed: %v", err)
	}
	names := both.Names()
	if len(names) != 2 || names[0] != "audio" || names[1] != "feed" {
		t.Errorf("Expected [audio feed], got %v", names)
	}
	if both.cues == nil || both.feed == nil {
		t.Error("Expected audio player and feed server to be wired")
	}
}
