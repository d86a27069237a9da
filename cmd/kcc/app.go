package main

import (
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/kcc/audio"
	"github.com/lixenwraith/kcc/camera"
	"github.com/lixenwraith/kcc/core"
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/input"
	"github.com/lixenwraith/kcc/network"
	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/render"
)

// app is the interactive session: terminal events in, one simulation frame per ticker fire out
type app struct {
	screen tcell.Screen
	sim    *engine.Simulation
	viewer *render.Viewer
	cam    *camera.Rotation
	keys   *input.KeyState
	keymap *input.KeyTable
	timer  *engine.FrameTimer

	// Optional outputs, nil when disabled
	cues *audio.Player
	feed *network.Server

	frameInterval time.Duration
	wasColliding  bool

	// Last mouse cell while dragging, valid when dragging is set
	dragging   bool
	lastMouseX int
	lastMouseY int
}

// handleEvent applies one terminal event and reports whether the session continues
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleIntent(a.keymap.Lookup(ev))

	case *tcell.EventMouse:
		x, y := ev.Position()
		if ev.Buttons()&tcell.Button1 == 0 {
			a.dragging = false
			return true
		}
		if a.dragging {
			step := float64(parameter.CameraKeyStep) / 2
			a.cam.ApplyPointer(float64(x-a.lastMouseX)*step, float64(y-a.lastMouseY)*step)
		}
		a.dragging = true
		a.lastMouseX, a.lastMouseY = x, y

	case *tcell.EventFocus:
		if !ev.Focused {
			a.keys.ReleaseAll()
		}

	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) handleIntent(intent input.IntentType) bool {
	switch {
	case intent == input.IntentQuit:
		return false

	case intent.IsMovement():
		a.keys.Press(intent)
	}

	switch intent {
	case input.IntentToggleStepping:
		mode := a.sim.ToggleMode()
		log.Printf("[input] stepping mode %s", mode)
		a.playCue(audio.CueToggle)

	case input.IntentStepOnce:
		if a.sim.StepOnce() {
			a.present()
		}

	case input.IntentCameraLeft:
		a.cam.ApplyPointer(-parameter.CameraKeyStep, 0)
	case input.IntentCameraRight:
		a.cam.ApplyPointer(parameter.CameraKeyStep, 0)
	case input.IntentCameraUp:
		a.cam.ApplyPointer(0, -parameter.CameraKeyStep)
	case input.IntentCameraDown:
		a.cam.ApplyPointer(0, parameter.CameraKeyStep)

	case input.IntentToggleGizmos:
		a.viewer.ToggleGizmos()
	case input.IntentToggleStatus:
		a.viewer.ToggleStatus()
		a.present()

	case input.IntentToggleMute:
		if a.cues != nil {
			log.Printf("[audio] audible %v", a.cues.ToggleMute())
		}
	}
	return true
}

// frame advances the simulation by the measured wall time and presents the result
func (a *app) frame() {
	a.sim.Frame(a.timer.Lap())
	a.present()
}

func (a *app) present() {
	colliding := a.sim.Colliding()
	if colliding && !a.wasColliding {
		a.playCue(audio.CueContact)
	}
	a.wasColliding = colliding

	if a.feed != nil {
		a.feed.Publish(network.NewPoseFrame(a.sim, a.cam.Transform(a.sim.Controlled().Position())))
	}
	a.viewer.Draw(a.sim, a.cam)
}

func (a *app) playCue(cue audio.CueType) {
	if a.cues != nil {
		a.cues.Play(cue)
	}
}

// loop runs until a quit intent or the terminal closes
func (a *app) loop() {
	events := make(chan tcell.Event, 256)
	done := make(chan struct{})
	defer close(done)

	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	})

	ticker := time.NewTicker(a.frameInterval)
	defer ticker.Stop()

	a.present()
	for {
		select {
		case ev := <-events:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.frame()
		}
	}
}
