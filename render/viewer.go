package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/camera"
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/vmath"
)

// Viewer draws a top-down XZ slice of the scene at the controlled body's height
// The map is centered on the controlled body; +X is right and +Z is down
type Viewer struct {
	screen     tcell.Screen
	showGizmos bool
	showStatus bool
}

// NewViewer creates a viewer on an initialized screen
func NewViewer(screen tcell.Screen) *Viewer {
	return &Viewer{
		screen:     screen,
		showGizmos: true,
	}
}

// ToggleGizmos flips debug ray and contact drawing, returns the new state
func (v *Viewer) ToggleGizmos() bool {
	v.showGizmos = !v.showGizmos
	return v.showGizmos
}

// ToggleStatus flips the full metrics panel, returns the new state
func (v *Viewer) ToggleStatus() bool {
	v.showStatus = !v.showStatus
	return v.showStatus
}

// mapping converts between world XZ and screen cells
type mapping struct {
	center mgl64.Vec3
	cx, cy int
}

func (m mapping) toWorld(col, row int) mgl64.Vec3 {
	return mgl64.Vec3{
		m.center.X() + float64(col-m.cx)/parameter.MapCellsPerUnit,
		m.center.Y(),
		m.center.Z() + float64(row-m.cy)/parameter.MapRowsPerUnit,
	}
}

func (m mapping) toCell(p mgl64.Vec3) (int, int) {
	col := m.cx + int(math.Round((p.X()-m.center.X())*parameter.MapCellsPerUnit))
	row := m.cy + int(math.Round((p.Z()-m.center.Z())*parameter.MapRowsPerUnit))
	return col, row
}

// Draw renders one presented frame
func (v *Viewer) Draw(sim *engine.Simulation, cam *camera.Rotation) {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	player := sim.Controlled()
	m := mapping{center: player.Position(), cx: w / 2, cy: h / 2}

	v.drawObstacles(sim, m, w, h)

	if v.showGizmos {
		g := sim.Gizmos()
		for _, r := range g.Rays {
			v.drawRay(m, r.Origin, r.Dir, w, h)
		}
		for _, c := range g.Contacts {
			v.put(m, c.Point, GlyphContact, styleContact, w, h)
		}
	}

	for _, b := range sim.Bodies() {
		if b == player {
			continue
		}
		v.put(m, b.Position(), GlyphBody, styleBody, w, h)
	}

	if heading, ok := vmath.TryNormalize(mgl64.Vec3{cam.Forward().X(), 0, cam.Forward().Z()}); ok {
		v.put(m, player.Position().Add(heading.Mul(1.5)), GlyphHeading, styleHeading, w, h)
	}
	v.put(m, player.Position(), GlyphPlayer, stylePlayer, w, h)

	v.drawOverlay(sim, w, h)
	v.screen.Show()
}

func (v *Viewer) drawObstacles(sim *engine.Simulation, m mapping, w, h int) {
	obstacles := sim.Scene().Obstacles()
	lo := m.toWorld(0, 0)
	hi := m.toWorld(w-1, h-1)
	view := vmath.AABB{
		Min: mgl64.Vec3{lo.X(), m.center.Y() - 1, lo.Z()},
		Max: mgl64.Vec3{hi.X(), m.center.Y() + 1, hi.Z()},
	}

	for i := range obstacles {
		o := &obstacles[i]
		b := o.Bounds()
		if !b.Overlaps(view) {
			continue
		}
		c0, r0 := m.toCell(b.Min)
		c1, r1 := m.toCell(b.Max)
		for row := max(r0, 0); row <= min(r1, h-1); row++ {
			for col := max(c0, 0); col <= min(c1, w-1); col++ {
				if o.Contains(m.toWorld(col, row)) {
					v.screen.SetContent(col, row, GlyphObstacle, nil, styleObstacle)
				}
			}
		}
	}
}

func (v *Viewer) drawRay(m mapping, origin, dir mgl64.Vec3, w, h int) {
	flat, ok := vmath.TryNormalize(mgl64.Vec3{dir.X(), 0, dir.Z()})
	if !ok {
		return
	}
	steps := int(parameter.GizmoRayLength * parameter.MapCellsPerUnit * 2)
	for i := 1; i <= steps; i++ {
		p := origin.Add(flat.Mul(parameter.GizmoRayLength * float64(i) / float64(steps)))
		v.put(m, p, GlyphRay, styleRay, w, h)
	}
}

func (v *Viewer) put(m mapping, p mgl64.Vec3, glyph rune, style tcell.Style, w, h int) {
	col, row := m.toCell(p)
	if col < 0 || row < 0 || col >= w || row >= h {
		return
	}
	v.screen.SetContent(col, row, glyph, nil, style)
}

// OverlayLines formats the debug overlay from the simulation's metrics
func OverlayLines(sim *engine.Simulation) []string {
	reg := sim.Status()
	lines := []string{
		fmt.Sprintf("FRAME %d  TICK %d  %s", reg.Ints.Get("engine.frame").Load(), reg.Ints.Get("engine.ticks").Load(), reg.Strings.Get("engine.mode").Load()),
		fmt.Sprintf("bounces %d  hits %d  normal %s", reg.Ints.Get("mover.bounces").Load(), reg.Ints.Get("mover.hits").Load(), reg.Strings.Get("mover.normal").Load()),
	}
	if reg.Bools.Get("mover.colliding").Load() {
		lines = append(lines, "Colliding")
	} else {
		lines = append(lines, "Not colliding")
	}
	return lines
}

func (v *Viewer) drawOverlay(sim *engine.Simulation, w, h int) {
	lines := OverlayLines(sim)
	for i, line := range lines {
		style := styleOverlay
		if i == len(lines)-1 && sim.Colliding() {
			style = styleColliding
		}
		v.text(0, i, line, style, w, h)
	}

	if !v.showStatus {
		return
	}
	row := len(lines) + 1
	for _, e := range sim.Status().Snapshot() {
		v.text(0, row, fmt.Sprintf("%-20s %s", e.Key, e.Value), styleOverlay, w, h)
		row++
	}
}

func (v *Viewer) text(x, y int, s string, style tcell.Style, w, h int) {
	if y < 0 || y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
