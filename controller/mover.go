package controller

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/physics"
	"github.com/lixenwraith/kcc/vmath"
)

// MoverConfig tunes the sweep-and-slide loop
type MoverConfig struct {
	// MaxBounces caps sweep iterations per body per tick
	MaxBounces int
	// SkinWidth is the clearance kept between the collider and any surface
	SkinWidth float64
	// CreaseThreshold is the normal dot product above which two planes count as the same crease
	CreaseThreshold float64
	// CreasePush is the push along the new normal applied per matching crease plane
	CreasePush float64
}

// DefaultMoverConfig returns the stock tuning
func DefaultMoverConfig() MoverConfig {
	return MoverConfig{
		MaxBounces:      parameter.MaxBounces,
		SkinWidth:       parameter.SkinWidth,
		CreaseThreshold: parameter.CreaseThreshold,
		CreasePush:      parameter.CreasePush,
	}
}

// Report summarizes one body's move for diagnostics
type Report struct {
	Body physics.EntityID
	// Bounces counts loop iterations started, including the final unobstructed sweep
	Bounces int
	// Hits counts sweeps that returned a contact
	Hits int
	// Travelled is the summed length of all translations applied
	Travelled float64
	// LastNormal is the normal of the most recent contact, zero when none
	LastNormal mgl64.Vec3
	// Resolved is false when the loop exited on the iteration cap
	Resolved bool
}

// Mover advances bodies through a static scene with sweep-and-slide
type Mover struct {
	query  physics.SpatialQuery
	config MoverConfig
	debug  DebugSink
}

// NewMover creates a mover over query; a nil sink discards debug output
func NewMover(query physics.SpatialQuery, config MoverConfig, debug DebugSink) *Mover {
	if debug == nil {
		debug = nopSink{}
	}
	if config.MaxBounces <= 0 {
		config.MaxBounces = parameter.MaxBounces
	}
	return &Mover{
		query:  query,
		config: config,
		debug:  debug,
	}
}

// Config returns the active tuning
func (m *Mover) Config() MoverConfig {
	return m.config
}

// Move advances body by its desired velocity over dt, sliding along any surface it strikes
func (m *Mover) Move(body *Body, dt time.Duration) Report {
	report := Report{Body: body.ID, Resolved: true}

	velocity := body.DesiredVelocity
	startDir, ok := vmath.TryNormalize(velocity)
	if !ok || dt <= 0 {
		return report
	}

	skin := m.config.SkinWidth
	filter := physics.ExcludeEntities(body.ID)

	dir := startDir
	remaining := velocity.Len() * dt.Seconds()
	// budget bounds total travel to the requested distance even when crease pushes lengthen the slide
	budget := remaining
	planes := make([]mgl64.Vec3, 0, m.config.MaxBounces)

	translate := func(d float64) {
		if d <= 0 {
			return
		}
		d = math.Min(d, budget)
		body.Pose.Position = body.Pose.Position.Add(dir.Mul(d))
		budget -= d
		report.Travelled += d
	}

	report.Resolved = false
	for i := 0; i < m.config.MaxBounces; i++ {
		report.Bounces++
		m.debug.Ray(body.Pose.Position, dir)

		hit, blocked := m.query.CastShape(body.Collider, body.Pose, dir, remaining+skin, filter)
		if !blocked {
			translate(remaining)
			report.Resolved = true
			break
		}

		report.Hits++
		report.LastNormal = hit.Normal
		m.debug.Contact(hit.Point, hit.Normal)

		advance := math.Max(hit.TimeOfImpact-skin, 0)
		if hit.TimeOfImpact >= remaining {
			translate(advance)
			report.Resolved = true
			break
		}

		// Contacts closer than the skin keep their position and slide the whole remainder
		if hit.TimeOfImpact >= skin {
			translate(advance)
		}

		extra := dir.Mul(remaining - advance)
		projected := vmath.ProjectOnPlane(extra, hit.Normal)

		// Sliding back against the original intent; stop instead of oscillating in corners
		if projected.Dot(startDir) <= 0 {
			report.Resolved = true
			break
		}

		for _, plane := range planes {
			if hit.Normal.Dot(plane) > m.config.CreaseThreshold {
				projected = projected.Add(hit.Normal.Mul(m.config.CreasePush))
			}
		}
		planes = append(planes, hit.Normal)

		next, ok := vmath.TryNormalize(projected)
		if !ok || budget <= 0 {
			report.Resolved = true
			break
		}
		dir = next
		remaining = math.Min(projected.Len(), budget)
	}

	return report
}

// MoveAll advances every body and returns one report per body
func (m *Mover) MoveAll(bodies []*Body, dt time.Duration, reports []Report) []Report {
	reports = reports[:0]
	for _, b := range bodies {
		reports = append(reports, m.Move(b, dt))
	}
	return reports
}
