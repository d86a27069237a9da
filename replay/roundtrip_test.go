package replay_test

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/level"
	"github.com/lixenwraith/kcc/replay"
)

// tracer wraps a velocity source and captures the controlled body's position at the start of every tick
type tracer struct {
	inner     engine.VelocitySource
	body      *controller.Body
	positions []mgl64.Vec3
}

func (t *tracer) Sample(tick uint32) (mgl64.Vec3, bool) {
	t.positions = append(t.positions, t.body.Position())
	return t.inner.Sample(tick)
}

// steering produces a wandering velocity and records it like a live session
type steering struct {
	rec *replay.Recording
}

func (s *steering) Sample(tick uint32) (mgl64.Vec3, bool) {
	var v mgl64.Vec3
	if tick%97 >= 12 {
		a := float64(tick/40) * 1.3
		v = mgl64.Vec3{15 * math.Cos(a), 0, 15 * math.Sin(a)}
	}
	s.rec.Set(tick, v)
	return v, true
}

func run(t *testing.T, source func(*controller.Body) engine.VelocitySource, deltas []time.Duration, frames int) []mgl64.Vec3 {
	t.Helper()
	scene, player, err := level.Default().Build()
	require.NoError(t, err)

	tr := &tracer{body: player}
	tr.inner = source(player)

	sim, err := engine.NewSimulation(engine.Options{
		Mover:  controller.DefaultMoverConfig(),
		Scene:  scene,
		Bodies: []*controller.Body{player},
		Input:  tr,
	})
	require.NoError(t, err)

	for i := 0; i < frames; i++ {
		sim.Frame(deltas[i%len(deltas)])
	}
	return append(tr.positions, player.Position())
}

func TestReplay_ReproducesPositions(t *testing.T) {
	rec := replay.NewRecording()
	live := run(t, func(*controller.Body) engine.VelocitySource {
		return &steering{rec: rec}
	}, []time.Duration{7 * time.Millisecond, 33 * time.Millisecond, 16 * time.Millisecond}, 600)

	require.Greater(t, len(live), 600)
	require.Equal(t, len(live)-1, rec.Len())

	for _, name := range []string{"session.toml", "session.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, replay.Save(path, rec))

			loaded, err := replay.Load(path)
			require.NoError(t, err)

			// Different frame pacing, same tick count
			ticks := len(live) - 1
			replayed := run(t, func(*controller.Body) engine.VelocitySource {
				return loaded
			}, []time.Duration{15625 * time.Microsecond}, ticks)

			require.Equal(t, len(live), len(replayed))
			for i := range live {
				if live[i] != replayed[i] {
					t.Fatalf("tick %d: live %v, replay %v", i, live[i], replayed[i])
				}
			}
		})
	}
}

func TestReplay_MovesThroughLevel(t *testing.T) {
	rec := replay.NewRecording()
	for i := uint32(0); i < 128; i++ {
		rec.Set(i, mgl64.Vec3{15, 0, 0})
	}

	positions := run(t, func(*controller.Body) engine.VelocitySource { return rec }, []time.Duration{15625 * time.Microsecond}, 128)
	final := positions[len(positions)-1]

	// Two seconds at 15 u/s would reach x=30; the wall face at x=14 stops the body
	require.Less(t, final.X(), 14.0-0.5+1e-9)
	require.Greater(t, final.X(), 13.4)
}
