package main

import (
	"fmt"
	"io"
	"time"

	"github.com/lixenwraith/kcc/engine"
)

// runHeadless drives frames with a fixed synthetic delta and prints the final state
// Used to verify that a recording reproduces the same end positions
func runHeadless(sim *engine.Simulation, frames int, delta time.Duration, out io.Writer) {
	for i := 0; i < frames; i++ {
		sim.Frame(delta)
	}

	fmt.Fprintf(out, "frames %d ticks %d sim_time %.6f dropped %d\n",
		sim.FrameCount(), sim.TickIndex(), sim.Stepper().Clock().Elapsed().Seconds(), sim.Stepper().Dropped())
	for _, b := range sim.Bodies() {
		p := b.Position()
		fmt.Fprintf(out, "body %d %.6f %.6f %.6f\n", b.ID, p.X(), p.Y(), p.Z())
	}
}
