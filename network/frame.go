package network

import (
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/physics"
)

// BodyPose is one body's committed placement
type BodyPose struct {
	ID       uint64     `json:"id"`
	Position [3]float64 `json:"position"`
	// Rotation is w, x, y, z
	Rotation [4]float64 `json:"rotation"`
}

// PoseFrame is the message pushed to feed clients once per presented frame
type PoseFrame struct {
	Frame     uint64     `json:"frame"`
	Tick      uint32     `json:"tick"`
	SimTime   float64    `json:"sim_time"`
	Mode      string     `json:"mode"`
	Colliding bool       `json:"colliding"`
	Bodies    []BodyPose `json:"bodies"`
	Camera    BodyPose   `json:"camera"`
}

func poseOf(id physics.EntityID, p physics.Pose) BodyPose {
	q := p.Rotation
	return BodyPose{
		ID:       uint64(id),
		Position: [3]float64{p.Position[0], p.Position[1], p.Position[2]},
		Rotation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
	}
}

// NewPoseFrame captures the simulation's current state
func NewPoseFrame(sim *engine.Simulation, camera physics.Pose) PoseFrame {
	bodies := sim.Bodies()
	frame := PoseFrame{
		Frame:     sim.FrameCount(),
		Tick:      sim.TickIndex(),
		SimTime:   sim.Stepper().Clock().Elapsed().Seconds(),
		Mode:      sim.Mode().String(),
		Colliding: sim.Colliding(),
		Bodies:    make([]BodyPose, 0, len(bodies)),
		Camera:    poseOf(0, camera),
	}
	for _, b := range bodies {
		frame.Bodies = append(frame.Bodies, poseOf(b.ID, b.Pose))
	}
	return frame
}
