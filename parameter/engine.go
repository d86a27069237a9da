package parameter

import "time"

// Simulation Timing
const (
	// TickHz is the fixed simulation rate
	TickHz = 64

	// TickDuration is one simulation step, exactly 1/64 s
	TickDuration = time.Second / TickHz

	// FrameUpdateInterval is the presentation frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxTicksPerFrame caps ticks drained per frame, 0 disables the cap
	MaxTicksPerFrame = 0

	// HeadlessFrames is the default frame count for headless runs
	HeadlessFrames = 600
)

// Sweep-and-Slide Tuning
const (
	// MaxBounces caps sweep iterations per body per tick
	MaxBounces = 5

	// SkinWidth is the clearance kept between collider and surface
	SkinWidth = 0.005

	// CreaseThreshold is the normal dot product above which a new contact counts as the same crease
	CreaseThreshold = 0.99

	// CreasePush is the extra push along the contact normal per matching crease plane
	CreasePush = 0.01

	// ContactMargin is the gap under which the overlay reports a body as colliding
	ContactMargin = 2 * SkinWidth
)

// Player Body
const (
	// PlayerSpeed is the desired speed in units per second while a movement key is held
	PlayerSpeed = 15.0

	// PlayerRadius and PlayerHeight size the default cylinder collider
	PlayerRadius = 0.5
	PlayerHeight = 2.0

	// PlayerEntity is the reserved id of the player body
	PlayerEntity = 1 << 32
)

// Input
const (
	// KeyHoldWindow is how long a key press counts as held without a repeat
	// Terminals report presses only, so autorepeat refreshes the window
	KeyHoldWindow = 150 * time.Millisecond
)

// Replay
const (
	// DefaultReplayPath is where live sessions are recorded when no path is given
	DefaultReplayPath = "out.toml"

	// ReplayFormatVersion is written into every recording
	ReplayFormatVersion = 1
)
