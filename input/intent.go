package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit // q, Esc, Ctrl+C

	// Held movement, mapped to a desired velocity each tick
	IntentMoveForward // w
	IntentMoveLeft    // a
	IntentMoveBack    // s
	IntentMoveRight   // d

	// Stepping control
	IntentToggleStepping // t
	IntentStepOnce       // r

	// Orbit camera
	IntentCameraLeft  // Left arrow, j
	IntentCameraRight // Right arrow, l
	IntentCameraUp    // Up arrow, i
	IntentCameraDown  // Down arrow, k

	// Presentation
	IntentToggleGizmos // g
	IntentToggleStatus // p
	IntentToggleMute   // m

	intentCount
)

// IsMovement reports whether the intent is a held movement key
func (i IntentType) IsMovement() bool {
	return i >= IntentMoveForward && i <= IntentMoveRight
}
