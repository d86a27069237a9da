package input

// actionRegistry maps canonical action names to intents
// Used by keymap config loader to resolve TOML action strings to bindings
var actionRegistry = map[string]IntentType{
	// Unbind sentinel
	"none": IntentNone,

	"quit": IntentQuit,

	"move_forward": IntentMoveForward,
	"move_left":    IntentMoveLeft,
	"move_back":    IntentMoveBack,
	"move_right":   IntentMoveRight,

	"toggle_stepping": IntentToggleStepping,
	"step_once":       IntentStepOnce,

	"camera_left":  IntentCameraLeft,
	"camera_right": IntentCameraRight,
	"camera_up":    IntentCameraUp,
	"camera_down":  IntentCameraDown,

	"toggle_gizmos": IntentToggleGizmos,
	"toggle_status": IntentToggleStatus,
	"toggle_mute":   IntentToggleMute,
}

// ActionIntent looks up an action by canonical name
func ActionIntent(name string) (IntentType, bool) {
	i, ok := actionRegistry[name]
	return i, ok
}

// ActionName returns the canonical name for an intent, empty when unnamed
func ActionName(i IntentType) string {
	for name, v := range actionRegistry {
		if v == i && name != "none" {
			return name
		}
	}
	return ""
}
