package parameter

import "math"

// Orbit camera around the player body
const (
	// CameraDistance is the boom length behind the player along the camera's local +Z
	CameraDistance = 10.0

	// CameraSensitivity converts pointer delta to radians
	CameraSensitivity = 0.005

	// CameraKeyStep is the pointer delta synthesized per arrow key press
	CameraKeyStep = 20

	// CameraPitchMin and CameraPitchMax clamp the vertical angle
	CameraPitchMin = -math.Pi / 2
	CameraPitchMax = math.Pi / 2
)

// Top-down map view
const (
	// MapCellsPerUnit is the horizontal terminal cells per world unit
	MapCellsPerUnit = 2.0

	// MapRowsPerUnit is the vertical terminal rows per world unit
	MapRowsPerUnit = 1.0

	// GizmoRayLength is the drawn length of a sweep ray in world units
	GizmoRayLength = 2.0
)
