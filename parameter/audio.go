package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Cue Timing
const (
	// AudioCueGap is the minimum spacing between two cues of the same kind
	AudioCueGap = 120 * time.Millisecond

	// AudioQueueSize bounds cues waiting for the output pipe
	AudioQueueSize = 8

	// AudioDefaultVolume is the linear gain applied to every cue
	AudioDefaultVolume = 0.4
)

// Contact Cue
const (
	ContactCueFrequency = 180.0
	ContactCueDuration  = 60 * time.Millisecond
	ContactCueAttack    = 3 * time.Millisecond
	ContactCueRelease   = 40 * time.Millisecond
)

// Mode Toggle Cue
const (
	ToggleCueFrequency = 660.0
	ToggleCueDuration  = 90 * time.Millisecond
	ToggleCueAttack    = 5 * time.Millisecond
	ToggleCueRelease   = 60 * time.Millisecond
)
