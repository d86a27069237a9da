package audio

import (
	"errors"
)

// CueType identifies a short feedback sound
type CueType int

const (
	CueContact CueType = iota // Mover hit an obstacle this frame
	CueToggle                 // Stepping mode changed
	cueTypeCount
)

// String returns the cue name used in logs
func (c CueType) String() string {
	switch c {
	case CueContact:
		return "contact"
	case CueToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// BackendType identifies the audio backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
)

// BackendConfig describes a CLI audio backend
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
)
