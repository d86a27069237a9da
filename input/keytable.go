package input

import (
	"maps"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeyTable maps terminal keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, Esc)
	SpecialKeys map[tcell.Key]IntentType

	// Printable rune bindings, matched case-insensitively
	Runes map[rune]IntentType
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]IntentType{
			tcell.KeyCtrlC:  IntentQuit,
			tcell.KeyEscape: IntentQuit,
			tcell.KeyLeft:   IntentCameraLeft,
			tcell.KeyRight:  IntentCameraRight,
			tcell.KeyUp:     IntentCameraUp,
			tcell.KeyDown:   IntentCameraDown,
		},
		Runes: map[rune]IntentType{
			'q': IntentQuit,
			'w': IntentMoveForward,
			'a': IntentMoveLeft,
			's': IntentMoveBack,
			'd': IntentMoveRight,
			't': IntentToggleStepping,
			'r': IntentStepOnce,
			'j': IntentCameraLeft,
			'l': IntentCameraRight,
			'i': IntentCameraUp,
			'k': IntentCameraDown,
			'g': IntentToggleGizmos,
			'p': IntentToggleStatus,
			'm': IntentToggleMute,
		},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		SpecialKeys: maps.Clone(kt.SpecialKeys),
		Runes:       maps.Clone(kt.Runes),
	}
}

// Lookup resolves a key event to its intent
func (kt *KeyTable) Lookup(ev *tcell.EventKey) IntentType {
	if ev.Key() == tcell.KeyRune {
		return kt.Runes[unicode.ToLower(ev.Rune())]
	}
	return kt.SpecialKeys[ev.Key()]
}
