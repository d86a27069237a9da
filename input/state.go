package input

import (
	"time"

	"github.com/lixenwraith/kcc/engine"
)

// KeyState tracks which intents count as held
// Terminals deliver presses and autorepeat but no releases, so a press holds
// its intent for a fixed window that each repeat refreshes
type KeyState struct {
	clock   engine.TimeProvider
	window  time.Duration
	pressed [intentCount]time.Time
}

// NewKeyState creates an empty key state
func NewKeyState(clock engine.TimeProvider, window time.Duration) *KeyState {
	return &KeyState{clock: clock, window: window}
}

// Press marks intent as held from now
func (k *KeyState) Press(i IntentType) {
	if i >= intentCount {
		return
	}
	k.pressed[i] = k.clock.Now()
}

// Release ends the hold immediately
func (k *KeyState) Release(i IntentType) {
	if i >= intentCount {
		return
	}
	k.pressed[i] = time.Time{}
}

// ReleaseAll clears every hold, used on focus loss
func (k *KeyState) ReleaseAll() {
	k.pressed = [intentCount]time.Time{}
}

// Held reports whether intent was pressed within the hold window
func (k *KeyState) Held(i IntentType) bool {
	if i >= intentCount {
		return false
	}
	at := k.pressed[i]
	if at.IsZero() {
		return false
	}
	return k.clock.Now().Sub(at) < k.window
}
