// Package input tracks keyboard state between the window's event thread and the
// render loop.
package input

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/tellurion/common"
)

// Keyboard is a mutex-guarded set of held keys plus latched toggles. The window
// writes it from the GLFW event thread; the render loop reads it once per frame.
type Keyboard struct {
	mu       sync.Mutex
	held     map[uint32]bool
	blinnKey uint32
	blinn    bool
}

// NewKeyboard creates a Keyboard with B as the Blinn-Phong toggle and Blinn-Phong off.
//
// Parameters:
//   - options: functional options to configure the keyboard
//
// Returns:
//   - *Keyboard: the keyboard
func NewKeyboard(options ...KeyboardBuilderOption) *Keyboard {
	k := &Keyboard{
		held:     make(map[uint32]bool),
		blinnKey: common.KeyB,
	}
	for _, option := range options {
		option(k)
	}
	return k
}

// Press records key as held. The first press of the toggle key flips Blinn-Phong;
// auto-repeat presses while it is held do not.
func (k *Keyboard) Press(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.held[key] {
		return
	}
	k.held[key] = true
	if key == k.blinnKey {
		k.blinn = !k.blinn
	}
}

// Release records key as no longer held.
func (k *Keyboard) Release(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.held, key)
}

// KeyPressed reports whether key is held.
func (k *Keyboard) KeyPressed(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held[key]
}

// BlinnEnabled reports the Blinn-Phong toggle.
func (k *Keyboard) BlinnEnabled() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.blinn
}

// Held returns the held keys in ascending order.
func (k *Keyboard) Held() []uint32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]uint32, 0, len(k.held))
	for key := range k.held {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

// Reset releases every key. The window calls it when it loses focus so no key stays
// stuck down.
func (k *Keyboard) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.held)
}
