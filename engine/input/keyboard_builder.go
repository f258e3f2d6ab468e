package input

// KeyboardBuilderOption is a functional option for configuring a Keyboard.
type KeyboardBuilderOption func(*Keyboard)

// WithBlinnKey sets the key that toggles Blinn-Phong.
func WithBlinnKey(key uint32) KeyboardBuilderOption {
	return func(k *Keyboard) {
		k.blinnKey = key
	}
}

// WithBlinn sets the initial Blinn-Phong state.
func WithBlinn(enabled bool) KeyboardBuilderOption {
	return func(k *Keyboard) {
		k.blinn = enabled
	}
}
