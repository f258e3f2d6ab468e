package composite

import "github.com/Carmen-Shannon/tellurion/engine/renderer/material"

// PassBuilderOption is a functional option for configuring a Pass during construction.
type PassBuilderOption func(*Pass)

// WithClearColor sets the screen clear color. Defaults to opaque black.
//
// Parameters:
//   - rgba: the clear color
//
// Returns:
//   - PassBuilderOption: functional option to set the clear color
func WithClearColor(rgba [4]float64) PassBuilderOption {
	return func(p *Pass) {
		p.clearColor = rgba
	}
}

// WithDefaultMaterial sets the material used for mesh parts that have none.
func WithDefaultMaterial(m material.Material) PassBuilderOption {
	return func(p *Pass) {
		p.fallback = m
	}
}
