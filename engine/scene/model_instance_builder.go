package scene

import (
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ModelInstanceBuilderOption is a functional option for configuring a ModelInstance during construction.
type ModelInstanceBuilderOption func(*modelInstance)

// WithID overrides the generated ID of the ModelInstance.
//
// Parameters:
//   - id: unique identifier for the instance
//
// Returns:
//   - ModelInstanceBuilderOption: functional option to set the ID
func WithID(id uuid.UUID) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.id = id
	}
}

// WithEnabled sets whether the ModelInstance is drawn.
//
// Parameters:
//   - enabled: true to draw the instance, false to skip it
//
// Returns:
//   - ModelInstanceBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.enabled.Store(enabled)
	}
}

// WithPath records the asset path the instance was loaded from.
func WithPath(path string) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.path = path
	}
}

// WithModel sets the Model for this ModelInstance.
//
// Parameters:
//   - mdl: the Model to associate
//
// Returns:
//   - ModelInstanceBuilderOption: functional option to set the Model
func WithModel(mdl model.Model) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.mdl = mdl
	}
}

// WithAnimation sets the runtime transform kind.
func WithAnimation(a Animation) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.animation = a
	}
}

// WithPosition sets the world-space translation.
func WithPosition(p mgl32.Vec3) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.position = p
	}
}

// WithRotation sets the static Euler rotation in degrees.
func WithRotation(r mgl32.Vec3) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.rotation = r
	}
}

// WithScale sets the per-axis scale.
func WithScale(s mgl32.Vec3) ModelInstanceBuilderOption {
	return func(m *modelInstance) {
		m.scale = s
	}
}
