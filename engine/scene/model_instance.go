package scene

import (
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type modelInstance struct {
	id        uuid.UUID
	enabled   atomic.Bool
	path      string
	mdl       model.Model
	animation Animation

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
}

// ModelInstance places a loaded model in the scene. Several instances may share one
// model; the model is borrowed and released by the loader that owns it.
type ModelInstance interface {
	// ID returns the instance's unique identifier.
	//
	// Returns:
	//   - uuid.UUID: the instance ID
	ID() uuid.UUID

	// Enabled returns whether this instance is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Path returns the asset path the instance was configured with.
	//
	// Returns:
	//   - string: the model path
	Path() string

	// Model returns the Model drawn for this instance, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Animation returns the runtime transform kind.
	//
	// Returns:
	//   - Animation: the animation kind
	Animation() Animation

	// Position returns the world-space translation.
	Position() mgl32.Vec3

	// Rotation returns the static Euler rotation in degrees.
	Rotation() mgl32.Vec3

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// ModelMatrix composes translate · rotateX · rotateY · rotateZ · [tilt · spin] · scale.
	// The bracketed term is present only for AnimationTellurion, so instances without an
	// animation return the same matrix at every time.
	//
	// Parameters:
	//   - elapsed: time since the scene started
	//   - params: the animation tunables
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	ModelMatrix(elapsed time.Duration, params AnimationParams) mgl32.Mat4

	// SetEnabled sets whether the instance is drawn.
	SetEnabled(enabled bool)

	// SetModel assigns the Model to draw.
	SetModel(m model.Model)

	// SetPosition sets the world-space translation.
	SetPosition(p mgl32.Vec3)

	// SetRotation sets the static Euler rotation in degrees.
	SetRotation(r mgl32.Vec3)

	// SetScale sets the per-axis scale.
	SetScale(s mgl32.Vec3)
}

var _ ModelInstance = &modelInstance{}

// NewModelInstance creates a new enabled ModelInstance with unit scale and a fresh id,
// configured with the given options.
//
// Parameters:
//   - options: functional options to configure the instance
//
// Returns:
//   - ModelInstance: the newly created instance
func NewModelInstance(options ...ModelInstanceBuilderOption) ModelInstance {
	inst := &modelInstance{
		id:    uuid.New(),
		scale: mgl32.Vec3{1, 1, 1},
	}
	inst.enabled.Store(true)
	for _, option := range options {
		option(inst)
	}
	return inst
}

func (m *modelInstance) ID() uuid.UUID        { return m.id }
func (m *modelInstance) Enabled() bool        { return m.enabled.Load() }
func (m *modelInstance) Path() string         { return m.path }
func (m *modelInstance) Model() model.Model   { return m.mdl }
func (m *modelInstance) Animation() Animation { return m.animation }
func (m *modelInstance) Position() mgl32.Vec3 { return m.position }
func (m *modelInstance) Rotation() mgl32.Vec3 { return m.rotation }
func (m *modelInstance) Scale() mgl32.Vec3    { return m.scale }

func (m *modelInstance) ModelMatrix(elapsed time.Duration, params AnimationParams) mgl32.Mat4 {
	if m.animation == AnimationTellurion {
		return common.ModelMatrix(m.position, m.rotation, m.scale, params.Transform(elapsed))
	}
	return common.ModelMatrix(m.position, m.rotation, m.scale)
}

func (m *modelInstance) SetEnabled(enabled bool)  { m.enabled.Store(enabled) }
func (m *modelInstance) SetModel(mdl model.Model) { m.mdl = mdl }
func (m *modelInstance) SetPosition(p mgl32.Vec3) { m.position = p }
func (m *modelInstance) SetRotation(r mgl32.Vec3) { m.rotation = r }
func (m *modelInstance) SetScale(s mgl32.Vec3)    { m.scale = s }
