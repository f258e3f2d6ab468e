package scene

import (
	"time"

	"github.com/Carmen-Shannon/tellurion/engine/config"
	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// View supplies the camera matrices for the composite pass.
type View interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Position() mgl32.Vec3
}

// State is everything a frame reads. The orchestrator owns one State and passes it
// by pointer to every pass; only Elapsed, Blinn and the directional lights' direction
// and light-space matrix change between frames.
type State struct {
	Lights    *light.LightSet
	Instances []ModelInstance
	Camera    View

	// Elapsed is the time since the scene started, advanced once per frame.
	Elapsed time.Duration
	// Blinn selects Blinn-Phong specular in the composite pass.
	Blinn bool

	Volume          light.ShadowVolume
	Animation       AnimationParams
	LightWidth      float32
	PCFSampleRadius float32
	// BlurRadius is the half width in texels of the VSM blur kernel.
	BlurRadius float32
}

// NewState creates a State with the default shadow volume, animation and filter
// parameters, then applies the given options.
//
// Parameters:
//   - options: functional options to configure the state
//
// Returns:
//   - *State: the configured state
func NewState(options ...StateBuilderOption) *State {
	s := &State{
		Lights:          light.NewLightSet(nil, nil),
		Volume:          light.DefaultShadowVolume(),
		Animation:       DefaultAnimationParams(),
		LightWidth:      light.DefaultLightWidth,
		PCFSampleRadius: light.DefaultPCFSampleRadius,
		BlurRadius:      DefaultBlurRadius,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// DefaultBlurRadius is the VSM blur half width used when nothing is configured.
const DefaultBlurRadius float32 = 4

// Add appends instances to the scene.
func (s *State) Add(instances ...ModelInstance) {
	s.Instances = append(s.Instances, instances...)
}

// Drawable returns the enabled instances that have a model, in insertion order.
// Every pass draws exactly this list.
func (s *State) Drawable() []ModelInstance {
	out := make([]ModelInstance, 0, len(s.Instances))
	for _, inst := range s.Instances {
		if inst.Enabled() && inst.Model() != nil {
			out = append(out, inst)
		}
	}
	return out
}

// Advance adds dt to Elapsed. Negative steps are ignored so animations never run backwards.
func (s *State) Advance(dt time.Duration) {
	if dt > 0 {
		s.Elapsed += dt
	}
}

// InstanceFromDescriptor builds a ModelInstance from a scene file entry. The model
// itself is attached by the caller once it has been loaded.
//
// Parameters:
//   - desc: the model descriptor
//   - options: extra options applied after the descriptor fields
//
// Returns:
//   - ModelInstance: the instance
//   - error: ErrUnknownAnimation if the descriptor names an unknown animation
func InstanceFromDescriptor(desc config.ModelDescriptor, options ...ModelInstanceBuilderOption) (ModelInstance, error) {
	anim, err := ParseAnimation(desc.Animation)
	if err != nil {
		return nil, err
	}
	base := []ModelInstanceBuilderOption{
		WithPath(desc.Path),
		WithPosition(desc.Position.Vec()),
		WithRotation(desc.Rotation.Vec()),
		WithScale(desc.ScaleVec()),
		WithAnimation(anim),
	}
	return NewModelInstance(append(base, options...)...), nil
}
