package scene

import (
	"github.com/Carmen-Shannon/tellurion/engine/config"
	"github.com/Carmen-Shannon/tellurion/engine/light"
)

// StateBuilderOption is a functional option for configuring a State during construction.
type StateBuilderOption func(*State)

// WithLights sets the scene's light set.
//
// Parameters:
//   - lights: the ordered directional and point lights
//
// Returns:
//   - StateBuilderOption: functional option to set the lights
func WithLights(lights *light.LightSet) StateBuilderOption {
	return func(s *State) {
		if lights != nil {
			s.Lights = lights
		}
	}
}

// WithInstances sets the model instances in draw order.
func WithInstances(instances ...ModelInstance) StateBuilderOption {
	return func(s *State) {
		s.Instances = append(s.Instances[:0], instances...)
	}
}

// WithCamera sets the camera the composite pass renders from.
func WithCamera(v View) StateBuilderOption {
	return func(s *State) {
		s.Camera = v
	}
}

// WithBlinn sets the initial specular model.
func WithBlinn(blinn bool) StateBuilderOption {
	return func(s *State) {
		s.Blinn = blinn
	}
}

// WithVolume sets the orthographic shadow volume.
func WithVolume(v light.ShadowVolume) StateBuilderOption {
	return func(s *State) {
		s.Volume = v
	}
}

// WithAnimationParams sets the tellurion tilt and yaw rate.
func WithAnimationParams(p AnimationParams) StateBuilderOption {
	return func(s *State) {
		s.Animation = p
	}
}

// WithSettings copies the shadow, filter and animation tunables from settings.
//
// Parameters:
//   - settings: the loaded settings
//
// Returns:
//   - StateBuilderOption: functional option applying the settings
func WithSettings(settings config.Settings) StateBuilderOption {
	return func(s *State) {
		s.Volume = settings.ShadowVolume()
		s.Animation = AnimationParams{
			AxialTiltDegrees: settings.Animation.AxialTiltDegrees,
			YawRateDegrees:   settings.Animation.YawRateDegrees,
		}
		s.LightWidth = settings.Shadow.LightWidth
		s.PCFSampleRadius = settings.Shadow.PCFSampleRadius
		s.BlurRadius = float32(settings.Shadow.BlurRadius)
	}
}
