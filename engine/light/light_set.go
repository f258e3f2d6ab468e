package light

import "github.com/go-gl/mathgl/mgl32"

// DefaultNudgeStep is how far one frame of arrow key input moves a light direction component.
const DefaultNudgeStep float32 = 0.01

// NudgeInput is the arrow key state sampled once per frame.
type NudgeInput struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Any reports whether at least one direction is held.
func (n NudgeInput) Any() bool {
	return n.Up || n.Down || n.Left || n.Right
}

// NudgeBounds holds the step and the inclusive ranges the nudged direction is clamped to.
type NudgeBounds struct {
	Step float32
	MinY float32
	MaxY float32
	MinZ float32
	MaxZ float32
}

// DefaultNudgeBounds returns step 0.01 with y clamped to [-2, 2] and z to [-3, 3].
func DefaultNudgeBounds() NudgeBounds {
	return NudgeBounds{
		Step: DefaultNudgeStep,
		MinY: -2,
		MaxY: 2,
		MinZ: -3,
		MaxZ: 3,
	}
}

// LightSet owns the ordered directional and point lights of a scene.
// Only directional lights take part in shadow mapping.
type LightSet struct {
	directional []Light
	point       []Light
}

// NewLightSet creates a LightSet from already constructed lights. Order is preserved and
// becomes the shader array index of every light. Lights beyond MaxDirectionalLights or
// MaxPointLights are dropped.
//
// Parameters:
//   - directional: directional lights in configuration order
//   - point: point lights in configuration order
//
// Returns:
//   - *LightSet: the light set
func NewLightSet(directional, point []Light) *LightSet {
	if len(directional) > MaxDirectionalLights {
		directional = directional[:MaxDirectionalLights]
	}
	if len(point) > MaxPointLights {
		point = point[:MaxPointLights]
	}
	return &LightSet{
		directional: append([]Light(nil), directional...),
		point:       append([]Light(nil), point...),
	}
}

// Directional returns the directional lights in index order.
func (s *LightSet) Directional() []Light {
	return s.directional
}

// Point returns the point lights in index order.
func (s *LightSet) Point() []Light {
	return s.point
}

// Nudge shifts the direction of directional light index by one step per held key:
// up lowers y, down raises y, left lowers z and right raises z. The result is clamped
// to the bounds. The direction is left unnormalized.
//
// Parameters:
//   - index: the directional light to move
//   - input: the keys held this frame
//   - bounds: the step and clamp ranges
//
// Returns:
//   - bool: false if no directional light exists at index
func (s *LightSet) Nudge(index int, input NudgeInput, bounds NudgeBounds) bool {
	if index < 0 || index >= len(s.directional) {
		return false
	}
	l := s.directional[index]
	d := l.Direction()

	if input.Up {
		d[1] -= bounds.Step
	}
	if input.Down {
		d[1] += bounds.Step
	}
	if input.Left {
		d[2] -= bounds.Step
	}
	if input.Right {
		d[2] += bounds.Step
	}

	d[1] = mgl32.Clamp(d[1], bounds.MinY, bounds.MaxY)
	d[2] = mgl32.Clamp(d[2], bounds.MinZ, bounds.MaxZ)
	l.SetDirection(d)
	return true
}

// RecomputeLightSpace refreshes the light-space matrix of every directional light from
// its current direction. Calling it twice without changing any direction yields the
// same matrices.
//
// Parameters:
//   - volume: the shadow volume shared by all directional lights
func (s *LightSet) RecomputeLightSpace(volume ShadowVolume) {
	for _, l := range s.directional {
		l.SetLightSpaceMatrix(LightSpaceMatrix(l.Direction(), volume))
	}
}
