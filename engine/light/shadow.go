package light

import (
	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultShadowResolution is the default width and height in texels of every
// directional light's shadow depth target.
const DefaultShadowResolution = 1024

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// of the directional light shadow volume.
const DefaultShadowHalfExtent float32 = 120.0

// DefaultShadowEyeScale scales the light direction when placing the light's eye point.
const DefaultShadowEyeScale float32 = 1.0

// DefaultShadowNear is the default near plane of the orthographic shadow projection.
const DefaultShadowNear float32 = 1.0

// DefaultShadowFar is the default far plane of the orthographic shadow projection.
const DefaultShadowFar float32 = 90.0

// DefaultLightWidth is the default penumbra width used by the PCF soft shadow filter.
const DefaultLightWidth float32 = 0.132

// DefaultPCFSampleRadius is the default PCF kernel radius in shadow map texels.
const DefaultPCFSampleRadius float32 = 0.588

// degenerateEpsilon is the squared length below which a vector counts as zero.
const degenerateEpsilon = 1e-12

var (
	worldUp       = mgl32.Vec3{0, 1, 0}
	fallbackUp    = mgl32.Vec3{0, 0, 1}
	straightDown  = mgl32.Vec3{0, -1, 0}
	shadowFocusAt = mgl32.Vec3{0, 0, 0}
)

// ShadowVolume describes the orthographic volume a directional light renders its
// shadow map from. The volume is centred on the world origin.
type ShadowVolume struct {
	// HalfExtent is half the width and height of the volume in world units.
	HalfExtent float32
	// Near is the distance to the near plane along the light's view axis.
	Near float32
	// Far is the distance to the far plane along the light's view axis.
	Far float32
	// EyeScale multiplies the light direction to place the light's eye point.
	EyeScale float32
}

// DefaultShadowVolume returns the shadow volume used when nothing is configured.
//
// Returns:
//   - ShadowVolume: half-extent 120, near 1, far 90, eye scale 1
func DefaultShadowVolume() ShadowVolume {
	return ShadowVolume{
		HalfExtent: DefaultShadowHalfExtent,
		Near:       DefaultShadowNear,
		Far:        DefaultShadowFar,
		EyeScale:   DefaultShadowEyeScale,
	}
}

// Projection returns the orthographic projection of the volume with depth mapped
// into [0, 1].
//
// Returns:
//   - mgl32.Mat4: the light projection matrix
func (v ShadowVolume) Projection() mgl32.Mat4 {
	e := v.HalfExtent
	return common.OrthoZO(-e, e, -e, e, v.Near, v.Far)
}

// View returns the look-at matrix for a light travelling along direction. The eye sits
// at -direction·EyeScale looking at the origin with +Y up. A zero direction is treated
// as straight down, and a direction parallel to +Y switches the up vector to +Z so the
// basis stays well defined.
//
// Parameters:
//   - direction: the light direction, not necessarily normalized
//
// Returns:
//   - mgl32.Mat4: the light view matrix
func (v ShadowVolume) View(direction mgl32.Vec3) mgl32.Mat4 {
	if direction.LenSqr() < degenerateEpsilon {
		direction = straightDown
	}

	scale := v.EyeScale
	if scale <= 0 {
		scale = DefaultShadowEyeScale
	}
	eye := direction.Mul(-scale)

	up := worldUp
	if direction.Normalize().Cross(worldUp).LenSqr() < degenerateEpsilon {
		up = fallbackUp
	}

	return mgl32.LookAtV(eye, shadowFocusAt, up)
}

// LightSpaceMatrix computes projection · view for a directional light.
//
// Parameters:
//   - direction: the light direction, not necessarily normalized
//   - volume: the shadow volume to project through
//
// Returns:
//   - mgl32.Mat4: the world to light clip space transform
func LightSpaceMatrix(direction mgl32.Vec3, volume ShadowVolume) mgl32.Mat4 {
	return volume.Projection().Mul4(volume.View(direction))
}
