package light

import "github.com/go-gl/mathgl/mgl32"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Affects all fragments uniformly
	// with no distance attenuation, and is the only light type that casts shadows.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance through constant, linear and quadratic coefficients.
	LightTypePoint
)

// String returns the configuration name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType LightType
	position  mgl32.Vec3
	direction mgl32.Vec3
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	color     mgl32.Vec3

	constant  float32
	linear    float32
	quadratic float32

	lightSpaceMatrix mgl32.Mat4
}

// Light defines the interface for a light source in the scene.
//
// Directional and point lights share this interface; type-specific properties
// (position for point lights, direction and light-space matrix for directional
// lights) return zero values when not applicable.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional or point)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Direction returns the direction the light travels along.
	// The vector is stored exactly as configured or nudged, it is not normalized.
	// Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: direction as (x, y, z)
	Direction() mgl32.Vec3

	// Ambient returns the ambient reflectance coefficients.
	//
	// Returns:
	//   - mgl32.Vec3: ambient coefficients as (r, g, b)
	Ambient() mgl32.Vec3

	// Diffuse returns the diffuse reflectance coefficients.
	//
	// Returns:
	//   - mgl32.Vec3: diffuse coefficients as (r, g, b)
	Diffuse() mgl32.Vec3

	// Specular returns the specular reflectance coefficients.
	//
	// Returns:
	//   - mgl32.Vec3: specular coefficients as (r, g, b)
	Specular() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Attenuation returns the point light distance attenuation coefficients.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - constant: the constant term
	//   - linear: the linear term
	//   - quadratic: the quadratic term
	Attenuation() (constant, linear, quadratic float32)

	// LightSpaceMatrix returns the projection · view transform from world space into
	// this light's shadow map space, as last computed by the owning LightSet.
	//
	// Returns:
	//   - mgl32.Mat4: the light-space matrix
	LightSpaceMatrix() mgl32.Mat4

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetDirection sets the direction of the light without normalizing it.
	//
	// Parameters:
	//   - d: the new direction
	SetDirection(d mgl32.Vec3)

	// SetLightSpaceMatrix stores a freshly computed light-space matrix.
	//
	// Parameters:
	//   - m: the light-space matrix
	SetLightSpaceMatrix(m mgl32.Mat4)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type with the provided options.
// Colour and all reflectance coefficients default to white, attenuation defaults
// to constant 1 with no falloff, and the light-space matrix to identity.
//
// Parameters:
//   - lightType: directional or point
//   - options: functional options applied in order
//
// Returns:
//   - Light: the configured light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:        lightType,
		direction:        mgl32.Vec3{0, -1, 0},
		ambient:          mgl32.Vec3{1, 1, 1},
		diffuse:          mgl32.Vec3{1, 1, 1},
		specular:         mgl32.Vec3{1, 1, 1},
		color:            mgl32.Vec3{1, 1, 1},
		constant:         1,
		lightSpaceMatrix: mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// NewDirectionalLight is shorthand for NewLight(LightTypeDirectional, options...).
func NewDirectionalLight(options ...LightBuilderOption) Light {
	return NewLight(LightTypeDirectional, options...)
}

// NewPointLight is shorthand for NewLight(LightTypePoint, options...).
func NewPointLight(options ...LightBuilderOption) Light {
	return NewLight(LightTypePoint, options...)
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Ambient() mgl32.Vec3 {
	return l.ambient
}

func (l *lightImpl) Diffuse() mgl32.Vec3 {
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec3 {
	return l.specular
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Attenuation() (constant, linear, quadratic float32) {
	return l.constant, l.linear, l.quadratic
}

func (l *lightImpl) LightSpaceMatrix() mgl32.Mat4 {
	return l.lightSpaceMatrix
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.position = p
}

func (l *lightImpl) SetDirection(d mgl32.Vec3) {
	l.direction = d
}

func (l *lightImpl) SetLightSpaceMatrix(m mgl32.Mat4) {
	l.lightSpaceMatrix = m
}
