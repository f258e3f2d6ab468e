package material

import (
	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithCoefficients is an option builder that sets the Phong reflectance of the material.
//
// Parameters:
//   - ambient: the ambient reflectance
//   - diffuse: the diffuse reflectance
//   - specular: the specular reflectance
//
// Returns:
//   - MaterialBuilderOption: a function that applies the coefficients to a material
func WithCoefficients(ambient, diffuse, specular mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = ambient
		m.diffuse = diffuse
		m.specular = specular
	}
}

// WithShininess is an option builder that sets the specular exponent. Values below 1 are
// raised to 1.
//
// Parameters:
//   - shininess: the exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = max(shininess, 1)
	}
}

// WithMap is an option builder that sets one of the texture maps.
//
// Parameters:
//   - which: the map to set
//   - tex: the uploaded texture, or nil for none
//
// Returns:
//   - MaterialBuilderOption: a function that applies the map to a material
func WithMap(which Map, tex renderer.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.SetMap(which, tex)
	}
}

// WithImported copies the coefficients and name of a material read from a model file.
// Texture maps are uploaded separately and set with WithMap.
//
// Parameters:
//   - src: the imported material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the imported values to a material
func WithImported(src common.ImportedMaterial) MaterialBuilderOption {
	return func(m *material) {
		m.name = src.Name
		m.ambient = mgl32.Vec3(src.Ambient)
		m.diffuse = mgl32.Vec3(src.Diffuse)
		m.specular = mgl32.Vec3(src.Specular)
		if src.Shininess > 0 {
			m.shininess = max(src.Shininess, 1)
		}
	}
}
