package model

import (
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/material"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPath is an option builder that records the file the Model was loaded from.
//
// Parameters:
//   - path: the source path
//
// Returns:
//   - ModelBuilderOption: a function that applies the path option to a model
func WithPath(path string) ModelBuilderOption {
	return func(m *model) {
		m.path = path
	}
}

// WithParts is an option builder that sets the drawable parts of the Model. The model
// takes ownership of the meshes.
//
// Parameters:
//   - parts: the parts in draw order
//
// Returns:
//   - ModelBuilderOption: a function that applies the parts option to a model
func WithParts(parts ...Part) ModelBuilderOption {
	return func(m *model) {
		m.parts = append(m.parts, parts...)
	}
}

// WithMaterials is an option builder that sets the distinct materials of the Model.
//
// Parameters:
//   - materials: the materials
//
// Returns:
//   - ModelBuilderOption: a function that applies the materials option to a model
func WithMaterials(materials ...material.Material) ModelBuilderOption {
	return func(m *model) {
		m.materials = append(m.materials, materials...)
	}
}

// WithTextures is an option builder that hands texture ownership to the Model, so they
// are released with it.
//
// Parameters:
//   - textures: the uploaded textures referenced by the materials
//
// Returns:
//   - ModelBuilderOption: a function that applies the textures option to a model
func WithTextures(textures ...renderer.Texture) ModelBuilderOption {
	return func(m *model) {
		m.textures = append(m.textures, textures...)
	}
}

// WithBoundingRadius is an option builder that sets the bounding sphere radius of the Model.
//
// Parameters:
//   - radius: the bounding radius
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}
