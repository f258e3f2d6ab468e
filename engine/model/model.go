package model

import (
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/material"
)

// Part is one drawable piece of a model: an uploaded mesh and the material it is shaded
// with. A nil material means the scene program's default coefficients.
type Part struct {
	Mesh     renderer.Mesh
	Material material.Material
}

// model is the implementation of the Model interface.
type model struct {
	name           string
	path           string
	parts          []Part
	materials      []material.Material
	textures       []renderer.Texture
	boundingRadius float32
}

// Model defines the interface for a loaded 3D model.
// A Model is a GPU-ready container holding the uploaded mesh parts of one asset and
// their materials. It is produced by the Loader after importing a model file, and is
// shared by every scene instance that references the same file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Path retrieves the file the model was loaded from.
	//
	// Returns:
	//   - string: the source path, empty for models built in code
	Path() string

	// Parts retrieves the drawable parts in file order.
	//
	// Returns:
	//   - []Part: the parts
	Parts() []Part

	// Materials retrieves the distinct materials used by the parts.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Release frees every mesh and texture the model owns.
	Release()
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string                   { return m.name }
func (m *model) Path() string                   { return m.path }
func (m *model) Parts() []Part                  { return m.parts }
func (m *model) Materials() []material.Material { return m.materials }
func (m *model) BoundingRadius() float32        { return m.boundingRadius }

func (m *model) Release() {
	for _, p := range m.parts {
		if p.Mesh != nil {
			p.Mesh.Release()
		}
	}
	for _, t := range m.textures {
		t.Release()
	}
	m.parts = nil
	m.textures = nil
}
