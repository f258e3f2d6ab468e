package renderertest

import "github.com/Carmen-Shannon/tellurion/engine/renderer"

// Texture is an in-memory renderer.Texture.
type Texture struct {
	label    string
	width    int
	height   int
	format   renderer.TextureFormat
	released bool
}

var _ renderer.Texture = &Texture{}

// NewTexture returns a texture with the given label, size and format.
func NewTexture(label string, width, height int, format renderer.TextureFormat) *Texture {
	return &Texture{label: label, width: width, height: height, format: format}
}

func (t *Texture) Label() string                  { return t.label }
func (t *Texture) Width() int                     { return t.width }
func (t *Texture) Height() int                    { return t.height }
func (t *Texture) Format() renderer.TextureFormat { return t.format }
func (t *Texture) Release()                       { t.released = true }
func (t *Texture) Released() bool                 { return t.released }

// Target is an in-memory renderer.RenderTarget. Its attachments are named after the
// target label with ".depth" and ".color" suffixes.
type Target struct {
	label    string
	width    int
	height   int
	depth    *Texture
	color    *Texture
	released bool
}

var _ renderer.RenderTarget = &Target{}

func (t *Target) Label() string  { return t.label }
func (t *Target) Width() int     { return t.width }
func (t *Target) Height() int    { return t.height }
func (t *Target) Complete() bool { return !t.released }
func (t *Target) Released() bool { return t.released }

func (t *Target) Depth() renderer.Texture {
	if t.depth == nil {
		return nil
	}
	return t.depth
}

func (t *Target) Color() renderer.Texture {
	if t.color == nil {
		return nil
	}
	return t.color
}

func (t *Target) Release() {
	t.released = true
	if t.depth != nil {
		t.depth.Release()
	}
	if t.color != nil {
		t.color.Release()
	}
}

// Mesh is an in-memory renderer.Mesh.
type Mesh struct {
	label      string
	indexCount int
	released   bool
}

var _ renderer.Mesh = &Mesh{}

// NewMesh returns a mesh with the given label and index count.
func NewMesh(label string, indexCount int) *Mesh {
	return &Mesh{label: label, indexCount: indexCount}
}

func (m *Mesh) Label() string   { return m.label }
func (m *Mesh) IndexCount() int { return m.indexCount }
func (m *Mesh) Release()        { m.released = true }
func (m *Mesh) Released() bool  { return m.released }
