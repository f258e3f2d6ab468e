package material

import (
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Map identifies one of the optional texture maps of a material.
type Map int

const (
	DiffuseMap Map = iota
	NormalMap
	SpecularMap
	mapCount
)

// String returns the sampler variable name the scene program uses for the map.
func (m Map) String() string {
	switch m {
	case DiffuseMap:
		return "diffuseMap"
	case NormalMap:
		return "normalMap"
	case SpecularMap:
		return "specularMap"
	default:
		return "unknown"
	}
}

// flagField returns the Material struct field that tells the shader whether the map is bound.
func (m Map) flagField() string {
	switch m {
	case DiffuseMap:
		return "hasDiffuseMap"
	case NormalMap:
		return "hasNormalMap"
	default:
		return "hasSpecularMap"
	}
}

// material is the implementation of the Material interface.
type material struct {
	name      string
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	shininess float32
	maps      [mapCount]renderer.Texture
}

// Material is a Phong surface description: reflectance coefficients, a specular exponent
// and up to three optional texture maps. A nil map means the surface has no such map; the
// shader then falls back to the coefficients.
//
// Maps are borrowed. The loader that created them releases them.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Ambient retrieves the ambient reflectance.
	Ambient() mgl32.Vec3

	// Diffuse retrieves the diffuse reflectance.
	Diffuse() mgl32.Vec3

	// Specular retrieves the specular reflectance.
	Specular() mgl32.Vec3

	// Shininess retrieves the specular exponent.
	Shininess() float32

	// Map retrieves one of the texture maps, or nil when the material has none.
	//
	// Parameters:
	//   - m: which map
	//
	// Returns:
	//   - renderer.Texture: the texture, or nil
	Map(m Map) renderer.Texture

	// SetMap replaces one of the texture maps. A nil texture removes the map.
	//
	// Parameters:
	//   - m: which map
	//   - tex: the texture, or nil
	SetMap(m Map, tex renderer.Texture)

	// Apply writes the coefficients and map flags into the program's uniform block and binds
	// the present maps to their texture slots. Absent maps are unbound so the previous
	// material's maps do not leak into this draw.
	//
	// Parameters:
	//   - r: the renderer to bind the maps on
	//   - p: the program whose uniform block receives the coefficients
	//   - h: handles resolved from p with ResolveHandles
	Apply(r renderer.Renderer, p shader.Program, h Handles)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults are a white diffuse surface with a weak ambient term and shininess 32.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		ambient:   mgl32.Vec3{0.1, 0.1, 0.1},
		diffuse:   mgl32.Vec3{1, 1, 1},
		specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		shininess: 32,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string         { return m.name }
func (m *material) Ambient() mgl32.Vec3  { return m.ambient }
func (m *material) Diffuse() mgl32.Vec3  { return m.diffuse }
func (m *material) Specular() mgl32.Vec3 { return m.specular }
func (m *material) Shininess() float32   { return m.shininess }

func (m *material) Map(which Map) renderer.Texture {
	if which < 0 || which >= mapCount {
		return nil
	}
	return m.maps[which]
}

func (m *material) SetMap(which Map, tex renderer.Texture) {
	if which < 0 || which >= mapCount {
		return
	}
	m.maps[which] = tex
}

func (m *material) Apply(r renderer.Renderer, p shader.Program, h Handles) {
	p.SetVec3(h.ambient, m.ambient)
	p.SetVec3(h.diffuse, m.diffuse)
	p.SetVec3(h.specular, m.specular)
	p.SetFloat(h.shininess, m.shininess)

	for which := range mapCount {
		tex := m.maps[which]
		p.SetBool(h.flags[which], tex != nil)
		if h.slots[which] >= 0 {
			r.BindTexture(h.slots[which], tex)
		}
	}
}

// Handles are the uniform and texture slot locations a material writes to, resolved once
// per program.
type Handles struct {
	ambient   shader.UniformHandle
	diffuse   shader.UniformHandle
	specular  shader.UniformHandle
	shininess shader.UniformHandle
	flags     [mapCount]shader.UniformHandle
	slots     [mapCount]int
}

// ResolveHandles looks up the "material" uniform struct and the map samplers of p. Fields
// the program lacks resolve to invalid handles and are skipped by Apply.
//
// Parameters:
//   - p: the program
//
// Returns:
//   - Handles: the resolved locations
func ResolveHandles(p shader.Program) Handles {
	field := func(name string) shader.UniformHandle {
		return p.Handle(shader.UniformKey{Category: "material", Field: name})
	}
	h := Handles{
		ambient:   field("ambient"),
		diffuse:   field("diffuse"),
		specular:  field("specular"),
		shininess: field("shininess"),
	}
	for which := range mapCount {
		h.flags[which] = field(which.flagField())
		h.slots[which] = -1
		if slot, ok := p.TextureSlot(which.String()); ok {
			h.slots[which] = slot
		}
	}
	return h
}
