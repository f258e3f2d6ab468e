package shader

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Bind group conventions shared by every program and the renderer.
const (
	// UniformGroup and UniformBinding locate the program's uniform block. The block is
	// bound with a dynamic offset so each draw can see its own copy.
	UniformGroup   = 0
	UniformBinding = 0

	// TextureGroup holds textures and samplers. A texture slot is its binding index.
	TextureGroup = 1
)

// program is the implementation of the Program interface.
type program struct {
	key           string
	source        string
	module        *wgpu.ShaderModuleDescriptor
	vertexEntry   string
	fragmentEntry string
	vertexLayouts []wgpu.VertexBufferLayout
	bindGroups    map[int]wgpu.BindGroupLayoutDescriptor
	textureSlots  map[string]int
	uniforms      *UniformTable
	uniformBlock  []byte
}

// Program is a compiled-on-demand WGSL render program: the parsed source, its pipeline
// inputs, and a CPU copy of its uniform block. Setters write into the CPU block; the
// renderer uploads the block at each draw. Like glUniform, setters silently ignore invalid
// handles and handles whose type does not match.
type Program interface {
	// Key returns the program's unique identifier, used to cache pipelines.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Source returns the pre-processed WGSL source.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function, or "" when the program
	// has no fragment stage.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// VertexLayouts returns the vertex buffer layouts parsed from the vertex input structs.
	// Programs that generate their vertices from the vertex index return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: buffer layouts in slot order
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors returns the layout descriptors parsed from the source,
	// keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// TextureSlot returns the slot of the texture variable named varName.
	//
	// Parameters:
	//   - varName: the WGSL variable name, e.g. "shadowMap0"
	//
	// Returns:
	//   - int: the slot (binding index in TextureGroup)
	//   - bool: false when the program declares no such texture
	TextureSlot(varName string) (int, bool)

	// Uniforms returns the program's uniform table, or nil when it declares no uniform block.
	//
	// Returns:
	//   - *UniformTable: the table
	Uniforms() *UniformTable

	// Locate resolves a uniform by name, e.g. "pointLights[2].position".
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - UniformHandle: the handle
	//   - error: ErrUnknownUniform if the name does not resolve
	Locate(name string) (UniformHandle, error)

	// Handle resolves a uniform by key. Unknown keys yield an invalid handle.
	//
	// Parameters:
	//   - key: the (category, index, field) triple
	//
	// Returns:
	//   - UniformHandle: the handle
	Handle(key UniformKey) UniformHandle

	// SetInt writes an i32 or u32 field.
	SetInt(h UniformHandle, v int32)

	// SetFloat writes an f32 field.
	SetFloat(h UniformHandle, v float32)

	// SetVec3 writes a vec3<f32> field.
	SetVec3(h UniformHandle, v mgl32.Vec3)

	// SetMat4 writes a mat4x4<f32> field.
	SetMat4(h UniformHandle, m mgl32.Mat4)

	// SetBool writes 1 or 0 into an i32 or u32 field.
	SetBool(h UniformHandle, v bool)

	// Int reads back an i32 or u32 field, 0 for an invalid handle.
	Int(h UniformHandle) int32

	// Float reads back an f32 field, 0 for an invalid handle.
	Float(h UniformHandle) float32

	// Vec3 reads back a vec3<f32> field.
	Vec3(h UniformHandle) mgl32.Vec3

	// Mat4 reads back a mat4x4<f32> field.
	Mat4(h UniformHandle) mgl32.Mat4

	// UniformBlock returns the CPU copy of the uniform block. The slice is owned by the
	// program and changes with every setter call.
	//
	// Returns:
	//   - []byte: the block, nil when the program has none
	UniformBlock() []byte
}

var _ Program = &program{}

// NewProgram pre-processes and parses WGSL source into a Program. The uniform block is the
// var<uniform> declared at group 0 binding 0.
//
// Parameters:
//   - key: a unique identifier for the program
//   - source: WGSL source, which may contain @tellurion: annotations
//
// Returns:
//   - Program: the parsed program
//   - error: an error if pre-processing fails, the source has no vertex entry point, or
//     the uniform struct cannot be laid out
func NewProgram(key, source string) (Program, error) {
	pp := NewPreProcessor()
	expanded, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to pre-process %s: %w", key, err)
	}
	cleaned := stripComments(expanded)

	p := &program{
		key:    key,
		source: expanded,
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: expanded},
		},
		vertexEntry:   parseEntryPoint(cleaned, wgpu.ShaderStageVertex),
		fragmentEntry: parseEntryPoint(cleaned, wgpu.ShaderStageFragment),
		vertexLayouts: parseVertexLayouts(cleaned),
		textureSlots:  make(map[string]int),
	}
	if p.vertexEntry == "" {
		return nil, fmt.Errorf("shader: %s has no @vertex entry point", key)
	}

	resolver := newLayoutResolver(parseStructBlocks(cleaned))
	decls := parseResourceDecls(cleaned)
	p.bindGroups = buildBindGroupLayouts(decls, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, resolver, pp.Unfilterable())

	for _, d := range decls {
		switch {
		case d.group == UniformGroup && d.binding == UniformBinding && d.addressSpace == "uniform":
			table, err := newUniformTable(resolver, d.typeName)
			if err != nil {
				return nil, fmt.Errorf("shader: %s: %w", key, err)
			}
			p.uniforms = table
			p.uniformBlock = make([]byte, table.Size())
		case d.group == TextureGroup && d.addressSpace == "":
			p.textureSlots[d.varName] = d.binding
		}
	}

	if desc, ok := p.bindGroups[UniformGroup]; ok {
		for i := range desc.Entries {
			if desc.Entries[i].Binding == UniformBinding && desc.Entries[i].Buffer.Type == wgpu.BufferBindingTypeUniform {
				desc.Entries[i].Buffer.HasDynamicOffset = true
			}
		}
	}
	return p, nil
}

// NewProgramFromPath reads a WGSL file and parses it with NewProgram.
//
// Parameters:
//   - key: a unique identifier for the program
//   - path: the WGSL file
//
// Returns:
//   - Program: the parsed program
//   - error: a read or parse error
func NewProgramFromPath(key, path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read %q: %w", path, err)
	}
	return NewProgram(key, string(data))
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Source() string {
	return p.source
}

func (p *program) Module() *wgpu.ShaderModuleDescriptor {
	return p.module
}

func (p *program) VertexEntryPoint() string {
	return p.vertexEntry
}

func (p *program) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *program) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *program) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return p.bindGroups
}

func (p *program) TextureSlot(varName string) (int, bool) {
	slot, ok := p.textureSlots[varName]
	return slot, ok
}

func (p *program) Uniforms() *UniformTable {
	return p.uniforms
}

func (p *program) Locate(name string) (UniformHandle, error) {
	if p.uniforms == nil {
		return UniformHandle{}, fmt.Errorf("%w: %s has no uniform block", ErrUnknownUniform, p.key)
	}
	return p.uniforms.Locate(name)
}

func (p *program) Handle(key UniformKey) UniformHandle {
	if p.uniforms == nil {
		return UniformHandle{}
	}
	return p.uniforms.Handle(key)
}

// slot returns the bytes behind h when h is one of kinds, nil otherwise.
func (p *program) slot(h UniformHandle, kinds ...UniformKind) []byte {
	return slotOf(p.uniformBlock, h, kinds...)
}

func slotOf(block []byte, h UniformHandle, kinds ...UniformKind) []byte {
	end := h.offset + h.kind.size()
	if !h.Valid() || int(end) > len(block) {
		return nil
	}
	for _, k := range kinds {
		if h.kind == k {
			return block[h.offset:end]
		}
	}
	return nil
}

func putFloats(b []byte, fs ...float32) {
	for i, f := range fs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
}

func (p *program) SetInt(h UniformHandle, v int32) {
	if b := p.slot(h, UniformKindI32, UniformKindU32); b != nil {
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
}

func (p *program) SetFloat(h UniformHandle, v float32) {
	if b := p.slot(h, UniformKindF32); b != nil {
		putFloats(b, v)
	}
}

func (p *program) SetVec3(h UniformHandle, v mgl32.Vec3) {
	if b := p.slot(h, UniformKindVec3); b != nil {
		putFloats(b, v[:]...)
	}
}

func (p *program) SetMat4(h UniformHandle, m mgl32.Mat4) {
	if b := p.slot(h, UniformKindMat4); b != nil {
		putFloats(b, m[:]...)
	}
}

func (p *program) SetBool(h UniformHandle, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(h, i)
}

func (p *program) Int(h UniformHandle) int32 {
	return BlockView(p.uniformBlock).Int(h)
}

func (p *program) Float(h UniformHandle) float32 {
	return BlockView(p.uniformBlock).Float(h)
}

func (p *program) Vec3(h UniformHandle) mgl32.Vec3 {
	return BlockView(p.uniformBlock).Vec3(h)
}

func (p *program) Mat4(h UniformHandle) mgl32.Mat4 {
	return BlockView(p.uniformBlock).Mat4(h)
}

func (p *program) UniformBlock() []byte {
	return p.uniformBlock
}

// BlockView reads fields out of a copy of a uniform block, such as the snapshot a renderer
// takes at each draw. Reads with invalid or mismatched handles return zero values.
type BlockView []byte

// Int reads an i32 or u32 field.
func (v BlockView) Int(h UniformHandle) int32 {
	if b := slotOf(v, h, UniformKindI32, UniformKindU32); b != nil {
		return int32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// Float reads an f32 field.
func (v BlockView) Float(h UniformHandle) float32 {
	if b := slotOf(v, h, UniformKindF32); b != nil {
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// Vec3 reads a vec3<f32> field.
func (v BlockView) Vec3(h UniformHandle) mgl32.Vec3 {
	var out mgl32.Vec3
	if b := slotOf(v, h, UniformKindVec3); b != nil {
		readFloats(b, out[:])
	}
	return out
}

// Mat4 reads a mat4x4<f32> field.
func (v BlockView) Mat4(h UniformHandle) mgl32.Mat4 {
	var out mgl32.Mat4
	if b := slotOf(v, h, UniformKindMat4); b != nil {
		readFloats(b, out[:])
	}
	return out
}

func readFloats(b []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
}
