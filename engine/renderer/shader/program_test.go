package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneProgram_PipelineInputs(t *testing.T) {
	p := SceneProgram()

	assert.Equal(t, SceneProgramKey, p.Key())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	assert.NotContains(t, p.Source(), annotationPrefix)
	assert.Equal(t, p.Source(), p.Module().WGSLDescriptor.Code)

	layouts := p.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(48), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 4)
	assert.Equal(t, uint64(32), layouts[0].Attributes[3].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, layouts[0].Attributes[3].Format)

	groups := p.BindGroupLayoutDescriptors()
	require.Len(t, groups, 2)

	uniform := groups[UniformGroup].Entries
	require.Len(t, uniform, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, uniform[0].Buffer.Type)
	assert.True(t, uniform[0].Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(1648), uniform[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, uniform[0].Visibility)

	textures := groups[TextureGroup].Entries
	require.Len(t, textures, 13)
	for i, e := range textures {
		assert.Equal(t, uint32(i), e.Binding)
	}
	assert.Equal(t, wgpu.TextureSampleTypeFloat, textures[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, textures[3].Texture.SampleType)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, textures[6].Texture.SampleType)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, textures[7].Texture.SampleType)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, textures[10].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, textures[11].Sampler.Type)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, textures[12].Sampler.Type)
}

func TestSceneProgram_TextureSlots(t *testing.T) {
	p := SceneProgram()

	slots := map[string]int{
		"diffuseMap":   0,
		"normalMap":    1,
		"specularMap":  2,
		"shadowMap0":   3,
		"shadowMap3":   6,
		"varianceMap0": 7,
		"varianceMap3": 10,
	}
	for name, want := range slots {
		got, ok := p.TextureSlot(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := p.TextureSlot("u")
	assert.False(t, ok)
}

func TestShadowProgram(t *testing.T) {
	p := ShadowProgram()

	assert.Equal(t, uint32(128), p.Uniforms().Size())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	require.Len(t, p.VertexLayouts(), 1)

	h, err := p.Locate("lightSpaceMatrix")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), h.Offset())
	h, err = p.Locate("model")
	require.NoError(t, err)
	assert.Equal(t, uint32(64), h.Offset())
}

func TestBlurProgram(t *testing.T) {
	p := BlurProgram()

	assert.Empty(t, p.VertexLayouts())
	assert.Equal(t, uint32(8), p.Uniforms().Size())

	slot, ok := p.TextureSlot("moments")
	require.True(t, ok)
	assert.Equal(t, 0, slot)
	entries := p.BindGroupLayoutDescriptors()[TextureGroup].Entries
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, entries[0].Texture.SampleType)
}

func TestProgram_SettersRoundTrip(t *testing.T) {
	p := SceneProgram()

	view := mgl32.LookAtV(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	hView, _ := p.Locate("view")
	hPos, _ := p.Locate("pointLights[2].position")
	hCount, _ := p.Locate("numPointLights")
	hWidth, _ := p.Locate("lightWidth")
	hBlinn, _ := p.Locate("blinn")

	p.SetMat4(hView, view)
	p.SetVec3(hPos, mgl32.Vec3{1, 2, 3})
	p.SetInt(hCount, 3)
	p.SetFloat(hWidth, 0.132)
	p.SetBool(hBlinn, true)

	assert.Equal(t, view, p.Mat4(hView))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, p.Vec3(hPos))
	assert.Equal(t, int32(3), p.Int(hCount))
	assert.InDelta(t, 0.132, p.Float(hWidth), 1e-7)
	assert.Equal(t, int32(1), p.Int(hBlinn))

	p.SetBool(hBlinn, false)
	assert.Equal(t, int32(0), p.Int(hBlinn))
}

func TestProgram_SettersIgnoreInvalidAndMismatchedHandles(t *testing.T) {
	p := SceneProgram()
	before := append([]byte(nil), p.UniformBlock()...)

	hView, _ := p.Locate("view")
	hCount, _ := p.Locate("numPointLights")

	p.SetFloat(hView, 42)
	p.SetVec3(hCount, mgl32.Vec3{1, 1, 1})
	p.SetMat4(hCount, mgl32.Ident4())
	p.SetInt(UniformHandle{}, 7)
	p.SetMat4(UniformHandle{}, mgl32.Ident4())

	assert.Equal(t, before, p.UniformBlock())
}

func TestProgram_InstancesDoNotShareBlocks(t *testing.T) {
	a, b := SceneProgram(), SceneProgram()
	h, _ := a.Locate("numDirectionalLights")

	a.SetInt(h, 2)
	assert.Equal(t, int32(2), a.Int(h))
	assert.Equal(t, int32(0), b.Int(h))
}

func TestNewProgram_Errors(t *testing.T) {
	_, err := NewProgram("broken", "//@tellurion:include nothing\n@vertex fn vs() {}")
	assert.Error(t, err)

	_, err = NewProgram("no-vertex", "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")
	assert.Error(t, err)

	_, err = NewProgramFromPath("missing", "does/not/exist.wgsl")
	assert.Error(t, err)
}

func TestNewProgram_NoUniformBlock(t *testing.T) {
	p, err := NewProgram("bare", "@vertex fn vs(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }")
	require.NoError(t, err)

	assert.Nil(t, p.Uniforms())
	assert.Nil(t, p.UniformBlock())
	_, err = p.Locate("anything")
	assert.ErrorIs(t, err, ErrUnknownUniform)
	assert.False(t, p.Handle(UniformKey{Field: "anything"}).Valid())
	assert.Empty(t, p.FragmentEntryPoint())
}

func TestPreProcessor_IncludesOnceAndDropsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(strings.Join([]string{
		"//@tellurion:include point_light",
		"//@tellurion:include point_light",
		"// @tellurion:unfilterable 1 4",
		"// an ordinary comment",
	}, "\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct PointLight"))
	assert.NotContains(t, out, annotationPrefix)
	assert.Contains(t, out, "// an ordinary comment")
	assert.True(t, pp.Unfilterable()[[2]int{1, 4}])
}

func TestPreProcessor_MalformedAnnotations(t *testing.T) {
	for _, src := range []string{
		"//@tellurion:",
		"//@tellurion:include",
		"//@tellurion:include vertex extra",
		"//@tellurion:include camera",
		"//@tellurion:unfilterable 1",
		"//@tellurion:unfilterable one 2",
		"//@tellurion:group 0 0",
	} {
		_, err := NewPreProcessor().Process(src)
		assert.Error(t, err, src)
	}
}
