package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline(shader.SceneProgram())

	assert.Equal(t, Variant{Program: shader.SceneProgramKey, CullMode: wgpu.CullModeNone}, p.Key())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.False(t, p.HasFragment(), "no color attachment means no fragment stage")
	assert.Nil(t, p.RenderPipeline())
}

func TestVariantKeysDifferByState(t *testing.T) {
	prog := shader.ShadowProgram()
	front := NewPipeline(prog, WithCullMode(wgpu.CullModeFront), WithDepthFormat(wgpu.TextureFormatDepth32Float))
	back := NewPipeline(prog, WithCullMode(wgpu.CullModeBack), WithDepthFormat(wgpu.TextureFormatDepth32Float))
	moments := NewPipeline(prog,
		WithCullMode(wgpu.CullModeFront),
		WithDepthFormat(wgpu.TextureFormatDepth32Float),
		WithColorFormat(wgpu.TextureFormatRG32Float),
	)

	assert.NotEqual(t, front.Key(), back.Key())
	assert.NotEqual(t, front.Key(), moments.Key())
	assert.NotEqual(t, front.Key().String(), moments.Key().String())
}

func TestDescriptorDepthOnly(t *testing.T) {
	p := NewPipeline(shader.ShadowProgram(),
		WithCullMode(wgpu.CullModeFront),
		WithDepthFormat(wgpu.TextureFormatDepth32Float),
		WithDepthBias(2, 1.5),
	)

	desc := p.Descriptor(nil, nil)
	assert.Nil(t, desc.Fragment)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.Equal(t, int32(2), desc.DepthStencil.DepthBias)
	assert.Equal(t, float32(1.5), desc.DepthStencil.DepthBiasSlopeScale)
	assert.Equal(t, wgpu.CullModeFront, desc.Primitive.CullMode)
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	assert.Len(t, desc.Vertex.Buffers, 1)
	assert.Equal(t, uint32(1), desc.Multisample.Count)
}

func TestDescriptorColorOnly(t *testing.T) {
	p := NewPipeline(shader.BlurProgram(), WithColorFormat(wgpu.TextureFormatRG32Float))

	desc := p.Descriptor(nil, nil)
	assert.Nil(t, desc.DepthStencil)
	require.NotNil(t, desc.Fragment)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatRG32Float, desc.Fragment.Targets[0].Format)
	assert.Nil(t, desc.Fragment.Targets[0].Blend)
	assert.Empty(t, desc.Vertex.Buffers)
}

func TestDescriptorBlendAndDepthTest(t *testing.T) {
	p := NewPipeline(shader.SceneProgram(),
		WithColorFormat(wgpu.TextureFormatBGRA8UnormSrgb),
		WithDepthFormat(wgpu.TextureFormatDepth24Plus),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
	)

	desc := p.Descriptor(nil, nil)
	require.NotNil(t, desc.Fragment)
	assert.NotNil(t, desc.Fragment.Targets[0].Blend)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.DepthCompare)
	assert.False(t, desc.DepthStencil.DepthWriteEnabled)
}
