package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Variant identifies one GPU render pipeline. The same program drawn with a different cull
// mode or into a target with different attachments needs its own pipeline object.
type Variant struct {
	// Program is the key of the shader.Program.
	Program string
	// CullMode is the face culling state at draw time.
	CullMode wgpu.CullMode
	// DepthFormat is the target's depth attachment format, TextureFormatUndefined for none.
	DepthFormat wgpu.TextureFormat
	// ColorFormat is the target's color attachment format, TextureFormatUndefined for none.
	ColorFormat wgpu.TextureFormat
}

// String returns a readable label for the variant, used for GPU object labels.
func (v Variant) String() string {
	return fmt.Sprintf("%s/cull=%d/depth=%d/color=%d", v.Program, v.CullMode, v.DepthFormat, v.ColorFormat)
}

// pipeline is the implementation of the Pipeline interface.
// It holds the program, the target signature and the render state used to create one
// wgpu.RenderPipeline, and the created pipeline once the renderer has built it.
type pipeline struct {
	program shader.Program

	renderPipeline *wgpu.RenderPipeline

	// The following properties are used to configure the pipeline during creation and can be toggled/set with the builder options.

	cullMode            wgpu.CullMode
	depthFormat         wgpu.TextureFormat
	colorFormat         wgpu.TextureFormat
	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline defines the interface for one render pipeline variant: a shader.Program together
// with the cull, depth and color state it is drawn with.
type Pipeline interface {
	// Key returns the variant this pipeline was configured for, used for caching and lookups.
	//
	// Returns:
	//   - Variant: the variant key
	Key() Variant

	// Program returns the program drawn by this pipeline.
	//
	// Returns:
	//   - shader.Program: the program
	Program() shader.Program

	// HasFragment reports whether the pipeline runs a fragment stage. Targets without a color
	// attachment run the vertex stage alone.
	//
	// Returns:
	//   - bool: true if a fragment stage is attached
	HasFragment() bool

	// RenderPipeline returns the created GPU pipeline, or nil before the renderer builds it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created GPU pipeline.
	//
	// Parameters:
	//   - rp: the GPU pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// Descriptor builds the creation descriptor for this variant.
	//
	// Parameters:
	//   - layout: the pipeline layout shared by every variant of the program
	//   - module: the compiled shader module of the program
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor to pass to Device.CreateRenderPipeline
	Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthBias returns the depth bias value configured for this pipeline.
	//
	// Returns:
	//   - int32: the depth bias value for this pipeline
	DepthBias() int32

	// DepthBiasSlopeScale returns the depth bias slope scale configured for this pipeline.
	//
	// Returns:
	//   - float32: the depth bias slope scale for this pipeline
	DepthBiasSlopeScale() float32

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// DepthFormat returns the depth attachment format, TextureFormatUndefined for none.
	DepthFormat() wgpu.TextureFormat

	// ColorFormat returns the color attachment format, TextureFormatUndefined for none.
	ColorFormat() wgpu.TextureFormat

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	BlendState() *wgpu.BlendState

	// Release releases the GPU pipeline if one was created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline for the given program with the provided options.
// Defaults: depth test and write enabled, no culling, no target attachments, triangle lists
// with counter-clockwise front faces, all color channels written, blending disabled.
//
// Parameters:
//   - program: the program to draw
//   - options: variadic list of PipelineBuilderOption functions to configure the Pipeline
//
// Returns:
//   - Pipeline: the configured Pipeline
func NewPipeline(program shader.Program, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		program:           program,
		cullMode:          wgpu.CullModeNone,
		depthFormat:       wgpu.TextureFormatUndefined,
		colorFormat:       wgpu.TextureFormatUndefined,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

func (p *pipeline) Key() Variant {
	return Variant{
		Program:     p.program.Key(),
		CullMode:    p.cullMode,
		DepthFormat: p.depthFormat,
		ColorFormat: p.colorFormat,
	}
}

func (p *pipeline) Program() shader.Program {
	return p.program
}

func (p *pipeline) HasFragment() bool {
	return p.colorFormat != wgpu.TextureFormatUndefined && p.program.FragmentEntryPoint() != ""
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.Key().String(),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.program.VertexEntryPoint(),
			Buffers:    p.program.VertexLayouts(),
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if p.HasFragment() {
		target := wgpu.ColorTargetState{
			Format:    p.colorFormat,
			WriteMask: p.writeMask,
		}
		if p.blendEnabled {
			target.Blend = p.blendState
		}
		desc.Fragment = &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.program.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		}
	}

	if p.depthFormat != wgpu.TextureFormatUndefined {
		depthCompare := wgpu.CompareFunctionLess
		if !p.depthTestEnabled {
			depthCompare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:              p.depthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        depthCompare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	return desc
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
