package renderer

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// screenDepthFormat is the depth format of the screen target.
const screenDepthFormat = wgpu.TextureFormatDepth24Plus

// programResources holds the GPU objects shared by every pipeline variant of one program.
type programResources struct {
	module         *wgpu.ShaderModule
	layouts        []*wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	// uniforms binds the uniform arena buffer at the program's block size. Nil when the
	// program declares no uniform block.
	uniforms bind_group_provider.BindGroupProvider
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	logger   common.Logger

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	limits        wgpu.Limits
	screenDepth   *wgpuTexture
	width, height int

	// Frame state for batched rendering across every pass of a frame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	// Pass state, reset whenever a pass begins
	passDepthFormat wgpu.TextureFormat
	passColorFormat wgpu.TextureFormat
	passPipeline    *wgpu.RenderPipeline
	passViewport    Viewport

	programs      map[string]*programResources
	pipelines     map[pipeline.Variant]pipeline.Pipeline
	textureGroups map[string]bind_group_provider.BindGroupProvider

	arena         *bind_group_provider.UniformArena
	arenaProvider bind_group_provider.BindGroupProvider

	fallbackColor     *wgpuTexture
	fallbackMoments   *wgpuTexture
	fallbackDepth     *wgpuTexture
	filteringSampler  *wgpu.Sampler
	comparisonSampler *wgpu.Sampler

	// reported keeps each distinct draw failure from being logged every frame.
	reported map[string]bool
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, logger common.Logger) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:            &sync.Mutex{},
		instance:      wgpu.CreateInstance(nil),
		presentMode:   wgpu.PresentModeFifo,
		logger:        logger,
		programs:      make(map[string]*programResources),
		pipelines:     make(map[pipeline.Variant]pipeline.Pipeline),
		textureGroups: make(map[string]bind_group_provider.BindGroupProvider),
		arena:         bind_group_provider.NewUniformArena(bind_group_provider.DefaultArenaCapacity, bind_group_provider.DefaultArenaAlignment),
		reported:      make(map[string]bool),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to request adapter: %v", err))
	}
	w.adapter = a

	w.limits = wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: w.limits,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to request device: %v", err))
	}
	w.device = d
	w.queue = d.GetQueue()

	if err := w.initSharedResources(); err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	return w
}

// initSharedResources creates the uniform arena buffer, samplers and fallback textures.
func (b *wgpuRendererBackendImpl) initSharedResources() error {
	arenaBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Uniform Arena",
		Size:  b.arena.Capacity(),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform arena: %w", err)
	}
	b.arenaProvider = bind_group_provider.NewBindGroupProvider("Uniform Arena",
		bind_group_provider.WithBuffer(shader.UniformBinding, arenaBuffer))

	b.filteringSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Material Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create material sampler: %w", err)
	}

	b.comparisonSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		Compare:       wgpu.CompareFunctionLessEqual,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create comparison sampler: %w", err)
	}

	if b.fallbackColor, err = b.createSampledTexture("Fallback Color", FormatRGBA8, 1, 1, []byte{255, 255, 255, 255}); err != nil {
		return err
	}
	// Moments of the far plane: a cleared variance map reads as fully lit.
	if b.fallbackMoments, err = b.createSampledTexture("Fallback Moments", FormatRG32Float, 1, 1, common.SliceToBytes([]float32{1, 1})); err != nil {
		return err
	}
	if b.fallbackDepth, err = b.createClearedDepth("Fallback Depth"); err != nil {
		return err
	}
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.screenDepth != nil {
		b.screenDepth.releaseQuiet()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Screen Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        screenDepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create screen depth texture: %v", err))
	}
	depthView, err := depthTexture.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create screen depth view: %v", err))
	}
	b.screenDepth = newWGPUTexture("Screen Depth", width, height, FormatNone, depthTexture, depthView, nil)
	b.width, b.height = width, height
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) MaxTextureDimension() int {
	return int(b.limits.MaxTextureDimension2D)
}

func (b *wgpuRendererBackendImpl) CreateRenderTarget(desc TargetDescriptor) (RenderTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	target := &wgpuRenderTarget{label: desc.Label, width: desc.Width, height: desc.Height}
	if desc.Depth {
		depth, err := b.createAttachment(desc.Label+" Depth", FormatDepth32Float, desc.Width, desc.Height)
		if err != nil {
			return NewIncompleteTarget(desc), fmt.Errorf("%w: %q depth: %w", ErrIncompleteTarget, desc.Label, err)
		}
		target.depth = depth
	}
	if desc.Color != FormatNone {
		color, err := b.createAttachment(desc.Label+" Color", desc.Color, desc.Width, desc.Height)
		if err != nil {
			if target.depth != nil {
				target.depth.releaseQuiet()
			}
			return NewIncompleteTarget(desc), fmt.Errorf("%w: %q color: %w", ErrIncompleteTarget, desc.Label, err)
		}
		target.color = color
	}
	return target, nil
}

// createAttachment creates a texture usable both as a render attachment and as a sampled
// texture in later passes.
func (b *wgpuRendererBackendImpl) createAttachment(label string, format TextureFormat, width, height int) (*wgpuTexture, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpuFormat(format),
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return newWGPUTexture(label, width, height, format, tex, view, b.forgetTexture), nil
}

func (b *wgpuRendererBackendImpl) CreateMesh(label string, vertexData, indexData []byte, indexCount int) (Mesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	provider := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithIndexCount(indexCount))

	vertexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: mesh %q vertex buffer: %w", label, err)
	}
	b.queue.WriteBuffer(vertexBuffer, 0, vertexData)
	provider.SetVertexBuffer(vertexBuffer)

	indexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Index Buffer",
		Size:             uint64(len(indexData)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		provider.Release()
		return nil, fmt.Errorf("renderer: mesh %q index buffer: %w", label, err)
	}
	b.queue.WriteBuffer(indexBuffer, 0, indexData)
	provider.SetIndexBuffer(indexBuffer)

	return &wgpuMesh{provider: provider}, nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, stagingData common.TextureStagingData) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.createSampledTexture(label, FormatRGBA8, stagingData.Width, stagingData.Height, stagingData.Pixels)
	if err != nil {
		return nil, fmt.Errorf("renderer: texture %q: %w", label, err)
	}
	return tex, nil
}

// createSampledTexture creates a sampled texture and uploads its pixels.
func (b *wgpuRendererBackendImpl) createSampledTexture(label string, format TextureFormat, width, height uint32, pixels []byte) (*wgpuTexture, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpuFormat(format),
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(len(pixels)) / height,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return newWGPUTexture(label, int(width), int(height), format, tex, view, b.forgetTexture), nil
}

// createClearedDepth creates a 1×1 depth texture holding 1.0. Depth formats cannot be
// written by the queue, so the value is produced by a clearing pass.
func (b *wgpuRendererBackendImpl) createClearedDepth(label string) (*wgpuTexture, error) {
	tex, err := b.createAttachment(label, FormatDepth32Float, 1, 1)
	if err != nil {
		return nil, err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            tex.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	pass.End()
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		tex.Release()
		return nil, err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	return tex, nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("renderer: previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.arena.Reset()
	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) BeginPass(target RenderTarget, clear ClearOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return ErrNoFrame
	}
	b.endPass()

	colorLoad, depthLoad := wgpu.LoadOpLoad, wgpu.LoadOpLoad
	if clear.ClearColor {
		colorLoad = wgpu.LoadOpClear
	}
	if clear.ClearDepth {
		depthLoad = wgpu.LoadOpClear
	}
	clearColor := wgpu.Color{R: clear.Color[0], G: clear.Color[1], B: clear.Color[2], A: clear.Color[3]}

	var colorView, depthView *wgpu.TextureView
	if target == nil {
		colorView, depthView = b.frameView, b.screenDepth.view
		b.passColorFormat, b.passDepthFormat = b.surfaceFormat, screenDepthFormat
	} else {
		t, ok := target.(*wgpuRenderTarget)
		if !ok {
			return fmt.Errorf("renderer: target %q was not created by this renderer", target.Label())
		}
		if t.color != nil {
			colorView = t.color.view
		}
		if t.depth != nil {
			depthView = t.depth.view
		}
		b.passColorFormat, b.passDepthFormat = t.colorFormat(), t.depthFormat()
	}

	desc := &wgpu.RenderPassDescriptor{}
	if colorView != nil {
		desc.ColorAttachments = []wgpu.RenderPassColorAttachment{{
			View:       colorView,
			LoadOp:     colorLoad,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearColor,
		}}
	}
	if depthView != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: clear.Depth,
		}
	}

	b.framePass = b.frameEncoder.BeginRenderPass(desc)
	b.passPipeline = nil
	b.passViewport = Viewport{}
	return nil
}

// endPass ends the open render pass, if any. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) endPass() {
	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Draw(state drawState, mesh Mesh) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	if err := b.encodeDraw(state, mesh); err != nil {
		b.report(err)
	}
}

func (b *wgpuRendererBackendImpl) encodeDraw(state drawState, mesh Mesh) error {
	prog := state.program
	res, err := b.programResources(prog)
	if err != nil {
		return err
	}
	p, err := b.pipelineVariant(prog, res, state.cull)
	if err != nil {
		return err
	}

	if rp := p.RenderPipeline(); rp != b.passPipeline {
		b.framePass.SetPipeline(rp)
		b.passPipeline = rp
	}
	if state.viewport != b.passViewport {
		vp := state.viewport
		b.framePass.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height), 0, 1)
		b.passViewport = vp
	}

	if res.uniforms != nil {
		offset, err := b.arena.Push(prog.UniformBlock())
		if err != nil {
			return fmt.Errorf("renderer: %s: %w", prog.Key(), err)
		}
		b.framePass.SetBindGroup(shader.UniformGroup, res.uniforms.BindGroup(), []uint32{offset})
	}

	if desc, ok := prog.BindGroupLayoutDescriptors()[shader.TextureGroup]; ok {
		group, err := b.textureGroup(prog, res, desc, state.textures)
		if err != nil {
			return err
		}
		b.framePass.SetBindGroup(shader.TextureGroup, group.BindGroup(), nil)
	}

	if mesh == nil {
		b.framePass.Draw(3, 1, 0, 0)
		return nil
	}
	m, ok := mesh.(*wgpuMesh)
	if !ok {
		return fmt.Errorf("renderer: mesh %q was not created by this renderer", mesh.Label())
	}
	b.framePass.SetVertexBuffer(0, m.provider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(m.provider.IndexCount()), 1, 0, 0, 0)
	return nil
}

// programResources returns the shader module, layouts and uniform bind group of a program,
// creating them on first use.
func (b *wgpuRendererBackendImpl) programResources(prog shader.Program) (*programResources, error) {
	if res, ok := b.programs[prog.Key()]; ok {
		return res, nil
	}

	module, err := b.device.CreateShaderModule(prog.Module())
	if err != nil {
		return nil, fmt.Errorf("renderer: %s shader module: %w", prog.Key(), err)
	}
	res := &programResources{module: module}

	descriptors := prog.BindGroupLayoutDescriptors()
	maxGroup := -1
	for g := range descriptors {
		maxGroup = max(maxGroup, g)
	}
	res.layouts = make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := range res.layouts {
		desc := descriptors[g]
		desc.Label = fmt.Sprintf("%s group %d", prog.Key(), g)
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			res.release()
			return nil, fmt.Errorf("renderer: %s bind group layout %d: %w", prog.Key(), g, err)
		}
		res.layouts[g] = layout
	}

	res.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            prog.Key(),
		BindGroupLayouts: res.layouts,
	})
	if err != nil {
		res.release()
		return nil, fmt.Errorf("renderer: %s pipeline layout: %w", prog.Key(), err)
	}

	if table := prog.Uniforms(); table != nil {
		provider := bind_group_provider.NewBindGroupProvider(prog.Key() + " Uniforms")
		bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  provider.Label(),
			Layout: res.layouts[shader.UniformGroup],
			Entries: []wgpu.BindGroupEntry{{
				Binding: shader.UniformBinding,
				Buffer:  b.arenaProvider.Buffer(shader.UniformBinding),
				Offset:  0,
				Size:    uint64(table.Size()),
			}},
		})
		if err != nil {
			res.release()
			return nil, fmt.Errorf("renderer: %s uniform bind group: %w", prog.Key(), err)
		}
		provider.SetBindGroup(bindGroup)
		res.uniforms = provider
	}

	b.programs[prog.Key()] = res
	return res, nil
}

func (res *programResources) release() {
	if res.uniforms != nil {
		res.uniforms.Release()
	}
	if res.pipelineLayout != nil {
		res.pipelineLayout.Release()
	}
	for _, layout := range res.layouts {
		if layout != nil {
			layout.Release()
		}
	}
	if res.module != nil {
		res.module.Release()
	}
}

// pipelineVariant returns the pipeline for the program, cull mode and open pass signature,
// creating it on first use.
func (b *wgpuRendererBackendImpl) pipelineVariant(prog shader.Program, res *programResources, cull CullMode) (pipeline.Pipeline, error) {
	key := pipeline.Variant{
		Program:     prog.Key(),
		CullMode:    wgpuCullMode(cull),
		DepthFormat: b.passDepthFormat,
		ColorFormat: b.passColorFormat,
	}
	if p, ok := b.pipelines[key]; ok {
		return p, nil
	}

	p := pipeline.NewPipeline(prog,
		pipeline.WithCullMode(key.CullMode),
		pipeline.WithDepthFormat(key.DepthFormat),
		pipeline.WithColorFormat(key.ColorFormat),
	)
	created, err := b.device.CreateRenderPipeline(p.Descriptor(res.pipelineLayout, res.module))
	if err != nil {
		return nil, fmt.Errorf("renderer: pipeline %s: %w", key, err)
	}
	p.SetRenderPipeline(created)
	b.pipelines[key] = p
	b.logger.Debugf("created pipeline %s", key)
	return p, nil
}

// textureGroup returns the texture bind group for the bound textures. Slots without a
// compatible texture get the fallback for their sample type, samplers are filled by type.
func (b *wgpuRendererBackendImpl) textureGroup(prog shader.Program, res *programResources, desc wgpu.BindGroupLayoutDescriptor, textures map[int]Texture) (bind_group_provider.BindGroupProvider, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	copy(entries, desc.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })

	views := make(map[int]*wgpuTexture, len(entries))
	var key strings.Builder
	key.WriteString(prog.Key())
	for _, entry := range entries {
		if entry.Texture.SampleType == wgpu.TextureSampleTypeUndefined {
			continue
		}
		slot := int(entry.Binding)
		tex := b.textureFor(entry.Texture.SampleType, textures[slot])
		views[slot] = tex
		fmt.Fprintf(&key, "|%d=%s", slot, tex.id)
	}

	if group, ok := b.textureGroups[key.String()]; ok {
		return group, nil
	}

	provider := bind_group_provider.NewBindGroupProvider(prog.Key() + " Textures")
	bindEntries := make([]wgpu.BindGroupEntry, 0, len(entries))
	for _, entry := range entries {
		slot := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			provider.SetTextureView(slot, views[slot].view)
			bindEntries = append(bindEntries, wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: views[slot].view})
		case entry.Sampler.Type == wgpu.SamplerBindingTypeComparison:
			provider.SetSampler(slot, b.comparisonSampler)
			bindEntries = append(bindEntries, wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: b.comparisonSampler})
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			provider.SetSampler(slot, b.filteringSampler)
			bindEntries = append(bindEntries, wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: b.filteringSampler})
		default:
			return nil, fmt.Errorf("renderer: %s binding %d in group %d is not a texture or sampler", prog.Key(), slot, shader.TextureGroup)
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label(),
		Layout:  res.layouts[shader.TextureGroup],
		Entries: bindEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %s texture bind group: %w", prog.Key(), err)
	}
	provider.SetBindGroup(bindGroup)
	b.textureGroups[key.String()] = provider
	return provider, nil
}

// textureFor returns tex when its format can be bound to a slot of the given sample type,
// otherwise the matching fallback.
func (b *wgpuRendererBackendImpl) textureFor(sampleType wgpu.TextureSampleType, tex Texture) *wgpuTexture {
	t, _ := tex.(*wgpuTexture)
	if t != nil && t.view == nil {
		t = nil
	}
	switch sampleType {
	case wgpu.TextureSampleTypeDepth:
		if t != nil && t.format == FormatDepth32Float {
			return t
		}
		return b.fallbackDepth
	case wgpu.TextureSampleTypeUnfilterableFloat:
		if t != nil && t.format == FormatRG32Float {
			return t
		}
		return b.fallbackMoments
	default:
		if t != nil && t.format == FormatRGBA8 {
			return t
		}
		return b.fallbackColor
	}
}

// forgetTexture drops cached bind groups that reference a released texture.
func (b *wgpuRendererBackendImpl) forgetTexture(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, group := range b.textureGroups {
		if strings.Contains(key, "="+id) {
			group.Release()
			delete(b.textureGroups, key)
		}
	}
}

// report logs a draw failure the first time it occurs.
func (b *wgpuRendererBackendImpl) report(err error) {
	msg := err.Error()
	if b.reported[msg] {
		return
	}
	b.reported[msg] = true
	b.logger.Errorf("%v", err)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return
	}
	b.endPass()

	b.uploadArena()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.report(fmt.Errorf("renderer: failed to finish frame: %w", err))
		b.frameEncoder.Release()
		b.frameEncoder = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

// uploadArena copies the frame's uniform blocks into the arena buffer ahead of submit.
// Callers hold b.mu.
func (b *wgpuRendererBackendImpl) uploadArena() {
	staged := b.arena.Staged()
	if staged == nil {
		return
	}
	if buf := b.arenaProvider.Buffer(shader.UniformBinding); buf != nil {
		b.queue.WriteBuffer(buf, 0, staged)
	}
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	groups := b.textureGroups
	b.textureGroups = make(map[string]bind_group_provider.BindGroupProvider)
	b.mu.Unlock()

	for _, group := range groups {
		group.Release()
	}
	for _, p := range b.pipelines {
		p.Release()
	}
	for _, res := range b.programs {
		res.release()
	}
	clear(b.pipelines)
	clear(b.programs)

	for _, tex := range []*wgpuTexture{b.fallbackColor, b.fallbackMoments, b.fallbackDepth, b.screenDepth} {
		if tex != nil {
			tex.releaseQuiet()
		}
	}
	if b.arenaProvider != nil {
		b.arenaProvider.Release()
	}
	if b.filteringSampler != nil {
		b.filteringSampler.Release()
	}
	if b.comparisonSampler != nil {
		b.comparisonSampler.Release()
	}
	b.surface.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
}
