package renderer

import (
	"fmt"
	"maps"
	"sync"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is the presentation surface the renderer draws the screen target into.
// window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      common.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode

	width, height int

	// Bound state, kept between passes the way a GL context keeps it.
	inFrame  bool
	passOpen bool
	target   RenderTarget
	viewport Viewport
	cull     CullMode
	program  shader.Program
	textures map[int]Texture
}

// Renderer is a small stateful graphics device in the manner of a GL context. Callers bind
// a render target, set the viewport and cull mode, select a program, bind textures to
// slots and draw; the renderer turns that state into WebGPU passes, pipeline variants and
// bind groups.
//
// Bound state persists across passes: the cull mode, viewport, program and texture slots
// stay as last set until changed. Every draw snapshots the program's uniform block, so a
// program may be reused for many draws with different uniforms inside one pass.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// ScreenSize returns the current surface size in pixels.
	//
	// Returns:
	//   - int: width
	//   - int: height
	ScreenSize() (int, int)

	// MaxTextureDimension returns the largest 2D texture side the device accepts. Loaders
	// downscale images above it.
	//
	// Returns:
	//   - int: the limit in pixels
	MaxTextureDimension() int

	// CreateRenderTarget allocates an offscreen target. On failure the returned target is an
	// incomplete placeholder and the error wraps ErrIncompleteTarget.
	//
	// Parameters:
	//   - desc: the size and attachments of the target
	//
	// Returns:
	//   - RenderTarget: the target
	//   - error: an error if any attachment could not be created
	CreateRenderTarget(desc TargetDescriptor) (RenderTarget, error)

	// CreateMesh uploads an indexed triangle list.
	//
	// Parameters:
	//   - label: the debug label
	//   - vertices: interleaved vertex bytes matching the program's vertex layout
	//   - indices: triangle indices
	//
	// Returns:
	//   - Mesh: the uploaded mesh
	//   - error: an error if the data is empty or the upload fails
	CreateMesh(label string, vertices []byte, indices []uint32) (Mesh, error)

	// CreateTexture uploads RGBA pixels as a sampled texture.
	//
	// Parameters:
	//   - label: the debug label
	//   - data: the decoded pixels
	//
	// Returns:
	//   - Texture: the texture
	//   - error: an error if the data is malformed or the upload fails
	CreateTexture(label string, data common.TextureStagingData) (Texture, error)

	// BeginFrame starts a frame. Passes can only be started between BeginFrame and EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// BindRenderTarget ends the current pass and starts a new one drawing into target.
	//
	// Parameters:
	//   - target: the offscreen target, or nil for the screen
	//   - clear: which attachments to clear and to what
	//
	// Returns:
	//   - error: ErrNoFrame outside a frame, ErrIncompleteTarget for an incomplete target
	BindRenderTarget(target RenderTarget, clear ClearOptions) error

	// SetViewport sets the pixel rectangle subsequent draws cover. The rectangle is clamped
	// to the bound target at draw time.
	SetViewport(x, y, width, height int)

	// SetCullMode sets the face culling used by subsequent draws.
	SetCullMode(mode CullMode)

	// CullMode returns the current face culling mode.
	CullMode() CullMode

	// UseProgram selects the program for subsequent draws.
	UseProgram(p shader.Program)

	// BindTexture binds tex to a texture slot of the current and later programs. A nil
	// texture unbinds the slot; draws then see a neutral fallback texture there.
	//
	// Parameters:
	//   - slot: the texture binding index in shader.TextureGroup
	//   - tex: the texture, or nil
	BindTexture(slot int, tex Texture)

	// DrawMesh draws mesh with the bound state. Draws outside a pass or without a program
	// are dropped.
	DrawMesh(mesh Mesh)

	// DrawFullscreenTriangle draws three vertices with no vertex buffer, for programs that
	// generate a full screen triangle from the vertex index.
	DrawFullscreenTriangle()

	// EndFrame ends the current pass and submits the frame.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// Release frees every GPU object owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type, presentation surface,
// and options. Device setup failures panic, as nothing can be drawn without a device.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the presentation surface, usually the window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of the Renderer
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      common.NewDefaultLogger("renderer", false),
		cull:        CullBack,
		textures:    make(map[int]Texture),
	}

	for _, opt := range options {
		opt(r)
	}

	switch r.backendType {
	case BackendTypeWGPU:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.logger)
	default:
		panic(fmt.Sprintf("renderer: unsupported backend type %d", r.backendType))
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.Resize(surface.Width(), surface.Height())
	return r
}

// newRendererWithBackend wires a front end to an existing backend.
func newRendererWithBackend(backend RendererBackend, width, height int, logger common.Logger) *renderer {
	r := &renderer{
		mu:       &sync.Mutex{},
		backend:  backend,
		logger:   logger,
		cull:     CullBack,
		textures: make(map[int]Texture),
	}
	r.Resize(width, height)
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) ScreenSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) MaxTextureDimension() int {
	return r.backend.MaxTextureDimension()
}

func (r *renderer) CreateRenderTarget(desc TargetDescriptor) (RenderTarget, error) {
	if err := validateTarget(desc); err != nil {
		return NewIncompleteTarget(desc), err
	}
	return r.backend.CreateRenderTarget(desc)
}

func (r *renderer) CreateMesh(label string, vertices []byte, indices []uint32) (Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("renderer: mesh %q has no geometry", label)
	}
	return r.backend.CreateMesh(label, vertices, common.SliceToBytes(indices), len(indices))
}

func (r *renderer) CreateTexture(label string, data common.TextureStagingData) (Texture, error) {
	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("renderer: texture %q has size %dx%d", label, data.Width, data.Height)
	}
	if want := int(data.Width) * int(data.Height) * 4; len(data.Pixels) != want {
		return nil, fmt.Errorf("renderer: texture %q has %d bytes, want %d", label, len(data.Pixels), want)
	}
	return r.backend.CreateTexture(label, data)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.inFrame = true
	r.passOpen = false
	r.target = nil
	return nil
}

func (r *renderer) BindRenderTarget(target RenderTarget, clear ClearOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return ErrNoFrame
	}
	if target != nil && !target.Complete() {
		return fmt.Errorf("%w: %q", ErrIncompleteTarget, target.Label())
	}
	if err := r.backend.BeginPass(target, clear); err != nil {
		r.passOpen = false
		return err
	}
	r.target = target
	r.passOpen = true
	return nil
}

func (r *renderer) SetViewport(x, y, width, height int) {
	r.mu.Lock()
	r.viewport = Viewport{X: x, Y: y, Width: width, Height: height}
	r.mu.Unlock()
}

func (r *renderer) SetCullMode(mode CullMode) {
	r.mu.Lock()
	r.cull = mode
	r.mu.Unlock()
}

func (r *renderer) CullMode() CullMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cull
}

func (r *renderer) UseProgram(p shader.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

func (r *renderer) BindTexture(slot int, tex Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tex == nil {
		delete(r.textures, slot)
		return
	}
	r.textures[slot] = tex
}

func (r *renderer) DrawMesh(mesh Mesh) {
	if mesh == nil {
		return
	}
	r.draw(mesh)
}

func (r *renderer) DrawFullscreenTriangle() {
	r.draw(nil)
}

func (r *renderer) draw(mesh Mesh) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.passOpen || r.program == nil {
		r.logger.Debugf("draw dropped: pass open %t, program set %t", r.passOpen, r.program != nil)
		return
	}
	r.backend.Draw(r.snapshot(), mesh)
}

// snapshot captures the bound state for one draw. The viewport is clamped to the bound
// target and textures that are attachments of the bound target are left out, since a
// texture cannot be sampled while it is being drawn into.
func (r *renderer) snapshot() drawState {
	tw, th := r.width, r.height
	var attachments [2]Texture
	if r.target != nil {
		tw, th = r.target.Width(), r.target.Height()
		attachments = [2]Texture{r.target.Depth(), r.target.Color()}
	}

	vp := r.viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = Viewport{Width: tw, Height: th}
	}
	vp.X = common.ClampInt(vp.X, 0, tw-1)
	vp.Y = common.ClampInt(vp.Y, 0, th-1)
	vp.Width = common.ClampInt(vp.Width, 1, tw-vp.X)
	vp.Height = common.ClampInt(vp.Height, 1, th-vp.Y)

	textures := maps.Clone(r.textures)
	for slot, tex := range textures {
		if tex == attachments[0] || tex == attachments[1] {
			delete(textures, slot)
		}
	}

	return drawState{
		program:  r.program,
		cull:     r.cull,
		viewport: vp,
		textures: textures,
	}
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return
	}
	r.backend.EndFrame()
	r.inFrame = false
	r.passOpen = false
	r.target = nil
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.textures)
	r.program = nil
	r.backend.Release()
}
