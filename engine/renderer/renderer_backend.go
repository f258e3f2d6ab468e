package renderer

import (
	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// drawState is the snapshot of renderer state a single draw is encoded with.
type drawState struct {
	program  shader.Program
	cull     CullMode
	viewport Viewport
	// textures maps texture slots to bound textures. Slots missing from the map are
	// filled with the backend's fallback texture for the slot's sample type.
	textures map[int]Texture
}

// RendererBackend is the device-level interface the Renderer front end drives. The front
// end owns the bound state (target, viewport, cull mode, program, textures); the backend
// receives it explicitly with every pass and draw.
type RendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// MaxTextureDimension returns the largest 2D texture side the device accepts.
	MaxTextureDimension() int

	// CreateRenderTarget allocates the attachments described by desc.
	//
	// Parameters:
	//   - desc: the target descriptor
	//
	// Returns:
	//   - RenderTarget: the target, an incomplete placeholder on failure
	//   - error: ErrIncompleteTarget wrapped with the cause
	CreateRenderTarget(desc TargetDescriptor) (RenderTarget, error)

	// CreateMesh uploads vertex and index data.
	//
	// Parameters:
	//   - label: the debug label
	//   - vertexData: interleaved vertex bytes
	//   - indexData: uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - Mesh: the uploaded mesh
	//   - error: an error if buffer creation fails
	CreateMesh(label string, vertexData, indexData []byte, indexCount int) (Mesh, error)

	// CreateTexture uploads RGBA pixels as a sampled sRGB texture.
	//
	// Parameters:
	//   - label: the debug label
	//   - stagingData: the pixels and dimensions
	//
	// Returns:
	//   - Texture: the texture
	//   - error: an error if the texture could not be created
	CreateTexture(label string, stagingData common.TextureStagingData) (Texture, error)

	// BeginFrame acquires the next swapchain texture and creates the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// BeginPass ends the open render pass, if any, and begins a new one on target.
	//
	// Parameters:
	//   - target: the offscreen target, or nil for the screen
	//   - clear: which attachments to clear and to what
	//
	// Returns:
	//   - error: an error if the target was not created by this backend
	BeginPass(target RenderTarget, clear ClearOptions) error

	// Draw encodes one draw into the open pass. A nil mesh draws a single full screen
	// triangle generated from the vertex index.
	//
	// Parameters:
	//   - state: the bound state
	//   - mesh: the mesh, or nil
	Draw(state drawState, mesh Mesh)

	// EndFrame ends the open pass, uploads the frame's uniforms and submits the command buffer.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release frees every GPU object owned by the backend.
	Release()
}
