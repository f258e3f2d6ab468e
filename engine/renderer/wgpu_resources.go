package renderer

import (
	"github.com/Carmen-Shannon/tellurion/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// wgpuFormat maps a TextureFormat to its WebGPU format.
func wgpuFormat(f TextureFormat) wgpu.TextureFormat {
	switch f {
	case FormatRGBA8:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case FormatRG32Float:
		return wgpu.TextureFormatRG32Float
	case FormatDepth32Float:
		return wgpu.TextureFormatDepth32Float
	default:
		return wgpu.TextureFormatUndefined
	}
}

// wgpuCullMode maps a CullMode to its WebGPU cull mode.
func wgpuCullMode(c CullMode) wgpu.CullMode {
	switch c {
	case CullFront:
		return wgpu.CullModeFront
	case CullBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

// wgpuTexture is a texture and its default view.
type wgpuTexture struct {
	id      string
	label   string
	width   int
	height  int
	format  TextureFormat
	texture *wgpu.Texture
	view    *wgpu.TextureView

	// onRelease lets the backend drop cached bind groups that reference this texture.
	onRelease func(id string)
}

var _ Texture = &wgpuTexture{}

func newWGPUTexture(label string, width, height int, format TextureFormat, tex *wgpu.Texture, view *wgpu.TextureView, onRelease func(string)) *wgpuTexture {
	return &wgpuTexture{
		id:        uuid.NewString(),
		label:     label,
		width:     width,
		height:    height,
		format:    format,
		texture:   tex,
		view:      view,
		onRelease: onRelease,
	}
}

func (t *wgpuTexture) Label() string         { return t.label }
func (t *wgpuTexture) Width() int            { return t.width }
func (t *wgpuTexture) Height() int           { return t.height }
func (t *wgpuTexture) Format() TextureFormat { return t.format }

func (t *wgpuTexture) Release() {
	if t.onRelease != nil {
		t.onRelease(t.id)
		t.onRelease = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// releaseQuiet releases the texture without notifying the backend. Used by the backend
// itself while it holds its lock.
func (t *wgpuTexture) releaseQuiet() {
	t.onRelease = nil
	t.Release()
}

// wgpuRenderTarget is an offscreen target whose attachments are wgpuTextures.
type wgpuRenderTarget struct {
	label  string
	width  int
	height int
	depth  *wgpuTexture
	color  *wgpuTexture
}

var _ RenderTarget = &wgpuRenderTarget{}

func (t *wgpuRenderTarget) Label() string { return t.label }
func (t *wgpuRenderTarget) Width() int    { return t.width }
func (t *wgpuRenderTarget) Height() int   { return t.height }

func (t *wgpuRenderTarget) Depth() Texture {
	if t.depth == nil {
		return nil
	}
	return t.depth
}

func (t *wgpuRenderTarget) Color() Texture {
	if t.color == nil {
		return nil
	}
	return t.color
}

func (t *wgpuRenderTarget) Complete() bool {
	return (t.depth != nil && t.depth.view != nil) || (t.color != nil && t.color.view != nil)
}

func (t *wgpuRenderTarget) Release() {
	if t.depth != nil {
		t.depth.Release()
	}
	if t.color != nil {
		t.color.Release()
	}
}

// depthFormat returns the WebGPU format of the depth attachment, undefined for none.
func (t *wgpuRenderTarget) depthFormat() wgpu.TextureFormat {
	if t.depth == nil {
		return wgpu.TextureFormatUndefined
	}
	return wgpuFormat(t.depth.format)
}

// colorFormat returns the WebGPU format of the color attachment, undefined for none.
func (t *wgpuRenderTarget) colorFormat() wgpu.TextureFormat {
	if t.color == nil {
		return wgpu.TextureFormatUndefined
	}
	return wgpuFormat(t.color.format)
}

// wgpuMesh wraps the BindGroupProvider holding a mesh's vertex and index buffers.
type wgpuMesh struct {
	provider bind_group_provider.BindGroupProvider
}

var _ Mesh = &wgpuMesh{}

func (m *wgpuMesh) Label() string   { return m.provider.Label() }
func (m *wgpuMesh) IndexCount() int { return m.provider.IndexCount() }
func (m *wgpuMesh) Release()        { m.provider.Release() }
