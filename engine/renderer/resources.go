package renderer

import (
	"errors"
	"fmt"
)

// ErrIncompleteTarget is returned when a render target cannot be created or bound because
// one of its attachments is missing.
var ErrIncompleteTarget = errors.New("renderer: incomplete render target")

// ErrNoFrame is returned when a pass is started outside BeginFrame/EndFrame.
var ErrNoFrame = errors.New("renderer: no frame in progress")

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	// CullNone draws both faces.
	CullNone CullMode = iota
	// CullFront discards front faces. Used while capturing shadow depth.
	CullFront
	// CullBack discards back faces.
	CullBack
)

// String returns the lower-case name of the cull mode.
func (c CullMode) String() string {
	switch c {
	case CullNone:
		return "none"
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	default:
		return fmt.Sprintf("CullMode(%d)", int(c))
	}
}

// TextureFormat is the pixel format of a texture or render target attachment.
type TextureFormat int

const (
	// FormatNone marks an absent attachment.
	FormatNone TextureFormat = iota
	// FormatRGBA8 is 8-bit sRGB color, used for material maps.
	FormatRGBA8
	// FormatRG32Float holds two 32-bit float channels, used for depth moments.
	FormatRG32Float
	// FormatDepth32Float is a 32-bit float depth attachment.
	FormatDepth32Float
)

// String returns a readable name for the format.
func (f TextureFormat) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatRGBA8:
		return "rgba8"
	case FormatRG32Float:
		return "rg32float"
	case FormatDepth32Float:
		return "depth32float"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
}

// Viewport is the pixel rectangle drawn into, origin at the top left of the target.
type Viewport struct {
	X, Y, Width, Height int
}

// ClearOptions controls what BindRenderTarget clears when the pass begins. Attachments
// that are not cleared keep their previous contents.
type ClearOptions struct {
	ClearColor bool
	Color      [4]float64
	ClearDepth bool
	Depth      float32
}

// TargetDescriptor describes an offscreen render target.
type TargetDescriptor struct {
	Label  string
	Width  int
	Height int
	// Depth adds a Depth32Float attachment that can later be sampled as a depth texture.
	Depth bool
	// Color selects the color attachment format, FormatNone for a depth-only target.
	Color TextureFormat
}

// Texture is a GPU texture that can be bound to a program's texture slot.
type Texture interface {
	Label() string
	Width() int
	Height() int
	Format() TextureFormat
	Release()
}

// RenderTarget is an offscreen set of attachments. Its attachments can be sampled by later
// passes through Depth() and Color().
type RenderTarget interface {
	// Label returns the debug label of the target.
	Label() string

	// Width returns the attachment width in pixels.
	Width() int

	// Height returns the attachment height in pixels.
	Height() int

	// Depth returns the depth attachment, or nil when the target has none.
	//
	// Returns:
	//   - Texture: the depth texture
	Depth() Texture

	// Color returns the color attachment, or nil when the target has none.
	//
	// Returns:
	//   - Texture: the color texture
	Color() Texture

	// Complete reports whether every requested attachment exists. Incomplete targets are
	// rejected by BindRenderTarget.
	//
	// Returns:
	//   - bool: true if the target can be drawn into
	Complete() bool

	// Release frees the attachments.
	Release()
}

// Mesh is an uploaded indexed triangle list.
type Mesh interface {
	Label() string
	IndexCount() int
	Release()
}

// incompleteTarget stands in for a target whose allocation failed.
type incompleteTarget struct {
	desc TargetDescriptor
}

var _ RenderTarget = &incompleteTarget{}

// NewIncompleteTarget returns a placeholder target that reports Complete() == false and
// has no attachments. Renderers return it alongside ErrIncompleteTarget.
//
// Parameters:
//   - desc: the descriptor that failed
//
// Returns:
//   - RenderTarget: the placeholder
func NewIncompleteTarget(desc TargetDescriptor) RenderTarget {
	return &incompleteTarget{desc: desc}
}

func (t *incompleteTarget) Label() string  { return t.desc.Label }
func (t *incompleteTarget) Width() int     { return t.desc.Width }
func (t *incompleteTarget) Height() int    { return t.desc.Height }
func (t *incompleteTarget) Depth() Texture { return nil }
func (t *incompleteTarget) Color() Texture { return nil }
func (t *incompleteTarget) Complete() bool { return false }
func (t *incompleteTarget) Release()       {}

// validateTarget checks a descriptor before any GPU allocation.
func validateTarget(desc TargetDescriptor) error {
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("%w: %q has size %dx%d", ErrIncompleteTarget, desc.Label, desc.Width, desc.Height)
	}
	if !desc.Depth && desc.Color == FormatNone {
		return fmt.Errorf("%w: %q has no attachments", ErrIncompleteTarget, desc.Label)
	}
	if desc.Color == FormatDepth32Float {
		return fmt.Errorf("%w: %q uses a depth format for color", ErrIncompleteTarget, desc.Label)
	}
	return nil
}
