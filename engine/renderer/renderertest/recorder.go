// Package renderertest provides a renderer.Renderer that records calls instead of drawing,
// for testing passes without a GPU.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
)

// Op names a recorded renderer call.
type Op string

const (
	OpResize                 Op = "resize"
	OpBeginFrame             Op = "begin_frame"
	OpBindRenderTarget       Op = "bind_render_target"
	OpSetViewport            Op = "set_viewport"
	OpSetCullMode            Op = "set_cull_mode"
	OpUseProgram             Op = "use_program"
	OpBindTexture            Op = "bind_texture"
	OpDrawMesh               Op = "draw_mesh"
	OpDrawFullscreenTriangle Op = "draw_fullscreen_triangle"
	OpEndFrame               Op = "end_frame"
	OpPresent                Op = "present"
)

// Call is one recorded renderer call. Only the fields relevant to Op are set. Draw calls
// carry a copy of the program's uniform block and the label of every bound texture.
type Call struct {
	Op       Op
	Target   string
	Clear    renderer.ClearOptions
	Cull     renderer.CullMode
	Program  string
	Slot     int
	Texture  string
	Mesh     string
	Viewport renderer.Viewport
	Uniforms shader.BlockView
	Textures map[int]string
}

// IsDraw reports whether the call is a mesh or full screen draw.
func (c Call) IsDraw() bool {
	return c.Op == OpDrawMesh || c.Op == OpDrawFullscreenTriangle
}

// Recorder is a renderer.Renderer that appends every call to Calls. It does not require a
// frame to be open. Binding an incomplete target fails the same way the real renderer does.
type Recorder struct {
	mu *sync.Mutex

	// Calls is the recorded call log, in order.
	Calls []Call

	// FailTargets lists target labels whose creation fails with an incomplete target.
	FailTargets map[string]bool

	// MaxDimension is returned by MaxTextureDimension.
	MaxDimension int

	width, height int
	target        renderer.RenderTarget
	cull          renderer.CullMode
	program       shader.Program
	textures      map[int]renderer.Texture
	released      bool
}

var _ renderer.Renderer = &Recorder{}

// NewRecorder returns a Recorder with a screen of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		mu:           &sync.Mutex{},
		FailTargets:  make(map[string]bool),
		MaxDimension: 8192,
		width:        width,
		height:       height,
		cull:         renderer.CullBack,
		textures:     make(map[int]renderer.Texture),
	}
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.record(Call{Op: OpResize, Viewport: renderer.Viewport{Width: width, Height: height}})
}

func (r *Recorder) ScreenSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) MaxTextureDimension() int {
	return r.MaxDimension
}

func (r *Recorder) CreateRenderTarget(desc renderer.TargetDescriptor) (renderer.RenderTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailTargets[desc.Label] || desc.Width <= 0 || desc.Height <= 0 || (!desc.Depth && desc.Color == renderer.FormatNone) {
		return renderer.NewIncompleteTarget(desc), fmt.Errorf("%w: %q", renderer.ErrIncompleteTarget, desc.Label)
	}
	t := &Target{label: desc.Label, width: desc.Width, height: desc.Height}
	if desc.Depth {
		t.depth = NewTexture(desc.Label+".depth", desc.Width, desc.Height, renderer.FormatDepth32Float)
	}
	if desc.Color != renderer.FormatNone {
		t.color = NewTexture(desc.Label+".color", desc.Width, desc.Height, desc.Color)
	}
	return t, nil
}

func (r *Recorder) CreateMesh(label string, vertices []byte, indices []uint32) (renderer.Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("renderertest: mesh %q has no geometry", label)
	}
	return &Mesh{label: label, indexCount: len(indices)}, nil
}

func (r *Recorder) CreateTexture(label string, data common.TextureStagingData) (renderer.Texture, error) {
	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("renderertest: texture %q has size %dx%d", label, data.Width, data.Height)
	}
	return NewTexture(label, int(data.Width), int(data.Height), renderer.FormatRGBA8), nil
}

func (r *Recorder) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = nil
	r.record(Call{Op: OpBeginFrame})
	return nil
}

func (r *Recorder) BindRenderTarget(target renderer.RenderTarget, clear renderer.ClearOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if target != nil && !target.Complete() {
		return fmt.Errorf("%w: %q", renderer.ErrIncompleteTarget, target.Label())
	}
	r.target = target
	r.record(Call{Op: OpBindRenderTarget, Target: labelOf(target), Clear: clear})
	return nil
}

func (r *Recorder) SetViewport(x, y, width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpSetViewport, Viewport: renderer.Viewport{X: x, Y: y, Width: width, Height: height}})
}

func (r *Recorder) SetCullMode(mode renderer.CullMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cull = mode
	r.record(Call{Op: OpSetCullMode, Cull: mode})
}

func (r *Recorder) CullMode() renderer.CullMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cull
}

func (r *Recorder) UseProgram(p shader.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
	c := Call{Op: OpUseProgram}
	if p != nil {
		c.Program = p.Key()
	}
	r.record(c)
}

func (r *Recorder) BindTexture(slot int, tex renderer.Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tex == nil {
		delete(r.textures, slot)
	} else {
		r.textures[slot] = tex
	}
	r.record(Call{Op: OpBindTexture, Slot: slot, Texture: labelOf(tex)})
}

func (r *Recorder) DrawMesh(mesh renderer.Mesh) {
	if mesh == nil {
		return
	}
	r.draw(OpDrawMesh, mesh.Label())
}

func (r *Recorder) DrawFullscreenTriangle() {
	r.draw(OpDrawFullscreenTriangle, "")
}

func (r *Recorder) draw(op Op, mesh string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Call{Op: op, Target: labelOf(r.target), Cull: r.cull, Mesh: mesh, Textures: make(map[int]string, len(r.textures))}
	if r.program != nil {
		c.Program = r.program.Key()
		c.Uniforms = shader.BlockView(append([]byte(nil), r.program.UniformBlock()...))
	}
	for slot, tex := range r.textures {
		c.Textures[slot] = tex.Label()
	}
	r.record(c)
}

func (r *Recorder) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = nil
	r.record(Call{Op: OpEndFrame})
}

func (r *Recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpPresent})
}

func (r *Recorder) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
	clear(r.textures)
}

// Released reports whether Release was called.
func (r *Recorder) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Reset clears the call log. Bound state is kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op Op) int {
	return len(r.CallsOf(op))
}

// CallsOf returns the recorded calls of op, in order.
func (r *Recorder) CallsOf(op Op) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns every recorded draw call, in order.
func (r *Recorder) Draws() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.Calls {
		if c.IsDraw() {
			out = append(out, c)
		}
	}
	return out
}

// BoundTextures returns the labels of the currently bound textures by slot.
func (r *Recorder) BoundTextures() map[int]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]string, len(r.textures))
	for slot, tex := range r.textures {
		out[slot] = tex.Label()
	}
	return out
}

func labelOf(v interface{ Label() string }) string {
	if v == nil {
		return ""
	}
	return v.Label()
}
