package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/tellurion/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// It satisfies renderer.Surface and orchestrator.Input.
type Window interface {
	// KeyPressed reports whether key is currently held. Safe to call from any goroutine.
	//
	// Parameters:
	//   - key: the GLFW key code
	//
	// Returns:
	//   - bool: true while the key is down
	KeyPressed(key uint32) bool

	// BlinnEnabled reports the Blinn-Phong toggle, flipped by each press of B.
	//
	// Returns:
	//   - bool: true for Blinn-Phong specular
	BlinnEnabled() bool

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetMiddleMouseDownCallback sets the callback for middle mouse button press.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position
	SetMiddleMouseDownCallback(callback func(x, y int32))

	// SetMiddleMouseUpCallback sets the callback for middle mouse button release.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position
	SetMiddleMouseUpCallback(callback func(x, y int32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// minWidth and minHeight bound interactive resizing so the shadow and composite
	// passes never see a degenerate surface.
	minWidth  int
	minHeight int

	// width and height track the framebuffer in pixels, which differs from the
	// requested size on high-DPI displays.
	width  int
	height int

	handle *glfwHandle

	// keys is written by the key callback and read by the render loop.
	keys *input.Keyboard

	onUpdate          func()
	onResize          func(width, height int)
	onScroll          func(delta float32)
	onKeyDown         func(keyCode uint32)
	onMiddleMouseDown func(x, y int32)
	onMiddleMouseUp   func(x, y int32)
	onMouseMove       func(x, y int32)
}

var _ Window = &engineWindow{}

// NewWindow opens a GLFW window configured by options. It panics when the platform
// window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	h, err := openGLFW(w)
	if err != nil {
		panic(fmt.Sprintf("window: failed to create platform window: %v", err))
	}
	w.handle = h
	return w
}

// newEngineWindow applies options over the defaults without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "tellurion",
		minWidth:  DefaultMinWidth,
		minHeight: DefaultMinHeight,
		width:     800,
		height:    600,
		keys:      input.NewKeyboard(),
	}
	for _, opt := range options {
		opt(w)
	}
	// The initial size never starts below the resize floor.
	w.width = max(w.width, w.minWidth)
	w.height = max(w.height, w.minHeight)
	return w
}

func (w *engineWindow) KeyPressed(key uint32) bool {
	return w.keys.KeyPressed(key)
}

func (w *engineWindow) BlinnEnabled() bool {
	return w.keys.BlinnEnabled()
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetMiddleMouseDownCallback(callback func(x, y int32)) {
	w.onMiddleMouseDown = callback
}

func (w *engineWindow) SetMiddleMouseUpCallback(callback func(x, y int32)) {
	w.onMiddleMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.handle == nil {
		return nil
	}
	return w.handle.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.handle != nil && w.handle.open()
}

func (w *engineWindow) Close() error {
	if w.handle == nil {
		return errors.New("window: not initialized")
	}
	w.handle.destroy()
	return nil
}

// ProcessMessages polls events until the window closes, calling the update callback
// after each poll. It must run on the thread that opened the window.
func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.handle.poll()
		if !w.IsRunning() {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// dispatchKey records a key transition and forwards presses to the key-down callback.
// Repeats count as presses.
func (w *engineWindow) dispatchKey(key uint32, pressed bool) {
	if !pressed {
		w.keys.Release(key)
		return
	}
	w.keys.Press(key)
	if w.onKeyDown != nil {
		w.onKeyDown(key)
	}
}

// framebufferResized stores a new pixel size and notifies the resize callback.
// Minimizing reports a zero framebuffer, which is ignored so the surface keeps its last size.
func (w *engineWindow) framebufferResized(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
