package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwHandle owns the native window. Every method runs on the thread that called openGLFW.
type glfwHandle struct {
	win     *glfw.Window
	running bool
}

// openGLFW initializes GLFW on the calling thread and opens a window without a client
// API, since WebGPU configures its own surface. Input and resize events are routed to w.
//
// Parameters:
//   - w: the window whose size, title and callbacks the handle serves
//
// Returns:
//   - *glfwHandle: the open handle
//   - error: error if GLFW or the window could not be created
func openGLFW(w *engineWindow) (*glfwHandle, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window %q: %w", w.title, err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	h := &glfwHandle{win: win, running: true}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			h.running = false
			win.SetShouldClose(true)
			return
		}
		if action == glfw.Release {
			w.dispatchKey(uint32(key), false)
			return
		}
		w.dispatchKey(uint32(key), true)
	})

	// A held key would otherwise keep orbiting after focus moves elsewhere.
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			w.keys.Reset()
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonMiddle {
			return
		}
		x, y := win.GetCursorPos()
		cb := w.onMiddleMouseDown
		if action == glfw.Release {
			cb = w.onMiddleMouseUp
		}
		if cb != nil {
			cb(int32(x), int32(y))
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(x), int32(y))
		}
	})

	// The surface is sized in framebuffer pixels, not screen coordinates.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.framebufferResized(width, height)
	})
	w.width, w.height = win.GetFramebufferSize()

	return h, nil
}

func (h *glfwHandle) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(h.win)
}

func (h *glfwHandle) open() bool {
	return h.running && !h.win.ShouldClose()
}

func (h *glfwHandle) poll() {
	glfw.PollEvents()
}

// destroy closes the native window and shuts GLFW down. Later calls are no-ops.
func (h *glfwHandle) destroy() {
	if h.win == nil {
		return
	}
	h.running = false
	h.win.Destroy()
	h.win = nil
	glfw.Terminate()
}
