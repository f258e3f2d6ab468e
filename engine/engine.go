package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/camera"
	"github.com/Carmen-Shannon/tellurion/engine/config"
	"github.com/Carmen-Shannon/tellurion/engine/loader"
	"github.com/Carmen-Shannon/tellurion/engine/orchestrator"
	"github.com/Carmen-Shannon/tellurion/engine/profiler"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
	"github.com/Carmen-Shannon/tellurion/engine/setup"
	"github.com/Carmen-Shannon/tellurion/engine/shadow"
	"github.com/Carmen-Shannon/tellurion/engine/window"
)

// engine implements the Engine interface.
// Coordinates the input tick, render and window threads.
type engine struct {
	settings config.Settings
	logger   common.Logger

	wg sync.WaitGroup

	quitChannel  chan struct{}
	quitOnce     sync.Once // Ensures quitChannel is only closed once
	shutdownOnce sync.Once

	window       window.Window
	renderer     renderer.Renderer
	configLoader *config.Loader
	models       loader.Loader
	camera       camera.Camera
	state        *scene.State
	bank         shadow.TargetBank
	orchestrator *orchestrator.Orchestrator

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	tickRate     time.Duration
	tickCallback func(dt time.Duration)

	// dragging is set while the middle mouse button is held.
	dragMu   sync.Mutex
	dragging bool
	lastX    int32
	lastY    int32

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine owns the window, the renderer and the scene, and drives one orchestrated frame
// per render loop iteration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing into the window.
	Renderer() renderer.Renderer

	// Camera returns the orbiting camera.
	Camera() camera.Camera

	// State returns the scene state shared with the orchestrator.
	State() *scene.State

	// Orchestrator returns the per-frame pass sequencer.
	Orchestrator() *orchestrator.Orchestrator

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called each input tick, after held keys
	// have been applied to the camera.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous tick
	SetTickCallback(callback func(dt time.Duration))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the render and input loops and processes window messages on the calling
	// goroutine. It blocks until the window closes or Quit is called, then releases every
	// GPU resource.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates the window, renderer, scene and orchestrator described by the
// settings. Asset errors are logged and the affected entries skipped; failing to create
// the window or the GPU device panics.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		settings:    config.DefaultSettings(),
		quitChannel: make(chan struct{}),
		tickRate:    time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.logger == nil {
		e.logger = common.NewDefaultLogger("tellurion", e.settings.Renderer.Debug)
	}
	if e.configLoader == nil {
		e.configLoader = config.NewLoader(config.WithLogger(e.logger))
	}
	if e.settings.Renderer.Profiler {
		e.profilingEnabled.Store(true)
	}
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))

	ws := e.settings.Window
	if e.window == nil {
		e.window = window.NewWindow(
			window.WithTitle(common.Coalesce(ws.Title, "tellurion")),
			window.WithSize(common.Coalesce(ws.Width, 800), common.Coalesce(ws.Height, 600)),
			window.WithMinSize(ws.MinWidth, ws.MinHeight),
		)
	}

	if e.renderer == nil {
		present := renderer.PresentModeVSync
		if !e.settings.Renderer.VSync {
			present = renderer.PresentModeUncapped
		}
		e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window,
			renderer.WithLogger(e.logger),
			renderer.WithPresentMode(present),
			renderer.WithForceSoftwareRenderer(e.settings.Renderer.ForceSoftware),
		)
	}

	e.models = loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithRenderer(e.renderer),
		loader.WithLogger(e.logger),
		loader.WithDecodeWorkers(e.settings.Renderer.LoaderWorkers),
		loader.WithMaxTextureDimension(e.settings.Renderer.MaxTextureDimension),
	)

	width, height := e.renderer.ScreenSize()
	e.camera = setup.BuildCamera(e.settings, width, height)
	e.state = setup.BuildState(e.settings, e.configLoader, e.models, e.camera, e.logger)
	e.bank = setup.BuildBank(e.renderer, e.settings, e.state, e.logger)
	e.orchestrator = orchestrator.NewOrchestrator(e.renderer, e.state, e.bank,
		orchestrator.WithInput(e.window),
		orchestrator.WithNudgeBounds(e.settings.NudgeBounds()),
		orchestrator.WithLogger(e.logger),
	)

	e.bindWindow()
	return e
}

// bindWindow routes window events to the renderer and the camera.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
		if height > 0 {
			e.camera.SetAspect(float32(width) / float32(height))
		}
	})
	e.window.SetScrollCallback(func(delta float32) {
		if ctrl := e.camera.Controller(); ctrl != nil {
			ctrl.Zoom(delta)
		}
	})
	e.window.SetMiddleMouseDownCallback(func(x, y int32) {
		e.dragMu.Lock()
		e.dragging, e.lastX, e.lastY = true, x, y
		e.dragMu.Unlock()
	})
	e.window.SetMiddleMouseUpCallback(func(x, y int32) {
		e.dragMu.Lock()
		e.dragging = false
		e.dragMu.Unlock()
	})
	e.window.SetMouseMoveCallback(func(x, y int32) {
		e.dragMu.Lock()
		if !e.dragging {
			e.dragMu.Unlock()
			return
		}
		dx, dy := x-e.lastX, y-e.lastY
		e.lastX, e.lastY = x, y
		e.dragMu.Unlock()
		if ctrl := e.camera.Controller(); ctrl != nil {
			ctrl.Drag(float32(dx), float32(dy))
		}
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyB:
			e.logger.Infof("blinn-phong: %v", e.window.BlinnEnabled())
		case common.KeyP:
			e.profilingEnabled.Store(!e.profilingEnabled.Load())
		}
	})
}

func (e *engine) Window() window.Window                        { return e.window }
func (e *engine) Renderer() renderer.Renderer                  { return e.renderer }
func (e *engine) Camera() camera.Camera                        { return e.camera }
func (e *engine) State() *scene.State                          { return e.state }
func (e *engine) Orchestrator() *orchestrator.Orchestrator     { return e.orchestrator }
func (e *engine) SetTickCallback(callback func(time.Duration)) { e.tickCallback = callback }

func (e *engine) Run() {
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.shutdown()
		default:
		}
	})
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.shutdown()
}

// Quit signals all engine goroutines to stop. The window closes on the message thread.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// shutdown waits for the goroutines, frees GPU resources in dependency order and closes
// the window. Must run on the goroutine processing window messages.
func (e *engine) shutdown() {
	e.shutdownOnce.Do(func() {
		e.wg.Wait()
		e.bank.Release()
		e.models.Release()
		e.renderer.Release()
		if err := e.window.Close(); err != nil {
			e.logger.Warnf("failed to close window: %v", err)
		}
	})
}

// handle launches the input tick and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()
}

// handleTick runs the fixed-rate input loop: held orbit keys push camera velocity.
// Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTick)
			lastTick = now

			e.applyOrbitKeys()
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		}
	}
}

func (e *engine) applyOrbitKeys() {
	ctrl := e.camera.Controller()
	if ctrl == nil {
		return
	}
	if e.window.KeyPressed(common.KeyA) {
		ctrl.OrbitLeft()
	}
	if e.window.KeyPressed(common.KeyD) {
		ctrl.OrbitRight()
	}
	if e.window.KeyPressed(common.KeyW) {
		ctrl.OrbitUp()
	}
	if e.window.KeyPressed(common.KeyS) {
		ctrl.OrbitDown()
	}
	if e.window.KeyPressed(common.KeyQ) {
		ctrl.Zoom(-0.1)
	}
	if e.window.KeyPressed(common.KeyE) {
		ctrl.Zoom(0.1)
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each iteration advances the camera and runs the orchestrated shadow, filter and
// composite passes inside one frame.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := now.Sub(lastRender)
		lastRender = now

		e.camera.Update(dt)
		e.renderFrame()

		if e.profilingEnabled.Load() {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// renderFrame draws one frame. A frame that cannot begin, such as while the window is
// minimized, is skipped.
func (e *engine) renderFrame() {
	if err := e.renderer.BeginFrame(); err != nil {
		e.logger.Debugf("skipping frame: %v", err)
		return
	}
	if err := e.orchestrator.Draw(); err != nil {
		e.logger.Errorf("frame failed: %v", err)
	}
	e.renderer.EndFrame()
	e.renderer.Present()
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
