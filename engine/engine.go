package engine

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// engine implements the Engine interface.
// Everything runs on the thread that owns the window.
type engine struct {
	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	updateCallback func(deltaTime float32)
	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	lastFrame     time.Time
	quitRequested bool
}

// Engine is the main entry point for the engine.
// It drives a single-threaded frame loop: poll events, update, render, present.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer driving the frame lifecycle.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance, or nil if none was configured
	Renderer() renderer.Renderer

	// Profiler returns the frame profiler. It is ticked every frame even when logging is off.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetUpdateCallback registers the function called once per frame before rendering.
	// Use this for input handling and application state updates.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called between BeginFrame and EndFrame.
	// Use this for buffer writes and draw calls.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called after the surface has been resized.
	//
	// Parameters:
	//   - callback: receives the new framebuffer size in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop and blocks until the window closes.
	Run()

	// Quit stops the frame loop at the end of the current frame.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The window must be provided with WithWindow.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}
	if e.window == nil {
		panic("engine: a window must be provided with WithWindow")
	}

	e.profiler.SetLogging(e.profilingEnabled)
	e.window.SetResizeCallback(e.resize)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	if e.window.IsRunning() {
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] close window: %v", err)
		}
	}
}

func (e *engine) Quit() {
	e.quitRequested = true
}

// frame runs one iteration of the loop. Events have already been polled.
func (e *engine) frame() {
	if e.quitRequested {
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] close window: %v", err)
		}
		return
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if e.updateCallback != nil {
		e.updateCallback(dt)
	}

	if e.renderer != nil {
		// Acquiring the surface fails while the window is minimized or being resized.
		if err := e.renderer.BeginFrame(); err != nil {
			log.Printf("[Engine] skipping frame: %v", err)
		} else {
			if e.renderCallback != nil {
				e.renderCallback(dt)
			}
			e.renderer.EndFrame()
			e.renderer.Present()
		}
	}

	e.profiler.Tick()

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if e.resizeCallback != nil {
		e.resizeCallback(width, height)
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
	e.profiler.SetLogging(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
	e.profiler.SetLogging(false)
}

func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.updateCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// frameDuration converts a frame rate cap into a minimum frame duration, 0 for uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
