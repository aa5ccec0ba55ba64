package overlay

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/inkyblackness/imgui-go/v4"
)

// minDeltaTime keeps ImGui's frame delta positive, which it asserts on.
const minDeltaTime = 1e-4

// fpsWindowFlags strips every decoration and interaction from the FPS window.
const fpsWindowFlags = imgui.WindowFlagsNoTitleBar |
	imgui.WindowFlagsNoMove |
	imgui.WindowFlagsNoCollapse |
	imgui.WindowFlagsNoBackground |
	imgui.WindowFlagsNoResize |
	imgui.WindowFlagsNoScrollbar

// overlay is the implementation of the Overlay interface.
type overlay struct {
	context *imgui.Context
	io      imgui.IO
	backend Backend

	width, height int
	callbacks     []func(Overlay)
	fpsEnabled    bool
	textInput     bool

	profiler *profiler.Profiler
}

// Overlay wraps an ImGui context. Applications register callbacks that build widgets;
// Render runs them once per frame and draws the result on top of the scene.
type Overlay interface {
	// Add appends a callback run on every Render, in registration order.
	//
	// Parameters:
	//   - callback: receives the overlay and issues ImGui calls
	Add(callback func(Overlay))

	// ClearAll removes every registered callback.
	ClearAll()

	// Render starts an ImGui frame, runs the callbacks, draws the optional FPS counter and
	// hands the draw data to the backend. Must be called inside a renderer frame.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	Render(deltaTime float32)

	// EnableFPSCounter shows or hides the FPS counter in the top-left corner.
	//
	// Parameters:
	//   - enable: true to show the counter
	EnableFPSCounter(enable bool)

	// FPSCounterEnabled reports whether the FPS counter is shown.
	//
	// Returns:
	//   - bool: true if the counter is drawn
	FPSCounterEnabled() bool

	// HandleKeyPress forwards a key press.
	//
	// Parameters:
	//   - key: the GLFW key code
	//
	// Returns:
	//   - bool: true if ImGui consumed the event
	HandleKeyPress(key uint32) bool

	// HandleKeyRelease forwards a key release.
	//
	// Parameters:
	//   - key: the GLFW key code
	//
	// Returns:
	//   - bool: true if ImGui consumed the event
	HandleKeyRelease(key uint32) bool

	// HandleMousePress forwards a mouse button press.
	//
	// Parameters:
	//   - button: the button index, 0 = left
	//
	// Returns:
	//   - bool: true if ImGui consumed the event
	HandleMousePress(button int) bool

	// HandleMouseRelease forwards a mouse button release.
	//
	// Parameters:
	//   - button: the button index, 0 = left
	//
	// Returns:
	//   - bool: true if ImGui consumed the event
	HandleMouseRelease(button int) bool

	// HandleMouseMove forwards the cursor position.
	//
	// Parameters:
	//   - x: cursor x in pixels
	//   - y: cursor y in pixels
	//
	// Returns:
	//   - bool: true if ImGui consumed the event
	HandleMouseMove(x, y float32) bool

	// HandleMouseScroll forwards a wheel or touchpad scroll.
	//
	// Parameters:
	//   - dx: horizontal offset
	//   - dy: vertical offset
	//
	// Returns:
	//   - bool: true if ImGui consumed the event
	HandleMouseScroll(dx, dy float32) bool

	// HandleTextInput forwards a typed character.
	//
	// Parameters:
	//   - char: the Unicode code point
	//
	// Returns:
	//   - bool: true if a text field is receiving input
	HandleTextInput(char rune) bool

	// Relayout updates the display size after a resize.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Relayout(width, height int)

	// TextInputActive reports whether a text field wanted keyboard input during the last Render.
	//
	// Returns:
	//   - bool: true while a text field is active
	TextInputActive() bool

	// AddTexture uploads an RGBA image for use with imgui.Image.
	//
	// Parameters:
	//   - width: image width in pixels
	//   - height: image height in pixels
	//   - rgba: width*height*4 bytes
	//
	// Returns:
	//   - imgui.TextureID: the texture id
	//   - error: an error if the upload failed
	AddTexture(width, height int, rgba []byte) (imgui.TextureID, error)

	// Destroy releases the backend and the ImGui context.
	Destroy()
}

var _ Overlay = &overlay{}

// NewOverlay creates an ImGui context, maps the GLFW keys and uploads the font atlas
// through backend.
//
// Parameters:
//   - backend: the GPU backend, typically from NewWGPUBackend
//   - options: functional options
//
// Returns:
//   - Overlay: the overlay
//   - error: an error if the font atlas could not be uploaded
func NewOverlay(backend Backend, options ...OverlayBuilderOption) (Overlay, error) {
	if backend == nil {
		panic("overlay: NewOverlay requires a Backend")
	}
	o := &overlay{
		backend: backend,
		width:   1280,
		height:  720,
	}
	for _, opt := range options {
		opt(o)
	}

	o.context = imgui.CreateContext(nil)
	o.io = imgui.CurrentIO()
	o.io.SetIniFilename("")
	o.io.SetDisplaySize(imgui.Vec2{X: float32(o.width), Y: float32(o.height)})
	mapKeys(o.io)

	fonts := o.io.Fonts().TextureDataRGBA32()
	pixels := unsafe.Slice((*byte)(fonts.Pixels), fonts.Width*fonts.Height*4)
	id, err := backend.CreateTexture(fonts.Width, fonts.Height, pixels)
	if err != nil {
		o.context.Destroy()
		return nil, fmt.Errorf("failed to upload font atlas: %w", err)
	}
	o.io.Fonts().SetTextureID(id)

	log.Printf("[Overlay] ImGui %s initialized, font atlas %dx%d", imgui.Version(), fonts.Width, fonts.Height)
	return o, nil
}

func (o *overlay) Add(callback func(Overlay)) {
	if callback == nil {
		panic("overlay: Add requires a non-nil callback")
	}
	o.callbacks = append(o.callbacks, callback)
}

func (o *overlay) ClearAll() {
	o.callbacks = nil
}

func (o *overlay) Render(deltaTime float32) {
	o.context.SetCurrent()
	o.io.SetDeltaTime(max(deltaTime, minDeltaTime))
	imgui.NewFrame()

	o.textInput = o.io.WantTextInput()

	for _, cb := range o.callbacks {
		cb(o)
	}
	if o.fpsEnabled {
		o.printFPS()
	}

	imgui.Render()
	o.backend.RenderDrawData(imgui.RenderedDrawData(), o.width, o.height)
}

func (o *overlay) printFPS() {
	ms, fps := o.frameStats()

	imgui.SetNextWindowPos(imgui.Vec2{X: 0, Y: 0})
	if imgui.BeginV("fps window", nil, fpsWindowFlags) {
		imgui.PushStyleColor(imgui.StyleColorText, imgui.Vec4{X: 1, Y: 1, Z: 1, W: 1})
		imgui.Text(fpsText(ms, fps))
		imgui.PopStyleColor()
	}
	imgui.End()
}

// frameStats prefers the engine profiler and falls back to ImGui's own framerate.
func (o *overlay) frameStats() (float64, float64) {
	if o.profiler != nil && o.profiler.FPS() > 0 {
		return o.profiler.AverageFrameTime(), o.profiler.FPS()
	}
	fps := float64(o.io.Framerate())
	if fps <= 0 {
		return 0, 0
	}
	return 1000 / fps, fps
}

func fpsText(ms, fps float64) string {
	return fmt.Sprintf("Average %.3f ms/frame (%.1f FPS)", ms, fps)
}

func (o *overlay) EnableFPSCounter(enable bool) {
	o.fpsEnabled = enable
}

func (o *overlay) FPSCounterEnabled() bool {
	return o.fpsEnabled
}

func (o *overlay) Relayout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.width = width
	o.height = height
	o.io.SetDisplaySize(imgui.Vec2{X: float32(width), Y: float32(height)})
}

func (o *overlay) TextInputActive() bool {
	return o.textInput
}

func (o *overlay) AddTexture(width, height int, rgba []byte) (imgui.TextureID, error) {
	if len(rgba) != width*height*4 {
		return 0, fmt.Errorf("texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(rgba))
	}
	return o.backend.CreateTexture(width, height, rgba)
}

func (o *overlay) Destroy() {
	if o.context == nil {
		return
	}
	log.Println("[Overlay] shutting down")
	o.backend.Release()
	o.context.Destroy()
	o.context = nil
}
