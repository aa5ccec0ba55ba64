package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window defines the interface for a platform window that owns the input callbacks and
// provides the WebGPU surface descriptor.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration.
	//
	// Parameters:
	//   - callback: the function to call after events are polled
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: receives the new framebuffer width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function called for mouse wheel and touchpad scrolling.
	//
	// Parameters:
	//   - callback: receives the horizontal and vertical scroll offsets
	SetScrollCallback(callback func(dx, dy float32))

	// SetKeyDownCallback sets the function called when a key is pressed or repeats.
	// Escape closes the window unless the callback reports it handled the key.
	//
	// Parameters:
	//   - callback: receives the GLFW key code and returns true if the key was handled
	SetKeyDownCallback(callback func(keyCode uint32) bool)

	// SetKeyUpCallback sets the function called when a key is released.
	//
	// Parameters:
	//   - callback: receives the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the function called when a mouse button is pressed.
	//
	// Parameters:
	//   - callback: receives the button index (common.MouseButtonLeft etc.) and the cursor position
	SetMouseDownCallback(callback func(button int, x, y float32))

	// SetMouseUpCallback sets the function called when a mouse button is released.
	//
	// Parameters:
	//   - callback: receives the button index and the cursor position
	SetMouseUpCallback(callback func(button int, x, y float32))

	// SetMouseMoveCallback sets the function called when the cursor moves.
	// Positions are in framebuffer pixels, the same space as Width and Height.
	//
	// Parameters:
	//   - callback: receives the cursor position and its change since the previous event
	SetMouseMoveCallback(callback func(x, y, dx, dy float32))

	// SetCharCallback sets the function called for text input.
	//
	// Parameters:
	//   - callback: receives the typed Unicode code point
	SetCharCallback(callback func(char rune))

	// SurfaceDescriptor returns the platform surface descriptor for WebGPU surface creation.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil if the window is not created
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open.
	//
	// Returns:
	//   - bool: true until the window is closed
	IsRunning() bool

	// Close destroys the window and terminates the platform library.
	//
	// Returns:
	//   - error: an error if the window was never created
	Close() error

	// ProcessMessages runs the message loop until the window closes, invoking the update
	// callback once per iteration.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	//
	// Returns:
	//   - int: the framebuffer width
	Width() int

	// Height returns the framebuffer height in pixels.
	//
	// Returns:
	//   - int: the framebuffer height
	Height() int

	// MouseButtonDown reports whether a mouse button is currently held.
	//
	// Parameters:
	//   - button: the button index
	//
	// Returns:
	//   - bool: true while the button is held
	MouseButtonDown(button int) bool
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	maxWidth, maxHeight int
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// cursor state used to compute relative motion, in framebuffer pixels
	cursorX, cursorY float32
	cursorValid      bool
	buttons          [8]bool

	// cursorScaleX and cursorScaleY map window coordinates to framebuffer pixels.
	cursorScaleX, cursorScaleY float32

	// requestClose is set when Escape went unhandled.
	requestClose bool

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(dx, dy float32)
	onKeyDown   func(keyCode uint32) bool
	onKeyUp     func(keyCode uint32)
	onMouseDown func(button int, x, y float32)
	onMouseUp   func(button int, x, y float32)
	onMouseMove func(x, y, dx, dy float32)
	onChar      func(char rune)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("window: failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:        "oxy-sandbox",
		maxWidth:     3840,
		maxHeight:    2160,
		minWidth:     320,
		minHeight:    240,
		width:        1280,
		height:       720,
		cursorScaleX: 1,
		cursorScaleY: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(dx, dy float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32) bool) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button int, x, y float32)) {
	w.onMouseDown = callback
}

func (w *engineWindow) SetMouseUpCallback(callback func(button int, x, y float32)) {
	w.onMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y, dx, dy float32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetCharCallback(callback func(char rune)) {
	w.onChar = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
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

func (w *engineWindow) MouseButtonDown(button int) bool {
	if button < 0 || button >= len(w.buttons) {
		return false
	}
	return w.buttons[button]
}

// The dispatch methods below translate platform events into callbacks. They carry no
// platform state so the GLFW layer stays a thin adapter.

func (w *engineWindow) dispatchKeyDown(keyCode uint32) {
	handled := false
	if w.onKeyDown != nil {
		handled = w.onKeyDown(keyCode)
	}
	if keyCode == common.KeyEsc && !handled {
		w.requestClose = true
	}
}

func (w *engineWindow) dispatchKeyUp(keyCode uint32) {
	if w.onKeyUp != nil {
		w.onKeyUp(keyCode)
	}
}

func (w *engineWindow) dispatchMouseButton(button int, pressed bool) {
	if button >= 0 && button < len(w.buttons) {
		w.buttons[button] = pressed
	}
	if pressed && w.onMouseDown != nil {
		w.onMouseDown(button, w.cursorX, w.cursorY)
	}
	if !pressed && w.onMouseUp != nil {
		w.onMouseUp(button, w.cursorX, w.cursorY)
	}
}

// setCursorScale records the framebuffer to window size ratio, which is above 1 on
// high-DPI displays. Zero sizes (a minimized window) keep the previous scale.
func (w *engineWindow) setCursorScale(fbWidth, fbHeight, winWidth, winHeight int) {
	if fbWidth <= 0 || fbHeight <= 0 || winWidth <= 0 || winHeight <= 0 {
		return
	}
	w.cursorScaleX = float32(fbWidth) / float32(winWidth)
	w.cursorScaleY = float32(fbHeight) / float32(winHeight)
}

// dispatchCursor takes the cursor in window coordinates.
func (w *engineWindow) dispatchCursor(x, y float32) {
	x *= w.cursorScaleX
	y *= w.cursorScaleY
	var dx, dy float32
	if w.cursorValid {
		dx, dy = x-w.cursorX, y-w.cursorY
	}
	w.cursorX, w.cursorY = x, y
	w.cursorValid = true
	if w.onMouseMove != nil {
		w.onMouseMove(x, y, dx, dy)
	}
}

func (w *engineWindow) dispatchScroll(dx, dy float32) {
	if w.onScroll != nil {
		w.onScroll(dx, dy)
	}
}

func (w *engineWindow) dispatchChar(char rune) {
	if w.onChar != nil {
		w.onChar(char)
	}
}

func (w *engineWindow) dispatchResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
