package overlay

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

// mouseButtons is the number of buttons ImGui tracks.
const mouseButtons = 5

// mapKeys points ImGui's navigation keys at their GLFW key codes, the codes the window
// reports.
func mapKeys(io imgui.IO) {
	io.KeyMap(imgui.KeyTab, int(glfw.KeyTab))
	io.KeyMap(imgui.KeyLeftArrow, int(glfw.KeyLeft))
	io.KeyMap(imgui.KeyRightArrow, int(glfw.KeyRight))
	io.KeyMap(imgui.KeyUpArrow, int(glfw.KeyUp))
	io.KeyMap(imgui.KeyDownArrow, int(glfw.KeyDown))
	io.KeyMap(imgui.KeyPageUp, int(glfw.KeyPageUp))
	io.KeyMap(imgui.KeyPageDown, int(glfw.KeyPageDown))
	io.KeyMap(imgui.KeyHome, int(glfw.KeyHome))
	io.KeyMap(imgui.KeyEnd, int(glfw.KeyEnd))
	io.KeyMap(imgui.KeyInsert, int(glfw.KeyInsert))
	io.KeyMap(imgui.KeyDelete, int(glfw.KeyDelete))
	io.KeyMap(imgui.KeyBackspace, int(glfw.KeyBackspace))
	io.KeyMap(imgui.KeySpace, int(glfw.KeySpace))
	io.KeyMap(imgui.KeyEnter, int(glfw.KeyEnter))
	io.KeyMap(imgui.KeyEscape, int(glfw.KeyEscape))
	io.KeyMap(imgui.KeyA, int(glfw.KeyA))
	io.KeyMap(imgui.KeyC, int(glfw.KeyC))
	io.KeyMap(imgui.KeyV, int(glfw.KeyV))
	io.KeyMap(imgui.KeyX, int(glfw.KeyX))
	io.KeyMap(imgui.KeyY, int(glfw.KeyY))
	io.KeyMap(imgui.KeyZ, int(glfw.KeyZ))
}

// updateModifiers recomputes the modifier flags from the key down state.
func updateModifiers(io imgui.IO) {
	io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
	io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
	io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
	io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
}

func (o *overlay) HandleKeyPress(key uint32) bool {
	o.io.KeyPress(int(key))
	updateModifiers(o.io)
	return o.io.WantCaptureKeyboard()
}

func (o *overlay) HandleKeyRelease(key uint32) bool {
	o.io.KeyRelease(int(key))
	updateModifiers(o.io)
	return o.io.WantCaptureKeyboard()
}

func (o *overlay) HandleMousePress(button int) bool {
	if button < 0 || button >= mouseButtons {
		return false
	}
	o.io.SetMouseButtonDown(button, true)
	return o.io.WantCaptureMouse()
}

func (o *overlay) HandleMouseRelease(button int) bool {
	if button < 0 || button >= mouseButtons {
		return false
	}
	o.io.SetMouseButtonDown(button, false)
	return o.io.WantCaptureMouse()
}

func (o *overlay) HandleMouseMove(x, y float32) bool {
	o.io.SetMousePosition(imgui.Vec2{X: x, Y: y})
	return o.io.WantCaptureMouse()
}

func (o *overlay) HandleMouseScroll(dx, dy float32) bool {
	o.io.AddMouseWheelDelta(dx, dy)
	return o.io.WantCaptureMouse()
}

func (o *overlay) HandleTextInput(char rune) bool {
	o.io.AddInputCharacters(string(char))
	return o.io.WantTextInput()
}
