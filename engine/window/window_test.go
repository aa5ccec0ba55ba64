package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("terrain"),
		WithSize(1024, 768),
		WithSizeLimits(100, 50, 2000, 1000),
	)

	assert.Equal(t, "terrain", w.title)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
	assert.Equal(t, [4]int{100, 50, 2000, 1000}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})

	w = newEngineWindow(WithSize(0, -1))
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
}

func TestEscapeClosesUnlessHandled(t *testing.T) {
	w := newEngineWindow()
	w.dispatchKeyDown(common.KeyEsc)
	assert.True(t, w.requestClose)

	w = newEngineWindow()
	w.SetKeyDownCallback(func(keyCode uint32) bool { return keyCode == common.KeyEsc })
	w.dispatchKeyDown(common.KeyEsc)
	assert.False(t, w.requestClose)
}

func TestKeyCallbacks(t *testing.T) {
	w := newEngineWindow()
	var down, up []uint32
	w.SetKeyDownCallback(func(keyCode uint32) bool {
		down = append(down, keyCode)
		return false
	})
	w.SetKeyUpCallback(func(keyCode uint32) { up = append(up, keyCode) })

	w.dispatchKeyDown(common.KeyW)
	w.dispatchKeyUp(common.KeyW)

	assert.Equal(t, []uint32{common.KeyW}, down)
	assert.Equal(t, []uint32{common.KeyW}, up)
	assert.False(t, w.requestClose)
}

func TestCursorDeltaAndButtons(t *testing.T) {
	w := newEngineWindow()
	var deltas [][2]float32
	w.SetMouseMoveCallback(func(_, _, dx, dy float32) {
		deltas = append(deltas, [2]float32{dx, dy})
	})
	var pressedAt [2]float32
	w.SetMouseDownCallback(func(button int, x, y float32) {
		assert.Equal(t, common.MouseButtonLeft, button)
		pressedAt = [2]float32{x, y}
	})
	released := -1
	w.SetMouseUpCallback(func(button int, _, _ float32) { released = button })

	w.dispatchCursor(10, 20)
	w.dispatchCursor(15, 18)
	w.dispatchMouseButton(common.MouseButtonLeft, true)

	assert.Equal(t, [][2]float32{{0, 0}, {5, -2}}, deltas)
	assert.Equal(t, [2]float32{15, 18}, pressedAt)
	assert.True(t, w.MouseButtonDown(common.MouseButtonLeft))
	assert.False(t, w.MouseButtonDown(common.MouseButtonRight))
	assert.False(t, w.MouseButtonDown(42))

	w.dispatchMouseButton(common.MouseButtonLeft, false)
	assert.False(t, w.MouseButtonDown(common.MouseButtonLeft))
	assert.Equal(t, common.MouseButtonLeft, released)
}

func TestCursorScaledToFramebuffer(t *testing.T) {
	w := newEngineWindow(WithSize(1280, 720))
	w.setCursorScale(2560, 1440, 1280, 720)

	var moves [][4]float32
	w.SetMouseMoveCallback(func(x, y, dx, dy float32) {
		moves = append(moves, [4]float32{x, y, dx, dy})
	})
	var pressedAt [2]float32
	w.SetMouseDownCallback(func(_ int, x, y float32) { pressedAt = [2]float32{x, y} })

	w.dispatchCursor(100, 50)
	w.dispatchCursor(110, 60)
	w.dispatchMouseButton(common.MouseButtonLeft, true)

	assert.Equal(t, [][4]float32{{200, 100, 0, 0}, {220, 120, 20, 20}}, moves)
	assert.Equal(t, [2]float32{220, 120}, pressedAt)

	// a minimized window reports zero sizes and keeps the last scale
	w.setCursorScale(0, 0, 0, 0)
	w.dispatchCursor(10, 10)
	assert.Equal(t, [4]float32{20, 20, -200, -100}, moves[2])
}

func TestScrollCharAndResize(t *testing.T) {
	w := newEngineWindow()
	var scroll [2]float32
	var chars []rune
	var size [2]int
	w.SetScrollCallback(func(dx, dy float32) { scroll = [2]float32{dx, dy} })
	w.SetCharCallback(func(char rune) { chars = append(chars, char) })
	w.SetResizeCallback(func(width, height int) { size = [2]int{width, height} })

	w.dispatchScroll(0, -1)
	w.dispatchChar('a')
	w.dispatchChar('é')
	w.dispatchResize(640, 480)

	assert.Equal(t, [2]float32{0, -1}, scroll)
	assert.Equal(t, []rune{'a', 'é'}, chars)
	assert.Equal(t, [2]int{640, 480}, size)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
}

func TestNotCreatedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}
