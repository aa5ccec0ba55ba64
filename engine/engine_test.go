package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of loop iterations.
type fakeWindow struct {
	window.Window

	frames   int
	closed   bool
	update   func()
	onResize func(width, height int)
}

func (w *fakeWindow) SetUpdateCallback(callback func()) {
	w.update = callback
}
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}
func (w *fakeWindow) IsRunning() bool {
	return !w.closed
}

func (w *fakeWindow) Close() error {
	if w.closed {
		return errors.New("window is not initialized")
	}
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.frames && w.IsRunning(); i++ {
		w.update()
	}
}

// fakeRenderer records the frame lifecycle calls.
type fakeRenderer struct {
	renderer.Renderer

	calls    []string
	beginErr error
	resized  [][2]int
}

func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}
func (r *fakeRenderer) EndFrame() {
	r.calls = append(r.calls, "end")
}
func (r *fakeRenderer) Present() {
	r.calls = append(r.calls, "present")
}
func (r *fakeRenderer) Resize(width, height int) {
	r.resized = append(r.resized, [2]int{width, height})
}

func TestNewEngineRequiresWindow(t *testing.T) {
	assert.PanicsWithValue(t, "engine: a window must be provided with WithWindow", func() {
		NewEngine()
	})
}

func TestRunFrameOrder(t *testing.T) {
	w := &fakeWindow{frames: 2}
	r := &fakeRenderer{}
	e := NewEngine(WithWindow(w), WithRenderer(r))

	e.SetUpdateCallback(func(float32) { r.calls = append(r.calls, "update") })
	e.SetRenderCallback(func(float32) { r.calls = append(r.calls, "render") })
	e.Run()

	assert.Equal(t, []string{
		"update", "begin", "render", "end", "present",
		"update", "begin", "render", "end", "present",
	}, r.calls)
	assert.True(t, w.closed)
}

func TestRunSkipsRenderWhenBeginFails(t *testing.T) {
	w := &fakeWindow{frames: 1}
	r := &fakeRenderer{beginErr: errors.New("surface outdated")}
	e := NewEngine(WithWindow(w), WithRenderer(r))

	rendered := false
	e.SetRenderCallback(func(float32) { rendered = true })
	e.Run()

	assert.False(t, rendered)
	assert.Equal(t, []string{"begin"}, r.calls)
}

func TestRunWithoutRenderer(t *testing.T) {
	w := &fakeWindow{frames: 3}
	e := NewEngine(WithWindow(w))

	updates := 0
	e.SetUpdateCallback(func(float32) { updates++ })
	e.Run()

	assert.Equal(t, 3, updates)
}

func TestQuitStopsLoop(t *testing.T) {
	w := &fakeWindow{frames: 10}
	e := NewEngine(WithWindow(w))

	updates := 0
	e.SetUpdateCallback(func(float32) {
		updates++
		if updates == 2 {
			e.Quit()
		}
	})
	e.Run()

	assert.Equal(t, 2, updates)
	assert.True(t, w.closed)
}

func TestResizeForwardsToRendererAndHook(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{}
	e := NewEngine(WithWindow(w), WithRenderer(r))

	var hook [][2]int
	e.SetResizeCallback(func(width, height int) { hook = append(hook, [2]int{width, height}) })

	require.NotNil(t, w.onResize)
	w.onResize(0, 0)
	w.onResize(1024, 768)

	assert.Equal(t, [][2]int{{1024, 768}}, r.resized)
	assert.Equal(t, [][2]int{{1024, 768}}, hook)
}

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), frameDuration(0))
	assert.Equal(t, time.Duration(0), frameDuration(-30))
	assert.Equal(t, 10*time.Millisecond, frameDuration(100))
}
