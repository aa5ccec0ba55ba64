package debugdraw

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

// debugDraw is the implementation of the DebugDraw interface.
type debugDraw struct {
	backend Backend
	ctx     *Context

	width, height int
	mvp           mgl32.Mat4
	depth         DepthPolicy
	state         RenderState

	glyphTexture uint32 // live backend texture id, 0 when none
	draws        []func()
}

// DebugDraw is an immediate-mode renderer for points, lines and text. Applications queue
// shapes on its Context from callbacks registered with RegisterDraws; Render runs the
// callbacks and flushes the queued shapes to the GPU.
type DebugDraw interface {
	RenderInterface

	// Context returns the primitive library bound to this renderer.
	//
	// Returns:
	//   - *Context: the context to queue shapes on
	Context() *Context

	// RegisterDraws appends a callback run on every Render, in registration order.
	// Panics if callback is nil.
	//
	// Parameters:
	//   - callback: the function queueing shapes on the Context
	RegisterDraws(callback func())

	// ClearDraws removes every registered callback.
	ClearDraws()

	// Render resets the baseline render state, uploads the MVP and viewport, runs the
	// registered callbacks and flushes the Context. Must be called inside a renderer frame.
	Render()

	// UpdateMVP sets the matrix used by the next Render.
	//
	// Parameters:
	//   - mvp: OpenGL convention model-view-projection matrix
	UpdateMVP(mvp mgl32.Mat4)

	// Resize sets the viewport size used for text placement.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Resize(width, height int)

	// Depth sets the depth policy applied to point and line draws.
	//
	// Parameters:
	//   - policy: DepthDontCare, DepthEnabled or DepthDisabled
	Depth(policy DepthPolicy)

	// State returns the render state the next draw would start from.
	//
	// Returns:
	//   - RenderState: the current state
	State() RenderState

	// Release destroys the glyph texture and the backend resources.
	Release()
}

var _ DebugDraw = &debugDraw{}

// NewDebugDraw creates a DebugDraw on top of backend. It logs the GPU adapter, applies the
// baseline render state and creates the glyph texture through a new Context.
// Panics if backend is nil or the glyph texture cannot be created.
//
// Parameters:
//   - backend: the GPU backend, typically from NewWGPUBackend
//   - options: functional options
//
// Returns:
//   - DebugDraw: the new renderer
func NewDebugDraw(backend Backend, options ...DebugDrawBuilderOption) DebugDraw {
	if backend == nil {
		panic("debugdraw: NewDebugDraw requires a Backend")
	}
	d := &debugDraw{
		backend: backend,
		mvp:     mgl32.Ident4(),
		depth:   DepthDontCare,
	}
	for _, opt := range options {
		opt(d)
	}

	log.Printf("[DebugDraw] GPU adapter: %s", backend.AdapterInfo())
	d.state = baselineState
	d.ctx = NewContext(d)
	log.Printf("[DebugDraw] initialized, %d vertices per batch", VertexBufferSize)
	return d
}

func (d *debugDraw) CreateGlyphTexture(width, height int, pixels []byte) GlyphTextureHandle {
	if d.glyphTexture != 0 {
		panic(fmt.Sprintf("debugdraw: glyph texture %d is still live", d.glyphTexture))
	}
	id, err := d.backend.CreateGlyphTexture(width, height, pixels)
	if err != nil {
		panic(fmt.Sprintf("debugdraw: failed to create glyph texture: %v", err))
	}
	if id == 0 {
		panic("debugdraw: backend returned glyph texture id 0")
	}
	d.glyphTexture = id
	return GlyphTextureHandle(id)
}

func (d *debugDraw) DestroyGlyphTexture(handle GlyphTextureHandle) {
	d.checkHandle(handle)
	d.backend.DestroyGlyphTexture(d.glyphTexture)
	d.glyphTexture = 0
}

func (d *debugDraw) DrawPointList(vertices []DrawVertex, depthEnabled bool) {
	if len(vertices) > VertexBufferSize {
		panic(fmt.Sprintf("debugdraw: %d point vertices exceed VertexBufferSize %d", len(vertices), VertexBufferSize))
	}
	d.state.DepthTest = d.depth.Resolve(depthEnabled)
	d.backend.DrawPoints(vertices, d.state)
}

func (d *debugDraw) DrawLineList(vertices []DrawVertex, depthEnabled bool) {
	if len(vertices) > VertexBufferSize {
		panic(fmt.Sprintf("debugdraw: %d line vertices exceed VertexBufferSize %d", len(vertices), VertexBufferSize))
	}
	d.state.DepthTest = d.depth.Resolve(depthEnabled)
	d.backend.DrawLines(vertices, d.state)
}

func (d *debugDraw) DrawGlyphList(vertices []GlyphVertex, handle GlyphTextureHandle) {
	d.checkHandle(handle)
	if len(vertices) > VertexBufferSize {
		panic(fmt.Sprintf("debugdraw: %d glyph vertices exceed VertexBufferSize %d", len(vertices), VertexBufferSize))
	}

	glyphState := d.state
	glyphState.Blending = true
	glyphState.DepthTest = false
	d.backend.DrawGlyphs(vertices, d.glyphTexture, glyphState)

	d.state.Blending = false
	d.state.DepthTest = true
}

func (d *debugDraw) checkHandle(handle GlyphTextureHandle) {
	if d.glyphTexture == 0 || uint64(handle) != uint64(d.glyphTexture) {
		panic(fmt.Sprintf("debugdraw: glyph texture handle %d does not match live texture %d", handle, d.glyphTexture))
	}
}

func (d *debugDraw) Context() *Context {
	return d.ctx
}

func (d *debugDraw) RegisterDraws(callback func()) {
	if callback == nil {
		panic("debugdraw: RegisterDraws requires a non-nil callback")
	}
	d.draws = append(d.draws, callback)
}

func (d *debugDraw) ClearDraws() {
	d.draws = nil
}

func (d *debugDraw) Render() {
	d.state = baselineState
	d.backend.Begin(d.mvp, d.width, d.height)
	for _, draw := range d.draws {
		draw()
	}
	d.ctx.Flush()
}

func (d *debugDraw) UpdateMVP(mvp mgl32.Mat4) {
	d.mvp = mvp
}

func (d *debugDraw) Resize(width, height int) {
	d.width = width
	d.height = height
}

func (d *debugDraw) Depth(policy DepthPolicy) {
	d.depth = policy
}

func (d *debugDraw) State() RenderState {
	return d.state
}

func (d *debugDraw) Release() {
	log.Println("[DebugDraw] shutting down")
	if d.ctx != nil {
		d.ctx.Shutdown()
	}
	d.backend.Release()
}
