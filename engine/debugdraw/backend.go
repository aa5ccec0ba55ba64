package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// Backend issues the GPU work behind a DebugDraw.
// Every draw receives the full RenderState it must be executed with.
type Backend interface {
	// AdapterInfo describes the GPU the backend renders with.
	//
	// Returns:
	//   - string: adapter name, driver and API
	AdapterInfo() string

	// CreateGlyphTexture uploads a single channel (R8) texture.
	//
	// Parameters:
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//   - pixels: width*height bytes
	//
	// Returns:
	//   - uint32: a non-zero texture id
	//   - error: an error if the texture could not be created
	CreateGlyphTexture(width, height int, pixels []byte) (uint32, error)

	// DestroyGlyphTexture releases a texture created by CreateGlyphTexture.
	//
	// Parameters:
	//   - id: the texture id
	DestroyGlyphTexture(id uint32)

	// Begin starts a batch of draws for the current frame with the given transform and
	// viewport size.
	//
	// Parameters:
	//   - mvp: OpenGL convention model-view-projection matrix
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Begin(mvp mgl32.Mat4, width, height int)

	// DrawPoints draws one screen-space point per vertex.
	//
	// Parameters:
	//   - vertices: point vertices
	//   - state: the render state for the draw
	DrawPoints(vertices []DrawVertex, state RenderState)

	// DrawLines draws one segment per vertex pair.
	//
	// Parameters:
	//   - vertices: line vertices
	//   - state: the render state for the draw
	DrawLines(vertices []DrawVertex, state RenderState)

	// DrawGlyphs draws textured screen-space triangles.
	//
	// Parameters:
	//   - vertices: glyph vertices
	//   - textureID: the glyph texture to sample
	//   - state: the render state for the draw
	DrawGlyphs(vertices []GlyphVertex, textureID uint32, state RenderState)

	// Release frees all GPU resources held by the backend.
	Release()
}
