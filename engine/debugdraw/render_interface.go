package debugdraw

// RenderInterface consumes the vertex batches produced by a Context.
// DebugDraw is the GPU-backed implementation.
type RenderInterface interface {
	// CreateGlyphTexture uploads a single channel glyph atlas.
	//
	// Parameters:
	//   - width: atlas width in pixels
	//   - height: atlas height in pixels
	//   - pixels: width*height coverage bytes, row-major
	//
	// Returns:
	//   - GlyphTextureHandle: the handle later draw and destroy calls must present
	CreateGlyphTexture(width, height int, pixels []byte) GlyphTextureHandle

	// DestroyGlyphTexture releases the glyph texture behind handle.
	//
	// Parameters:
	//   - handle: the handle returned by CreateGlyphTexture
	DestroyGlyphTexture(handle GlyphTextureHandle)

	// DrawPointList draws one point per vertex.
	//
	// Parameters:
	//   - vertices: at most VertexBufferSize point vertices
	//   - depthEnabled: whether the caller asked for the depth test
	DrawPointList(vertices []DrawVertex, depthEnabled bool)

	// DrawLineList draws one line segment per vertex pair.
	//
	// Parameters:
	//   - vertices: at most VertexBufferSize line vertices
	//   - depthEnabled: whether the caller asked for the depth test
	DrawLineList(vertices []DrawVertex, depthEnabled bool)

	// DrawGlyphList draws textured text triangles.
	//
	// Parameters:
	//   - vertices: at most VertexBufferSize glyph vertices, three per triangle
	//   - handle: the live glyph texture handle
	DrawGlyphList(vertices []GlyphVertex, handle GlyphTextureHandle)
}
