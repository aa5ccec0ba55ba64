package debugdraw

import "unsafe"

// VertexBufferSize is the maximum number of vertices handed to a RenderInterface in one
// draw call. The Context flushes a batch as soon as it fills up.
const VertexBufferSize = 4096

// DrawVertex is a point or line vertex in world space.
// Size is the point size in pixels and is ignored for lines.
// Size: 28 bytes.
type DrawVertex struct {
	Pos   [3]float32 // offset  0
	Color [3]float32 // offset 12
	Size  float32    // offset 24
}

// GlyphVertex is a text vertex in screen space, in pixels from the top-left corner.
// Size: 28 bytes.
type GlyphVertex struct {
	Pos   [2]float32 // offset  0
	UV    [2]float32 // offset  8
	Color [3]float32 // offset 16
}

var (
	drawVertexSize  = uint64(unsafe.Sizeof(DrawVertex{}))
	glyphVertexSize = uint64(unsafe.Sizeof(GlyphVertex{}))
)

// GlyphTextureHandle identifies the glyph texture created by a RenderInterface.
// The zero handle is never returned by a successful CreateGlyphTexture.
type GlyphTextureHandle uint64

// DepthPolicy decides whether point and line draws are depth tested.
type DepthPolicy int

const (
	// DepthDontCare honors the depth flag of each draw call.
	DepthDontCare DepthPolicy = iota
	// DepthEnabled depth tests every draw.
	DepthEnabled
	// DepthDisabled depth tests no draw.
	DepthDisabled
)

// Resolve returns whether a draw requesting depthEnabled is depth tested under this policy.
//
// Parameters:
//   - depthEnabled: the depth flag the draw was submitted with
//
// Returns:
//   - bool: true if the depth test is on for the draw
func (p DepthPolicy) Resolve(depthEnabled bool) bool {
	switch p {
	case DepthEnabled:
		return true
	case DepthDisabled:
		return false
	default:
		return depthEnabled
	}
}

func (p DepthPolicy) String() string {
	switch p {
	case DepthEnabled:
		return "enabled"
	case DepthDisabled:
		return "disabled"
	default:
		return "dont-care"
	}
}

// RenderState is the fixed-function state a Backend applies to a draw.
type RenderState struct {
	ProgramPointSize bool
	FaceCulling      bool
	DepthTest        bool
	Blending         bool
}

// baselineState is restored at the start of every Render and after every glyph draw.
var baselineState = RenderState{
	ProgramPointSize: true,
	FaceCulling:      true,
	DepthTest:        true,
	Blending:         false,
}
