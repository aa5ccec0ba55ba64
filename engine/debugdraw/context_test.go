package debugdraw

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

type flushRecord struct {
	kind     string
	depth    bool
	vertices []DrawVertex
	glyphs   []GlyphVertex
}

// recordingInterface copies every batch since the Context reuses its slices.
type recordingInterface struct {
	records []flushRecord
	width   int
	height  int
	pixels  []byte
}

func (r *recordingInterface) CreateGlyphTexture(width, height int, pixels []byte) GlyphTextureHandle {
	r.width, r.height, r.pixels = width, height, pixels
	return 1
}

func (r *recordingInterface) DestroyGlyphTexture(GlyphTextureHandle) {}

func (r *recordingInterface) DrawPointList(vertices []DrawVertex, depthEnabled bool) {
	r.records = append(r.records, flushRecord{kind: "points", depth: depthEnabled, vertices: append([]DrawVertex(nil), vertices...)})
}

func (r *recordingInterface) DrawLineList(vertices []DrawVertex, depthEnabled bool) {
	r.records = append(r.records, flushRecord{kind: "lines", depth: depthEnabled, vertices: append([]DrawVertex(nil), vertices...)})
}

func (r *recordingInterface) DrawGlyphList(vertices []GlyphVertex, _ GlyphTextureHandle) {
	r.records = append(r.records, flushRecord{kind: "glyphs", glyphs: append([]GlyphVertex(nil), vertices...)})
}

func (r *recordingInterface) lineVertices() int {
	n := 0
	for _, rec := range r.records {
		if rec.kind == "lines" {
			n += len(rec.vertices)
		}
	}
	return n
}

var white = mgl32.Vec3{1, 1, 1}

func TestContextFlushOrder(t *testing.T) {
	ri := &recordingInterface{}
	c := NewContext(ri)

	c.ScreenText("x", mgl32.Vec2{}, white, 1)
	c.Line(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, white, false)
	c.Line(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, white, true)
	c.Point(mgl32.Vec3{}, white, 3, true)
	c.Flush()

	require.Len(t, ri.records, 4)
	assert.Equal(t, "points", ri.records[0].kind)
	assert.Equal(t, "lines", ri.records[1].kind)
	assert.False(t, ri.records[1].depth)
	assert.Equal(t, "lines", ri.records[2].kind)
	assert.True(t, ri.records[2].depth)
	assert.Equal(t, "glyphs", ri.records[3].kind)
	assert.Equal(t, float32(3), ri.records[0].vertices[0].Size)

	ri.records = nil
	c.Flush()
	assert.Empty(t, ri.records, "flush empties the queues")
}

func TestContextAutoFlushAtCapacity(t *testing.T) {
	ri := &recordingInterface{}
	c := NewContext(ri)

	for i := 0; i < VertexBufferSize; i++ {
		c.Point(mgl32.Vec3{float32(i), 0, 0}, white, 1, true)
	}
	require.Len(t, ri.records, 1)
	assert.Len(t, ri.records[0].vertices, VertexBufferSize)

	for i := 0; i < VertexBufferSize/2+1; i++ {
		c.Line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, white, false)
	}
	require.Len(t, ri.records, 2)
	assert.Len(t, ri.records[1].vertices, VertexBufferSize)

	points, lines, _ := c.Pending()
	assert.Equal(t, 0, points)
	assert.Equal(t, 2, lines)
}

func TestContextGlyphBatchesKeepWholeQuads(t *testing.T) {
	ri := &recordingInterface{}
	c := NewContext(ri)

	text := make([]byte, VertexBufferSize/6+1)
	for i := range text {
		text[i] = 'a'
	}
	c.ScreenText(string(text), mgl32.Vec2{}, white, 1)
	c.Flush()

	require.Len(t, ri.records, 2)
	assert.Equal(t, 0, len(ri.records[0].glyphs)%6)
	assert.Equal(t, len(text)*6, len(ri.records[0].glyphs)+len(ri.records[1].glyphs))
}

func TestShapeVertexCounts(t *testing.T) {
	tests := []struct {
		name  string
		draw  func(c *Context)
		lines int
	}{
		{"cross", func(c *Context) { c.Cross(mgl32.Vec3{}, 2, true) }, 3},
		{"aabb", func(c *Context) { c.AABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, white, true) }, 12},
		{"frustum", func(c *Context) { c.Frustum(mgl32.Ident4(), white, true) }, 12},
		{"circle", func(c *Context) { c.Circle(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, white, 1, 16, true) }, 16},
		{"circle min steps", func(c *Context) { c.Circle(mgl32.Vec3{}, mgl32.Vec3{}, white, 1, 1, true) }, 3},
		{"arrow", func(c *Context) { c.Arrow(mgl32.Vec3{}, mgl32.Vec3{0, 0, 5}, white, 1, true) }, 17},
		{"degenerate arrow", func(c *Context) { c.Arrow(mgl32.Vec3{}, mgl32.Vec3{}, white, 1, true) }, 1},
		{"axis triad", func(c *Context) { c.AxisTriad(mgl32.Ident4(), 0.5, 2, true) }, 51},
		{"grid", func(c *Context) { c.Grid(-1, 1, 0, 1, white, true) }, 6},
		{"grid fractional step", func(c *Context) { c.Grid(-1, 1, 0, 0.1, white, true) }, 42},
		{"grid uneven step", func(c *Context) { c.Grid(0, 1, 0, 0.3, white, true) }, 8},
		{"sphere", func(c *Context) { c.Sphere(mgl32.Vec3{}, white, 5, true) }, 552},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ri := &recordingInterface{}
			c := NewContext(ri)
			tt.draw(c)
			c.Flush()
			assert.Equal(t, tt.lines*2, ri.lineVertices())
		})
	}
}

func TestSphereVerticesLieOnSphere(t *testing.T) {
	ri := &recordingInterface{}
	c := NewContext(ri)
	center := mgl32.Vec3{1, 2, 3}
	c.Sphere(center, white, 5, true)
	c.Flush()

	for _, rec := range ri.records {
		for _, v := range rec.vertices {
			assert.InDelta(t, 5, mgl32.Vec3(v.Pos).Sub(center).Len(), 1e-4)
		}
	}
}

func TestAxisTriadColors(t *testing.T) {
	ri := &recordingInterface{}
	c := NewContext(ri)
	c.AxisTriad(mgl32.Translate3D(0, 1, 0), 0.5, 10, false)
	c.Flush()

	require.Len(t, ri.records, 1)
	shafts := ri.records[0].vertices
	// each arrow starts with its shaft
	assert.Equal(t, [3]float32{1, 0, 0}, shafts[0].Color)
	assert.Equal(t, [3]float32{0, 1, 0}, shafts[34].Color)
	assert.Equal(t, [3]float32{0, 0, 1}, shafts[68].Color)
	assert.Equal(t, [3]float32{0, 1, 0}, shafts[0].Pos)
	assert.Equal(t, [3]float32{10, 1, 0}, shafts[1].Pos)
}

func TestScreenTextLayout(t *testing.T) {
	ri := &recordingInterface{}
	c := NewContext(ri)

	c.ScreenText("a b\nc", mgl32.Vec2{10, 20}, white, 2)
	c.Flush()

	require.Len(t, ri.records, 1)
	glyphs := ri.records[0].glyphs
	require.Len(t, glyphs, 18)

	// 'a' at the origin, 'b' after one space, 'c' on the next line
	assert.Equal(t, [2]float32{10, 20}, glyphs[0].Pos)
	assert.Equal(t, [2]float32{10 + 2*2*7, 20}, glyphs[6].Pos)
	assert.Equal(t, [2]float32{10, 20 + 2*13}, glyphs[12].Pos)
	assert.Equal(t, [2]float32{10 + 2*6, 20 + 2*13}, glyphs[2].Pos)
}

func TestProjectedText(t *testing.T) {
	viewProj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100).Mul4(mgl32.LookAtV(
		mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0},
	))
	viewport := [4]int{0, 0, 200, 200}

	t.Run("centered on projection", func(t *testing.T) {
		ri := &recordingInterface{}
		c := NewContext(ri)
		c.ProjectedText("ab", mgl32.Vec3{}, white, viewProj, viewport, 1)
		c.Flush()

		require.Len(t, ri.records, 1)
		first := ri.records[0].glyphs[0].Pos
		assert.InDelta(t, 100-7, first[0], 1e-3)
		assert.InDelta(t, 100-6.5, first[1], 1e-3)
	})

	t.Run("behind camera dropped", func(t *testing.T) {
		ri := &recordingInterface{}
		c := NewContext(ri)
		c.ProjectedText("ab", mgl32.Vec3{0, 0, 10}, white, viewProj, viewport, 1)
		c.Flush()
		assert.Empty(t, ri.records)
	})
}

func TestGlyphAtlas(t *testing.T) {
	ri := &recordingInterface{}
	NewContext(ri)

	assert.Equal(t, 96, ri.width)
	assert.Equal(t, 78, ri.height)
	require.Len(t, ri.pixels, 96*78)

	// 'A' is glyph 33: column 1, row 2
	covered := 0
	for y := 26; y < 39; y++ {
		for x := 6; x < 12; x++ {
			if ri.pixels[y*96+x] > 0 {
				covered++
			}
		}
	}
	assert.Positive(t, covered)

	atlas := newGlyphAtlas(basicfont.Face7x13)
	a := atlas.lookup('A')
	assert.InDelta(t, 6.0/96, a.u0, 1e-6)
	assert.InDelta(t, 26.0/78, a.v0, 1e-6)
	assert.InDelta(t, 12.0/96, a.u1, 1e-6)
	assert.InDelta(t, 39.0/78, a.v1, 1e-6)

	assert.Equal(t, atlas.lookup('?'), atlas.lookup('é'), "runes outside the atlas fall back to '?'")

	w, h := atlas.measure("abc\nd")
	assert.Equal(t, float32(21), w)
	assert.Equal(t, float32(26), h)
}
