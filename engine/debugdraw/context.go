package debugdraw

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/basicfont"
)

// Context is the immediate-mode primitive library. Shapes are decomposed into point, line
// and glyph vertices which are batched per kind and depth flag and handed to the bound
// RenderInterface on Flush, or earlier when a batch reaches VertexBufferSize.
//
// A Context is not safe for concurrent use.
type Context struct {
	ri    RenderInterface
	atlas *glyphAtlas
	glyph GlyphTextureHandle

	// batches indexed by depth flag: 0 = depth off, 1 = depth on
	points [2][]DrawVertex
	lines  [2][]DrawVertex
	glyphs []GlyphVertex
}

// NewContext creates a Context bound to ri and uploads the glyph atlas through it.
//
// Parameters:
//   - ri: the consumer of flushed batches
//
// Returns:
//   - *Context: the new context
func NewContext(ri RenderInterface) *Context {
	if ri == nil {
		panic("debugdraw: NewContext requires a RenderInterface")
	}
	c := &Context{
		ri:    ri,
		atlas: newGlyphAtlas(basicfont.Face7x13),
	}
	for i := range c.points {
		c.points[i] = make([]DrawVertex, 0, VertexBufferSize)
		c.lines[i] = make([]DrawVertex, 0, VertexBufferSize)
	}
	c.glyphs = make([]GlyphVertex, 0, VertexBufferSize)
	c.glyph = ri.CreateGlyphTexture(c.atlas.width, c.atlas.height, c.atlas.pixels)
	return c
}

// GlyphTexture returns the handle of the glyph atlas texture.
func (c *Context) GlyphTexture() GlyphTextureHandle {
	return c.glyph
}

// Shutdown drops pending batches and destroys the glyph texture.
func (c *Context) Shutdown() {
	c.clear()
	if c.glyph != 0 {
		c.ri.DestroyGlyphTexture(c.glyph)
		c.glyph = 0
	}
}

// Pending returns the number of queued point, line and glyph vertices.
func (c *Context) Pending() (points, lines, glyphs int) {
	return len(c.points[0]) + len(c.points[1]), len(c.lines[0]) + len(c.lines[1]), len(c.glyphs)
}

// Flush hands every pending batch to the RenderInterface, points first, then lines, then
// glyphs, and empties the queues.
func (c *Context) Flush() {
	for depth := range c.points {
		if len(c.points[depth]) > 0 {
			c.ri.DrawPointList(c.points[depth], depth == 1)
		}
	}
	for depth := range c.lines {
		if len(c.lines[depth]) > 0 {
			c.ri.DrawLineList(c.lines[depth], depth == 1)
		}
	}
	if len(c.glyphs) > 0 && c.glyph != 0 {
		c.ri.DrawGlyphList(c.glyphs, c.glyph)
	}
	c.clear()
}

func (c *Context) clear() {
	for i := range c.points {
		c.points[i] = c.points[i][:0]
		c.lines[i] = c.lines[i][:0]
	}
	c.glyphs = c.glyphs[:0]
}

func depthIndex(depthEnabled bool) int {
	if depthEnabled {
		return 1
	}
	return 0
}

func (c *Context) pushPoint(v DrawVertex, depthEnabled bool) {
	d := depthIndex(depthEnabled)
	c.points[d] = append(c.points[d], v)
	if len(c.points[d]) == VertexBufferSize {
		c.ri.DrawPointList(c.points[d], depthEnabled)
		c.points[d] = c.points[d][:0]
	}
}

func (c *Context) pushLine(from, to, color mgl32.Vec3, depthEnabled bool) {
	d := depthIndex(depthEnabled)
	c.lines[d] = append(c.lines[d],
		DrawVertex{Pos: from, Color: color},
		DrawVertex{Pos: to, Color: color},
	)
	if len(c.lines[d]) >= VertexBufferSize {
		c.ri.DrawLineList(c.lines[d], depthEnabled)
		c.lines[d] = c.lines[d][:0]
	}
}

func (c *Context) pushGlyphQuad(x0, y0, x1, y1 float32, g glyphRect, color mgl32.Vec3) {
	if len(c.glyphs)+6 > VertexBufferSize {
		c.ri.DrawGlyphList(c.glyphs, c.glyph)
		c.glyphs = c.glyphs[:0]
	}
	tl := GlyphVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.u0, g.v0}, Color: color}
	tr := GlyphVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.u1, g.v0}, Color: color}
	bl := GlyphVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.u0, g.v1}, Color: color}
	br := GlyphVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.u1, g.v1}, Color: color}
	c.glyphs = append(c.glyphs, tl, bl, br, tl, br, tr)
}

// Point queues a single point.
//
// Parameters:
//   - pos: world position
//   - color: RGB color
//   - size: point size in pixels
//   - depthEnabled: whether the point is depth tested
func (c *Context) Point(pos, color mgl32.Vec3, size float32, depthEnabled bool) {
	c.pushPoint(DrawVertex{Pos: pos, Color: color, Size: size}, depthEnabled)
}

// Line queues a line segment.
//
// Parameters:
//   - from: segment start
//   - to: segment end
//   - color: RGB color
//   - depthEnabled: whether the segment is depth tested
func (c *Context) Line(from, to, color mgl32.Vec3, depthEnabled bool) {
	c.pushLine(from, to, color, depthEnabled)
}

// Arrow queues a line from from to to with a cone of lines at the tip.
//
// Parameters:
//   - from: arrow tail
//   - to: arrow tip
//   - color: RGB color
//   - headSize: length of the arrow head
//   - depthEnabled: whether the arrow is depth tested
func (c *Context) Arrow(from, to, color mgl32.Vec3, headSize float32, depthEnabled bool) {
	const segments = 8

	c.pushLine(from, to, color, depthEnabled)

	dir := to.Sub(from)
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	right, up := orthonormalBasis(dir)
	base := to.Sub(dir.Mul(headSize))
	radius := headSize * 0.5

	var prev mgl32.Vec3
	for i := 0; i <= segments; i++ {
		angle := float32(i) * 2 * math32.Pi / segments
		s, co := math32.Sincos(angle)
		p := base.Add(right.Mul(co * radius)).Add(up.Mul(s * radius))
		if i > 0 {
			c.pushLine(prev, p, color, depthEnabled)
			c.pushLine(p, to, color, depthEnabled)
		}
		prev = p
	}
}

// Cross queues three axis-aligned segments centered on center, red along X, green along Y
// and blue along Z.
//
// Parameters:
//   - center: cross center
//   - length: total length of each segment
//   - depthEnabled: whether the cross is depth tested
func (c *Context) Cross(center mgl32.Vec3, length float32, depthEnabled bool) {
	h := length * 0.5
	axes := [3]mgl32.Vec3{{h, 0, 0}, {0, h, 0}, {0, 0, h}}
	for i, axis := range axes {
		c.pushLine(center.Sub(axis), center.Add(axis), axisColors[i], depthEnabled)
	}
}

// Circle queues a circle of radius around center in the plane orthogonal to normal.
//
// Parameters:
//   - center: circle center
//   - normal: plane normal
//   - color: RGB color
//   - radius: circle radius
//   - steps: number of segments, at least 3
//   - depthEnabled: whether the circle is depth tested
func (c *Context) Circle(center, normal, color mgl32.Vec3, radius float32, steps int, depthEnabled bool) {
	steps = max(steps, 3)
	if normal.Len() == 0 {
		normal = mgl32.Vec3{0, 1, 0}
	}
	right, up := orthonormalBasis(normal.Normalize())

	prev := center.Add(right.Mul(radius))
	for i := 1; i <= steps; i++ {
		s, co := math32.Sincos(float32(i) * 2 * math32.Pi / float32(steps))
		p := center.Add(right.Mul(co * radius)).Add(up.Mul(s * radius))
		c.pushLine(prev, p, color, depthEnabled)
		prev = p
	}
}

// Sphere queues a wireframe sphere made of parallels and meridians every 15 degrees.
//
// Parameters:
//   - center: sphere center
//   - color: RGB color
//   - radius: sphere radius
//   - depthEnabled: whether the sphere is depth tested
func (c *Context) Sphere(center, color mgl32.Vec3, radius float32, depthEnabled bool) {
	const step = 15
	const slices = 360 / step

	point := func(lat, lon int) mgl32.Vec3 {
		sLat, cLat := math32.Sincos(mgl32.DegToRad(float32(lat)))
		sLon, cLon := math32.Sincos(mgl32.DegToRad(float32(lon)))
		return center.Add(mgl32.Vec3{cLat * cLon, sLat, cLat * sLon}.Mul(radius))
	}

	for lat := -90 + step; lat < 90; lat += step {
		for i := 0; i < slices; i++ {
			c.pushLine(point(lat, i*step), point(lat, (i+1)*step), color, depthEnabled)
		}
	}
	for i := 0; i < slices; i++ {
		for lat := -90; lat < 90; lat += step {
			c.pushLine(point(lat, i*step), point(lat+step, i*step), color, depthEnabled)
		}
	}
}

// Box queues the twelve edges of a box given its corners. Corners 0-3 are one face and
// 4-7 the opposite face, in matching winding order.
//
// Parameters:
//   - corners: the eight box corners
//   - color: RGB color
//   - depthEnabled: whether the box is depth tested
func (c *Context) Box(corners [8]mgl32.Vec3, color mgl32.Vec3, depthEnabled bool) {
	for i := 0; i < 4; i++ {
		c.pushLine(corners[i], corners[(i+1)%4], color, depthEnabled)
		c.pushLine(corners[4+i], corners[4+(i+1)%4], color, depthEnabled)
		c.pushLine(corners[i], corners[4+i], color, depthEnabled)
	}
}

// AABB queues an axis-aligned bounding box.
//
// Parameters:
//   - mins: minimum corner
//   - maxs: maximum corner
//   - color: RGB color
//   - depthEnabled: whether the box is depth tested
func (c *Context) AABB(mins, maxs, color mgl32.Vec3, depthEnabled bool) {
	c.Box([8]mgl32.Vec3{
		{mins.X(), mins.Y(), mins.Z()},
		{maxs.X(), mins.Y(), mins.Z()},
		{maxs.X(), maxs.Y(), mins.Z()},
		{mins.X(), maxs.Y(), mins.Z()},
		{mins.X(), mins.Y(), maxs.Z()},
		{maxs.X(), mins.Y(), maxs.Z()},
		{maxs.X(), maxs.Y(), maxs.Z()},
		{mins.X(), maxs.Y(), maxs.Z()},
	}, color, depthEnabled)
}

// Frustum queues the edges of the frustum described by an inverse view-projection matrix.
// The matrix must map OpenGL normalized device coordinates back to world space.
//
// Parameters:
//   - invClip: inverse of the view-projection matrix
//   - color: RGB color
//   - depthEnabled: whether the frustum is depth tested
func (c *Context) Frustum(invClip mgl32.Mat4, color mgl32.Vec3, depthEnabled bool) {
	ndc := [8]mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	var corners [8]mgl32.Vec3
	for i, p := range ndc {
		corners[i] = mgl32.TransformCoordinate(p, invClip)
	}
	c.Box(corners, color, depthEnabled)
}

// AxisTriad queues red, green and blue arrows along the X, Y and Z axes of transform.
//
// Parameters:
//   - transform: the frame to draw, typically a model matrix
//   - headSize: arrow head length
//   - length: arrow length
//   - depthEnabled: whether the triad is depth tested
func (c *Context) AxisTriad(transform mgl32.Mat4, headSize, length float32, depthEnabled bool) {
	origin := transform.Col(3).Vec3()
	for i := 0; i < 3; i++ {
		axis := transform.Col(i).Vec3()
		if axis.Len() == 0 {
			continue
		}
		c.Arrow(origin, origin.Add(axis.Normalize().Mul(length)), axisColors[i], headSize, depthEnabled)
	}
}

// Grid queues a square grid on the XZ plane at height y.
//
// Parameters:
//   - mins: lower grid bound on both X and Z
//   - maxs: upper grid bound on both X and Z
//   - y: grid height
//   - step: distance between grid lines, must be positive
//   - color: RGB color
//   - depthEnabled: whether the grid is depth tested
func (c *Context) Grid(mins, maxs, y, step float32, color mgl32.Vec3, depthEnabled bool) {
	if step <= 0 || maxs < mins {
		return
	}
	// Line positions come from an integer count so float32 error cannot drop the last line.
	n := int(math32.Floor((maxs-mins)/step + 1e-4))
	for k := 0; k <= n; k++ {
		i := mins + float32(k)*step
		c.pushLine(mgl32.Vec3{i, y, mins}, mgl32.Vec3{i, y, maxs}, color, depthEnabled)
		c.pushLine(mgl32.Vec3{mins, y, i}, mgl32.Vec3{maxs, y, i}, color, depthEnabled)
	}
}

// ScreenText queues text at a screen position.
//
// Parameters:
//   - text: the text; '\n' starts a new line
//   - pos: top-left corner in pixels from the top-left of the viewport
//   - color: RGB color
//   - scale: glyph scale, 1 is the native 7x13 size
func (c *Context) ScreenText(text string, pos mgl32.Vec2, color mgl32.Vec3, scale float32) {
	if c.glyph == 0 {
		return
	}
	advance := c.atlas.advance() * scale
	cellW := float32(c.atlas.cellWidth) * scale
	cellH := float32(c.atlas.cellHeight) * scale

	x, y := pos.X(), pos.Y()
	for _, r := range text {
		switch r {
		case '\n':
			x = pos.X()
			y += cellH
			continue
		case ' ':
			x += advance
			continue
		}
		c.pushGlyphQuad(x, y, x+cellW, y+cellH, c.atlas.lookup(r), color)
		x += advance
	}
}

// ProjectedText queues text centered on the screen projection of a world position.
// Text behind the camera or outside the depth range is dropped.
//
// Parameters:
//   - text: the text
//   - pos: world position
//   - color: RGB color
//   - viewProj: OpenGL convention view-projection matrix
//   - viewport: x, y, width and height of the viewport in pixels
//   - scale: glyph scale
func (c *Context) ProjectedText(text string, pos, color mgl32.Vec3, viewProj mgl32.Mat4, viewport [4]int, scale float32) {
	clip := viewProj.Mul4x1(pos.Vec4(1))
	if clip.W() <= 0 {
		return
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return
	}

	sx := float32(viewport[0]) + (ndc.X()*0.5+0.5)*float32(viewport[2])
	sy := float32(viewport[1]) + (0.5-ndc.Y()*0.5)*float32(viewport[3])

	w, h := c.atlas.measure(text)
	c.ScreenText(text, mgl32.Vec2{sx - w*scale*0.5, sy - h*scale*0.5}, color, scale)
}

var axisColors = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// orthonormalBasis returns two unit vectors orthogonal to the unit vector n and to each other.
func orthonormalBasis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	ref := mgl32.Vec3{0, 1, 0}
	if math32.Abs(n.Dot(ref)) > 0.99 {
		ref = mgl32.Vec3{1, 0, 0}
	}
	right := n.Cross(ref).Normalize()
	return right, right.Cross(n)
}
