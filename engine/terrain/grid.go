package terrain

import "fmt"

// Grid is a flat patch of vertices in grid coordinates (column, row) with triangle indices.
type Grid struct {
	Columns, Rows int
	Vertices      [][2]float32
	Indices       []uint32
}

// GridMesh builds a resolution x resolution patch of vertices and the two triangles of
// every cell, (id, id+dy, id+dy+1) and (id, id+dy+1, id+1).
// Panics if resolution is below 2.
//
// Parameters:
//   - resolution: vertices per side
//
// Returns:
//   - Grid: the patch
func GridMesh(resolution int) Grid {
	if resolution < 2 {
		panic(fmt.Sprintf("terrain: grid resolution must be at least 2, got %d", resolution))
	}
	return patch(resolution, resolution)
}

// ClipmapBlock builds the m x m block of a geometry clipmap with n vertices per level side,
// where m = (n+1)/4. Panics if n is too small for a block of at least 2x2 vertices.
//
// ClipmapBlock and ClipmapRingFixup are standalone helpers for callers assembling clipmap
// rings themselves. TerrainRenderer draws a single GridMesh and uses neither.
//
// Parameters:
//   - n: vertices per clipmap level side, usually 2^k - 1
//
// Returns:
//   - Grid: the block
func ClipmapBlock(n int) Grid {
	m := (n + 1) / 4
	if m < 2 {
		panic(fmt.Sprintf("terrain: clipmap size %d gives a block smaller than 2x2", n))
	}
	return patch(m, m)
}

// ClipmapRingFixup builds the 3 x m strip that fills the gap between the blocks of a
// clipmap ring. Helper only, see ClipmapBlock.
//
// Parameters:
//   - n: vertices per clipmap level side
//
// Returns:
//   - Grid: the fix-up strip
func ClipmapRingFixup(n int) Grid {
	m := (n + 1) / 4
	if m < 2 {
		panic(fmt.Sprintf("terrain: clipmap size %d gives a block smaller than 2x2", n))
	}
	return patch(3, m)
}

func patch(cols, rows int) Grid {
	g := Grid{
		Columns:  cols,
		Rows:     rows,
		Vertices: make([][2]float32, 0, cols*rows),
		Indices:  make([]uint32, 0, (cols-1)*(rows-1)*6),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			g.Vertices = append(g.Vertices, [2]float32{float32(col), float32(row)})
		}
	}
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			id := uint32(row*cols + col)
			dy := uint32((row+1)*cols + col)
			g.Indices = append(g.Indices, id, dy, dy+1, id, dy+1, id+1)
		}
	}
	return g
}

// WireframeIndices turns a triangle list into a line list with the three edges of every
// triangle. Trailing indices that do not form a triangle are dropped.
//
// Parameters:
//   - triangles: triangle list indices
//
// Returns:
//   - []uint32: line list indices, twice as many as full triangle indices
func WireframeIndices(triangles []uint32) []uint32 {
	n := len(triangles) / 3
	lines := make([]uint32, 0, n*6)
	for i := 0; i < n; i++ {
		a, b, c := triangles[3*i], triangles[3*i+1], triangles[3*i+2]
		lines = append(lines, a, b, b, c, c, a)
	}
	return lines
}
