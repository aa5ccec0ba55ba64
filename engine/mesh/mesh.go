package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// NormalVertex is a position with a surface normal. Size: 24 bytes.
type NormalVertex struct {
	Position [3]float32
	Normal   [3]float32
}

// ColorVertex is a 2D position with an RGB color. Size: 20 bytes.
type ColorVertex struct {
	Position [2]float32
	Color    [3]float32
}

// Mesh is CPU-side indexed or non-indexed geometry.
type Mesh[V any] struct {
	Vertices []V
	Indices  []uint32
}

// Upload copies the mesh into GPU vertex and index buffers owned by a new provider.
//
// Parameters:
//   - r: the renderer that creates the buffers
//   - label: debug label for the buffers
//   - m: the mesh
//
// Returns:
//   - bind_group_provider.BindGroupProvider: the provider holding the buffers
//   - error: an error if a buffer could not be created
func Upload[V any](r renderer.Renderer, label string, m Mesh[V]) (bind_group_provider.BindGroupProvider, error) {
	provider := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithVertexCount(len(m.Vertices)))
	if err := r.InitMeshBuffers(provider, common.SliceToBytes(m.Vertices), common.SliceToBytes(m.Indices), len(m.Indices)); err != nil {
		return nil, fmt.Errorf("upload mesh %q: %w", label, err)
	}
	return provider, nil
}

// cubeFace is one side of the unit cube: the outward normal and two in-plane axes with
// u x v = normal, so the quad winds counter-clockwise seen from outside.
type cubeFace struct {
	normal, u, v mgl32.Vec3
}

var cubeFaces = [6]cubeFace{
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
}

// Cube returns a solid cube spanning [-1, 1] on every axis with flat per-face normals:
// 24 vertices and 36 indices.
func Cube() Mesh[NormalVertex] {
	m := Mesh[NormalVertex]{
		Vertices: make([]NormalVertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range cubeFaces {
		base := uint32(len(m.Vertices))
		corners := [4]mgl32.Vec3{
			f.normal.Sub(f.u).Sub(f.v),
			f.normal.Add(f.u).Sub(f.v),
			f.normal.Add(f.u).Add(f.v),
			f.normal.Sub(f.u).Add(f.v),
		}
		for _, c := range corners {
			m.Vertices = append(m.Vertices, NormalVertex{Position: c, Normal: f.normal})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Triangle returns the non-indexed red, green and blue triangle in normalized device
// coordinates.
func Triangle() Mesh[ColorVertex] {
	return Mesh[ColorVertex]{
		Vertices: []ColorVertex{
			{Position: [2]float32{-0.5, -0.5}, Color: [3]float32{1, 0, 0}},
			{Position: [2]float32{0.5, -0.5}, Color: [3]float32{0, 1, 0}},
			{Position: [2]float32{0, 0.5}, Color: [3]float32{0, 0, 1}},
		},
	}
}
