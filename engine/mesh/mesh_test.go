package mesh

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeGeometry(t *testing.T) {
	cube := Cube()
	require.Len(t, cube.Vertices, 24)
	require.Len(t, cube.Indices, 36)

	for _, v := range cube.Vertices {
		p := mgl32.Vec3(v.Position)
		n := mgl32.Vec3(v.Normal)
		assert.InDelta(t, 1, n.Len(), 1e-6)
		assert.InDelta(t, 1, p.Dot(n), 1e-6, "vertex must lie on its face")
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 1, abs(p[i]), 1e-6)
		}
	}
}

func TestCubeWindsOutward(t *testing.T) {
	cube := Cube()
	for i := 0; i < len(cube.Indices); i += 3 {
		a := mgl32.Vec3(cube.Vertices[cube.Indices[i]].Position)
		b := mgl32.Vec3(cube.Vertices[cube.Indices[i+1]].Position)
		c := mgl32.Vec3(cube.Vertices[cube.Indices[i+2]].Position)
		n := mgl32.Vec3(cube.Vertices[cube.Indices[i]].Normal)

		face := b.Sub(a).Cross(c.Sub(a))
		assert.Positive(t, face.Dot(n), "triangle %d winds clockwise", i/3)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestTriangle(t *testing.T) {
	tri := Triangle()
	require.Len(t, tri.Vertices, 3)
	assert.Empty(t, tri.Indices)
	assert.Equal(t, [3]float32{1, 0, 0}, tri.Vertices[0].Color)
	assert.Equal(t, [3]float32{0, 1, 0}, tri.Vertices[1].Color)
	assert.Equal(t, [3]float32{0, 0, 1}, tri.Vertices[2].Color)
}

func TestVertexSizes(t *testing.T) {
	assert.Equal(t, uintptr(24), unsafe.Sizeof(NormalVertex{}))
	assert.Equal(t, uintptr(20), unsafe.Sizeof(ColorVertex{}))
	assert.Equal(t, uintptr(272), unsafe.Sizeof(phongUniforms{}))
}

func TestPhongUniforms(t *testing.T) {
	view := mgl32.Translate3D(0, 0, -10)
	model := mgl32.Translate3D(1, 2, 3)
	u := newPhongUniforms(PhongParams{
		Model:         model,
		View:          view,
		Projection:    mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100),
		LightPosition: mgl32.Vec3{0, 5, 8},
	})

	assert.Equal(t, [16]float32(view.Mul4(model)), u.Transformation)
	assert.Equal(t, [3]float32{0, 5, 8}, u.LightPosition)
	assert.Equal(t, float32(80), u.Shininess)
}

type fakeRenderer struct {
	renderer.Renderer

	pipelines map[string]pipeline.Pipeline
	uploads   []int
	uploadErr error
	draws     []string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline {
	return f.pipelines[key]
}

func (f *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (f *fakeRenderer) InitMeshBuffers(_ bind_group_provider.BindGroupProvider, vertexData, _ []byte, _ int) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, len(vertexData))
	return nil
}

func (f *fakeRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (f *fakeRenderer) DrawCall(key string, _ bind_group_provider.BindGroupProvider, _ uint32, _ []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, key)
	return nil
}

func TestDrawers(t *testing.T) {
	r := newFakeRenderer()

	phong, err := NewPhongDrawer(r, Cube())
	require.NoError(t, err)
	colored, err := NewVertexColorDrawer(r, Triangle())
	require.NoError(t, err)

	require.NoError(t, phong.Draw(PhongParams{Model: mgl32.Ident4(), View: mgl32.Ident4(), Projection: mgl32.Ident4()}))
	require.NoError(t, colored.Draw())

	assert.Equal(t, []int{24 * 24, 3 * 20}, r.uploads)
	assert.Equal(t, []string{phongPipelineKey, vertexColorPipelineKey}, r.draws)
}

func TestUploadWrapsError(t *testing.T) {
	r := newFakeRenderer()
	r.uploadErr = errors.New("device lost")

	_, err := Upload(r, "broken", Triangle())
	require.Error(t, err)
	assert.ErrorIs(t, err, r.uploadErr)
	assert.Contains(t, err.Error(), `"broken"`)
}
