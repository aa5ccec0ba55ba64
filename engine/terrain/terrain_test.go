package terrain

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHeightmapDeterministic(t *testing.T) {
	a, err := GenerateHeightmap(WithSize(64), WithSeed(7), WithWorkers(1))
	require.NoError(t, err)
	b, err := GenerateHeightmap(WithSize(64), WithSeed(7), WithWorkers(5))
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
}

func TestGenerateHeightmapReusesWorkers(t *testing.T) {
	_, err := GenerateHeightmap(WithSize(32), WithWorkers(4))
	require.NoError(t, err)
	before := runtime.NumGoroutine()

	for range 5 {
		_, err := GenerateHeightmap(WithSize(32), WithWorkers(4))
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, runtime.NumGoroutine(), before)
}

func TestGenerateHeightmapRange(t *testing.T) {
	h, err := GenerateHeightmap(WithSize(128), WithFrequency(0.05))
	require.NoError(t, err)
	require.Len(t, h.Data, 128*128)

	lo, hi := h.Data[0], h.Data[0]
	for _, v := range h.Data {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
		lo, hi = min(lo, v), max(hi, v)
	}
	assert.Greater(t, hi-lo, float32(0.1), "noise should vary across the map")
}

func TestGenerateHeightmapSeedsDiffer(t *testing.T) {
	a, err := GenerateHeightmap(WithSize(32), WithSeed(1), WithFrequency(0.1))
	require.NoError(t, err)
	b, err := GenerateHeightmap(WithSize(32), WithSeed(2), WithFrequency(0.1))
	require.NoError(t, err)

	assert.NotEqual(t, a.Data, b.Data)
}

func TestGenerateHeightmapInvalidOptions(t *testing.T) {
	_, err := GenerateHeightmap(WithSize(0))
	assert.Error(t, err)

	_, err = GenerateHeightmap(WithFractal(0, 2, 0.5))
	assert.Error(t, err)
}

func TestFBMBoundingNormalizesAmplitudes(t *testing.T) {
	cfg := defaultHeightmapConfig()
	f := newFBM(cfg)

	// 1 + 0.6 + 0.36 + 0.216 + 0.1296
	assert.InDelta(t, 1/2.3056, f.bounding, 1e-6)
	assert.Len(t, f.octaves, 5)
}

func TestMipChain(t *testing.T) {
	h := &Heightmap{Size: 4, Data: []float32{
		1, 1, 0, 0,
		1, 1, 0, 0,
		-1, -1, 0.5, 0.5,
		-1, -1, 0.5, 0.5,
	}}

	levels := MipChain(h)
	require.Len(t, levels, 3)
	assert.Equal(t, []float32{1, 0, -1, 0.5}, levels[1])
	assert.InDelta(t, 0.125, levels[2][0], 1e-6)

	bytes := MipLevelBytes(levels)
	require.Len(t, bytes, 2)
	assert.Len(t, bytes[0], 16)
	assert.Len(t, bytes[1], 4)
}

func TestMipChainLevelCount(t *testing.T) {
	h := &Heightmap{Size: 512, Data: make([]float32, 512*512)}
	assert.Len(t, MipChain(h), 10)
}

func TestHeightmapRGBA(t *testing.T) {
	h := &Heightmap{Size: 2, Data: []float32{-1, 0, 1, 2}}
	img := h.RGBA()

	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(127), img.RGBAAt(1, 0).G)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 1).B)
	assert.Equal(t, uint8(255), img.RGBAAt(1, 1).R)
	assert.Equal(t, uint8(255), img.RGBAAt(1, 1).A)
	assert.Len(t, h.Bytes(), 16)
}

func TestGridMesh(t *testing.T) {
	g := GridMesh(255)
	assert.Len(t, g.Vertices, 255*255)
	assert.Len(t, g.Indices, 254*254*6)
	assert.Equal(t, []uint32{0, 255, 256, 0, 256, 1}, g.Indices[:6])
	assert.Equal(t, [2]float32{3, 1}, g.Vertices[255+3])
}

func TestGridMeshTooSmall(t *testing.T) {
	assert.PanicsWithValue(t, "terrain: grid resolution must be at least 2, got 1", func() {
		GridMesh(1)
	})
}

func TestClipmapBlocks(t *testing.T) {
	block := ClipmapBlock(255)
	assert.Equal(t, 64, block.Columns)
	assert.Len(t, block.Vertices, 64*64)
	assert.Len(t, block.Indices, 63*63*6)

	fixup := ClipmapRingFixup(255)
	assert.Equal(t, 3, fixup.Columns)
	assert.Equal(t, 64, fixup.Rows)
	assert.Len(t, fixup.Vertices, 3*64)
	assert.Len(t, fixup.Indices, 2*63*6)
	assert.Equal(t, []uint32{0, 3, 4, 0, 4, 1}, fixup.Indices[:6])

	assert.Panics(t, func() { ClipmapBlock(5) })
}

func TestWireframeIndices(t *testing.T) {
	lines := WireframeIndices([]uint32{0, 1, 2, 2, 1, 3, 9})
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 0, 2, 1, 1, 3, 3, 2}, lines)
}

func TestGPUUniformsLayout(t *testing.T) {
	assert.Equal(t, uintptr(80), unsafe.Sizeof(gpuUniforms{}))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(gpuUniforms{}.GridRez))
}

type drawRecord struct {
	key        string
	bindGroups int
}

type fakeRenderer struct {
	renderer.Renderer

	pipelines  map[string]pipeline.Pipeline
	texture    common.TextureStagingData
	indexCount int
	writes     map[int][]byte
	draws      []drawRecord
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

func (f *fakeRenderer) InitTextureView(_ bind_group_provider.BindGroupProvider, _ int, data common.TextureStagingData) error {
	f.texture = data
	return nil
}

func (f *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (f *fakeRenderer) InitMeshBuffers(_ bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	f.indexCount = indexCount
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	if f.writes == nil {
		f.writes = make(map[int][]byte)
	}
	for _, w := range writes {
		f.writes[w.Binding] = w.Data
	}
}

func (f *fakeRenderer) DrawCall(key string, _ bind_group_provider.BindGroupProvider, _ uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawRecord{key: key, bindGroups: len(bindGroups)})
	return nil
}

func TestTerrainRendererWireframe(t *testing.T) {
	r := &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
	h := &Heightmap{Size: 8, Data: make([]float32, 64)}

	tr, err := NewTerrainRenderer(r, h, WithGridResolution(5), WithHeightBoost(4))
	require.NoError(t, err)

	assert.Contains(t, r.pipelines, "terrain.wireframe")
	assert.Equal(t, wgpu.TextureFormatR32Float, r.texture.Format)
	assert.Len(t, r.texture.MipLevels, 3)
	assert.Equal(t, 4*4*6*2, r.indexCount)

	cam := camera.GPUCameraUniform{ViewProj: mgl32.Ident4(), CameraPosition: [3]float32{0, 5, 10}}
	require.NoError(t, tr.Draw(cam))
	require.Len(t, r.draws, 1)
	assert.Equal(t, drawRecord{key: "terrain.wireframe", bindGroups: 1}, r.draws[0])
	require.Len(t, r.writes, 2)
	assert.Len(t, r.writes[uniformsBinding], 80)
	assert.Equal(t, cam.Marshal(), r.writes[cameraBinding])
}

func TestTerrainPipelineBindsCameraUniform(t *testing.T) {
	r := &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
	h := &Heightmap{Size: 4, Data: make([]float32, 16)}

	_, err := NewTerrainRenderer(r, h, WithGridResolution(3))
	require.NoError(t, err)

	layout := r.pipelines["terrain.wireframe"].BindGroupLayoutDescriptors()[0]
	entries := make(map[uint32]wgpu.BindGroupLayoutEntry)
	for _, e := range layout.Entries {
		entries[e.Binding] = e
	}
	require.Contains(t, entries, uint32(cameraBinding))
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[cameraBinding].Buffer.Type)
	assert.Equal(t, uint64(80), entries[cameraBinding].Buffer.MinBindingSize)
	assert.Equal(t, uint64(80), entries[uniformsBinding].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, entries[elevationBinding].Texture.SampleType)
}

func TestTerrainRendererSolid(t *testing.T) {
	r := &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
	h := &Heightmap{Size: 4, Data: make([]float32, 16)}

	_, err := NewTerrainRenderer(r, h, WithGridResolution(3), WithWireframe(false), WithStepSize(2))
	require.NoError(t, err)

	assert.Contains(t, r.pipelines, "terrain.solid")
	assert.Equal(t, 2*2*6, r.indexCount)
}
