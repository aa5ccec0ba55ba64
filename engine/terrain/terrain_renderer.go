package terrain

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed assets/terrain.wgsl
var terrainSource string

// Bindings of group 0 in assets/terrain.wgsl.
const (
	uniformsBinding  = 0
	elevationBinding = 1
	cameraBinding    = 2
)

// gpuUniforms matches TerrainUniforms in assets/terrain.wgsl. The camera lives in its own
// CameraUniform buffer at cameraBinding.
// Size: 80 bytes.
type gpuUniforms struct {
	Model       [16]float32 // offset  0
	GridRez     uint32      // offset 64
	StepSize    float32     // offset 68
	HeightBoost float32     // offset 72
	MapSize     uint32      // offset 76
}

// TerrainRenderer draws a heightmap-displaced grid.
type TerrainRenderer interface {
	// SetModel sets the model matrix applied to the grid.
	//
	// Parameters:
	//   - model: the model matrix
	SetModel(model mgl32.Mat4)

	// Draw records the grid into the current renderer frame.
	//
	// Parameters:
	//   - cam: the camera uniform, see camera.NewGPUCameraUniform
	//
	// Returns:
	//   - error: an error if the draw could not be recorded
	Draw(cam camera.GPUCameraUniform) error

	// Release frees the GPU resources.
	Release()
}

// terrainRenderer is the implementation of the TerrainRenderer interface.
type terrainRenderer struct {
	renderer renderer.Renderer
	key      string

	uniforms bind_group_provider.BindGroupProvider
	mesh     bind_group_provider.BindGroupProvider

	model       mgl32.Mat4
	resolution  int
	stepSize    float32
	heightBoost float32
	mapSize     int
	wireframe   bool
}

var _ TerrainRenderer = &terrainRenderer{}

// NewTerrainRenderer uploads the heightmap with its mip chain as an R32Float texture,
// builds the grid mesh and registers the terrain pipeline.
//
// Parameters:
//   - r: the renderer to draw with
//   - h: the heightmap
//   - options: functional options
//
// Returns:
//   - TerrainRenderer: the terrain renderer
//   - error: an error if a GPU resource could not be created
func NewTerrainRenderer(r renderer.Renderer, h *Heightmap, options ...TerrainRendererBuilderOption) (TerrainRenderer, error) {
	t := &terrainRenderer{
		renderer:    r,
		model:       mgl32.Ident4(),
		resolution:  255,
		stepSize:    1,
		heightBoost: 10,
		mapSize:     h.Size,
		wireframe:   true,
	}
	for _, opt := range options {
		opt(t)
	}

	grid := GridMesh(t.resolution)
	indices := grid.Indices
	topology := wgpu.PrimitiveTopologyTriangleList
	t.key = "terrain.solid"
	if t.wireframe {
		indices = WireframeIndices(indices)
		topology = wgpu.PrimitiveTopologyLineList
		t.key = "terrain.wireframe"
	}

	p := pipeline.NewPipeline(t.key,
		pipeline.WithVertexShader(shader.NewShader(t.key+".vs", shader.ShaderTypeVertex,
			shader.WithSource(terrainSource),
			shader.WithInclude("camera_uniform", camera.GPUCameraUniformSource),
			shader.WithTextureSampleType(0, elevationBinding, wgpu.TextureSampleTypeUnfilterableFloat),
		)),
		pipeline.WithFragmentShader(shader.NewShader(t.key+".fs", shader.ShaderTypeFragment,
			shader.WithSource(terrainSource),
			shader.WithInclude("camera_uniform", camera.GPUCameraUniformSource),
		)),
		pipeline.WithTopology(topology),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}

	t.uniforms = bind_group_provider.NewBindGroupProvider("Terrain Uniforms")
	levels := MipChain(h)
	err := r.InitTextureView(t.uniforms, elevationBinding, common.TextureStagingData{
		Pixels:        h.Bytes(),
		Width:         uint32(h.Size),
		Height:        uint32(h.Size),
		Format:        wgpu.TextureFormatR32Float,
		BytesPerPixel: 4,
		MipLevels:     MipLevelBytes(levels),
	})
	if err != nil {
		return nil, fmt.Errorf("terrain elevation texture: %w", err)
	}
	if err := r.InitBindGroup(t.uniforms, r.Pipeline(t.key).BindGroupLayoutDescriptors()[0], nil, nil); err != nil {
		t.uniforms.Release()
		return nil, fmt.Errorf("terrain uniforms: %w", err)
	}

	t.mesh = bind_group_provider.NewBindGroupProvider("Terrain Grid")
	if err := r.InitMeshBuffers(t.mesh, common.SliceToBytes(grid.Vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		t.uniforms.Release()
		return nil, fmt.Errorf("terrain grid: %w", err)
	}
	return t, nil
}

func (t *terrainRenderer) SetModel(model mgl32.Mat4) {
	t.model = model
}

func (t *terrainRenderer) Draw(cam camera.GPUCameraUniform) error {
	u := gpuUniforms{
		Model:       t.model,
		GridRez:     uint32(t.resolution),
		StepSize:    t.stepSize,
		HeightBoost: t.heightBoost,
		MapSize:     uint32(t.mapSize),
	}
	t.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: t.uniforms, Binding: uniformsBinding, Data: common.StructToBytes(&u)},
		{Provider: t.uniforms, Binding: cameraBinding, Data: cam.Marshal()},
	})
	return t.renderer.DrawCall(t.key, t.mesh, 1, []bind_group_provider.BindGroupProvider{t.uniforms})
}

func (t *terrainRenderer) Release() {
	t.uniforms.Release()
	t.mesh.Release()
}
