package mesh

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed assets/phong.wgsl
	phongSource string
	//go:embed assets/vertex_color.wgsl
	vertexColorSource string
)

const (
	phongPipelineKey       = "mesh.phong"
	vertexColorPipelineKey = "mesh.vertexcolor"
)

// PhongParams describes one lit draw. Lighting is computed in view space.
type PhongParams struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4

	// LightPosition is in view space.
	LightPosition mgl32.Vec3
	LightColor    mgl32.Vec3
	Diffuse       mgl32.Vec3
	Ambient       mgl32.Vec3
	Specular      mgl32.Vec3
	Shininess     float32
}

// phongUniforms matches PhongUniforms in assets/phong.wgsl.
// Size: 272 bytes.
type phongUniforms struct {
	Transformation [16]float32 // offset   0: view * model
	Projection     [16]float32 // offset  64: WebGPU clip space
	NormalMatrix   [16]float32 // offset 128
	LightPosition  [3]float32  // offset 192
	Shininess      float32     // offset 204
	LightColor     [3]float32  // offset 208
	_              float32
	Diffuse        [3]float32 // offset 224
	_              float32
	Ambient        [3]float32 // offset 240
	_              float32
	Specular       [3]float32 // offset 256
	_              float32
}

// PhongDrawer draws a mesh with normals using Phong lighting and one point light.
type PhongDrawer interface {
	// Draw records the mesh into the current renderer frame.
	//
	// Parameters:
	//   - params: transforms, light and material colors
	//
	// Returns:
	//   - error: an error if the draw could not be recorded
	Draw(params PhongParams) error

	// Release frees the mesh and uniform buffers.
	Release()
}

// phongDrawer is the implementation of the PhongDrawer interface.
type phongDrawer struct {
	renderer renderer.Renderer
	mesh     bind_group_provider.BindGroupProvider
	uniforms bind_group_provider.BindGroupProvider
}

var _ PhongDrawer = &phongDrawer{}

// NewPhongDrawer uploads m and registers the Phong pipeline if it is not registered yet.
//
// Parameters:
//   - r: the renderer to draw with
//   - m: the mesh, indexed triangles with normals
//
// Returns:
//   - PhongDrawer: the drawer
//   - error: an error if the pipeline or a buffer could not be created
func NewPhongDrawer(r renderer.Renderer, m Mesh[NormalVertex]) (PhongDrawer, error) {
	p := pipeline.NewPipeline(phongPipelineKey,
		pipeline.WithVertexShader(shader.NewShader(phongPipelineKey+".vs", shader.ShaderTypeVertex, shader.WithSource(phongSource))),
		pipeline.WithFragmentShader(shader.NewShader(phongPipelineKey+".fs", shader.ShaderTypeFragment, shader.WithSource(phongSource))),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}

	d := &phongDrawer{
		renderer: r,
		uniforms: bind_group_provider.NewBindGroupProvider("Phong Uniforms"),
	}
	if err := r.InitBindGroup(d.uniforms, r.Pipeline(phongPipelineKey).BindGroupLayoutDescriptors()[0], nil, nil); err != nil {
		return nil, fmt.Errorf("phong uniforms: %w", err)
	}
	mesh, err := Upload(r, "Phong Mesh", m)
	if err != nil {
		d.uniforms.Release()
		return nil, err
	}
	d.mesh = mesh
	return d, nil
}

func (d *phongDrawer) Draw(params PhongParams) error {
	u := newPhongUniforms(params)
	d.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: d.uniforms,
		Binding:  0,
		Data:     common.StructToBytes(&u),
	}})
	return d.renderer.DrawCall(phongPipelineKey, d.mesh, 1, []bind_group_provider.BindGroupProvider{d.uniforms})
}

func newPhongUniforms(params PhongParams) phongUniforms {
	transformation := params.View.Mul4(params.Model)
	return phongUniforms{
		Transformation: transformation,
		Projection:     common.ToWebGPUClip(params.Projection),
		NormalMatrix:   common.NormalMatrix(transformation),
		LightPosition:  params.LightPosition,
		Shininess:      common.Coalesce(params.Shininess, 80),
		LightColor:     params.LightColor,
		Diffuse:        params.Diffuse,
		Ambient:        params.Ambient,
		Specular:       params.Specular,
	}
}

func (d *phongDrawer) Release() {
	d.uniforms.Release()
	d.mesh.Release()
}

// VertexColorDrawer draws 2D vertex-colored geometry straight in normalized device
// coordinates.
type VertexColorDrawer interface {
	// Draw records the mesh into the current renderer frame.
	//
	// Returns:
	//   - error: an error if the draw could not be recorded
	Draw() error

	// Release frees the mesh buffers.
	Release()
}

// vertexColorDrawer is the implementation of the VertexColorDrawer interface.
type vertexColorDrawer struct {
	renderer renderer.Renderer
	mesh     bind_group_provider.BindGroupProvider
}

var _ VertexColorDrawer = &vertexColorDrawer{}

// NewVertexColorDrawer uploads m and registers the vertex color pipeline.
//
// Parameters:
//   - r: the renderer to draw with
//   - m: the mesh
//
// Returns:
//   - VertexColorDrawer: the drawer
//   - error: an error if the pipeline or a buffer could not be created
func NewVertexColorDrawer(r renderer.Renderer, m Mesh[ColorVertex]) (VertexColorDrawer, error) {
	p := pipeline.NewPipeline(vertexColorPipelineKey,
		pipeline.WithVertexShader(shader.NewShader(vertexColorPipelineKey+".vs", shader.ShaderTypeVertex, shader.WithSource(vertexColorSource))),
		pipeline.WithFragmentShader(shader.NewShader(vertexColorPipelineKey+".fs", shader.ShaderTypeFragment, shader.WithSource(vertexColorSource))),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}
	mesh, err := Upload(r, "Vertex Color Mesh", m)
	if err != nil {
		return nil, err
	}
	return &vertexColorDrawer{renderer: r, mesh: mesh}, nil
}

func (d *vertexColorDrawer) Draw() error {
	return d.renderer.DrawCall(vertexColorPipelineKey, d.mesh, 1, nil)
}

func (d *vertexColorDrawer) Release() {
	d.mesh.Release()
}
