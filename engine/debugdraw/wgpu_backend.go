package debugdraw

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed assets/debug_draw_uniforms.wgsl
	uniformsSource string
	//go:embed assets/debug_draw_points.wgsl
	pointsSource string
	//go:embed assets/debug_draw_lines.wgsl
	linesSource string
	//go:embed assets/debug_draw_glyphs.wgsl
	glyphsSource string
)

const (
	glyphPipelineKey = "debugdraw.glyphs"

	// defaultRingVertices is the per-frame vertex capacity of each ring buffer.
	defaultRingVertices = VertexBufferSize * 16
)

// gpuUniforms matches DebugDrawUniforms in assets/debug_draw_uniforms.wgsl.
// Size: 80 bytes.
type gpuUniforms struct {
	MVP      [16]float32 // offset  0: WebGPU clip space
	Viewport [2]float32  // offset 64
	_        [2]float32  // offset 72
}

// vertexRing hands out disjoint regions of a vertex buffer within one frame. Queue writes
// all land before the frame is submitted, so reusing a region inside a frame would
// overwrite vertices an earlier draw still reads.
type vertexRing struct {
	name     string
	provider bind_group_provider.BindGroupProvider
	capacity uint32
	offset   uint32
}

// reserve returns the first vertex of a region of count vertices.
// Panics when the frame has used up the ring.
func (r *vertexRing) reserve(count uint32) uint32 {
	if r.offset+count > r.capacity {
		panic(fmt.Sprintf("debugdraw: %s ring buffer overrun (%d + %d > %d vertices)", r.name, r.offset, count, r.capacity))
	}
	first := r.offset
	r.offset += count
	return first
}

// wgpuBackend implements Backend on top of the engine renderer.
type wgpuBackend struct {
	renderer renderer.Renderer

	uniforms    bind_group_provider.BindGroupProvider
	pointLines  *vertexRing
	glyphs      *vertexRing
	glyphLayout wgpu.BindGroupLayoutDescriptor

	glyphTexture  bind_group_provider.BindGroupProvider
	textureID     uint32
	nextTextureID uint32
}

var _ Backend = &wgpuBackend{}

// NewWGPUBackend registers the debug draw pipelines with r and allocates the uniform
// buffer and the vertex ring buffers.
//
// Parameters:
//   - r: the renderer whose frames the draws are recorded into
//   - options: functional options
//
// Returns:
//   - Backend: the backend
//   - error: an error if a pipeline or buffer could not be created
func NewWGPUBackend(r renderer.Renderer, options ...WGPUBackendOption) (Backend, error) {
	cfg := wgpuBackendConfig{ringVertices: defaultRingVertices}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.ringVertices < VertexBufferSize {
		return nil, fmt.Errorf("ring capacity %d is smaller than one batch (%d)", cfg.ringVertices, VertexBufferSize)
	}

	pipelines := []pipeline.Pipeline{
		newDebugPipeline(pipelineKey("points", true), pointsSource, wgpu.PrimitiveTopologyTriangleList, true, false, "PointInstance"),
		newDebugPipeline(pipelineKey("points", false), pointsSource, wgpu.PrimitiveTopologyTriangleList, false, false, "PointInstance"),
		newDebugPipeline(pipelineKey("lines", true), linesSource, wgpu.PrimitiveTopologyLineList, true, false, ""),
		newDebugPipeline(pipelineKey("lines", false), linesSource, wgpu.PrimitiveTopologyLineList, false, false, ""),
		newDebugPipeline(glyphPipelineKey, glyphsSource, wgpu.PrimitiveTopologyTriangleList, false, true, ""),
	}
	if err := r.RegisterPipelines(pipelines...); err != nil {
		return nil, err
	}

	glyphPipeline := r.Pipeline(glyphPipelineKey)
	layouts := glyphPipeline.BindGroupLayoutDescriptors()

	b := &wgpuBackend{
		renderer:      r,
		uniforms:      bind_group_provider.NewBindGroupProvider("DebugDraw Uniforms"),
		glyphLayout:   layouts[1],
		nextTextureID: 1,
	}
	if err := r.InitBindGroup(b.uniforms, layouts[0], nil, nil); err != nil {
		return nil, fmt.Errorf("debug draw uniforms: %w", err)
	}

	b.pointLines = &vertexRing{
		name:     "point/line",
		provider: bind_group_provider.NewBindGroupProvider("DebugDraw Points/Lines"),
		capacity: uint32(cfg.ringVertices),
	}
	b.glyphs = &vertexRing{
		name:     "glyph",
		provider: bind_group_provider.NewBindGroupProvider("DebugDraw Glyphs"),
		capacity: uint32(cfg.ringVertices),
	}
	if err := r.InitStreamBuffers(b.pointLines.provider, uint64(cfg.ringVertices)*drawVertexSize, 0); err != nil {
		return nil, fmt.Errorf("debug draw point/line buffer: %w", err)
	}
	if err := r.InitStreamBuffers(b.glyphs.provider, uint64(cfg.ringVertices)*glyphVertexSize, 0); err != nil {
		return nil, fmt.Errorf("debug draw glyph buffer: %w", err)
	}

	return b, nil
}

func pipelineKey(kind string, depth bool) string {
	if depth {
		return "debugdraw." + kind + ".depth"
	}
	return "debugdraw." + kind + ".nodepth"
}

func newDebugPipeline(key, source string, topology wgpu.PrimitiveTopology, depth, blend bool, instanceStruct string) pipeline.Pipeline {
	vsOpts := []shader.ShaderBuilderOption{
		shader.WithSource(source),
		shader.WithInclude("debug_draw_uniforms", uniformsSource),
	}
	if instanceStruct != "" {
		vsOpts = append(vsOpts, shader.WithInstanceStepMode(instanceStruct))
	}
	fs := shader.NewShader(key+".fs", shader.ShaderTypeFragment,
		shader.WithSource(source),
		shader.WithInclude("debug_draw_uniforms", uniformsSource),
	)

	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(shader.NewShader(key+".vs", shader.ShaderTypeVertex, vsOpts...)),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTopology(topology),
		pipeline.WithDepthTestEnabled(depth),
		pipeline.WithDepthWriteEnabled(depth),
		pipeline.WithBlendEnabled(blend),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
}

func (b *wgpuBackend) AdapterInfo() string {
	return b.renderer.AdapterInfo()
}

func (b *wgpuBackend) CreateGlyphTexture(width, height int, pixels []byte) (uint32, error) {
	if len(pixels) != width*height {
		return 0, fmt.Errorf("glyph texture %dx%d needs %d bytes, got %d", width, height, width*height, len(pixels))
	}

	provider := bind_group_provider.NewBindGroupProvider("DebugDraw Glyph Texture")
	err := b.renderer.InitTextureView(provider, 0, common.TextureStagingData{
		Pixels:        pixels,
		Width:         uint32(width),
		Height:        uint32(height),
		Format:        wgpu.TextureFormatR8Unorm,
		BytesPerPixel: 1,
	})
	if err == nil {
		err = b.renderer.InitSampler(provider, 1, common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
		})
	}
	if err == nil {
		err = b.renderer.InitBindGroup(provider, b.glyphLayout, nil, nil)
	}
	if err != nil {
		provider.Release()
		return 0, err
	}

	if b.glyphTexture != nil {
		b.glyphTexture.Release()
	}
	b.glyphTexture = provider
	b.textureID = b.nextTextureID
	b.nextTextureID++
	return b.textureID, nil
}

func (b *wgpuBackend) DestroyGlyphTexture(id uint32) {
	if id != b.textureID || b.glyphTexture == nil {
		return
	}
	b.glyphTexture.Release()
	b.glyphTexture = nil
	b.textureID = 0
}

func (b *wgpuBackend) Begin(mvp mgl32.Mat4, width, height int) {
	b.pointLines.offset = 0
	b.glyphs.offset = 0

	u := gpuUniforms{
		MVP:      common.ToWebGPUClip(mvp),
		Viewport: [2]float32{float32(max(width, 1)), float32(max(height, 1))},
	}
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: b.uniforms,
		Binding:  0,
		Data:     common.StructToBytes(&u),
	}})
}

// DrawPoints draws each point as an instanced quad. Face culling does not apply to
// points and lines.
func (b *wgpuBackend) DrawPoints(vertices []DrawVertex, state RenderState) {
	if len(vertices) == 0 {
		return
	}
	if !state.ProgramPointSize {
		vertices = unitSized(vertices)
	}
	first := b.pointLines.reserve(uint32(len(vertices)))
	b.renderer.WriteVertexBuffer(b.pointLines.provider, uint64(first)*drawVertexSize, common.SliceToBytes(vertices))

	err := b.renderer.DrawRange(pipelineKey("points", state.DepthTest), b.pointLines.provider,
		6, uint32(len(vertices)), 0, first, []bind_group_provider.BindGroupProvider{b.uniforms})
	if err != nil {
		log.Printf("[DebugDraw] draw points: %v", err)
	}
}

func (b *wgpuBackend) DrawLines(vertices []DrawVertex, state RenderState) {
	if len(vertices) == 0 {
		return
	}
	first := b.pointLines.reserve(uint32(len(vertices)))
	b.renderer.WriteVertexBuffer(b.pointLines.provider, uint64(first)*drawVertexSize, common.SliceToBytes(vertices))

	err := b.renderer.DrawRange(pipelineKey("lines", state.DepthTest), b.pointLines.provider,
		uint32(len(vertices)), 1, first, 0, []bind_group_provider.BindGroupProvider{b.uniforms})
	if err != nil {
		log.Printf("[DebugDraw] draw lines: %v", err)
	}
}

// DrawGlyphs draws text with the glyph pipeline, which always blends and never depth tests.
func (b *wgpuBackend) DrawGlyphs(vertices []GlyphVertex, textureID uint32, _ RenderState) {
	if len(vertices) == 0 {
		return
	}
	if textureID != b.textureID || b.glyphTexture == nil {
		panic(fmt.Sprintf("debugdraw: glyph texture %d is not live", textureID))
	}
	first := b.glyphs.reserve(uint32(len(vertices)))
	b.renderer.WriteVertexBuffer(b.glyphs.provider, uint64(first)*glyphVertexSize, common.SliceToBytes(vertices))

	err := b.renderer.DrawRange(glyphPipelineKey, b.glyphs.provider,
		uint32(len(vertices)), 1, first, 0, []bind_group_provider.BindGroupProvider{b.uniforms, b.glyphTexture})
	if err != nil {
		log.Printf("[DebugDraw] draw glyphs: %v", err)
	}
}

func (b *wgpuBackend) Release() {
	if b.glyphTexture != nil {
		b.glyphTexture.Release()
		b.glyphTexture = nil
	}
	b.uniforms.Release()
	b.pointLines.provider.Release()
	b.glyphs.provider.Release()
}

// unitSized returns a copy of vertices with every point size set to 1.
func unitSized(vertices []DrawVertex) []DrawVertex {
	out := make([]DrawVertex, len(vertices))
	for i, v := range vertices {
		v.Size = 1
		out[i] = v
	}
	return out
}
