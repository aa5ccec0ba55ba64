package overlay

import (
	_ "embed"
	"fmt"
	"log"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"
)

//go:embed assets/overlay.wgsl
var overlaySource string

const (
	overlayPipelineKey = "overlay"

	defaultVertexCapacity = 1 << 14
	defaultIndexCapacity  = 1 << 16
)

// gpuUniforms matches OverlayUniforms in assets/overlay.wgsl.
type gpuUniforms struct {
	Projection [16]float32
}

// wgpuBackend implements Backend on top of the engine renderer.
type wgpuBackend struct {
	renderer renderer.Renderer

	uniforms      bind_group_provider.BindGroupProvider
	mesh          bind_group_provider.BindGroupProvider
	textureLayout wgpu.BindGroupLayoutDescriptor
	textures      map[imgui.TextureID]bind_group_provider.BindGroupProvider
	nextTextureID imgui.TextureID

	vertexStride   int
	indexSize      int
	vertexCapacity int // vertices
	indexCapacity  int // indices

	vertexScratch []byte
	indexScratch  []byte
}

var _ Backend = &wgpuBackend{}

// NewWGPUBackend registers the overlay pipeline with r and allocates the projection
// uniform and the stream buffers. The buffers grow when a frame outgrows them.
//
// Parameters:
//   - r: the renderer whose frames the overlay is recorded into
//   - options: functional options
//
// Returns:
//   - Backend: the backend
//   - error: an error if the pipeline or a buffer could not be created
func NewWGPUBackend(r renderer.Renderer, options ...WGPUBackendOption) (Backend, error) {
	cfg := wgpuBackendConfig{
		vertexCapacity: defaultVertexCapacity,
		indexCapacity:  defaultIndexCapacity,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	vertexStride, _, _, _ := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()
	indexFormat := wgpu.IndexFormatUint16
	if indexSize == 4 {
		indexFormat = wgpu.IndexFormatUint32
	}

	vs := shader.NewShader(overlayPipelineKey+".vs", shader.ShaderTypeVertex,
		shader.WithSource(overlaySource),
		shader.WithVertexFormat(2, wgpu.VertexFormatUnorm8x4),
	)
	fs := shader.NewShader(overlayPipelineKey+".fs", shader.ShaderTypeFragment,
		shader.WithSource(overlaySource),
	)
	p := pipeline.NewPipeline(overlayPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBlendEnabled(true),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}
	layouts := r.Pipeline(overlayPipelineKey).BindGroupLayoutDescriptors()

	b := &wgpuBackend{
		renderer:      r,
		uniforms:      bind_group_provider.NewBindGroupProvider("Overlay Uniforms"),
		mesh:          bind_group_provider.NewBindGroupProvider("Overlay Mesh", bind_group_provider.WithIndexFormat(indexFormat)),
		textureLayout: layouts[1],
		textures:      make(map[imgui.TextureID]bind_group_provider.BindGroupProvider),
		nextTextureID: 1,
		vertexStride:  vertexStride,
		indexSize:     indexSize,
	}
	if err := r.InitBindGroup(b.uniforms, layouts[0], nil, nil); err != nil {
		return nil, fmt.Errorf("overlay uniforms: %w", err)
	}
	if err := b.ensureCapacity(cfg.vertexCapacity, cfg.indexCapacity); err != nil {
		return nil, err
	}
	return b, nil
}

// ensureCapacity grows the stream buffers to hold at least the given counts, doubling so
// that a slowly growing UI does not reallocate every frame.
func (b *wgpuBackend) ensureCapacity(vertices, indices int) error {
	if vertices <= b.vertexCapacity && indices <= b.indexCapacity {
		return nil
	}
	newVertices := max(b.vertexCapacity, 1)
	for newVertices < vertices {
		newVertices *= 2
	}
	newIndices := max(b.indexCapacity, 1)
	for newIndices < indices {
		newIndices *= 2
	}

	var vertexBytes, indexBytes uint64
	if newVertices != b.vertexCapacity {
		vertexBytes = uint64(newVertices * b.vertexStride)
	}
	if newIndices != b.indexCapacity {
		indexBytes = uint64(newIndices * b.indexSize)
	}
	if err := b.renderer.InitStreamBuffers(b.mesh, vertexBytes, indexBytes); err != nil {
		return fmt.Errorf("overlay stream buffers: %w", err)
	}
	b.vertexCapacity = newVertices
	b.indexCapacity = newIndices
	return nil
}

func (b *wgpuBackend) CreateTexture(width, height int, rgba []byte) (imgui.TextureID, error) {
	if len(rgba) != width*height*4 {
		return 0, fmt.Errorf("texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(rgba))
	}

	id := b.nextTextureID
	provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Overlay Texture %d", id))
	err := b.renderer.InitTextureView(provider, 0, common.TextureStagingData{
		Pixels:        rgba,
		Width:         uint32(width),
		Height:        uint32(height),
		BytesPerPixel: 4,
	})
	if err == nil {
		err = b.renderer.InitSampler(provider, 1, common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
			MagFilter:    wgpu.FilterModeLinear,
			MinFilter:    wgpu.FilterModeLinear,
		})
	}
	if err == nil {
		err = b.renderer.InitBindGroup(provider, b.textureLayout, nil, nil)
	}
	if err != nil {
		provider.Release()
		return 0, err
	}

	b.textures[id] = provider
	b.nextTextureID++
	return id, nil
}

func (b *wgpuBackend) RenderDrawData(drawData imgui.DrawData, width, height int) {
	if !drawData.Valid() || width <= 0 || height <= 0 {
		return
	}
	lists := drawData.CommandLists()
	if len(lists) == 0 {
		return
	}

	b.writeProjection(width, height)
	vertexCount, indexCount := b.upload(lists)
	if vertexCount == 0 || indexCount == 0 {
		return
	}

	var baseVertex int32
	var firstIndex uint32
	for _, list := range lists {
		_, listVertexBytes := list.VertexBuffer()
		_, listIndexBytes := list.IndexBuffer()

		offset := firstIndex
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
				continue
			}
			count := uint32(cmd.ElementCount())
			if b.scissor(cmd.ClipRect(), width, height) {
				b.draw(cmd.TextureID(), count, offset, baseVertex)
			}
			offset += count
		}

		baseVertex += int32(listVertexBytes / b.vertexStride)
		firstIndex += uint32(listIndexBytes / b.indexSize)
	}

	b.renderer.SetScissorRect(0, 0, uint32(width), uint32(height))
}

func (b *wgpuBackend) writeProjection(width, height int) {
	proj := common.ToWebGPUClip(mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1))
	u := gpuUniforms{Projection: proj}
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: b.uniforms,
		Binding:  0,
		Data:     common.StructToBytes(&u),
	}})
}

// upload concatenates every list into one vertex and one index write and returns the
// totals.
func (b *wgpuBackend) upload(lists []imgui.DrawList) (int, int) {
	b.vertexScratch = b.vertexScratch[:0]
	b.indexScratch = b.indexScratch[:0]
	for _, list := range lists {
		vertexPtr, vertexBytes := list.VertexBuffer()
		indexPtr, indexBytes := list.IndexBuffer()
		if vertexBytes > 0 {
			b.vertexScratch = append(b.vertexScratch, unsafe.Slice((*byte)(vertexPtr), vertexBytes)...)
		}
		if indexBytes > 0 {
			b.indexScratch = append(b.indexScratch, unsafe.Slice((*byte)(indexPtr), indexBytes)...)
		}
	}

	vertexCount := len(b.vertexScratch) / b.vertexStride
	indexCount := len(b.indexScratch) / b.indexSize
	if err := b.ensureCapacity(vertexCount, indexCount); err != nil {
		log.Printf("[Overlay] %v", err)
		return 0, 0
	}

	// Queue writes must be a multiple of 4 bytes.
	for len(b.vertexScratch)%4 != 0 {
		b.vertexScratch = append(b.vertexScratch, 0)
	}
	for len(b.indexScratch)%4 != 0 {
		b.indexScratch = append(b.indexScratch, 0)
	}
	b.renderer.WriteVertexBuffer(b.mesh, 0, b.vertexScratch)
	b.renderer.WriteIndexBuffer(b.mesh, 0, b.indexScratch)
	return vertexCount, indexCount
}

// scissor clamps an ImGui clip rectangle to the framebuffer and applies it. Returns false
// when nothing of the rectangle is visible.
func (b *wgpuBackend) scissor(clip imgui.Vec4, width, height int) bool {
	x, y, w, h, ok := clampClipRect(clip, width, height)
	if !ok {
		return false
	}
	b.renderer.SetScissorRect(x, y, w, h)
	return true
}

func clampClipRect(clip imgui.Vec4, width, height int) (uint32, uint32, uint32, uint32, bool) {
	x0 := common.Clamp(clip.X, 0, float32(width))
	y0 := common.Clamp(clip.Y, 0, float32(height))
	x1 := common.Clamp(clip.Z, 0, float32(width))
	y1 := common.Clamp(clip.W, 0, float32(height))
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0, false
	}
	return uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0), true
}

func (b *wgpuBackend) draw(id imgui.TextureID, indexCount, firstIndex uint32, baseVertex int32) {
	texture, ok := b.textures[id]
	if !ok {
		log.Printf("[Overlay] unknown texture id %d", id)
		return
	}
	err := b.renderer.DrawIndexedRange(overlayPipelineKey, b.mesh, indexCount, firstIndex, baseVertex,
		[]bind_group_provider.BindGroupProvider{b.uniforms, texture})
	if err != nil {
		log.Printf("[Overlay] draw: %v", err)
	}
}

func (b *wgpuBackend) Release() {
	for id, texture := range b.textures {
		texture.Release()
		delete(b.textures, id)
	}
	b.uniforms.Release()
	b.mesh.Release()
}
