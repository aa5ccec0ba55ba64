package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines keyed by name and owns the device, queue and surface.
// Components hold their GPU resources on BindGroupProviders and pass those back in for writes and draws.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline and caches it by PipelineKey.
	// Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface, MSAA and depth targets for a new size.
	// Zero sizes are ignored, which happens while the window is minimized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SurfaceSize returns the size the surface is currently configured with.
	//
	// Returns:
	//   - int: the surface width in pixels
	//   - int: the surface height in pixels
	SurfaceSize() (int, int)

	// AdapterInfo describes the GPU adapter the device was created on.
	//
	// Returns:
	//   - string: the adapter name, driver and backend
	AdapterInfo() string

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls. indexData may be empty for
	// non-indexed geometry, in which case the provider's VertexCount is drawn.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitStreamBuffers creates empty vertex and index buffers meant to be rewritten every frame.
	// A zero size skips that buffer.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexSize: the vertex buffer capacity in bytes
	//   - indexSize: the index buffer capacity in bytes
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitStreamBuffers(provider bind_group_provider.BindGroupProvider, vertexSize, indexSize uint64) error

	// WriteVertexBuffer writes data into the provider's vertex buffer at a byte offset.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the vertex buffer
	//   - offset: the byte offset, a multiple of 4
	//   - data: the bytes to write, a multiple of 4 in length
	WriteVertexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte)

	// WriteIndexBuffer writes data into the provider's index buffer at a byte offset.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the index buffer
	//   - offset: the byte offset, a multiple of 4
	//   - data: the bytes to write, a multiple of 4 in length
	WriteIndexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte)

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be initialized via InitTextureView
	// and InitSampler before calling this method. Buffer usage and size can be overridden per binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags to OR into the derived usage, keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes to use instead of MinBindingSize, keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture from staging data and stores it with its view on the
	// given BindGroupProvider at the specified binding index. Must be called before InitBindGroup
	// for any texture bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data, dimensions, format and mip levels for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame after all draw invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes a draw of the whole mesh held by meshProvider. Indexed meshes draw
	// IndexCount indices, non-indexed meshes draw VertexCount vertices.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: BindGroupProviders whose BindGroups are set on groups 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no frame is active
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawRange encodes a non-indexed draw of a sub-range of the mesh's vertex buffer.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding the vertex buffer
	//   - vertexCount: the number of vertices to draw
	//   - instanceCount: the number of instances to draw
	//   - firstVertex: the first vertex to draw
	//   - firstInstance: the first instance to draw
	//   - bindGroups: BindGroupProviders whose BindGroups are set on groups 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no frame is active
	DrawRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, vertexCount, instanceCount, firstVertex, firstInstance uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawIndexedRange encodes an indexed draw of a sub-range of the mesh's index buffer.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - indexCount: the number of indices to draw
	//   - firstIndex: the first index to draw
	//   - baseVertex: the value added to every index before fetching the vertex
	//   - bindGroups: BindGroupProviders whose BindGroups are set on groups 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no frame is active
	DrawIndexedRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, indexCount, firstIndex uint32, baseVertex int32, bindGroups []bind_group_provider.BindGroupProvider) error

	// SetScissorRect restricts the following draws of the current frame to a rectangle.
	// The rectangle is clamped to the surface.
	//
	// Parameters:
	//   - x, y: the top left corner in pixels
	//   - width, height: the size in pixels
	SetScissorRect(x, y, width, height uint32)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface, call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Release releases the cached pipelines and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type for the given window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface descriptor and size configure the surface
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		clearColor:    DefaultClearColor,
	}

	// Options come first so the adapter request sees forceFallbackAdapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.clearColor)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) AdapterInfo() string {
	return r.backend.AdapterInfo()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitStreamBuffers(provider bind_group_provider.BindGroupProvider, vertexSize, indexSize uint64) error {
	return r.backend.InitStreamBuffers(provider, vertexSize, indexSize)
}

func (r *renderer) WriteVertexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte) {
	r.backend.WriteVertexBuffer(provider, offset, data)
}

func (r *renderer) WriteIndexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte) {
	r.backend.WriteIndexBuffer(provider, offset, data)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) lookup(pipelineKey string) (pipeline.Pipeline, error) {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return p, nil
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	if meshProvider.IndexBuffer() != nil {
		return r.backend.DrawIndexed(p, meshProvider, uint32(meshProvider.IndexCount()), instanceCount, 0, 0, bindGroups)
	}
	return r.backend.Draw(p, meshProvider, uint32(meshProvider.VertexCount()), instanceCount, 0, 0, bindGroups)
}

func (r *renderer) DrawRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, vertexCount, instanceCount, firstVertex, firstInstance uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.Draw(p, meshProvider, vertexCount, instanceCount, firstVertex, firstInstance, bindGroups)
}

func (r *renderer) DrawIndexedRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, indexCount, firstIndex uint32, baseVertex int32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawIndexed(p, meshProvider, indexCount, 1, firstIndex, baseVertex, bindGroups)
}

func (r *renderer) SetScissorRect(x, y, width, height uint32) {
	r.backend.SetScissorRect(x, y, width, height)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
			p.SetRenderPipeline(nil)
		}
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
