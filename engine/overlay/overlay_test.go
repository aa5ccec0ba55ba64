package overlay

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textureRecord struct {
	width, height, bytes int
}

type renderRecord struct {
	lists         int
	width, height int
}

type fakeBackend struct {
	textures   []textureRecord
	textureErr error
	renders    []renderRecord
	released   bool
}

var _ Backend = &fakeBackend{}

func (f *fakeBackend) CreateTexture(width, height int, rgba []byte) (imgui.TextureID, error) {
	if f.textureErr != nil {
		return 0, f.textureErr
	}
	f.textures = append(f.textures, textureRecord{width: width, height: height, bytes: len(rgba)})
	return imgui.TextureID(len(f.textures)), nil
}

func (f *fakeBackend) RenderDrawData(drawData imgui.DrawData, width, height int) {
	f.renders = append(f.renders, renderRecord{lists: len(drawData.CommandLists()), width: width, height: height})
}

func (f *fakeBackend) Release() {
	f.released = true
}

func newTestOverlay(t *testing.T, backend Backend, options ...OverlayBuilderOption) *overlay {
	t.Helper()
	o, err := NewOverlay(backend, options...)
	require.NoError(t, err)
	t.Cleanup(o.Destroy)
	return o.(*overlay)
}

func TestNewOverlayUploadsFontAtlas(t *testing.T) {
	backend := &fakeBackend{}
	o := newTestOverlay(t, backend, WithDisplaySize(800, 600))

	require.Len(t, backend.textures, 1)
	atlas := backend.textures[0]
	assert.Positive(t, atlas.width)
	assert.Positive(t, atlas.height)
	assert.Equal(t, atlas.width*atlas.height*4, atlas.bytes)
	assert.Equal(t, imgui.Vec2{X: 800, Y: 600}, o.io.DisplaySize())
}

func TestNewOverlayFontAtlasError(t *testing.T) {
	_, err := NewOverlay(&fakeBackend{textureErr: errors.New("out of memory")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "font atlas")
}

func TestNewOverlayRequiresBackend(t *testing.T) {
	assert.PanicsWithValue(t, "overlay: NewOverlay requires a Backend", func() {
		_, _ = NewOverlay(nil)
	})
}

func TestRenderRunsCallbacksInOrder(t *testing.T) {
	backend := &fakeBackend{}
	o := newTestOverlay(t, backend, WithDisplaySize(640, 480))

	var calls []string
	o.Add(func(Overlay) { calls = append(calls, "first") })
	o.Add(func(ov Overlay) {
		calls = append(calls, "second")
		imgui.Begin("panel")
		imgui.Text("hello")
		imgui.End()
	})

	o.Render(1.0 / 60)
	o.Render(1.0 / 60)

	assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
	require.Len(t, backend.renders, 2)
	assert.Equal(t, 640, backend.renders[1].width)
	assert.Equal(t, 480, backend.renders[1].height)
	assert.Positive(t, backend.renders[1].lists)
}

func TestClearAllRemovesCallbacks(t *testing.T) {
	o := newTestOverlay(t, &fakeBackend{})

	called := 0
	o.Add(func(Overlay) { called++ })
	o.ClearAll()
	o.Render(0)

	assert.Zero(t, called)
}

func TestAddRejectsNilCallback(t *testing.T) {
	o := newTestOverlay(t, &fakeBackend{})
	assert.PanicsWithValue(t, "overlay: Add requires a non-nil callback", func() {
		o.Add(nil)
	})
}

func TestFPSCounterToggle(t *testing.T) {
	backend := &fakeBackend{}
	o := newTestOverlay(t, backend, WithFPSCounter(true))
	assert.True(t, o.FPSCounterEnabled())

	o.Render(1.0 / 30)
	o.Render(1.0 / 30)
	require.Len(t, backend.renders, 2)
	assert.Equal(t, 1, backend.renders[1].lists)

	o.EnableFPSCounter(false)
	assert.False(t, o.FPSCounterEnabled())
}

func TestFPSText(t *testing.T) {
	assert.Equal(t, "Average 16.667 ms/frame (60.0 FPS)", fpsText(1000.0/60, 60))
	assert.Equal(t, "Average 0.000 ms/frame (0.0 FPS)", fpsText(0, 0))
}

func TestRelayout(t *testing.T) {
	o := newTestOverlay(t, &fakeBackend{})

	o.Relayout(1024, 768)
	o.Relayout(0, 300)

	assert.Equal(t, 1024, o.width)
	assert.Equal(t, 768, o.height)
	assert.Equal(t, imgui.Vec2{X: 1024, Y: 768}, o.io.DisplaySize())
}

func TestAddTextureValidatesSize(t *testing.T) {
	backend := &fakeBackend{}
	o := newTestOverlay(t, backend)

	_, err := o.AddTexture(2, 2, make([]byte, 15))
	assert.Error(t, err)

	id, err := o.AddTexture(2, 2, make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, imgui.TextureID(2), id)
}

func TestTextInputTracksActiveField(t *testing.T) {
	o := newTestOverlay(t, &fakeBackend{})
	assert.False(t, o.TextInputActive())

	o.Render(1.0 / 60)
	assert.False(t, o.TextInputActive())
}

func TestMouseInputOutOfRange(t *testing.T) {
	o := newTestOverlay(t, &fakeBackend{})

	assert.False(t, o.HandleMousePress(-1))
	assert.False(t, o.HandleMouseRelease(mouseButtons))
}

func TestInputNotCapturedWithoutWidgets(t *testing.T) {
	o := newTestOverlay(t, &fakeBackend{})
	o.Render(1.0 / 60)

	assert.False(t, o.HandleKeyPress(uint32(glfw.KeyLeftControl)))
	assert.False(t, o.HandleKeyRelease(uint32(glfw.KeyLeftControl)))
	assert.False(t, o.HandleMouseMove(10, 10))
	assert.False(t, o.HandleMouseScroll(0, 1))
	assert.False(t, o.HandleTextInput('a'))
}

func TestDestroyReleasesBackendOnce(t *testing.T) {
	backend := &fakeBackend{}
	o, err := NewOverlay(backend)
	require.NoError(t, err)

	o.Destroy()
	o.Destroy()
	assert.True(t, backend.released)
}

func TestClampClipRect(t *testing.T) {
	tests := []struct {
		name       string
		clip       imgui.Vec4
		x, y, w, h uint32
		ok         bool
	}{
		{"inside", imgui.Vec4{X: 10, Y: 20, Z: 110, W: 70}, 10, 20, 100, 50, true},
		{"clamped", imgui.Vec4{X: -5, Y: -5, Z: 900, W: 900}, 0, 0, 800, 600, true},
		{"empty", imgui.Vec4{X: 50, Y: 50, Z: 50, W: 80}, 0, 0, 0, 0, false},
		{"offscreen", imgui.Vec4{X: 900, Y: 10, Z: 950, W: 20}, 0, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h, ok := clampClipRect(tt.clip, 800, 600)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, [4]uint32{tt.x, tt.y, tt.w, tt.h}, [4]uint32{x, y, w, h})
		})
	}
}

type indexedDraw struct {
	count, first uint32
	baseVertex   int32
}

type fakeRenderer struct {
	renderer.Renderer

	pipelines     map[string]pipeline.Pipeline
	streamSizes   [][2]uint64
	vertexBytes   int
	indexBytes    int
	draws         []indexedDraw
	scissors      [][4]uint32
	uniformWrites int
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

func (f *fakeRenderer) InitStreamBuffers(_ bind_group_provider.BindGroupProvider, vertexSize, indexSize uint64) error {
	f.streamSizes = append(f.streamSizes, [2]uint64{vertexSize, indexSize})
	return nil
}

func (f *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (f *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.uniformWrites += len(writes)
}

func (f *fakeRenderer) WriteVertexBuffer(_ bind_group_provider.BindGroupProvider, _ uint64, data []byte) {
	f.vertexBytes = len(data)
}

func (f *fakeRenderer) WriteIndexBuffer(_ bind_group_provider.BindGroupProvider, _ uint64, data []byte) {
	f.indexBytes = len(data)
}

func (f *fakeRenderer) DrawIndexedRange(_ string, _ bind_group_provider.BindGroupProvider, indexCount, firstIndex uint32, baseVertex int32, _ []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, indexedDraw{count: indexCount, first: firstIndex, baseVertex: baseVertex})
	return nil
}

func (f *fakeRenderer) SetScissorRect(x, y, width, height uint32) {
	f.scissors = append(f.scissors, [4]uint32{x, y, width, height})
}

func TestWGPUBackendRendersDrawData(t *testing.T) {
	r := newFakeRenderer()
	backend, err := NewWGPUBackend(r, WithBufferCapacity(64, 64))
	require.NoError(t, err)
	require.Contains(t, r.pipelines, overlayPipelineKey)
	require.Len(t, r.streamSizes, 1)

	vertexStride, _, _, _ := imgui.VertexBufferLayout()
	assert.Equal(t, uint64(64*vertexStride), r.streamSizes[0][0])

	o := newTestOverlay(t, backend, WithDisplaySize(800, 600), WithFPSCounter(true))
	o.Add(func(Overlay) {
		imgui.Begin("stats")
		imgui.Text("the quick brown fox jumps over the lazy dog")
		imgui.End()
	})
	// Auto-sized windows are hidden on their first frame.
	o.Render(1.0 / 60)
	r.draws = nil
	o.Render(1.0 / 60)

	require.NotEmpty(t, r.draws)
	indexSize := imgui.IndexBufferLayout()
	var lastBase int32
	for _, d := range r.draws {
		assert.LessOrEqual(t, int(d.first+d.count)*indexSize, r.indexBytes)
		assert.GreaterOrEqual(t, d.baseVertex, lastBase)
		lastBase = d.baseVertex
	}
	assert.Zero(t, r.vertexBytes%4)
	assert.Zero(t, r.indexBytes%4)
	assert.Equal(t, [4]uint32{0, 0, 800, 600}, r.scissors[len(r.scissors)-1])
	assert.Greater(t, len(r.streamSizes), 1, "stream buffers should grow past 64 vertices")
}

func TestWGPUBackendRejectsBadTexture(t *testing.T) {
	backend, err := NewWGPUBackend(newFakeRenderer())
	require.NoError(t, err)

	_, err = backend.CreateTexture(4, 4, make([]byte, 10))
	assert.Error(t, err)

	id, err := backend.CreateTexture(1, 1, []byte{255, 255, 255, 255})
	require.NoError(t, err)
	assert.Equal(t, imgui.TextureID(1), id)
}
