package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cameraInclude = `struct CameraUniform {
    viewProj: mat4x4<f32>,
    position: vec3<f32>,
};`

const litVertexSource = `//@include camera

// per-vertex data
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

/* per-instance data
   struct Ignored { @location(7) x: f32 } */
struct InstanceInput {
    @location(2) offset: vec3f,
    @location(3) size: f32,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
};

struct Model {
    model: mat4x4<f32>,
    tint: vec3<f32>,
    planes: array<vec4<f32>, 6>,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> model: Model;
@group(1) @binding(1) var<storage, read> extra: array<vec4f>;

@vertex
fn vs_main(in: VertexInput, inst: InstanceInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.viewProj * model.model * vec4<f32>(in.position + inst.offset, 1.0);
    out.normal = in.normal;
    return out;
}
`

const texturedFragmentSource = `
@group(2) @binding(0) var glyphs: texture_2d<f32>;
@group(2) @binding(1) var glyphSampler: sampler;
@group(2) @binding(2) var depthTex: texture_depth_2d;
@group(2) @binding(3) var heights: texture_2d<u32>;

@fragment fn fs_main(@location(0) uv: vec2f) -> @location(0) vec4f {
    return textureSample(glyphs, glyphSampler, uv);
}
`

func TestNewShaderReflectsVertexStage(t *testing.T) {
	s := NewShader("lit", ShaderTypeVertex,
		WithSource(litVertexSource),
		WithInclude("camera", cameraInclude),
		WithInstanceStepMode("InstanceInput"),
	)

	assert.Equal(t, "lit", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Contains(t, s.Source(), "struct CameraUniform")
	assert.NotContains(t, s.Source(), "//@include")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)

	assert.Equal(t, uint64(24), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	require.Len(t, layouts[0].Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layouts[0].Attributes[1].ShaderLocation)

	assert.Equal(t, uint64(16), layouts[1].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
	assert.Equal(t, wgpu.VertexFormatFloat32, layouts[1].Attributes[1].Format)
	assert.Equal(t, uint32(3), layouts[1].Attributes[1].ShaderLocation)
}

func TestNewShaderReflectsBindGroups(t *testing.T) {
	s := NewShader("lit", ShaderTypeVertex,
		WithSource(litVertexSource),
		WithInclude("camera", cameraInclude),
	)

	groups := s.BindGroupLayoutDescriptors()
	require.Len(t, groups, 2)

	cam := groups[0].Entries
	require.Len(t, cam, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam[0].Buffer.Type)
	assert.Equal(t, uint64(80), cam[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam[0].Visibility)

	model := groups[1].Entries
	require.Len(t, model, 2)
	// mat4 (64) + vec3 (12, padded to 80) + 6 * vec4 (96) = 176
	assert.Equal(t, uint64(176), model[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, model[1].Buffer.Type)
	assert.Equal(t, uint64(16), model[1].Buffer.MinBindingSize)

	assert.Equal(t, "model", s.BindGroupVarName(1, 0))
	assert.Equal(t, "", s.BindGroupVarName(5, 0))
	binding, ok := s.BindGroupFromVarName(1, "extra")
	assert.True(t, ok)
	assert.Equal(t, 1, binding)
	_, ok = s.BindGroupFromVarName(0, "missing")
	assert.False(t, ok)
}

func TestNewShaderReflectsFragmentTextures(t *testing.T) {
	s := NewShader("glyph", ShaderTypeFragment, WithSource(texturedFragmentSource))

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())

	entries := s.BindGroupLayoutDescriptors()[2].Entries
	require.Len(t, entries, 4)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[1].Sampler.Type)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, entries[2].Texture.SampleType)
	assert.Equal(t, wgpu.TextureSampleTypeUint, entries[3].Texture.SampleType)
	for _, e := range entries {
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
}

func TestVertexFormatOverride(t *testing.T) {
	src := `
struct ImVertex {
    @location(0) pos: vec2f,
    @location(1) uv: vec2f,
    @location(2) color: vec4f,
};
@vertex fn main(v: ImVertex) -> @builtin(position) vec4f { return vec4f(v.pos, 0.0, 1.0); }
`
	s := NewShader("gui", ShaderTypeVertex,
		WithSource(src),
		WithVertexFormat(2, wgpu.VertexFormatUnorm8x4),
	)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(20), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatUnorm8x4, layouts[0].Attributes[2].Format)
	assert.Equal(t, uint64(16), layouts[0].Attributes[2].Offset)
	assert.Equal(t, "main", s.EntryPoint())
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frag.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(texturedFragmentSource), 0o644))

	s := NewShader("frag", ShaderTypeFragment, WithSourceFromPath(path), WithLabel("Glyph Fragment"))
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Equal(t, "Glyph Fragment", s.Module().Label)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
}

func TestNewShaderPanics(t *testing.T) {
	assert.Panics(t, func() { NewShader("empty", ShaderTypeVertex) })
	assert.Panics(t, func() {
		NewShader("missing", ShaderTypeVertex, WithSourceFromPath(filepath.Join(t.TempDir(), "nope.wgsl")))
	})
	assert.Panics(t, func() {
		NewShader("include", ShaderTypeVertex, WithSource("//@include nothing\n@vertex fn main() {}"))
	})
}

func TestPreProcessor(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("a", "struct A { x: f32 };\n")

	out, err := pp.Process("//@include a\n  //@include a\nfn f() {}")
	require.NoError(t, err)
	assert.Equal(t, "struct A { x: f32 };\nfn f() {}", out)

	_, err = pp.Process("//@include")
	assert.Error(t, err)

	_, err = pp.Process("//@include a b")
	assert.Error(t, err)
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c\n// whole\nd"
	assert.Equal(t, "a \nb  c\n\nd", stripComments(src))
}

func TestTextureSampleTypeOverride(t *testing.T) {
	src := `
struct V { @location(0) pos: vec2f, };
@group(1) @binding(0) var heightmap: texture_2d<f32>;
@vertex fn vs_main(v: V) -> @builtin(position) vec4f {
    let h = textureLoad(heightmap, vec2i(v.pos), 0).r;
    return vec4f(v.pos, h, 1.0);
}
`
	s := NewShader("terrain", ShaderTypeVertex,
		WithSource(src),
		WithTextureSampleType(1, 0, wgpu.TextureSampleTypeUnfilterableFloat),
	)
	entries := s.BindGroupLayoutDescriptors()[1].Entries
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.ShaderStageVertex, entries[0].Visibility)
}
