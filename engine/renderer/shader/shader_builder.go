package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithSourceFromPath reads the WGSL source from a file when the shader is created.
//
// Parameters:
//   - path: the file path of the WGSL source
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithSourceFromPath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.sourcePath = path
	}
}

// WithSource uses an in-memory WGSL source, typically one embedded with go:embed.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithSource(source string) ShaderBuilderOption {
	return func(s *shader) {
		s.source = source
	}
}

// WithInclude registers a named WGSL snippet that the source can pull in with a
// `//@include <name>` line.
//
// Parameters:
//   - name: the include name
//   - source: the WGSL text injected in place of the include line
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithInclude(name, source string) ShaderBuilderOption {
	return func(s *shader) {
		s.pp.Register(name, source)
	}
}

// WithInstanceStepMode marks a vertex input struct as per-instance data. Its buffer
// layout advances once per instance instead of once per vertex.
//
// Parameters:
//   - structName: the WGSL name of the vertex input struct
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithInstanceStepMode(structName string) ShaderBuilderOption {
	return func(s *shader) {
		s.instanceStructs[structName] = true
	}
}

// WithVertexFormat overrides the vertex format reflected for a @location. This is needed
// for packed attributes such as an RGBA8 color read as vec4<f32>.
//
// Parameters:
//   - location: the shader location of the attribute
//   - format: the vertex format of the data in the buffer
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithVertexFormat(location int, format wgpu.VertexFormat) ShaderBuilderOption {
	return func(s *shader) {
		s.formatOverrides[location] = format
	}
}

// WithLabel sets the debug label of the shader module. Defaults to the shader key.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithLabel(label string) ShaderBuilderOption {
	return func(s *shader) {
		s.label = label
	}
}

// WithTextureSampleType overrides the sample type reflected for a texture binding.
// Float textures such as R32Float are not filterable and must be bound as
// wgpu.TextureSampleTypeUnfilterableFloat.
//
// Parameters:
//   - group: the bind group index of the texture
//   - binding: the binding index of the texture
//   - sampleType: the sample type to declare in the layout
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithTextureSampleType(group, binding int, sampleType wgpu.TextureSampleType) ShaderBuilderOption {
	return func(s *shader) {
		s.sampleTypes[[2]int{group, binding}] = sampleType
	}
}
