package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation.
type shader struct {
	key        string
	label      string
	source     string
	sourcePath string
	shaderType ShaderType
	entryPoint string

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout

	// reflection overrides collected from builder options
	instanceStructs map[string]bool
	formatOverrides map[int]wgpu.VertexFormat
	sampleTypes     map[[2]int]wgpu.TextureSampleType

	pp PreProcessor
}

// Shader defines the interface for a loaded and reflected WGSL shader. It exposes the shader's
// unique key, source code, entry point, bind group layout descriptors and vertex buffer layouts
// needed for pipeline creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL source after pre-processing.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage this shader targets.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the name of the first @vertex or @fragment function
	EntryPoint() string

	// BindGroupLayoutDescriptors retrieves all reflected bind group layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if nothing is declared there
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName finds the binding index of a variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable name was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayouts retrieves the vertex buffer layouts in buffer slot order. Every struct made
	// only of @location fields is one buffer, in the order the structs appear in the source.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts, empty for fragment shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns a shader module descriptor for the pre-processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor, labelled with the shader key
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a new Shader, loads its source and reflects it. The source must be
// provided with WithSource or WithSourceFromPath.
// Panics if no source is provided, the file cannot be read or an include cannot be resolved.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage this shader targets
//   - options: functional options configuring the source and reflection
//
// Returns:
//   - Shader: the reflected shader
func NewShader(key string, shaderType ShaderType, options ...ShaderBuilderOption) Shader {
	s := &shader{
		key:             key,
		label:           key,
		shaderType:      shaderType,
		instanceStructs: make(map[string]bool),
		formatOverrides: make(map[int]wgpu.VertexFormat),
		sampleTypes:     make(map[[2]int]wgpu.TextureSampleType),
		pp:              NewPreProcessor(),
	}
	for _, opt := range options {
		opt(s)
	}

	if s.sourcePath != "" {
		data, err := os.ReadFile(s.sourcePath)
		if err != nil {
			panic(fmt.Sprintf("shader: failed to read source file %q: %v", s.sourcePath, err))
		}
		s.source = string(data)
	}
	if s.source == "" {
		panic(fmt.Sprintf("shader: %s must have a source provided via WithSource or WithSourceFromPath", key))
	}

	processed, err := s.pp.Process(s.source)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to pre-process %s: %v", key, err))
	}
	s.source = processed
	s.reflect()
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}

// reflect extracts the entry point, vertex layouts and bind group layouts from the
// pre-processed source.
func (s *shader) reflect() {
	cleaned := stripComments(s.source)
	s.entryPoint = parseEntryPoint(cleaned, s.shaderType)

	visibility := wgpu.ShaderStageFragment
	if s.shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(cleaned, s.instanceStructs, s.formatOverrides)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(cleaned, visibility)

	for key, sampleType := range s.sampleTypes {
		desc, ok := s.bindGroupLayoutDescriptors[key[0]]
		if !ok {
			continue
		}
		for i := range desc.Entries {
			if int(desc.Entries[i].Binding) == key[1] && desc.Entries[i].Texture.SampleType != wgpu.TextureSampleTypeUndefined {
				desc.Entries[i].Texture.SampleType = sampleType
			}
		}
	}
}
