package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithIndexFormat sets the format of the index buffer.
//
// Parameters:
//   - format: wgpu.IndexFormatUint16 or wgpu.IndexFormatUint32 (default)
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithIndexFormat(format wgpu.IndexFormat) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexFormat = format
	}
}

// WithVertexCount sets the vertex count for non-indexed geometry.
//
// Parameters:
//   - count: the number of vertices drawn by a full DrawCall
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithVertexCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexCount = count
	}
}
