package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// DebugDrawBuilderOption is a functional option for configuring a DebugDraw.
type DebugDrawBuilderOption func(*debugDraw)

// WithViewport sets the initial viewport size used for text placement.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - DebugDrawBuilderOption: option function to apply
func WithViewport(width, height int) DebugDrawBuilderOption {
	return func(d *debugDraw) {
		d.width = width
		d.height = height
	}
}

// WithDepthPolicy sets the initial depth policy. Defaults to DepthDontCare.
//
// Parameters:
//   - policy: the depth policy
//
// Returns:
//   - DebugDrawBuilderOption: option function to apply
func WithDepthPolicy(policy DepthPolicy) DebugDrawBuilderOption {
	return func(d *debugDraw) {
		d.depth = policy
	}
}

// WithMVP sets the initial model-view-projection matrix. Defaults to identity.
//
// Parameters:
//   - mvp: OpenGL convention matrix
//
// Returns:
//   - DebugDrawBuilderOption: option function to apply
func WithMVP(mvp mgl32.Mat4) DebugDrawBuilderOption {
	return func(d *debugDraw) {
		d.mvp = mvp
	}
}

// wgpuBackendConfig collects the WGPUBackendOption values.
type wgpuBackendConfig struct {
	ringVertices int
}

// WGPUBackendOption is a functional option for configuring the WebGPU backend.
type WGPUBackendOption func(*wgpuBackendConfig)

// WithRingCapacity sets how many vertices each ring buffer holds per frame. It must be at
// least VertexBufferSize. Defaults to 16 batches.
//
// Parameters:
//   - vertices: the per-frame vertex capacity
//
// Returns:
//   - WGPUBackendOption: option function to apply
func WithRingCapacity(vertices int) WGPUBackendOption {
	return func(c *wgpuBackendConfig) {
		c.ringVertices = vertices
	}
}
