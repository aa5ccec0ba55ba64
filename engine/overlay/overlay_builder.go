package overlay

import "github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"

// OverlayBuilderOption is a functional option for configuring an Overlay.
type OverlayBuilderOption func(*overlay)

// WithDisplaySize sets the initial display size. Defaults to 1280x720.
//
// Parameters:
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
//
// Returns:
//   - OverlayBuilderOption: option function to apply
func WithDisplaySize(width, height int) OverlayBuilderOption {
	return func(o *overlay) {
		if width > 0 && height > 0 {
			o.width = width
			o.height = height
		}
	}
}

// WithFPSCounter shows the FPS counter from the first frame.
//
// Parameters:
//   - enabled: true to show the counter
//
// Returns:
//   - OverlayBuilderOption: option function to apply
func WithFPSCounter(enabled bool) OverlayBuilderOption {
	return func(o *overlay) {
		o.fpsEnabled = enabled
	}
}

// WithProfiler makes the FPS counter report the engine profiler's frame statistics
// instead of ImGui's.
//
// Parameters:
//   - p: the engine profiler
//
// Returns:
//   - OverlayBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) OverlayBuilderOption {
	return func(o *overlay) {
		o.profiler = p
	}
}

// wgpuBackendConfig holds the settings applied by WGPUBackendOption.
type wgpuBackendConfig struct {
	vertexCapacity int
	indexCapacity  int
}

// WGPUBackendOption is a functional option for NewWGPUBackend.
type WGPUBackendOption func(*wgpuBackendConfig)

// WithBufferCapacity sets the initial stream buffer sizes. The buffers double whenever a
// frame needs more.
//
// Parameters:
//   - vertices: initial vertex capacity
//   - indices: initial index capacity
//
// Returns:
//   - WGPUBackendOption: option function to apply
func WithBufferCapacity(vertices, indices int) WGPUBackendOption {
	return func(c *wgpuBackendConfig) {
		if vertices > 0 {
			c.vertexCapacity = vertices
		}
		if indices > 0 {
			c.indexCapacity = indices
		}
	}
}
