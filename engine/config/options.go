package config

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/debugdraw"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/overlay"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// WindowOptions converts the window section.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
	}
}

// RendererOptions converts the renderer section.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode := renderer.PresentModeUncapped
	if c.Renderer.VSync {
		mode = renderer.PresentModeVSync
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(c.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(c.Renderer.SoftwareRenderer),
		renderer.WithClearColor(c.Renderer.clearColor),
	}
}

// CameraOptions converts the camera section. The aspect ratio comes from the live window.
//
// Parameters:
//   - aspect: framebuffer width divided by height
//
// Returns:
//   - []camera.FreeCameraBuilderOption: the options
func (c Config) CameraOptions(aspect float32) []camera.FreeCameraBuilderOption {
	cam := c.Camera
	return []camera.FreeCameraBuilderOption{
		camera.WithSpawnPosition(cam.Spawn[0], cam.Spawn[1], cam.Spawn[2]),
		camera.WithYaw(cam.Yaw),
		camera.WithPitch(cam.Pitch),
		camera.WithFovY(cam.FovY),
		camera.WithAspectRatio(aspect),
		camera.WithNear(cam.Near),
		camera.WithFar(cam.Far),
		camera.WithMovementSpeed(cam.MovementSpeed),
		camera.WithPitchSpeed(cam.PitchSpeed),
		camera.WithYawSpeed(cam.YawSpeed),
	}
}

// OverlayOptions converts the overlay section.
func (c Config) OverlayOptions() []overlay.OverlayBuilderOption {
	return []overlay.OverlayBuilderOption{
		overlay.WithDisplaySize(c.Window.Width, c.Window.Height),
		overlay.WithFPSCounter(c.Overlay.FPSCounter),
	}
}

// DebugDrawOptions converts the debug draw section.
func (c Config) DebugDrawOptions() []debugdraw.DebugDrawBuilderOption {
	return []debugdraw.DebugDrawBuilderOption{
		debugdraw.WithViewport(c.Window.Width, c.Window.Height),
		debugdraw.WithDepthPolicy(c.DebugDraw.depthPolicy),
	}
}

// EngineOptions converts the engine section. The window and renderer are added by the
// caller.
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithProfiling(c.Engine.Profiling),
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
	}
}
