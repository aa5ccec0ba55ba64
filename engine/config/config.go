// Package config loads sandbox settings from YAML and turns them into the builder options
// of the engine components.
package config

import (
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/debugdraw"
	"github.com/cogentcore/webgpu/wgpu"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML document. Sections and fields left out of the file keep
// the values from Default.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Camera    CameraConfig    `yaml:"camera"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	DebugDraw DebugDrawConfig `yaml:"debugDraw"`
	Engine    EngineConfig    `yaml:"engine"`
}

// WindowConfig configures the platform window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RendererConfig configures the WebGPU renderer.
type RendererConfig struct {
	VSync            bool   `yaml:"vsync"`
	MSAA             int    `yaml:"msaa"`
	SoftwareRenderer bool   `yaml:"softwareRenderer"`
	ClearColor       string `yaml:"clearColor"` // hex (#rrggbb) or an SVG color name

	clearColor wgpu.Color
}

// CameraConfig configures the free camera. Angles are in degrees.
type CameraConfig struct {
	Spawn         [3]float32 `yaml:"spawn"`
	Yaw           float32    `yaml:"yaw"`
	Pitch         float32    `yaml:"pitch"`
	FovY          float32    `yaml:"fovY"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	MovementSpeed float32    `yaml:"movementSpeed"`
	PitchSpeed    float32    `yaml:"pitchSpeed"`
	YawSpeed      float32    `yaml:"yawSpeed"`
}

// OverlayConfig configures the ImGui overlay.
type OverlayConfig struct {
	FPSCounter bool `yaml:"fpsCounter"`
}

// DebugDrawConfig configures the debug draw module.
type DebugDrawConfig struct {
	DepthPolicy string `yaml:"depthPolicy"` // dontcare, enabled or disabled

	depthPolicy debugdraw.DepthPolicy
}

// EngineConfig configures the main loop.
type EngineConfig struct {
	Profiling  bool    `yaml:"profiling"`
	FrameLimit float64 `yaml:"frameLimit"` // frames per second, 0 for none
}

// Default returns the settings used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-sandbox",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			VSync:      true,
			MSAA:       1,
			ClearColor: "black",
			clearColor: wgpu.Color{A: 1},
		},
		Camera: CameraConfig{
			Spawn:         [3]float32{0, 0, 10},
			FovY:          45,
			Near:          1,
			Far:           5000,
			MovementSpeed: 1,
			PitchSpeed:    0.08,
			YawSpeed:      0.08,
		},
		Overlay: OverlayConfig{
			FPSCounter: true,
		},
		DebugDraw: DebugDrawConfig{
			DepthPolicy: "dontcare",
		},
	}
}

// Load reads and validates a YAML file on top of Default.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	return LoadOnto(Default(), path)
}

// LoadOnto reads and validates a YAML file on top of base, so a program can set its own
// defaults and still let the file override them.
//
// Parameters:
//   - base: the values for everything the file leaves out
//   - path: the file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file cannot be read, parsed or validated
func LoadOnto(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseOnto(base, data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the document is malformed or a value is out of range
func Parse(data []byte) (Config, error) {
	return ParseOnto(Default(), data)
}

// ParseOnto decodes YAML on top of base and validates the result.
//
// Parameters:
//   - base: the values for everything the document leaves out
//   - data: the YAML document
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the document is malformed or a value is out of range
func ParseOnto(base Config, data []byte) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse yaml")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4 {
		return errors.Errorf("renderer msaa must be 1 or 4, got %d", c.Renderer.MSAA)
	}
	clear, err := parseColor(c.Renderer.ClearColor)
	if err != nil {
		return errors.Wrap(err, "renderer clearColor")
	}
	c.Renderer.clearColor = clear

	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("camera clip distances invalid: near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return errors.Errorf("camera fovY must be in (0, 180), got %v", c.Camera.FovY)
	}

	policy, err := parseDepthPolicy(c.DebugDraw.DepthPolicy)
	if err != nil {
		return err
	}
	c.DebugDraw.depthPolicy = policy

	if c.Engine.FrameLimit < 0 {
		return errors.Errorf("engine frameLimit must not be negative, got %v", c.Engine.FrameLimit)
	}
	return nil
}

func parseColor(s string) (wgpu.Color, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		cf, _ := colorful.MakeColor(named)
		return wgpu.Color{R: cf.R, G: cf.G, B: cf.B, A: 1}, nil
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return wgpu.Color{}, errors.Errorf("unknown color %q", s)
	}
	return wgpu.Color{R: cf.R, G: cf.G, B: cf.B, A: 1}, nil
}

func parseDepthPolicy(s string) (debugdraw.DepthPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dontcare":
		return debugdraw.DepthDontCare, nil
	case "enabled":
		return debugdraw.DepthEnabled, nil
	case "disabled":
		return debugdraw.DepthDisabled, nil
	}
	return 0, errors.Errorf("debugDraw depthPolicy must be dontcare, enabled or disabled, got %q", s)
}
