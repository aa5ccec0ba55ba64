package terrain

// TerrainRendererBuilderOption is a functional option for NewTerrainRenderer.
type TerrainRendererBuilderOption func(*terrainRenderer)

// WithGridResolution sets the vertices per side of the drawn grid. Defaults to 255.
//
// Parameters:
//   - resolution: vertices per side, at least 2
//
// Returns:
//   - TerrainRendererBuilderOption: option function to apply
func WithGridResolution(resolution int) TerrainRendererBuilderOption {
	return func(t *terrainRenderer) {
		t.resolution = resolution
	}
}

// WithStepSize sets the world distance between neighbouring grid vertices. Defaults to 1.
//
// Parameters:
//   - step: world units per cell
//
// Returns:
//   - TerrainRendererBuilderOption: option function to apply
func WithStepSize(step float32) TerrainRendererBuilderOption {
	return func(t *terrainRenderer) {
		t.stepSize = step
	}
}

// WithHeightBoost scales the [-1, 1] elevations into world units. Defaults to 10.
//
// Parameters:
//   - boost: world units per unit of elevation
//
// Returns:
//   - TerrainRendererBuilderOption: option function to apply
func WithHeightBoost(boost float32) TerrainRendererBuilderOption {
	return func(t *terrainRenderer) {
		t.heightBoost = boost
	}
}

// WithWireframe draws the grid as lines instead of filled triangles. Defaults to true.
//
// Parameters:
//   - enabled: true for a line list
//
// Returns:
//   - TerrainRendererBuilderOption: option function to apply
func WithWireframe(enabled bool) TerrainRendererBuilderOption {
	return func(t *terrainRenderer) {
		t.wireframe = enabled
	}
}
