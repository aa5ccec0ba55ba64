package terrain

import "runtime"

// heightmapConfig holds the noise settings applied by HeightmapBuilderOption.
type heightmapConfig struct {
	size       int
	seed       int64
	frequency  float32
	octaves    int
	lacunarity float32
	gain       float32
	workers    int
}

func defaultHeightmapConfig() heightmapConfig {
	return heightmapConfig{
		size:       512,
		seed:       1337,
		frequency:  0.01,
		octaves:    5,
		lacunarity: 2,
		gain:       0.6,
		workers:    runtime.NumCPU(),
	}
}

// HeightmapBuilderOption is a functional option for GenerateHeightmap.
type HeightmapBuilderOption func(*heightmapConfig)

// WithSize sets the width and height of the heightmap in samples.
//
// Parameters:
//   - size: samples per side
//
// Returns:
//   - HeightmapBuilderOption: option function to apply
func WithSize(size int) HeightmapBuilderOption {
	return func(c *heightmapConfig) {
		c.size = size
	}
}

// WithSeed sets the noise seed. Octave i uses seed+i.
//
// Parameters:
//   - seed: the base seed
//
// Returns:
//   - HeightmapBuilderOption: option function to apply
func WithSeed(seed int64) HeightmapBuilderOption {
	return func(c *heightmapConfig) {
		c.seed = seed
	}
}

// WithFrequency sets the frequency of the first octave.
//
// Parameters:
//   - frequency: noise cycles per sample
//
// Returns:
//   - HeightmapBuilderOption: option function to apply
func WithFrequency(frequency float32) HeightmapBuilderOption {
	return func(c *heightmapConfig) {
		c.frequency = frequency
	}
}

// WithFractal sets the fractal Brownian motion parameters.
//
// Parameters:
//   - octaves: number of noise layers
//   - lacunarity: frequency multiplier between octaves
//   - gain: amplitude multiplier between octaves
//
// Returns:
//   - HeightmapBuilderOption: option function to apply
func WithFractal(octaves int, lacunarity, gain float32) HeightmapBuilderOption {
	return func(c *heightmapConfig) {
		c.octaves = octaves
		c.lacunarity = lacunarity
		c.gain = gain
	}
}

// WithWorkers sets the number of row bands generated in parallel. Defaults to runtime.NumCPU().
// Bands run on the shared package pool, so at most runtime.NumCPU() of them run at once.
//
// Parameters:
//   - workers: band count, values below 1 are treated as 1
//
// Returns:
//   - HeightmapBuilderOption: option function to apply
func WithWorkers(workers int) HeightmapBuilderOption {
	return func(c *heightmapConfig) {
		c.workers = workers
	}
}
