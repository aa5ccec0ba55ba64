package terrain

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/ojrac/opensimplex-go"
)

// Heightmap is a square grid of elevations in [-1, 1], stored row-major.
type Heightmap struct {
	Size int
	Data []float32
}

// At returns the elevation at column x, row y.
func (h *Heightmap) At(x, y int) float32 {
	return h.Data[y*h.Size+x]
}

// Bytes returns the elevations as raw float32 bytes, the layout of an R32Float texture.
func (h *Heightmap) Bytes() []byte {
	return common.SliceToBytes(h.Data)
}

// RGBA maps the elevations to an opaque greyscale image, -1 black and 1 white.
func (h *Heightmap) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, h.Size, h.Size))
	for y := 0; y < h.Size; y++ {
		for x := 0; x < h.Size; x++ {
			v := uint8(common.Clamp((h.At(x, y)+1)*0.5, 0, 1) * 255)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// fbm sums octaves of OpenSimplex noise. Each octave uses its own seed, and the amplitudes
// are normalized so the sum stays within [-1, 1].
type fbm struct {
	octaves    []opensimplex.Noise32
	frequency  float32
	lacunarity float32
	gain       float32
	bounding   float32
}

func newFBM(cfg heightmapConfig) *fbm {
	f := &fbm{
		octaves:    make([]opensimplex.Noise32, cfg.octaves),
		frequency:  cfg.frequency,
		lacunarity: cfg.lacunarity,
		gain:       cfg.gain,
	}
	for i := range f.octaves {
		f.octaves[i] = opensimplex.New32(cfg.seed + int64(i))
	}

	amp, total := cfg.gain, float32(1)
	for i := 1; i < cfg.octaves; i++ {
		total += amp
		amp *= cfg.gain
	}
	f.bounding = 1 / total
	return f
}

func (f *fbm) eval(x, y float32) float32 {
	x *= f.frequency
	y *= f.frequency
	amp := f.bounding
	var sum float32
	for _, n := range f.octaves {
		sum += n.Eval2(x, y) * amp
		x *= f.lacunarity
		y *= f.lacunarity
		amp *= f.gain
	}
	return common.Clamp(sum, -1, 1)
}

// GenerateHeightmap fills a heightmap with fractal OpenSimplex noise. Rows are split into
// bands evaluated in parallel on a worker pool; the call returns once every band is done.
//
// Parameters:
//   - options: functional options; the defaults give a 512x512 map with frequency 0.01,
//     5 octaves, lacunarity 2 and gain 0.6
//
// Returns:
//   - *Heightmap: the generated heightmap
//   - error: an error if the options are invalid or a band failed
func GenerateHeightmap(options ...HeightmapBuilderOption) (*Heightmap, error) {
	cfg := defaultHeightmapConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.size <= 0 {
		return nil, fmt.Errorf("heightmap size must be positive, got %d", cfg.size)
	}
	if cfg.octaves <= 0 {
		return nil, fmt.Errorf("heightmap needs at least one octave, got %d", cfg.octaves)
	}

	start := time.Now()
	noise := newFBM(cfg)
	h := &Heightmap{Size: cfg.size, Data: make([]float32, cfg.size*cfg.size)}

	workers := max(cfg.workers, 1)
	bandRows := (cfg.size + workers - 1) / workers
	pool := bandPool()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for id, row := 0, 0; row < cfg.size; id, row = id+1, row+bandRows {
		first, last := row, min(row+bandRows, cfg.size)
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if err := fillRows(h, noise, first, last); err != nil {
					mu.Lock()
					firstErr = common.Coalesce(firstErr, err)
					mu.Unlock()
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	log.Printf("[Terrain] generated %dx%d heightmap in %s", cfg.size, cfg.size, time.Since(start).Round(time.Millisecond))
	return h, nil
}

// poolQueueSize bounds the queued bands; SubmitTask blocks while the queue is full.
const poolQueueSize = 64

var (
	bandPoolOnce sync.Once
	bandPoolInst worker.DynamicWorkerPool
)

// bandPool returns the pool shared by every GenerateHeightmap call. Its runtime.NumCPU()
// workers are started once and stay parked between calls.
func bandPool() worker.DynamicWorkerPool {
	bandPoolOnce.Do(func() {
		bandPoolInst = worker.NewDynamicWorkerPool(runtime.NumCPU(), poolQueueSize, time.Second)
	})
	return bandPoolInst
}

// fillRows writes rows [first, last) and recovers a panicking noise source into an error.
func fillRows(h *Heightmap, noise *fbm, first, last int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("heightmap rows %d-%d: %v", first, last, r)
		}
	}()
	for y := first; y < last; y++ {
		row := h.Data[y*h.Size : (y+1)*h.Size]
		for x := range row {
			row[x] = noise.eval(float32(x), float32(y))
		}
	}
	return nil
}

// MipChain box-filters the heightmap down to 1x1. Level 0 is the heightmap itself, so the
// chain has log2(size)+1 levels for a power-of-two size.
//
// Parameters:
//   - h: the source heightmap
//
// Returns:
//   - [][]float32: the levels, each row-major and half the size of the previous one
func MipChain(h *Heightmap) [][]float32 {
	levels := make([][]float32, 0, common.Log2Floor(h.Size)+1)
	levels = append(levels, h.Data)
	src, size := h.Data, h.Size
	for size > 1 {
		next := max(size/2, 1)
		dst := make([]float32, next*next)
		for y := 0; y < next; y++ {
			for x := 0; x < next; x++ {
				x0, y0 := min(2*x, size-1), min(2*y, size-1)
				x1, y1 := min(2*x+1, size-1), min(2*y+1, size-1)
				dst[y*next+x] = (src[y0*size+x0] + src[y0*size+x1] + src[y1*size+x0] + src[y1*size+x1]) / 4
			}
		}
		levels = append(levels, dst)
		src, size = dst, next
	}
	return levels
}

// MipLevelBytes converts MipChain levels 1..n to the byte slices an R32Float texture
// upload expects.
func MipLevelBytes(levels [][]float32) [][]byte {
	if len(levels) <= 1 {
		return nil
	}
	out := make([][]byte, 0, len(levels)-1)
	for _, level := range levels[1:] {
		out = append(out, common.SliceToBytes(level))
	}
	return out
}
