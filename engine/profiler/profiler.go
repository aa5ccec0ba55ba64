package profiler

import (
	"log"
	"runtime"
	"time"
)

// frameWindow is the number of frames averaged for the frame time, the same window ImGui
// uses for its framerate.
const frameWindow = 60

// Profiler tracks frame timing and memory statistics.
// Frame times are averaged over the last frameWindow frames; when logging is on, FPS and
// memory statistics are written to the log once per interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	updateInterval time.Duration
	logging        bool
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	frameTimes [frameWindow]float64 // milliseconds
	frameIndex int
	frameTotal float64
	frameSeen  int
}

// NewProfiler creates a new Profiler. The log interval defaults to 1 second and logging to off.
//
// Parameters:
//   - options: functional options configuring the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	now := time.Now()
	p := &Profiler{
		lastTime:       now,
		lastFrame:      now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per frame.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	return p.tick(time.Now())
}

// AverageFrameTime returns the mean frame time over the recent frames.
//
// Returns:
//   - float64: milliseconds per frame, 0 before the first tick
func (p *Profiler) AverageFrameTime() float64 {
	if p.frameSeen == 0 {
		return 0
	}
	return p.frameTotal / float64(p.frameSeen)
}

// FPS returns the frame rate matching AverageFrameTime.
//
// Returns:
//   - float64: frames per second, 0 before the first tick
func (p *Profiler) FPS() float64 {
	avg := p.AverageFrameTime()
	if avg <= 0 {
		return 0
	}
	return 1000 / avg
}

// SetLogging turns periodic stat logging on or off.
//
// Parameters:
//   - enabled: true to log stats once per interval
func (p *Profiler) SetLogging(enabled bool) {
	p.logging = enabled
}

func (p *Profiler) tick(now time.Time) bool {
	p.recordFrame(float64(now.Sub(p.lastFrame)) / float64(time.Millisecond))
	p.lastFrame = now

	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	if p.logging {
		p.logStats(elapsed)
	}
	p.frameCount = 0
	p.lastTime = now
	return p.logging
}

func (p *Profiler) recordFrame(ms float64) {
	p.frameTotal -= p.frameTimes[p.frameIndex]
	p.frameTimes[p.frameIndex] = ms
	p.frameTotal += ms
	p.frameIndex = (p.frameIndex + 1) % frameWindow
	if p.frameSeen < frameWindow {
		p.frameSeen++
	}
}

func (p *Profiler) logStats(elapsed time.Duration) {
	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Frame: %.3f ms | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d us, max: %d us) | Sys: %.2f MB",
		fps, p.AverageFrameTime(), allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
