package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Profiler tracks rendered and dropped frames together with memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	dropCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
}

// NewProfiler creates a new Profiler that logs once per interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - interval: time between log lines
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Drop records a frame clock tick that was skipped because the previous frame was still
// pending. Safe to call from any goroutine.
func (p *Profiler) Drop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropCount++
}

// Frame should be called once per rendered frame.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, dropped ticks, heap usage, allocation rate, GC count/pause times.
//
// Returns:
//   - bool: true if stats were logged this call, false otherwise
func (p *Profiler) Frame() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a circular buffer of the last 256 GC pauses
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	log.Printf("[Profiler] FPS: %.2f | Dropped: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs)",
		fps, p.dropCount, allocMB, allocRateMB, gcCount, maxPauseUs)

	p.frameCount = 0
	p.dropCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
