package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/async"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// FrameStats counts frame clock outcomes since the engine was created.
type FrameStats struct {
	// Rendered is the number of frames that ran.
	Rendered uint64

	// Dropped is the number of clock ticks skipped because a frame was still pending.
	Dropped uint64
}

// engine implements the Engine interface.
// Posts frames from a clock goroutine onto the dispatcher that owns the scene.
type engine struct {
	dispatcher async.Dispatcher

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera
	scene    scene.Scene

	frameInterval time.Duration
	rateChannel   chan time.Duration // Channel for dynamic frame rate updates

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	tickCallback func(deltaTime float32)

	framePending atomic.Bool
	rendered     atomic.Uint64
	dropped      atomic.Uint64
	lastFrame    time.Time
}

// Engine is the render loop scheduler. A frame clock posts one frame at a time onto the
// dispatcher; each frame advances the camera damping and then renders the scene. Ticks
// that arrive while a frame is still pending are dropped, never queued.
type Engine interface {
	// Dispatcher returns the turn queue every frame and input handler runs on.
	//
	// Returns:
	//   - async.Dispatcher: the dispatcher
	Dispatcher() async.Dispatcher

	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetFrameRate sets the frame clock rate in frames per second.
	// Takes effect immediately when the engine is running.
	//
	// Parameters:
	//   - fps: frames per second; non-positive values fall back to 60
	SetFrameRate(fps float64)

	// SetTickCallback registers a function run at the start of every frame, before the
	// camera advances.
	//
	// Parameters:
	//   - callback: function receiving delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Tick is one frame clock tick: it posts a frame unless one is already pending.
	//
	// Returns:
	//   - bool: true if a frame was posted, false if the tick was dropped
	Tick() bool

	// Stats returns the frame counters.
	//
	// Returns:
	//   - FrameStats: rendered and dropped counts
	Stats() FrameStats

	// Run drives the frame clock and the dispatcher until ctx is done, Quit is called or
	// the window closes. With a window, Run must be called from the main goroutine.
	//
	// Parameters:
	//   - ctx: context whose cancellation stops the loop
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, nil otherwise
	Run(ctx context.Context) error

	// Quit signals Run to return. Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine bound to d. A nil dispatcher panics.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - d: the dispatcher that owns the scene
//   - options: functional options to configure the engine
//
// Returns:
//   - Engine: the configured engine
func NewEngine(d async.Dispatcher, options ...EngineBuilderOption) Engine {
	if d == nil {
		panic("engine: dispatcher must not be nil")
	}
	e := &engine{
		dispatcher:    d,
		frameInterval: time.Second / 60,
		rateChannel:   make(chan time.Duration, 1),
		quitChannel:   make(chan struct{}),
		profiler:      profiler.NewProfiler(time.Second),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Dispatcher() async.Dispatcher {
	return e.dispatcher
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetFrameRate(fps float64) {
	rate := frameInterval(fps)
	// Replace any pending update so the newest rate wins.
	select {
	case <-e.rateChannel:
	default:
	}
	e.rateChannel <- rate
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.dispatcher.Post(func() {
		e.tickCallback = callback
	})
}

func (e *engine) Tick() bool {
	if !e.framePending.CompareAndSwap(false, true) {
		e.dropped.Add(1)
		if e.profilingEnabled.Load() {
			e.profiler.Drop()
		}
		return false
	}
	if !e.dispatcher.Post(e.frame) {
		e.framePending.Store(false)
		return false
	}
	return true
}

func (e *engine) Stats() FrameStats {
	return FrameStats{
		Rendered: e.rendered.Load(),
		Dropped:  e.dropped.Load(),
	}
}

func (e *engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-e.quitChannel:
			cancel()
		case <-ctx.Done():
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.handleClock(ctx)
	}()
	defer wg.Wait()

	if e.window == nil {
		err := e.dispatcher.Run(ctx)
		if errors.Is(err, context.Canceled) && e.quitRequested() {
			return nil
		}
		return err
	}

	// The window's message loop owns the main thread; the dispatcher is pumped between polls.
	e.window.SetUpdateCallback(func() {
		e.dispatcher.RunPending()
		if ctx.Err() != nil {
			e.window.RequestClose()
		}
	})
	e.window.ProcessMessages()
	e.Quit()

	if err := ctx.Err(); err != nil && !e.quitRequested() {
		return err
	}
	return nil
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitRequested() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// handleClock runs the frame clock until ctx is done. Each tick posts at most one frame and
// listens for dynamic rate changes via rateChannel.
func (e *engine) handleClock(ctx context.Context) {
	ticker := time.NewTicker(e.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		case rate := <-e.rateChannel:
			ticker.Reset(rate)
		}
	}
}

// frame runs on the dispatcher: advance damping, update the camera, render.
// Render errors and panics are logged and never stop the loop.
func (e *engine) frame() {
	defer e.framePending.Store(false)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: frame recovered from panic: %v", r)
		}
	}()

	now := time.Now()
	var dt float32
	if !e.lastFrame.IsZero() {
		dt = float32(now.Sub(e.lastFrame).Seconds())
	}
	e.lastFrame = now

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if e.camera != nil {
		if ctrl := e.camera.Controller(); ctrl != nil {
			ctrl.Update(dt)
		}
		e.camera.Update()
	}

	if e.renderer != nil && e.scene != nil && e.camera != nil {
		if err := e.renderer.Render(e.scene, e.camera); err != nil && !errors.Is(err, renderer.ErrNotConfigured) {
			log.Printf("engine: render failed: %v", err)
		}
	}

	e.rendered.Add(1)
	if e.profilingEnabled.Load() {
		e.profiler.Frame()
	}
}

// frameInterval converts a frame rate to a ticker period, defaulting to 60 fps.
func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
