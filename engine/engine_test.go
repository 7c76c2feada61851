package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/async"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRenderer records Render calls and optionally fails or panics.
type stubRenderer struct {
	mu      sync.Mutex
	calls   int
	err     error
	panicOn int
}

func (s *stubRenderer) Resize(width, height int) {}
func (s *stubRenderer) Size() (int, int) { return 0, 0 }
func (s *stubRenderer) SetPresentMode(mode renderer.PresentMode) {}
func (s *stubRenderer) Frames() uint64 { return 0 }
func (s *stubRenderer) Backend() renderer.RendererBackend { return nil }
func (s *stubRenderer) Release() {}

func (s *stubRenderer) Render(sc scene.Scene, cam camera.Camera) error {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	if s.panicOn == n {
		panic("device lost")
	}
	return s.err
}

func (s *stubRenderer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestEngine(r renderer.Renderer, opts ...EngineBuilderOption) (Engine, async.Dispatcher) {
	d := async.NewDispatcher()
	base := []EngineBuilderOption{
		WithRenderer(r),
		WithCamera(camera.NewCamera(camera.WithController(camera.NewCameraController()))),
		WithScene(scene.NewScene("test")),
	}
	return NewEngine(d, append(base, opts...)...), d
}

func TestTickDropsWhileFramePending(t *testing.T) {
	r := &stubRenderer{}
	e, d := newTestEngine(r)

	assert.True(t, e.Tick())
	assert.False(t, e.Tick())
	assert.False(t, e.Tick())
	assert.Equal(t, 1, d.Pending(), "dropped ticks are never queued")

	assert.Equal(t, 1, d.RunPending())
	assert.Equal(t, FrameStats{Rendered: 1, Dropped: 2}, e.Stats())
	assert.Equal(t, 1, r.Calls())

	assert.True(t, e.Tick(), "the next tick schedules once the frame ran")
}

func TestFrameRunsTickCallbackFirst(t *testing.T) {
	r := &stubRenderer{}
	e, d := newTestEngine(r)

	var order []string
	e.SetTickCallback(func(float32) {
		order = append(order, "tick")
		assert.Equal(t, 0, r.Calls())
	})
	e.Tick()
	d.RunPending()

	assert.Equal(t, []string{"tick"}, order)
	assert.Equal(t, 1, r.Calls())
}

func TestFrameSurvivesRenderErrorsAndPanics(t *testing.T) {
	r := &stubRenderer{err: errors.New("surface lost"), panicOn: 2}
	e, d := newTestEngine(r)

	for range 3 {
		require.True(t, e.Tick())
		d.RunPending()
	}
	assert.Equal(t, 3, r.Calls())
	assert.Equal(t, uint64(2), e.Stats().Rendered, "the panicking frame is not counted")
}

func TestFrameAdvancesDamping(t *testing.T) {
	ctrl := camera.NewCameraController(camera.WithRadius(30))
	cam := camera.NewCamera(camera.WithController(ctrl))
	d := async.NewDispatcher()
	e := NewEngine(d, WithCamera(cam), WithScene(scene.NewScene("test")), WithRenderer(&stubRenderer{}))

	before := cam.ViewMatrix()
	ctrl.Rotate(1, 0)

	e.Tick()
	d.RunPending()
	time.Sleep(20 * time.Millisecond)
	e.Tick()
	d.RunPending()

	assert.Greater(t, ctrl.Azimuth(), float32(0))
	assert.Less(t, ctrl.Azimuth(), float32(1))
	assert.NotEqual(t, before, cam.ViewMatrix())
}

func TestRunHeadlessUntilContextDone(t *testing.T) {
	r := &stubRenderer{}
	e, _ := newTestEngine(r, WithFrameRate(200))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := e.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, e.Stats().Rendered)
	assert.Positive(t, r.Calls())
}

func TestRunReturnsNilOnQuit(t *testing.T) {
	e, _ := newTestEngine(&stubRenderer{})
	go func() {
		time.Sleep(30 * time.Millisecond)
		e.Quit()
		e.Quit()
	}()
	assert.NoError(t, e.Run(context.Background()))
}

func TestNewEnginePanicsWithoutDispatcher(t *testing.T) {
	assert.Panics(t, func() { NewEngine(nil) })
}
