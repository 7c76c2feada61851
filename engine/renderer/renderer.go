package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNotConfigured is returned by Render before the first Resize.
	ErrNotConfigured = errors.New("renderer: surface not configured")

	errNothingToRender = errors.New("renderer: scene and camera are required")
)

// Surface is the presentation target of the WebGPU backend. The window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width  int
	height int
	frames uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	customBackend        RendererBackend
}

// Renderer presents a scene through a camera. Only materials flagged as needing an update
// are re-uploaded each frame; the flag is cleared once the upload succeeds.
//
// The loader keeps surface bounds and materials but no vertex data, so there is no draw
// pass yet: a frame writes the material and frame buffers, clears to the tone mapped
// background and presents. No pipeline binds the material buffers, so a recolor is not
// visible on screen until a draw path consumes them.
type Renderer interface {
	// Resize reconfigures the output surface.
	//
	// Parameters:
	//   - width: output width in pixels
	//   - height: output height in pixels
	Resize(width, height int)

	// Size returns the configured output size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Render uploads pending material changes and frame uniforms, clears to the scene's
	// display background and presents.
	//
	// Parameters:
	//   - sc: the scene to draw
	//   - cam: the camera to draw through
	//
	// Returns:
	//   - error: ErrNotConfigured before the first Resize, or the upload and frame failures
	Render(sc scene.Scene, cam camera.Camera) error

	// Frames returns the number of frames presented.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Backend returns the backend the renderer drives.
	//
	// Returns:
	//   - RendererBackend: the backend
	Backend() RendererBackend

	// Release frees the backend's device resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer with the given backend. BackendTypeWGPU requires a non-nil
// surface and configures it at the surface's current size; BackendTypeHeadless ignores it.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the presentation target for BackendTypeWGPU
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch {
	case r.customBackend != nil:
		r.backend = r.customBackend
	case backendType == BackendTypeHeadless:
		r.backend = NewHeadlessBackend()
	default:
		if surface == nil {
			panic("renderer: wgpu backend requires a surface")
		}
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	if surface != nil && surface.Width() > 0 && surface.Height() > 0 {
		r.Resize(surface.Width(), surface.Height())
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}
}

func (r *renderer) Render(sc scene.Scene, cam camera.Camera) error {
	if sc == nil || cam == nil {
		return errNothingToRender
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.width <= 0 || r.height <= 0 {
		return ErrNotConfigured
	}

	var uploadErr error
	sc.Walk(func(surf *model.Surface, _ mgl32.Mat4) {
		m := surf.Material
		if m == nil || !m.NeedsUpdate() {
			return
		}
		if err := r.backend.WriteMaterial(m, material.Uniform(m)); err != nil {
			uploadErr = errors.Join(uploadErr, fmt.Errorf("upload material %q: %w", m.Name(), err))
			return
		}
		m.MarkUpdated()
	})

	err := r.backend.WriteFrame(FrameUniforms{
		ViewProjection: cam.ViewProjectionMatrix(),
		Lights:         light.Pack(sc.Lights()),
		Exposure:       sc.Exposure(),
	})
	if err != nil {
		return errors.Join(uploadErr, fmt.Errorf("write frame uniforms: %w", err))
	}

	if err := r.backend.BeginFrame(displayColor(sc.Background(), sc.ToneMapping(), sc.Exposure())); err != nil {
		return errors.Join(uploadErr, fmt.Errorf("begin frame: %w", err))
	}
	r.backend.EndFrame()
	r.backend.Present()
	r.frames++

	return uploadErr
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
