package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects an in-memory backend that records uploads and frames
	// without touching a GPU.
	BackendTypeHeadless
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// FrameUniforms is the per-frame data shared by every surface drawn in a frame.
type FrameUniforms struct {
	// ViewProjection maps world space to WebGPU clip space.
	ViewProjection mgl32.Mat4

	// Lights is the packed light block, see light.Pack.
	Lights []float32

	// Exposure scales radiance before tone mapping.
	Exposure float32
}

// RendererBackend is the device-facing half of the Renderer. The Renderer decides what to
// upload and when; the backend owns the device resources.
type RendererBackend interface {
	// ConfigureSurface (re)creates the presentation surface and attachments at the given size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode selects how frames are presented. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// WriteMaterial uploads the packed uniform block of m, creating its buffer on first use.
	// The buffers are written but not yet bound by any pipeline.
	//
	// Parameters:
	//   - m: the material, used as the buffer key
	//   - data: the packed uniform block from material.Uniform
	//
	// Returns:
	//   - error: an error if the buffer could not be created
	WriteMaterial(m material.Material, data [12]float32) error

	// WriteFrame uploads the per-frame uniforms.
	//
	// Parameters:
	//   - u: the frame uniforms
	//
	// Returns:
	//   - error: an error if the buffer could not be created
	WriteFrame(u FrameUniforms) error

	// BeginFrame acquires the next surface image and opens a render pass cleared to clear.
	//
	// Parameters:
	//   - clear: the display-ready clear color
	//
	// Returns:
	//   - error: an error if the surface image could not be acquired
	BeginFrame(clear common.Color) error

	// EndFrame closes the render pass and submits the recorded commands.
	EndFrame()

	// Present displays the frame submitted by EndFrame.
	Present()

	// Release frees every device resource held by the backend.
	Release()
}
