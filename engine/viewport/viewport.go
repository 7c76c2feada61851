package viewport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

// ErrInvalidSize is returned when a resize notification carries a non-positive dimension.
var ErrInvalidSize = errors.New("viewport: width and height must be positive")

// Target receives the output size of the viewport. The renderer satisfies it.
type Target interface {
	Resize(width, height int)
}

// viewport is the implementation of the Viewport interface.
type viewport struct {
	mu *sync.Mutex

	camera camera.Camera
	target Target

	fraction float32
	width    int
	height   int
	aspect   float32
}

// Viewport keeps the camera aspect ratio and the renderer output size in step with the
// most recent size notification. Every call is applied synchronously; nothing is queued.
type Viewport interface {
	// Resize applies a new output size. The camera aspect becomes width/height and the
	// target is resized to width x height before Resize returns.
	//
	// Parameters:
	//   - width: output width in pixels
	//   - height: output height in pixels
	//
	// Returns:
	//   - error: ErrInvalidSize if either dimension is not positive; previous state is kept
	Resize(width, height int) error

	// ResizeDisplay scales the available display area by the configured fraction and then
	// applies it like Resize.
	//
	// Parameters:
	//   - displayWidth: available width in pixels
	//   - displayHeight: available height in pixels
	//
	// Returns:
	//   - error: ErrInvalidSize if the scaled size is not positive
	ResizeDisplay(displayWidth, displayHeight int) error

	// Size returns the last applied output size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Aspect returns the last applied aspect ratio, or 0 before the first notification.
	//
	// Returns:
	//   - float32: width/height
	Aspect() float32

	// Fraction returns the share of the display area used by ResizeDisplay.
	//
	// Returns:
	//   - float32: the fraction in (0, 1]
	Fraction() float32
}

var _ Viewport = &viewport{}

// NewViewport creates a Viewport bound to cam. A nil camera panics.
//
// Parameters:
//   - cam: the camera whose aspect ratio is kept current
//   - options: functional options to configure the viewport
//
// Returns:
//   - Viewport: the new viewport
func NewViewport(cam camera.Camera, options ...ViewportBuilderOption) Viewport {
	if cam == nil {
		panic("viewport: camera must not be nil")
	}
	v := &viewport{
		mu:       &sync.Mutex{},
		camera:   cam,
		fraction: 1,
	}
	for _, opt := range options {
		opt(v)
	}
	if v.fraction <= 0 || v.fraction > 1 {
		v.fraction = 1
	}
	return v
}

func (v *viewport) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = width
	v.height = height
	v.aspect = float32(width) / float32(height)

	v.camera.SetAspect(v.aspect)
	if v.target != nil {
		v.target.Resize(width, height)
	}
	return nil
}

func (v *viewport) ResizeDisplay(displayWidth, displayHeight int) error {
	v.mu.Lock()
	f := v.fraction
	v.mu.Unlock()
	return v.Resize(int(float32(displayWidth)*f), int(float32(displayHeight)*f))
}

func (v *viewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func (v *viewport) Aspect() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.aspect
}

func (v *viewport) Fraction() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fraction
}
