package composer

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/surface"
)

// ComposerBuilderOption is a functional option for configuring a Composer via NewComposer.
type ComposerBuilderOption func(*composer)

// WithCamera is an option builder that sets the camera centered on the base model once it
// is attached.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ComposerBuilderOption: a function that applies the camera option to a composer
func WithCamera(cam camera.Camera) ComposerBuilderOption {
	return func(c *composer) {
		c.camera = cam
	}
}

// WithRegistry is an option builder that shares an existing registry instead of creating one.
//
// Parameters:
//   - reg: the registry
//
// Returns:
//   - ComposerBuilderOption: a function that applies the registry option to a composer
func WithRegistry(reg *surface.Registry) ComposerBuilderOption {
	return func(c *composer) {
		c.registry = reg
	}
}
