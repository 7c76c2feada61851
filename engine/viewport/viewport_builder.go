package viewport

// ViewportBuilderOption is a functional option for configuring a Viewport.
type ViewportBuilderOption func(*viewport)

// WithTarget sets the output that is resized alongside the camera, usually the renderer.
//
// Parameters:
//   - t: the resize target
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithTarget(t Target) ViewportBuilderOption {
	return func(v *viewport) {
		v.target = t
	}
}

// WithFraction sets the share of the display area used by ResizeDisplay.
// Values outside (0, 1] fall back to 1.
//
// Parameters:
//   - f: the fraction of each display dimension
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithFraction(f float32) ViewportBuilderOption {
	return func(v *viewport) {
		v.fraction = f
	}
}
