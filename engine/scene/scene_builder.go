package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBackground sets the clear color.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
	}
}

// WithToneMapping sets the tone mapping operator and its exposure.
//
// Parameters:
//   - tm: the operator
//   - exposure: the exposure multiplier
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithToneMapping(tm ToneMapping, exposure float32) SceneBuilderOption {
	return func(s *scene) {
		s.toneMapping = tm
		s.exposure = exposure
	}
}

// WithShadows enables or disables shadow rendering.
//
// Parameters:
//   - enabled: whether shadows are rendered
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadows(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.shadows = enabled
	}
}

// WithLights adds initial lights to the scene.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			if l != nil {
				s.lights = append(s.lights, l)
			}
		}
	}
}
