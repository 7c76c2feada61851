package light

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithType is an option builder that sets the light type.
//
// Parameters:
//   - t: the light type
//
// Returns:
//   - LightBuilderOption: a function that applies the type option to a lightImpl
func WithType(t LightType) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightType = t
	}
}

// WithPosition is an option builder that places the light and aims it at the origin.
// A light placed at the origin keeps pointing straight down.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
		dir := mgl32.Vec3{-x, -y, -z}
		if dir.Len() == 0 {
			dir = mgl32.Vec3{0, -1, 0}
		}
		dir = dir.Normalize()
		l.direction = [3]float32{dir[0], dir[1], dir[2]}
	}
}

// WithColor is an option builder that sets the color of the light.
//
// Parameters:
//   - c: the light color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithIntensity is an option builder that sets the scalar intensity of the light.
//
// Parameters:
//   - intensity: the intensity multiplier
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithCastsShadows is an option builder that sets whether the light generates shadow maps.
// Ignored for ambient lights.
//
// Parameters:
//   - casts: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option to a lightImpl
func WithCastsShadows(casts bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = casts
	}
}
