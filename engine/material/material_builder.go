package material

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the material identifier
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithKind is an option builder that sets the shading model.
//
// Parameters:
//   - kind: KindStandard or KindPhysical
//
// Returns:
//   - MaterialBuilderOption: a function that applies the kind option to a material
func WithKind(kind Kind) MaterialBuilderOption {
	return func(m *material) {
		m.kind = kind
	}
}

// WithSide is an option builder that sets which faces are shaded.
//
// Parameters:
//   - side: SideFront or SideDouble
//
// Returns:
//   - MaterialBuilderOption: a function that applies the side option to a material
func WithSide(side Side) MaterialBuilderOption {
	return func(m *material) {
		m.side = side
	}
}

// WithBaseColor is an option builder that sets the albedo color of the material.
//
// Parameters:
//   - color: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithOpacity is an option builder that sets the alpha used with the base color.
//
// Parameters:
//   - opacity: alpha in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = opacity
	}
}

// WithMetallic is an option builder that sets the metallic factor of the material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 to 1.0)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 to 1.0)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithClearcoat is an option builder that sets the clearcoat layer. Ignored unless the
// material is KindPhysical.
//
// Parameters:
//   - clearcoat: the clearcoat intensity
//   - roughness: the clearcoat roughness
//
// Returns:
//   - MaterialBuilderOption: a function that applies the clearcoat option to a material
func WithClearcoat(clearcoat, roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.clearcoat = clearcoat
		m.clearcoatRoughness = roughness
	}
}

// WithEnvMapIntensity is an option builder that sets the environment reflection multiplier.
//
// Parameters:
//   - intensity: the multiplier
//
// Returns:
//   - MaterialBuilderOption: a function that applies the intensity option to a material
func WithEnvMapIntensity(intensity float32) MaterialBuilderOption {
	return func(m *material) {
		m.envMapIntensity = intensity
	}
}
