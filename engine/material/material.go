package material

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// Kind identifies the shading model of a material.
type Kind int

const (
	// KindStandard is the metallic-roughness model authored in the source asset.
	KindStandard Kind = iota

	// KindPhysical extends KindStandard with a clearcoat layer.
	KindPhysical
)

// Side selects which faces of a surface are shaded.
type Side int

const (
	// SideFront shades front faces only.
	SideFront Side = iota

	// SideDouble shades both faces.
	SideDouble
)

// material is the implementation of the Material interface.
type material struct {
	name               string
	kind               Kind
	side               Side
	baseColor          common.Color
	opacity            float32
	metallic           float32
	roughness          float32
	clearcoat          float32
	clearcoatRoughness float32
	envMapIntensity    float32
	needsUpdate        bool
}

// Material describes the shading parameters of a drawable surface.
// The base color is mutable; every change raises NeedsUpdate so the renderer knows to
// re-upload the material on its next frame. All other parameters are fixed at construction.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// Kind retrieves the shading model.
	//
	// Returns:
	//   - Kind: the shading model
	Kind() Kind

	// Side retrieves which faces are shaded.
	//
	// Returns:
	//   - Side: the shaded side
	Side() Side

	// BaseColor retrieves the albedo color of the material.
	//
	// Returns:
	//   - common.Color: the base color
	BaseColor() common.Color

	// SetBaseColor replaces the albedo color and marks the material for re-upload.
	//
	// Parameters:
	//   - c: the new base color
	SetBaseColor(c common.Color)

	// Opacity retrieves the alpha used with the base color.
	//
	// Returns:
	//   - float32: opacity in [0, 1]
	Opacity() float32

	// Metallic retrieves the metallic factor (0 dielectric, 1 metal).
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor (0 smooth, 1 rough).
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Clearcoat retrieves the clearcoat layer intensity. Always 0 for KindStandard.
	//
	// Returns:
	//   - float32: the clearcoat intensity
	Clearcoat() float32

	// ClearcoatRoughness retrieves the clearcoat layer roughness. Always 0 for KindStandard.
	//
	// Returns:
	//   - float32: the clearcoat roughness
	ClearcoatRoughness() float32

	// EnvMapIntensity retrieves the multiplier applied to environment reflections.
	//
	// Returns:
	//   - float32: the environment intensity
	EnvMapIntensity() float32

	// NeedsUpdate reports whether the material changed since the renderer last uploaded it.
	//
	// Returns:
	//   - bool: true if a re-upload is pending
	NeedsUpdate() bool

	// MarkUpdated clears the NeedsUpdate flag. Called by the renderer after upload.
	MarkUpdated()
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// New materials start with NeedsUpdate set so their first frame uploads them.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new instance of Material configured with the provided options
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		kind:            KindStandard,
		baseColor:       common.Color{R: 1, G: 1, B: 1},
		opacity:         1,
		metallic:        0.0,
		roughness:       1.0,
		envMapIntensity: 1.0,
		needsUpdate:     true,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.kind == KindStandard {
		m.clearcoat = 0
		m.clearcoatRoughness = 0
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Side() Side {
	return m.side
}

func (m *material) BaseColor() common.Color {
	return m.baseColor
}

func (m *material) SetBaseColor(c common.Color) {
	m.baseColor = c
	m.needsUpdate = true
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Clearcoat() float32 {
	return m.clearcoat
}

func (m *material) ClearcoatRoughness() float32 {
	return m.clearcoatRoughness
}

func (m *material) EnvMapIntensity() float32 {
	return m.envMapIntensity
}

func (m *material) NeedsUpdate() bool {
	return m.needsUpdate
}

func (m *material) MarkUpdated() {
	m.needsUpdate = false
}

// Uniform packs the material into the std140-compatible layout consumed by the surface
// shader: base color (rgba), then metallic, roughness, clearcoat, clearcoat roughness,
// then env intensity padded to a vec4.
//
// Parameters:
//   - m: the material to pack
//
// Returns:
//   - [12]float32: the packed uniform block
func Uniform(m Material) [12]float32 {
	c := m.BaseColor()
	return [12]float32{
		c.R, c.G, c.B, m.Opacity(),
		m.Metallic(), m.Roughness(), m.Clearcoat(), m.ClearcoatRoughness(),
		m.EnvMapIntensity(), 0, 0, 0,
	}
}
