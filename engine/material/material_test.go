package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, KindStandard, m.Kind())
	assert.Equal(t, SideFront, m.Side())
	assert.Equal(t, common.Color{R: 1, G: 1, B: 1}, m.BaseColor())
	assert.Equal(t, float32(1), m.Roughness())
	assert.True(t, m.NeedsUpdate(), "fresh materials must be uploaded once")
}

func TestStandardMaterialDropsClearcoat(t *testing.T) {
	m := NewMaterial(WithClearcoat(0.3, 0.2))
	assert.Zero(t, m.Clearcoat())
	assert.Zero(t, m.ClearcoatRoughness())

	p := NewMaterial(WithKind(KindPhysical), WithClearcoat(0.3, 0.2))
	assert.Equal(t, float32(0.3), p.Clearcoat())
	assert.Equal(t, float32(0.2), p.ClearcoatRoughness())
}

func TestSetBaseColorRaisesNeedsUpdate(t *testing.T) {
	m := NewMaterial(WithName("paint"))
	m.MarkUpdated()
	assert.False(t, m.NeedsUpdate())

	blue := common.MustParseHexColor("#000B58")
	m.SetBaseColor(blue)
	assert.Equal(t, blue, m.BaseColor())
	assert.True(t, m.NeedsUpdate())
}

func TestUniformLayout(t *testing.T) {
	m := NewMaterial(
		WithKind(KindPhysical),
		WithBaseColor(common.Color{R: 0.5, G: 0.25, B: 0.125}),
		WithMetallic(0.9),
		WithRoughness(0.3),
		WithClearcoat(0.3, 0.2),
		WithEnvMapIntensity(2),
	)
	u := Uniform(m)
	assert.Equal(t, [12]float32{0.5, 0.25, 0.125, 1, 0.9, 0.3, 0.3, 0.2, 2, 0, 0, 0}, u)
}
