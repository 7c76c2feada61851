package color

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var navy = common.MustParseHexColor("#000B58")

// fixture returns a registry with two recolorable surfaces and one outside surface.
func fixture(t *testing.T) (*surface.Registry, *model.Surface) {
	t.Helper()
	reg := surface.NewRegistry()
	colorable := model.NewNode(model.WithChildren(
		model.NewNode(model.WithSurface(&model.Surface{Name: "body"})),
		model.NewNode(model.WithSurface(&model.Surface{Name: "trim"})),
	))
	n := surface.Extract(colorable, surface.Recolorable(func() material.Material {
		return material.NewMaterial(material.WithBaseColor(common.MustParseHexColor("#820300")))
	}), reg)
	require.Equal(t, 2, n)

	outside := &model.Surface{Name: "base", Material: material.NewMaterial(material.WithBaseColor(common.Color{R: 0.5, G: 0.5, B: 0.5}))}
	return reg, outside
}

func TestNewPaletteRejectsDuplicates(t *testing.T) {
	_, err := NewPalette(Entry{Label: "red"}, Entry{Label: "red"})
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = NewPalette(Entry{Label: ""})
	assert.Error(t, err)
}

func TestDefaultPaletteOrder(t *testing.T) {
	p := DefaultPalette()
	require.Equal(t, 3, p.Len())
	var labels []string
	for _, e := range p.Entries() {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"red", "blue", "black"}, labels)
	assert.Equal(t, "#000B58", p.At(1).Color.Hex())
}

func TestSetColorTouchesOnlyRegistry(t *testing.T) {
	reg, outside := fixture(t)
	before := outside.Material.BaseColor()
	outside.Material.MarkUpdated()

	c := NewController(reg, DefaultPalette())
	c.SetColor(navy)

	reg.Each(func(s *model.Surface) {
		assert.Equal(t, navy, s.Material.BaseColor())
		assert.True(t, s.Material.NeedsUpdate())
	})
	assert.Equal(t, before, outside.Material.BaseColor())
	assert.False(t, outside.Material.NeedsUpdate())
}

func TestSetColorIsIdempotent(t *testing.T) {
	reg, _ := fixture(t)
	c := NewController(reg, DefaultPalette())

	c.SetColor(navy)
	once := make([]common.Color, 0, reg.Len())
	reg.Each(func(s *model.Surface) { once = append(once, s.Material.BaseColor()) })

	c.SetColor(navy)
	twice := make([]common.Color, 0, reg.Len())
	reg.Each(func(s *model.Surface) { twice = append(twice, s.Material.BaseColor()) })

	assert.Equal(t, once, twice)
	cur, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, navy, cur)
}

func TestSetColorEmptyRegistryIsNoop(t *testing.T) {
	c := NewController(surface.NewRegistry(), DefaultPalette())
	assert.NotPanics(t, func() { c.SetColor(navy) })
	assert.NoError(t, c.Select("black"))
	Apply(nil, navy)
}

func TestSelect(t *testing.T) {
	reg, _ := fixture(t)
	c := NewController(reg, DefaultPalette())

	require.NoError(t, c.Select("blue"))
	assert.Equal(t, navy, reg.At(0).Material.BaseColor())

	err := c.Select("green")
	assert.ErrorIs(t, err, ErrUnknownLabel)
	assert.Equal(t, navy, reg.At(0).Material.BaseColor(), "failed selection leaves colors alone")

	require.NoError(t, c.SelectIndex(2))
	assert.Equal(t, common.Color{}, reg.At(1).Material.BaseColor())
	assert.ErrorIs(t, c.SelectIndex(3), ErrUnknownLabel)
}

func TestNewControllerRequiresCollaborators(t *testing.T) {
	assert.Panics(t, func() { NewController(nil, DefaultPalette()) })
	assert.Panics(t, func() { NewController(surface.NewRegistry(), nil) })
}
