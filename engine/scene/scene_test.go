package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(min, max [3]float32) model.Node {
	return model.NewNode(model.WithSurface(&model.Surface{Bounds: common.Box3{Min: min, Max: max}}))
}

func TestAttachSlotsOnce(t *testing.T) {
	s := NewScene("test")
	base := box([3]float32{0, 0, 0}, [3]float32{2, 2, 2})
	other := box([3]float32{0, 0, 0}, [3]float32{1, 1, 1})

	require.NoError(t, s.Attach(SlotBase, base))
	require.NoError(t, s.Attach(SlotBase, base), "re-attaching the same fragment is a no-op")
	assert.ErrorIs(t, s.Attach(SlotBase, other), ErrSlotOccupied)
	assert.Error(t, s.Attach(SlotColorable, nil))

	require.NoError(t, s.Attach(SlotColorable, other))
	frags := s.Fragments()
	require.Len(t, frags, 2)
	assert.Equal(t, SlotBase, frags[0].Slot)
	assert.Equal(t, SlotColorable, frags[1].Slot)

	n, ok := s.Fragment(SlotBase)
	assert.True(t, ok)
	assert.Equal(t, base, n)
}

func TestAttachRejectsRootHeldByAnotherSlot(t *testing.T) {
	s := NewScene("test")
	root := box([3]float32{0, 0, 0}, [3]float32{1, 1, 1})

	require.NoError(t, s.Attach(SlotBase, root))
	assert.ErrorIs(t, s.Attach(SlotColorable, root), ErrAlreadyAttached)
	_, ok := s.Fragment(SlotColorable)
	assert.False(t, ok)
	assert.Len(t, s.Fragments(), 1)
}

func TestBounds(t *testing.T) {
	s := NewScene("test")
	assert.True(t, s.Bounds(SlotBase).IsEmpty())

	require.NoError(t, s.Attach(SlotBase, box([3]float32{-1, 0, -1}, [3]float32{3, 4, 1})))
	assert.Equal(t, [3]float32{1, 2, 0}, s.Bounds(SlotBase).Center())
}

func TestWalkVisitsAllSurfacesInAttachOrder(t *testing.T) {
	s := NewScene("test")
	require.NoError(t, s.Attach(SlotGround, NewGround(GroundConfig{Radius: 40, Segments: 70, Elevation: -0.1})))
	require.NoError(t, s.Attach(SlotBase, box([3]float32{}, [3]float32{1, 1, 1})))

	var names []string
	s.Walk(func(surf *model.Surface, _ mgl32.Mat4) {
		names = append(names, surf.Name)
	})
	assert.Equal(t, []string{"ground/70", ""}, names)
}

func TestGroundLiesFlat(t *testing.T) {
	g := NewGround(GroundConfig{Radius: 40, Segments: 70, Elevation: -0.1})
	b := g.WorldBounds()
	assert.InDelta(t, -40, b.Min[0], 1e-4)
	assert.InDelta(t, 40, b.Max[2], 1e-4)
	assert.InDelta(t, -0.1, b.Min[1], 1e-4)
	assert.InDelta(t, -0.1, b.Max[1], 1e-4)

	surf := g.Children()
	assert.Empty(t, surf)
	assert.True(t, g.Surface().ReceiveShadow)
	assert.False(t, g.Surface().CastShadow)
}

func TestEnvironmentInstalledOnce(t *testing.T) {
	s := NewScene("test")
	assert.Nil(t, s.Environment())

	env := &loader.EnvironmentMap{Width: 2, Height: 1}
	require.NoError(t, s.SetEnvironment(env))
	require.NoError(t, s.SetEnvironment(env))
	assert.ErrorIs(t, s.SetEnvironment(&loader.EnvironmentMap{}), ErrEnvironmentSet)
	assert.Same(t, env, s.Environment())
}

func TestOptions(t *testing.T) {
	amb := light.NewLight(light.WithIntensity(0.5))
	s := NewScene("showroom",
		WithBackground(common.MustParseHexColor("#999999")),
		WithToneMapping(ToneMappingACES, 1.5),
		WithShadows(true),
		WithLights(amb, nil),
	)
	assert.Equal(t, "showroom", s.Name())
	assert.Equal(t, "#999999", s.Background().Hex())
	assert.Equal(t, ToneMappingACES, s.ToneMapping())
	assert.Equal(t, float32(1.5), s.Exposure())
	assert.True(t, s.ShadowsEnabled())
	require.Len(t, s.Lights(), 1)

	s.AddLight(light.NewLight(light.WithType(light.LightTypeDirectional), light.WithPosition(5, 5, 5)))
	assert.Len(t, s.Lights(), 2)
}
