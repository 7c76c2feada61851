package transform

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func fragment() model.Node {
	t := model.IdentityTransform()
	t.Translation = [3]float32{1, 2, 3}
	return model.NewNode(
		model.WithTransform(t),
		model.WithChildren(model.NewNode(model.WithSurface(&model.Surface{
			Bounds: common.Box3{Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1}},
		}))),
	)
}

func TestRegisterIsIdempotent(t *testing.T) {
	spec := NewRegistrationSpec(10)
	n := fragment()

	Register(n, spec)
	once := n.Transform()
	Register(n, spec)
	assert.Equal(t, once, n.Transform())

	assert.Equal(t, [3]float32{10, 10, 10}, once.Scale)
	assert.Equal(t, [3]float32{1, 2, 3}, once.Translation, "translation is preserved")
}

func TestRegisterAppliesHalfTurn(t *testing.T) {
	n := Register(fragment(), NewRegistrationSpec(1))
	box := n.WorldBounds()
	// unit cube at the origin rotated by pi about Y lands in [-1,0] on x and z, then translated.
	assert.InDelta(t, 0, box.Min[0], 1e-5)
	assert.InDelta(t, 1, box.Max[0], 1e-5)
	assert.InDelta(t, 2, box.Min[2], 1e-5)
	assert.InDelta(t, 3, box.Max[2], 1e-5)
}

func TestZOffsetKeepsSpecsCoRegistered(t *testing.T) {
	base := NewRegistrationSpec(10)
	colorable := WithZOffset(base, DefaultZOffset)

	assert.InDelta(t, 10.01, colorable.Scale[0], 1e-5)
	assert.Equal(t, base.RotationY, colorable.RotationY)
	assert.Equal(t, float32(10), base.Scale[0], "base spec is not mutated")
	assert.True(t, CoRegistered(base, colorable, 0.02))
	assert.False(t, CoRegistered(base, colorable, 0.001))
}

func TestCoRegisteredRotation(t *testing.T) {
	a := NewRegistrationSpec(1)
	b := a
	b.RotationY = math32.Pi / 2
	assert.False(t, CoRegistered(a, b, 0.01))
}

func TestRegisterNil(t *testing.T) {
	assert.Nil(t, Register(nil, NewRegistrationSpec(1)))
}
