package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerStartPosition(t *testing.T) {
	cc := NewCameraController(WithPosition(20, 15, 40), WithDamping(0.05))
	x, y, z := cc.Position()
	assert.InDelta(t, 20, x, 1e-3)
	assert.InDelta(t, 15, y, 1e-3)
	assert.InDelta(t, 40, z, 1e-3)
	assert.InDelta(t, math32.Sqrt(20*20+15*15+40*40), cc.Radius(), 1e-3)
	assert.True(t, cc.Settled())
}

func TestControllerRadiusBoundsOnStart(t *testing.T) {
	cc := NewCameraController(WithPosition(20, 15, 40), WithRadiusBounds(45, 45))
	assert.InDelta(t, 45, cc.Radius(), 1e-4)

	cc.Zoom(10)
	cc.Update(1)
	assert.InDelta(t, 45, cc.Radius(), 1e-4)
}

func TestControllerDampingConverges(t *testing.T) {
	cc := NewCameraController(WithRadius(30), WithDamping(0.05))
	cc.Rotate(1, 0)
	assert.False(t, cc.Settled())

	cc.Update(1.0 / 60)
	first := cc.Azimuth()
	assert.InDelta(t, 0.05, first, 1e-4, "one 1/60 s step covers the damping fraction")

	for range 600 {
		cc.Update(1.0 / 60)
	}
	assert.True(t, cc.Settled())
	assert.InDelta(t, 1, cc.Azimuth(), 1e-6)
}

func TestControllerDampingFrameRateIndependent(t *testing.T) {
	a := NewCameraController(WithRadius(30))
	b := NewCameraController(WithRadius(30))
	a.Rotate(1, 0)
	b.Rotate(1, 0)

	a.Update(2.0 / 60)
	b.Update(1.0 / 60)
	b.Update(1.0 / 60)
	assert.InDelta(t, a.Azimuth(), b.Azimuth(), 1e-5)
}

func TestControllerNoDampingSnaps(t *testing.T) {
	cc := NewCameraController(WithRadius(30), WithDamping(0))
	cc.Rotate(0.5, 0.2)
	cc.Update(0)
	assert.True(t, cc.Settled())
	assert.InDelta(t, 0.5, cc.Azimuth(), 1e-6)
}

func TestControllerElevationClamped(t *testing.T) {
	cc := NewCameraController(WithElevationBounds(-0.5, 0.5), WithDamping(0))
	cc.Rotate(0, 10)
	cc.Update(1)
	assert.InDelta(t, 0.5, cc.Elevation(), 1e-6)
}

func TestControllerSetTargetKeepsPosition(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 10))
	cc.SetTarget(0, 0, 5)
	x, y, z := cc.Position()
	assert.InDelta(t, 0, x, 1e-4)
	assert.InDelta(t, 0, y, 1e-4)
	assert.InDelta(t, 10, z, 1e-4)
	assert.InDelta(t, 5, cc.Radius(), 1e-4)
	tx, ty, tz := cc.Target()
	assert.Equal(t, [3]float32{0, 0, 5}, [3]float32{tx, ty, tz})
}

func TestCameraMatrices(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 10))
	cam := NewCamera(WithController(cc), WithAspect(2))
	require.NotNil(t, cam.Controller())

	// target at origin lands in the middle of the screen at depth within [0, 1]
	p := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := p.Vec3().Mul(1 / p[3])
	assert.InDelta(t, 0, ndc[0], 1e-5)
	assert.InDelta(t, 0, ndc[1], 1e-5)
	assert.Greater(t, ndc[2], float32(0))
	assert.Less(t, ndc[2], float32(1))

	// a point on the near plane maps to depth 0
	near := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 10 - cam.Near(), 1})
	assert.InDelta(t, 0, near[2]/near[3], 1e-4)

	cam.SetAspect(4.0 / 3)
	assert.Equal(t, float32(4.0/3), cam.Aspect())
}
