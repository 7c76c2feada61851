package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform represents a decomposed local transform: translation, then rotation, then scale
// applied in the usual T * R * S order.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a Transform with no translation, no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// Quat returns the rotation as an mgl32 quaternion.
//
// Returns:
//   - mgl32.Quat: the rotation
func (t Transform) Quat() mgl32.Quat {
	return mgl32.Quat{W: t.Rotation[3], V: mgl32.Vec3{t.Rotation[0], t.Rotation[1], t.Rotation[2]}}
}

// SetQuat stores q as the rotation component.
//
// Parameters:
//   - q: the rotation
func (t *Transform) SetQuat(q mgl32.Quat) {
	t.Rotation = [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

// Matrix composes the transform into a column-major 4x4 matrix.
//
// Returns:
//   - mgl32.Mat4: T * R * S
func (t Transform) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	rot := t.Quat().Normalize().Mat4()
	sc := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(rot).Mul4(sc)
}

// Surface is a drawable primitive attached to a Node. Its material and shadow flags are
// mutable so the surface extractor can rewrite them after load.
type Surface struct {
	// Name is the primitive identifier, usually "<mesh>/<index>".
	Name string

	// Material is the shading description currently bound to the surface.
	Material material.Material

	// CastShadow marks the surface as an occluder for shadow-casting lights.
	CastShadow bool

	// ReceiveShadow marks the surface as accepting shadows from other occluders.
	ReceiveShadow bool

	// Bounds is the axis-aligned box of the primitive in the owning node's local space.
	Bounds common.Box3
}

// TransformBox transforms every corner of b by m and returns the enclosing box.
// An empty box stays empty.
//
// Parameters:
//   - b: the box in source space
//   - m: the transform
//
// Returns:
//   - common.Box3: the enclosing box in destination space
func TransformBox(b common.Box3, m mgl32.Mat4) common.Box3 {
	out := common.EmptyBox3()
	if b.IsEmpty() {
		return out
	}
	for _, c := range b.Corners() {
		p := m.Mul4x1(mgl32.Vec4{c[0], c[1], c[2], 1})
		out.ExpandByPoint([3]float32{p[0], p[1], p[2]})
	}
	return out
}
