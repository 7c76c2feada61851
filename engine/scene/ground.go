package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GroundConfig describes the disc the models stand on.
type GroundConfig struct {
	Radius float32

	// Segments is the tessellation of the disc rim.
	Segments  int
	Elevation float32
	Color     common.Color
	Metallic  float32
	Roughness float32
}

// NewGround builds a horizontal, double-sided disc that receives shadows but casts none.
// The disc is authored in the XY plane and laid flat by a quarter turn about X.
//
// Parameters:
//   - cfg: the disc description
//
// Returns:
//   - model.Node: the ground fragment
func NewGround(cfg GroundConfig) model.Node {
	mat := material.NewMaterial(
		material.WithName("ground"),
		material.WithBaseColor(cfg.Color),
		material.WithMetallic(cfg.Metallic),
		material.WithRoughness(cfg.Roughness),
		material.WithSide(material.SideDouble),
	)

	bounds := common.Box3{
		Min: [3]float32{-cfg.Radius, -cfg.Radius, 0},
		Max: [3]float32{cfg.Radius, cfg.Radius, 0},
	}

	t := model.IdentityTransform()
	t.Translation = [3]float32{0, cfg.Elevation, 0}
	t.SetQuat(mgl32.QuatRotate(-math32.Pi/2, mgl32.Vec3{1, 0, 0}))

	return model.NewNode(
		model.WithName("ground"),
		model.WithTransform(t),
		model.WithSurface(&model.Surface{
			Name:          fmt.Sprintf("ground/%d", max(cfg.Segments, 3)),
			Material:      mat,
			ReceiveShadow: true,
			Bounds:        bounds,
		}),
	)
}
