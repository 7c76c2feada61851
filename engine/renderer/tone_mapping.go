package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/chewxy/math32"
)

// ACES filmic curve fit (Narkowicz 2015).
const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14
)

// ToneMap maps a linear color to display range with the ACES filmic curve after scaling
// by exposure. Each channel of the result lies in [0, 1].
//
// Parameters:
//   - c: the linear color
//   - exposure: the radiance multiplier
//
// Returns:
//   - common.Color: the display color
func ToneMap(c common.Color, exposure float32) common.Color {
	return common.Color{
		R: aces(c.R * exposure),
		G: aces(c.G * exposure),
		B: aces(c.B * exposure),
	}
}

func aces(x float32) float32 {
	x = math32.Max(x, 0)
	v := (x * (acesA*x + acesB)) / (x*(acesC*x+acesD) + acesE)
	return math32.Min(math32.Max(v, 0), 1)
}

// displayColor applies the scene's tone mapping operator to c.
func displayColor(c common.Color, tm scene.ToneMapping, exposure float32) common.Color {
	switch tm {
	case scene.ToneMappingACES:
		return ToneMap(c, exposure)
	default:
		return common.Color{
			R: math32.Min(math32.Max(c.R, 0), 1),
			G: math32.Min(math32.Max(c.G, 0), 1),
			B: math32.Min(math32.Max(c.B, 0), 1),
		}
	}
}
