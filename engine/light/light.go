package light

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment uniformly, with no direction and no shadows.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// The viewer places it by position and aims it at the origin, like a sun above the stage.
	LightTypeDirectional
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     [3]float32
	direction    [3]float32
	color        common.Color
	intensity    float32
	castsShadows bool
}

// Light defines the interface for a light source in the scene.
//
// Ambient lights only carry color and intensity; Position and Direction return zero values.
// Directional lights carry a normalized direction derived from their position, pointing
// towards the origin.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position the light was placed at.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized direction the light travels in.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// CastsShadows returns whether this light is eligible for shadow map generation.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool
}

var _ Light = &lightImpl{}

// NewLight creates a new Light configured with the provided options. The default is a
// white ambient light of intensity 1.
//
// Parameters:
//   - options: a variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: LightTypeAmbient,
		color:     common.Color{R: 1, G: 1, B: 1},
		intensity: 1,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.lightType == LightTypeAmbient {
		l.position = [3]float32{}
		l.direction = [3]float32{}
		l.castsShadows = false
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

// Pack flattens lights into 8 floats each (direction xyz + type, color rgb * intensity + shadow flag)
// for upload as a storage buffer.
//
// Parameters:
//   - lights: the lights to pack
//
// Returns:
//   - []float32: the packed data, len(lights) * 8 values
func Pack(lights []Light) []float32 {
	out := make([]float32, 0, len(lights)*8)
	for _, l := range lights {
		d := l.Direction()
		c := l.Color()
		i := l.Intensity()
		shadow := float32(0)
		if l.CastsShadows() {
			shadow = 1
		}
		out = append(out, d[0], d[1], d[2], float32(l.Type()), c.R*i, c.G*i, c.B*i, shadow)
	}
	return out
}
