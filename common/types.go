// package common contains common types that are used throughout the viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errInvalidHexColor = errors.New("invalid hex color: expected #RRGGBB")

// Color is a linear RGB triplet with components in the [0, 1] range.
type Color struct {
	R, G, B float32
}

// RGB builds a Color from 8-bit channel values.
//
// Parameters:
//   - r, g, b: channel values in [0, 255]
//
// Returns:
//   - Color: the normalized color
func RGB(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// ParseHexColor parses a "#RRGGBB" (or "RRGGBB") string into a Color.
//
// Parameters:
//   - s: the hex string
//
// Returns:
//   - Color: the parsed color
//   - error: error if s is not a 6-digit hex color
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%q: %w", s, errInvalidHexColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%q: %w", s, errInvalidHexColor)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// MustParseHexColor is like ParseHexColor but panics on malformed input.
// Intended for package-level constants.
//
// Parameters:
//   - s: the hex string
//
// Returns:
//   - Color: the parsed color
func MustParseHexColor(s string) Color {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#RRGGBB", rounding each channel to the nearest 8-bit value.
//
// Returns:
//   - string: the hex representation
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channelByte(c.R), channelByte(c.G), channelByte(c.B))
}

// RGBA widens the color to an RGBA array with the given alpha.
//
// Parameters:
//   - a: the alpha component
//
// Returns:
//   - [4]float32: the RGBA color
func (c Color) RGBA(a float32) [4]float32 {
	return [4]float32{c.R, c.G, c.B, a}
}

func channelByte(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(math.Round(float64(v) * 255))
}

// Box3 is an axis-aligned bounding box. A box whose Min exceeds its Max on any axis is empty.
type Box3 struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBox3 returns a box that contains nothing; expanding it by any point yields that point.
//
// Returns:
//   - Box3: the empty box
func EmptyBox3() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
//
// Returns:
//   - bool: true if the box is empty
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box to include p.
//
// Parameters:
//   - p: the point to include
func (b *Box3) ExpandByPoint(p [3]float32) {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Union returns the smallest box containing both b and o.
//
// Parameters:
//   - o: the other box
//
// Returns:
//   - Box3: the union
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	b.ExpandByPoint(o.Min)
	b.ExpandByPoint(o.Max)
	return b
}

// Center returns the midpoint of the box. The center of an empty box is the origin.
//
// Returns:
//   - [3]float32: the center point
func (b Box3) Center() [3]float32 {
	if b.IsEmpty() {
		return [3]float32{}
	}
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Corners returns the eight corner points of the box.
//
// Returns:
//   - [8][3]float32: the corners
func (b Box3) Corners() [8][3]float32 {
	var out [8][3]float32
	for i := range 8 {
		out[i] = [3]float32{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			out[i][0] = b.Max[0]
		}
		if i&2 != 0 {
			out[i][1] = b.Max[1]
		}
		if i&4 != 0 {
			out[i][2] = b.Max[2]
		}
	}
	return out
}
