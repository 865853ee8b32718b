package material

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Hex parses an sRGB "#rrggbb" string into a linear RGB color, the space shading
// happens in.
func Hex(s string) (mgl32.Vec3, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.LinearRgb()
	return mgl32.Vec3{float32(r), float32(g), float32(b)}, nil
}

// MustHex is Hex for compile-time constants.
func MustHex(s string) mgl32.Vec3 {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ToSRGB converts a linear color to gamma encoded sRGB components in [0, 1].
func ToSRGB(linear mgl32.Vec3) [3]float32 {
	c := colorful.LinearRgb(float64(linear[0]), float64(linear[1]), float64(linear[2])).Clamped()
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// FromSRGB is the inverse of ToSRGB.
func FromSRGB(srgb [3]float32) mgl32.Vec3 {
	c := colorful.Color{R: float64(srgb[0]), G: float64(srgb[1]), B: float64(srgb[2])}
	r, g, b := c.LinearRgb()
	return mgl32.Vec3{float32(r), float32(g), float32(b)}
}

// HexString formats a linear color as sRGB "#rrggbb".
func HexString(linear mgl32.Vec3) string {
	return colorful.LinearRgb(float64(linear[0]), float64(linear[1]), float64(linear[2])).Clamped().Hex()
}
