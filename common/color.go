package common

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSV converts a hue in degrees plus saturation and value in [0, 1] to RGB.
//
// Parameters:
//   - hue: hue angle in degrees
//   - saturation: saturation in [0, 1]
//   - value: value in [0, 1]
//
// Returns:
//   - mgl32.Vec3: the RGB color with components in [0, 1]
func HSV(hue, saturation, value float64) mgl32.Vec3 {
	c := colorful.Hsv(hue, saturation, value).Clamped()
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
}

// RGB converts a standard library color (such as the x/image colornames) to an RGB vector.
//
// Parameters:
//   - c: the color to convert
//
// Returns:
//   - mgl32.Vec3: the RGB color with components in [0, 1]
func RGB(c color.Color) mgl32.Vec3 {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{float32(cf.R), float32(cf.G), float32(cf.B)}
}
