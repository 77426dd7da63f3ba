package math

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

/**
 * @brief A color with red, green, blue and alpha channels in [0, 1].
 */
type ColorRGBa struct {
	R, G, B, A float64
}

var (
	ColorBlack       = ColorRGBa{0, 0, 0, 1}
	ColorWhite       = ColorRGBa{1, 1, 1, 1}
	ColorTransparent = ColorRGBa{}
)

func NewColorRGBa(r, g, b, a float64) ColorRGBa {
	return ColorRGBa{R: r, G: g, B: b, A: a}
}

func (c ColorRGBa) Vector4() Vector4 {
	return Vector4{X: c.R, Y: c.G, Z: c.B, W: c.A}
}

func (c ColorRGBa) Opacify(a float64) ColorRGBa {
	return ColorRGBa{R: c.R, G: c.G, B: c.B, A: Clamp(a, 0, 1)}
}

// ToLinear converts sRGB encoded channels to linear light. Alpha is kept.
func (c ColorRGBa) ToLinear() ColorRGBa {
	return ColorRGBa{R: srgbToLinear(c.R), G: srgbToLinear(c.G), B: srgbToLinear(c.B), A: c.A}
}

// ToSRGB converts linear channels to sRGB encoding. Alpha is kept.
func (c ColorRGBa) ToSRGB() ColorRGBa {
	return ColorRGBa{R: linearToSRGB(c.R), G: linearToSRGB(c.G), B: linearToSRGB(c.B), A: c.A}
}

func srgbToLinear(v float64) float64 {
	x := float32(v)
	if x <= 0.04045 {
		return float64(x / 12.92)
	}
	return float64(math32.Pow((x+0.055)/1.055, 2.4))
}

func linearToSRGB(v float64) float64 {
	x := float32(v)
	if x <= 0.0031308 {
		return float64(x * 12.92)
	}
	return float64(1.055*math32.Pow(x, 1/2.4) - 0.055)
}

// Clamp limits v to [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	return min(max(v, low), high)
}

// Saturated clamps every channel to [0, 1].
func (c ColorRGBa) Saturated() ColorRGBa {
	return ColorRGBa{R: Clamp(c.R, 0, 1), G: Clamp(c.G, 0, 1), B: Clamp(c.B, 0, 1), A: Clamp(c.A, 0, 1)}
}
