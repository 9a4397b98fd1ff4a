package core

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear float colour in the 0..1 range.
type Color struct {
	R, G, B, A float32
}

var White = Color{1, 1, 1, 1}

func (c Color) RGBA8() color.RGBA {
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Tint blends c toward tint by amount (0 keeps c, 1 returns tint) in linear
// RGB. Alpha is kept from c.
func (c Color) Tint(tint Color, amount float32) Color {
	if amount <= 0 {
		return c
	}
	a := colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
	b := colorful.Color{R: float64(tint.R), G: float64(tint.G), B: float64(tint.B)}
	m := a.BlendLinearRgb(b, math.Min(float64(amount), 1)).Clamped()
	return Color{R: float32(m.R), G: float32(m.G), B: float32(m.B), A: c.A}
}

// Normalized scales the RGB channels so the brightest one is 1. Black stays
// black.
func (c Color) Normalized() Color {
	m := max(c.R, c.G, c.B)
	if m <= 0 {
		return c
	}
	return Color{R: c.R / m, G: c.G / m, B: c.B / m, A: c.A}
}

// ColorTemperatureToRGB approximates the colour of a blackbody at the given
// correlated colour temperature. Valid from 1000 K to 40000 K, inputs outside
// are clamped.
func ColorTemperatureToRGB(kelvin float32) Color {
	k := math.Max(1000, math.Min(40000, float64(kelvin))) / 100

	var r, g, b float64
	if k <= 66 {
		r = 255
		g = 99.4708025861*math.Log(k) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(k-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(k-60, -0.0755148492)
	}
	switch {
	case k >= 66:
		b = 255
	case k <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(k-10) - 305.0447927307
	}

	return Color{
		R: float32(clamp255(r) / 255),
		G: float32(clamp255(g) / 255),
		B: float32(clamp255(b) / 255),
		A: 1,
	}
}

func clamp255(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}
