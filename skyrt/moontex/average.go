package moontex

import (
	"image"
	"image/color"

	"github.com/gekko3d/nightlight/skyrt/core"
)

// AverageColor sums every channel over all pixels and divides by
// pixelCount*255. Empty images report false.
func AverageColor(img image.Image) (core.Color, bool) {
	if img == nil {
		return core.Color{}, false
	}
	b := img.Bounds()
	count := uint64(b.Dx()) * uint64(b.Dy())
	if b.Empty() {
		return core.Color{}, false
	}

	var r, g, bl, a uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r += uint64(c.R)
			g += uint64(c.G)
			bl += uint64(c.B)
			a += uint64(c.A)
		}
	}
	d := float64(count) * 255
	return core.Color{
		R: float32(float64(r) / d),
		G: float32(float64(g) / d),
		B: float32(float64(bl) / d),
		A: float32(float64(a) / d),
	}, true
}
