package moontex

import (
	"image"
	"image/color"
	"math"

	perlin "github.com/aquilax/go-perlin"
)

// ProceduralAlbedo generates a grey, mottled moon surface. The same seed
// always yields the same bitmap.
func ProceduralAlbedo(size int, seed int64) *image.NRGBA {
	p := perlin.NewPerlin(2, 2, 4, seed)
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if size == 0 {
		return img
	}
	scale := 6.0 / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			maria := p.Noise2D(float64(x)*scale*0.5, float64(y)*scale*0.5)
			detail := p.Noise2D(float64(x)*scale*3, float64(y)*scale*3)
			v := 0.62 + 0.35*maria + 0.1*detail
			v = math.Max(0.2, math.Min(0.95, v))
			g := uint8(v * 255)
			img.SetNRGBA(x, y, color.NRGBA{R: g, G: g, B: uint8(float64(g) * 0.97), A: 255})
		}
	}
	return img
}
