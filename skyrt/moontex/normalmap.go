package moontex

import (
	"image"
	"image/color"
)

// ToDXT5nm repacks a regular tangent-space normal map into the swizzled
// layout the lit pass samples: X moves to alpha, red and blue are saturated.
func ToDXT5nm(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{R: 255, G: c.G, B: 255, A: c.R})
		}
	}
	return dst
}

// FlatNormal is a size×size map whose every texel points straight out of
// the surface, already in DXT5nm layout.
func FlatNormal(size int) *image.NRGBA {
	flat := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(flat.Pix); i += 4 {
		flat.Pix[i+0] = 128
		flat.Pix[i+1] = 128
		flat.Pix[i+2] = 255
		flat.Pix[i+3] = 255
	}
	return ToDXT5nm(flat)
}
