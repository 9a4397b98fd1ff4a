package core

import (
	"image"
	"image/color"
	"image/draw"
)

// Texture is anything a light can carry as its surface texture.
type Texture interface {
	Name() string
	Bounds() image.Rectangle
}

// StaticTexture wraps a decoded bitmap that is never rendered into.
type StaticTexture struct {
	name  string
	Image image.Image
}

func NewStaticTexture(name string, img image.Image) *StaticTexture {
	return &StaticTexture{name: name, Image: img}
}

func (t *StaticTexture) Name() string { return t.name }

func (t *StaticTexture) Bounds() image.Rectangle {
	if t.Image == nil {
		return image.Rectangle{}
	}
	return t.Image.Bounds()
}

// RenderTexture is a writable RGBA target. Every completed render must call
// IncrementUpdateCount so consumers (GPU mirrors, exporters) can pick it up.
type RenderTexture struct {
	name        string
	pix         *image.RGBA
	updateCount uint64
	listeners   []func(*RenderTexture)
}

func NewRenderTexture(name string, width, height int) *RenderTexture {
	return &RenderTexture{
		name: name,
		pix:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (t *RenderTexture) Name() string            { return t.name }
func (t *RenderTexture) Bounds() image.Rectangle { return t.pix.Bounds() }
func (t *RenderTexture) Image() *image.RGBA      { return t.pix }
func (t *RenderTexture) UpdateCount() uint64     { return t.updateCount }

// Clear fills the whole target with c.
func (t *RenderTexture) Clear(c color.RGBA) {
	draw.Draw(t.pix, t.pix.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// OnUpdate registers fn to run after every IncrementUpdateCount.
func (t *RenderTexture) OnUpdate(fn func(*RenderTexture)) {
	t.listeners = append(t.listeners, fn)
}

func (t *RenderTexture) IncrementUpdateCount() {
	t.updateCount++
	for _, fn := range t.listeners {
		fn(t)
	}
}
