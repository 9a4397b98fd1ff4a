// Package moontex renders the moon disk surface into a render texture.
package moontex

import (
	"image"

	"github.com/gekko3d/nightlight/skyrt/core"
	"go.uber.org/zap"
)

// Renderer draws a moon surface into target and reports whether anything was
// written.
type Renderer interface {
	Render(target *core.RenderTexture) bool
}

// TextureBinder is implemented by renderers that sample albedo and normal
// bitmaps.
type TextureBinder interface {
	SetAlbedo(img image.Image)
	SetNormal(img image.Image)
}

// Switch dispatches between the spherical-lit and flat-blit renderers.
// UseSphericalRender is evaluated on every Render call so it can follow the
// currently selected texture; nil means spherical.
type Switch struct {
	Spherical          *SphericalLit
	Flat               *FlatBlit
	UseSphericalRender func() bool
}

func NewSwitch(host core.HostLightSource, cameras core.CameraProvider, log *zap.Logger) *Switch {
	return &Switch{
		Spherical: NewSphericalLit(host, cameras, DefaultRoughness, log),
		Flat:      NewFlatBlit(log),
	}
}

func (s *Switch) SetAlbedo(img image.Image) {
	s.Spherical.SetAlbedo(img)
	s.Flat.SetAlbedo(img)
}

func (s *Switch) SetNormal(img image.Image) {
	s.Spherical.SetNormal(img)
}

func (s *Switch) Render(target *core.RenderTexture) bool {
	if target == nil {
		return false
	}
	if s.UseSphericalRender == nil || s.UseSphericalRender() {
		return s.Spherical.Render(target)
	}
	return s.Flat.Render(target)
}
