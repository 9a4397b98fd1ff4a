package nightlight

import (
	"image"

	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/gekko3d/nightlight/skyrt/moontex"
)

// TextureProvider serves moon texture bitmaps by key. texturepack.Pack is the
// file backed implementation.
type TextureProvider interface {
	Albedo(key string) image.Image
	Normal(key string) image.Image
	Selections() []string
	UsesSphericalLitRender(key string) bool
}

// textureControl rebinds the compositor textures when the selected key
// changes. Each key change costs exactly one fetch, successful or not.
type textureControl struct {
	provider TextureProvider
	binder   moontex.TextureBinder

	// lastKey is the last key fetched, boundKey the last key whose bitmaps
	// were bound.
	lastKey  string
	hasLast  bool
	boundKey string
	hasBound bool

	average    core.Color
	hasAverage bool

	log Logger
}

// resolve maps the empty selection to the first texture the provider offers.
func (tc *textureControl) resolve(key string) string {
	if key != "" || tc.provider == nil {
		return key
	}
	if keys := tc.provider.Selections(); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

// Select makes key the active texture. It reports whether new bitmaps were
// bound.
func (tc *textureControl) Select(key string) bool {
	if tc.provider == nil || tc.binder == nil {
		return false
	}
	key = tc.resolve(key)
	if tc.hasLast && key == tc.lastKey {
		return false
	}
	tc.lastKey = key
	tc.hasLast = true

	albedo := tc.provider.Albedo(key)
	if albedo == nil {
		tc.log.Debugf("moon texture %q has no albedo, keeping previous binding", key)
		return false
	}
	normal := tc.provider.Normal(key)
	if normal == nil {
		tc.log.Debugf("moon texture %q has no normal, keeping previous binding", key)
		return false
	}

	tc.binder.SetAlbedo(albedo)
	tc.binder.SetNormal(normal)
	tc.boundKey = key
	tc.hasBound = true
	tc.average, tc.hasAverage = moontex.AverageColor(albedo)
	tc.log.Infof("moon texture %q bound", key)
	return true
}

// UsesSphericalLitRender is evaluated lazily by the renderer switch and
// answers for the bitmaps currently bound.
func (tc *textureControl) UsesSphericalLitRender() bool {
	if tc.provider == nil || !tc.hasBound {
		return true
	}
	return tc.provider.UsesSphericalLitRender(tc.boundKey)
}

// Average is the mean albedo colour of the bound texture.
func (tc *textureControl) Average() (core.Color, bool) {
	return tc.average, tc.hasAverage
}

func (tc *textureControl) forget() {
	tc.lastKey = ""
	tc.hasLast = false
}
