package moontex

import (
	"image"

	"github.com/gekko3d/nightlight/skyrt/core"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// FlatBlit copies the albedo bitmap into the target, rescaling it to fit.
type FlatBlit struct {
	albedo image.Image
	log    *zap.Logger
}

func NewFlatBlit(log *zap.Logger) *FlatBlit {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlatBlit{log: log}
}

func (f *FlatBlit) SetAlbedo(img image.Image) { f.albedo = img }

func (f *FlatBlit) Render(target *core.RenderTexture) bool {
	if f.albedo == nil || target == nil {
		return false
	}
	dst := target.Image()
	draw.BiLinear.Scale(dst, dst.Bounds(), f.albedo, f.albedo.Bounds(), draw.Src, nil)
	target.IncrementUpdateCount()
	f.log.Debug("Moon albedo blitted",
		zap.String("target", target.Name()),
		zap.Uint64("updateCount", target.UpdateCount()))
	return true
}
