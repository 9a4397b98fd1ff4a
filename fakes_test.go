package nightlight

import (
	"image"

	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/go-gl/mathgl/mgl32"
)

var hostDefaultFlags = core.LightFlags{
	AffectsDiffuse:    true,
	AffectsSpecular:   true,
	AffectsVolumetric: true,
	InteractsWithSky:  true,
	LightDimmer:       1,
	VolumetricDimmer:  1,
}

// fakeHost places the moon at (300, 400, 0) looking at the origin, which
// pitches it asin(0.8) below the horizon and gives an anti-Lambert
// multiplier of exactly 1.25.
type fakeHost struct {
	night, moon, sun core.HostLight
	cam              *core.Camera
}

func newFakeHost() *fakeHost {
	h := &fakeHost{
		night: core.HostLight{
			Transform: core.NewTransform(),
			Valid:     true,
			Flags:     hostDefaultFlags,
			Color:     core.Color{R: 0.9, G: 0.8, B: 0.7, A: 1},
			Intensity: 1,
		},
		moon: core.HostLight{
			Transform: core.NewTransform(),
			Valid:     true,
			Flags: core.LightFlags{
				AffectsDiffuse:    true,
				AffectsSpecular:   true,
				AffectsVolumetric: false,
				InteractsWithSky:  true,
				LightDimmer:       0.8,
				VolumetricDimmer:  0.6,
			},
			Color:     core.Color{R: 0.6, G: 0.7, B: 1, A: 1},
			Intensity: 1,
		},
		sun: core.HostLight{
			Transform: core.NewTransform(),
			Valid:     true,
			Flags:     hostDefaultFlags,
			Color:     core.White,
			Intensity: 100,
		},
		cam: core.NewCamera(60, 1, 0.3, 1000),
	}
	h.moon.Transform.Position = mgl32.Vec3{300, 400, 0}
	h.moon.Transform.LookAt(mgl32.Vec3{}, core.AxisUp)
	h.night.Transform.CopyFrom(h.moon.Transform)
	h.sun.Transform.Position = mgl32.Vec3{-300, -400, 0}
	h.sun.Transform.LookAt(mgl32.Vec3{}, core.AxisUp)
	h.cam.LookAt(h.moon.Transform.Position, core.AxisUp)
	return h
}

func (h *fakeHost) NightLight() *core.HostLight { return &h.night }
func (h *fakeHost) MoonLight() *core.HostLight  { return &h.moon }
func (h *fakeHost) SunLight() *core.HostLight   { return &h.sun }
func (h *fakeHost) ActiveCamera() *core.Camera  { return h.cam }

func (h *fakeHost) setValid(valid bool) {
	h.night.Valid = valid
	h.moon.Valid = valid
	h.sun.Valid = valid
}

// countingProvider serves solid albedo images and counts fetches per key.
type countingProvider struct {
	keys        []string
	albedo      map[string]image.Image
	flat        map[string]bool
	albedoCalls map[string]int
	normalCalls map[string]int
}

func newCountingProvider() *countingProvider {
	return &countingProvider{
		albedo:      make(map[string]image.Image),
		flat:        make(map[string]bool),
		albedoCalls: make(map[string]int),
		normalCalls: make(map[string]int),
	}
}

func (p *countingProvider) add(key string, img image.Image) {
	p.keys = append(p.keys, key)
	p.albedo[key] = img
}

func (p *countingProvider) Albedo(key string) image.Image {
	p.albedoCalls[key]++
	img, ok := p.albedo[key]
	if !ok {
		return nil
	}
	return img
}

func (p *countingProvider) Normal(key string) image.Image {
	p.normalCalls[key]++
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

func (p *countingProvider) Selections() []string { return p.keys }

func (p *countingProvider) UsesSphericalLitRender(key string) bool { return !p.flat[key] }

type countingRenderer struct {
	calls  int
	target *core.RenderTexture
}

func (r *countingRenderer) Render(target *core.RenderTexture) bool {
	r.calls++
	r.target = target
	return true
}
