package moontex

import (
	"image"
	"image/color"
	"testing"

	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSky struct {
	night, moon, sun *core.HostLight
	camera           *core.Camera
}

func (f *fakeSky) NightLight() *core.HostLight { return f.night }
func (f *fakeSky) MoonLight() *core.HostLight  { return f.moon }
func (f *fakeSky) SunLight() *core.HostLight   { return f.sun }
func (f *fakeSky) ActiveCamera() *core.Camera  { return f.camera }

// fullMoonSky places the moon straight ahead of the camera with the sun
// behind the camera.
func fullMoonSky() *fakeSky {
	moonTr := core.NewTransform()
	moonTr.Rotation = core.LookRotation(mgl32.Vec3{0, 0, -1}, core.AxisUp)
	sunTr := core.NewTransform()
	sunTr.Rotation = core.LookRotation(mgl32.Vec3{0, 0, 1}, core.AxisUp)
	cam := core.NewCamera(60, 16.0/9.0, 0.1, 1000)
	cam.Rotation = core.LookRotation(mgl32.Vec3{0, 0, 1}, core.AxisUp)
	return &fakeSky{
		moon:   &core.HostLight{Transform: moonTr, Valid: true},
		sun:    &core.HostLight{Transform: sunTr, Valid: true},
		camera: cam,
	}
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func assertNearRGBA(t *testing.T, want, got color.RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1, "red")
	assert.InDelta(t, want.G, got.G, 1, "green")
	assert.InDelta(t, want.B, got.B, 1, "blue")
	assert.InDelta(t, want.A, got.A, 1, "alpha")
}

func TestAverageColor_FourPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})

	avg, ok := AverageColor(img)
	require.True(t, ok)
	assert.InDelta(t, 0.5, avg.R, 1e-6)
	assert.InDelta(t, 0.5, avg.G, 1e-6)
	assert.InDelta(t, 0.5, avg.B, 1e-6)
	assert.InDelta(t, 1.0, avg.A, 1e-6)
}

func TestAverageColor_Empty(t *testing.T) {
	_, ok := AverageColor(nil)
	assert.False(t, ok)
	_, ok = AverageColor(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.False(t, ok)
}

func TestToDXT5nm(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	out := ToDXT5nm(src)
	assert.Equal(t, color.NRGBA{R: 255, G: 20, B: 255, A: 10}, out.NRGBAAt(1, 1))
}

func TestFlatNormal(t *testing.T) {
	n := FlatNormal(4)
	assert.Equal(t, image.Rect(0, 0, 4, 4), n.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, G: 128, B: 255, A: 128}, n.NRGBAAt(2, 3))
}

func TestOrenNayarCoefficients(t *testing.T) {
	on := OrenNayarCoefficients(DefaultRoughness)
	assert.InDelta(t, 0.5864, on.A, 1e-3)
	assert.InDelta(t, 0.4257, on.B, 1e-3)

	smooth := OrenNayarCoefficients(0)
	assert.Equal(t, float32(1), smooth.A)
	assert.Equal(t, float32(0), smooth.B)
}

func TestProceduralAlbedo_Deterministic(t *testing.T) {
	a := ProceduralAlbedo(16, 42)
	b := ProceduralAlbedo(16, 42)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, uint8(255), a.NRGBAAt(5, 5).A)
}

func TestFlatBlit(t *testing.T) {
	target := core.NewRenderTexture("moon", 8, 8)
	blit := NewFlatBlit(nil)
	assert.False(t, blit.Render(target), "no albedo bound")
	assert.Equal(t, uint64(0), target.UpdateCount())

	blit.SetAlbedo(solid(4, 4, color.NRGBA{200, 100, 50, 255}))
	require.True(t, blit.Render(target))
	assert.Equal(t, uint64(1), target.UpdateCount())
	assertNearRGBA(t, color.RGBA{200, 100, 50, 255}, target.Image().RGBAAt(4, 4))
}

func TestSphericalLit_FailsWithoutInputs(t *testing.T) {
	sky := fullMoonSky()
	target := core.NewRenderTexture("moon", 16, 16)

	s := NewSphericalLit(sky, sky, DefaultRoughness, nil)
	assert.False(t, s.Render(target), "textures unbound")

	s.SetAlbedo(solid(4, 4, color.NRGBA{255, 255, 255, 255}))
	assert.False(t, s.Render(target), "normal unbound")

	s.SetNormal(FlatNormal(4))
	sky.camera = nil
	assert.False(t, s.Render(target), "no camera")

	sky.camera = core.NewCamera(60, 1, 0.1, 100)
	sky.moon.Valid = false
	assert.False(t, s.Render(target), "moon invalid")
	assert.Equal(t, uint64(0), target.UpdateCount())
}

func TestSphericalLit_FullMoon(t *testing.T) {
	sky := fullMoonSky()
	target := core.NewRenderTexture("moon", 32, 32)
	target.Clear(color.RGBA{9, 9, 9, 9})

	s := NewSphericalLit(sky, sky, DefaultRoughness, nil)
	s.SetAlbedo(solid(8, 8, color.NRGBA{255, 255, 255, 255}))
	s.SetNormal(FlatNormal(8))

	require.True(t, s.Render(target))
	assert.Equal(t, uint64(1), target.UpdateCount())

	center := target.Image().RGBAAt(16, 16)
	assert.Equal(t, uint8(255), center.A)
	assert.Greater(t, center.R, uint8(100))

	// corners lie outside the disk and only see the clear pass
	assert.Equal(t, color.RGBA{}, target.Image().RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, target.Image().RGBAAt(31, 31))
}

func TestSphericalLit_ExposureScalesLuminance(t *testing.T) {
	sky := fullMoonSky()
	s := NewSphericalLit(sky, sky, DefaultRoughness, nil)
	s.SetAlbedo(solid(8, 8, color.NRGBA{255, 255, 255, 255}))
	s.SetNormal(FlatNormal(8))

	params := s.Params(sky.camera, sky.moon.Transform, sky.sun.Transform)
	assert.Equal(t, float32(10), params.Luminance)
	assert.Equal(t, float32(0.1), params.Exposure)

	target := core.NewRenderTexture("moon", 32, 32)
	require.True(t, s.Render(target))
	center := target.Image().RGBAAt(16, 16)
	assert.Greater(t, center.R, uint8(100))
	assert.Less(t, center.R, uint8(255), "exposed full moon does not clip")

	s.Exposure = 1
	require.True(t, s.Render(target))
	assert.Equal(t, uint8(255), target.Image().RGBAAt(16, 16).R)
}

func TestSphericalLit_NewMoonIsDark(t *testing.T) {
	sky := fullMoonSky()
	sky.sun.Transform.Rotation = core.LookRotation(mgl32.Vec3{0, 0, -1}, core.AxisUp)
	target := core.NewRenderTexture("moon", 16, 16)

	s := NewSphericalLit(sky, sky, DefaultRoughness, nil)
	s.SetAlbedo(solid(4, 4, color.NRGBA{255, 255, 255, 255}))
	s.SetNormal(FlatNormal(4))
	require.True(t, s.Render(target))

	center := target.Image().RGBAAt(8, 8)
	assert.Equal(t, uint8(0), center.R)
	assert.Equal(t, uint8(255), center.A)
}

func TestSwitch_DispatchesOnCapability(t *testing.T) {
	sky := fullMoonSky()
	sw := NewSwitch(sky, sky, nil)
	sw.SetAlbedo(solid(4, 4, color.NRGBA{10, 20, 30, 255}))
	sw.SetNormal(FlatNormal(4))

	spherical := true
	sw.UseSphericalRender = func() bool { return spherical }

	target := core.NewRenderTexture("moon", 8, 8)
	require.True(t, sw.Render(target))
	assert.Equal(t, color.RGBA{}, target.Image().RGBAAt(0, 0), "spherical path clears outside the disk")

	spherical = false
	require.True(t, sw.Render(target))
	assertNearRGBA(t, color.RGBA{10, 20, 30, 255}, target.Image().RGBAAt(0, 0))

	assert.False(t, sw.Render(nil))
}
