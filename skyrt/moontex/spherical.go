package moontex

import (
	"image"
	"image/color"
	"math"

	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	DefaultRoughness = 0.8
	// DefaultLuminance is the radiance of the host moon material.
	// DefaultExposure maps it into the 8-bit render target.
	DefaultLuminance = 10.0
	DefaultExposure  = 0.1
)

// OrenNayar holds the A and B terms of the Oren-Nayar diffuse model.
type OrenNayar struct {
	A, B float32
}

// OrenNayarCoefficients derives A and B from a 0..1 surface roughness.
func OrenNayarCoefficients(roughness float32) OrenNayar {
	sigma := math.Pi / 2 * float64(roughness)
	s2 := sigma * sigma
	return OrenNayar{
		A: float32(1 - 0.5*s2/(s2+0.33)),
		B: float32(0.45 * s2 / (s2 + 0.09)),
	}
}

// ShaderParams is everything the lit pass reads for one frame.
type ShaderParams struct {
	Camera2World mgl32.Mat4
	CameraData   mgl32.Vec4
	SunDirection mgl32.Vec3
	Direction    mgl32.Vec3
	Tangent      mgl32.Vec3
	BiTangent    mgl32.Vec3
	Albedo       core.Color
	Corners      mgl32.Vec4
	OrenNayar    OrenNayar
	Luminance    float32
	Exposure     float32
}

// SphericalLit shades the albedo as a lit sphere seen from the active camera.
type SphericalLit struct {
	host      core.HostLightSource
	cameras   core.CameraProvider
	log       *zap.Logger
	orenNayar OrenNayar
	albedo    image.Image
	normal    image.Image

	Luminance float32
	Exposure  float32
}

func NewSphericalLit(host core.HostLightSource, cameras core.CameraProvider, roughness float32, log *zap.Logger) *SphericalLit {
	if log == nil {
		log = zap.NewNop()
	}
	return &SphericalLit{
		host:      host,
		cameras:   cameras,
		log:       log,
		orenNayar: OrenNayarCoefficients(roughness),
		Luminance: DefaultLuminance,
		Exposure:  DefaultExposure,
	}
}

func (s *SphericalLit) SetAlbedo(img image.Image) { s.albedo = img }
func (s *SphericalLit) SetNormal(img image.Image) { s.normal = img }
func (s *SphericalLit) OrenNayar() OrenNayar      { return s.orenNayar }

// Params collects the per-frame shading inputs.
func (s *SphericalLit) Params(cam *core.Camera, moon, sun *core.Transform) ShaderParams {
	return ShaderParams{
		Camera2World: cam.CameraToWorld(),
		CameraData:   cam.Data(),
		SunDirection: sun.Forward(),
		Direction:    moon.Forward(),
		Tangent:      moon.Right(),
		BiTangent:    moon.Up(),
		Albedo:       core.White,
		Corners:      mgl32.Vec4{0, 0, 1, 1},
		OrenNayar:    s.orenNayar,
		Luminance:    s.Luminance,
		Exposure:     s.Exposure,
	}
}

func (s *SphericalLit) Render(target *core.RenderTexture) bool {
	if target == nil || s.host == nil {
		return false
	}
	moon, sun := s.host.MoonLight(), s.host.SunLight()
	if !moon.Usable() || !sun.Usable() {
		return false
	}
	if s.cameras == nil {
		return false
	}
	cam := s.cameras.ActiveCamera()
	if cam == nil {
		return false
	}
	if s.albedo == nil || s.normal == nil {
		s.log.Error("Albedo or normal texture is not bound", zap.String("target", target.Name()))
		return false
	}

	params := s.Params(cam, moon.Transform, sun.Transform)
	clearPass(target)
	litPass(target, params, s.albedo, s.normal)
	target.IncrementUpdateCount()
	return true
}

func clearPass(target *core.RenderTexture) {
	target.Clear(color.RGBA{})
}

// litPass rasterises a unit sphere facing the viewer. The disk spans the
// Corners rectangle in target UV space; texels outside the disk are left as
// cleared.
func litPass(target *core.RenderTexture, p ShaderParams, albedo, normal image.Image) {
	dst := target.Image()
	b := dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())

	// The camera looks against the light direction, so the visible hemisphere
	// faces along Direction and the light's right axis appears mirrored.
	screenRight := p.Tangent.Mul(-1).Normalize()
	screenUp := p.BiTangent.Normalize()
	outward := p.Direction.Normalize()

	toSun := p.SunDirection.Mul(-1).Normalize()
	toViewer := p.Camera2World.Col(2).Vec3().Mul(-1)
	if toViewer.LenSqr() < 1e-12 {
		toViewer = outward
	}
	toViewer = toViewer.Normalize()

	cu0, cv0, cu1, cv1 := p.Corners.X(), p.Corners.Y(), p.Corners.Z(), p.Corners.W()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		tv := (float32(y-b.Min.Y) + 0.5) / h
		for x := b.Min.X; x < b.Max.X; x++ {
			tu := (float32(x-b.Min.X) + 0.5) / w
			if tu < cu0 || tu > cu1 || tv < cv0 || tv > cv1 {
				continue
			}
			su := (tu - cu0) / (cu1 - cu0)
			sv := (tv - cv0) / (cv1 - cv0)
			u := su*2 - 1
			v := 1 - sv*2
			r2 := u*u + v*v
			if r2 > 1 {
				continue
			}
			z := float32(math.Sqrt(float64(1 - r2)))

			n := screenRight.Mul(u).Add(screenUp.Mul(v)).Add(outward.Mul(z)).Normalize()
			n = perturb(n, screenRight, screenUp, sample(normal, su, sv))

			base := sample(albedo, su, sv)
			lum := orenNayar(n, toSun, toViewer, p.OrenNayar) * p.Luminance * p.Exposure
			dst.SetRGBA(x, y, core.Color{
				R: base.R * p.Albedo.R * lum,
				G: base.G * p.Albedo.G * lum,
				B: base.B * p.Albedo.B * lum,
				A: base.A * p.Albedo.A,
			}.RGBA8())
		}
	}
}

// perturb bends the sphere normal by a DXT5nm tangent-space normal
// (X in alpha, Y in green).
func perturb(n, right, up mgl32.Vec3, texel core.Color) mgl32.Vec3 {
	nx := texel.A*2 - 1
	ny := texel.G*2 - 1
	nz := float32(math.Sqrt(math.Max(0, float64(1-nx*nx-ny*ny))))

	t := right.Sub(n.Mul(n.Dot(right)))
	if t.LenSqr() < 1e-8 {
		return n
	}
	t = t.Normalize()
	bt := up.Sub(n.Mul(n.Dot(up))).Sub(t.Mul(t.Dot(up)))
	if bt.LenSqr() < 1e-8 {
		return n
	}
	bt = bt.Normalize()
	return t.Mul(nx).Add(bt.Mul(ny)).Add(n.Mul(nz)).Normalize()
}

func orenNayar(n, l, v mgl32.Vec3, on OrenNayar) float32 {
	cosI := n.Dot(l)
	if cosI <= 0 {
		return 0
	}
	cosR := max(n.Dot(v), 0)
	thetaI := math.Acos(float64(min(cosI, 1)))
	thetaR := math.Acos(float64(min(cosR, 1)))
	alpha := math.Max(thetaI, thetaR)
	beta := math.Min(thetaI, thetaR)

	var cosPhi float32
	li := l.Sub(n.Mul(cosI))
	vr := v.Sub(n.Mul(cosR))
	if li.LenSqr() > 1e-8 && vr.LenSqr() > 1e-8 {
		cosPhi = max(li.Normalize().Dot(vr.Normalize()), 0)
	}
	return cosI * (on.A + on.B*cosPhi*float32(math.Sin(alpha)*math.Tan(beta)))
}

// sample reads the texel under normalised coordinates with nearest filtering.
func sample(img image.Image, u, v float32) core.Color {
	b := img.Bounds()
	x := b.Min.X + int(u*float32(b.Dx()))
	y := b.Min.Y + int(v*float32(b.Dy()))
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return core.Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}
