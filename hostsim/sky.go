// Package hostsim simulates the host planetary system: a sun and moon that
// orbit with the time of day, the vanilla night and moon lights, and a camera
// that tracks the moon.
package hostsim

import (
	"math"
	"time"

	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	MoonSurfaceSize = 128

	orbitRadius    = 1000
	vanillaKelvin  = 6750
	hoursPerDay    = 24
	defaultDayTime = 60 * time.Second
)

// VanillaFlags are the interaction flags the host ships its night and moon
// lights with.
var VanillaFlags = core.LightFlags{
	AffectsDiffuse:    true,
	AffectsSpecular:   true,
	AffectsVolumetric: true,
	InteractsWithSky:  true,
	LightDimmer:       1,
	VolumetricDimmer:  1,
}

// Sky implements core.HostLightSource and core.CameraProvider.
type Sky struct {
	Night  core.HostLight
	Moon   core.HostLight
	Sun    core.HostLight
	Camera *core.Camera

	// Hours is the time of day in [0, 24).
	Hours float32
	// DayLength is the wall time one simulated day takes.
	DayLength time.Duration
	// MoonPhase offsets the moon from the anti-sun position, in degrees.
	MoonPhase float32
	// WarmupFrames keeps every light invalid for the first frames, like a
	// host that is still loading its planetary data.
	WarmupFrames int

	frames int
	log    *zap.Logger
}

func New(log *zap.Logger) *Sky {
	if log == nil {
		log = zap.NewNop()
	}
	vanilla := core.ColorTemperatureToRGB(vanillaKelvin)
	s := &Sky{
		Night: core.HostLight{
			Transform: core.NewTransform(),
			Flags:     VanillaFlags,
			Color:     vanilla,
			Intensity: 1,
		},
		Moon: core.HostLight{
			Transform:      core.NewTransform(),
			Flags:          VanillaFlags,
			Color:          vanilla,
			Intensity:      1,
			SurfaceTexture: core.NewRenderTexture("MoonSurface", MoonSurfaceSize, MoonSurfaceSize),
		},
		Sun: core.HostLight{
			Transform: core.NewTransform(),
			Flags:     VanillaFlags,
			Color:     core.ColorTemperatureToRGB(5500),
			Intensity: 100,
		},
		Camera:    core.NewCamera(60, 16.0/9.0, 0.3, 20000),
		Hours:     22,
		DayLength: defaultDayTime,
		MoonPhase: 20,
		log:       log,
	}
	s.place()
	return s
}

func (s *Sky) NightLight() *core.HostLight { return &s.Night }
func (s *Sky) MoonLight() *core.HostLight  { return &s.Moon }
func (s *Sky) SunLight() *core.HostLight   { return &s.Sun }
func (s *Sky) ActiveCamera() *core.Camera  { return s.Camera }

func (s *Sky) MoonSurface() *core.RenderTexture {
	rt, _ := s.Moon.SurfaceTexture.(*core.RenderTexture)
	return rt
}

// Advance moves the clock by dt and repositions the celestial bodies. The
// host also resets the light intensities it owns, as a real host does every
// frame before overrides run.
func (s *Sky) Advance(dt time.Duration) {
	s.frames++
	if s.DayLength > 0 && dt > 0 {
		s.Hours += float32(dt.Seconds() / s.DayLength.Seconds() * hoursPerDay)
		s.Hours = float32(math.Mod(float64(s.Hours), hoursPerDay))
	}
	s.place()

	valid := s.frames > s.WarmupFrames
	if valid != s.Moon.Valid {
		s.log.Debug("Host light validity changed", zap.Bool("valid", valid), zap.Int("frame", s.frames))
	}
	s.Night.Valid = valid
	s.Moon.Valid = valid
	s.Sun.Valid = valid
	s.Night.Intensity = 1
	s.Moon.Intensity = 1
}

func (s *Sky) place() {
	sunAngle := (float64(s.Hours) - 6) / 12 * math.Pi
	moonAngle := sunAngle + math.Pi + float64(mgl32.DegToRad(s.MoonPhase))

	orbit(s.Sun.Transform, sunAngle)
	orbit(s.Moon.Transform, moonAngle)

	// the host aims its own night light straight along the moon light
	s.Night.Transform.CopyFrom(s.Moon.Transform)

	s.Camera.Rotation = core.LookRotation(s.Moon.Transform.Position.Sub(s.Camera.Position), core.AxisUp)
}

// orbit places tr on a tilted east-west arc and points it at the origin.
func orbit(tr *core.Transform, angle float64) {
	tr.Position = mgl32.Vec3{
		float32(math.Cos(angle)) * orbitRadius,
		float32(math.Sin(angle)) * orbitRadius,
		orbitRadius * 0.3,
	}
	tr.LookAt(mgl32.Vec3{0, 0, 0}, core.AxisUp)
}
