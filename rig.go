package nightlight

import (
	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/go-gl/mathgl/mgl32"
)

type AuroraLevel int32

const (
	AuroraOff       AuroraLevel = 0
	AuroraBasic     AuroraLevel = 1
	AuroraPhotoMode AuroraLevel = 2
)

const (
	VolumeName = "NightLightingVolume"

	DefaultVolumePriority   float32 = 1500
	PhotoModeVolumePriority float32 = 2500

	nightLightAnchorHeight = 10
	nightSkyDimmerScale    = 0.5
	specularDivisor        = 3
)

// SkyVolume carries the sky post-process overrides. It is recomputed every
// frame, never diffed.
type SkyVolume struct {
	Name                  string
	Priority              float32
	AuroraOverride        bool
	AuroraIntensity       float32
	SpaceEmissionOverride bool
	SpaceEmission         float32
	Persistent            bool
}

// LightRig owns the three synthetic lights and the sky volume.
type LightRig struct {
	NightSky     *LightHandle
	MoonDisk     *LightHandle
	MoonSpecular *LightHandle
	Volume       *SkyVolume

	basePriority float32
	log          Logger
}

func NewLightRig(volumePriority float32, log Logger) *LightRig {
	if volumePriority == 0 {
		volumePriority = DefaultVolumePriority
	}
	if log == nil {
		log = NewNopLogger()
	}
	rig := &LightRig{
		NightSky:     newNightSkyLight(),
		MoonDisk:     newMoonDiskLight(),
		MoonSpecular: newMoonSpecularLight(),
		Volume: &SkyVolume{
			Name:       VolumeName,
			Priority:   volumePriority,
			Persistent: true,
		},
		basePriority: volumePriority,
		log:          log,
	}
	log.Debugf("light rig created (volume %s, priority %.0f)", VolumeName, volumePriority)
	return rig
}

func (r *LightRig) Handles() []*LightHandle {
	return []*LightHandle{r.NightSky, r.MoonDisk, r.MoonSpecular}
}

func (r *LightRig) SetEnabled(enabled bool) {
	for _, h := range r.Handles() {
		h.Enabled = enabled
	}
}

// hostLights returns the host night and moon lights and whether both are
// usable this frame.
func hostLights(host core.HostLightSource) (night, moon *core.HostLight, ok bool) {
	if host == nil {
		return nil, nil, false
	}
	night = host.NightLight()
	moon = host.MoonLight()
	return night, moon, night.Usable() && moon.Usable()
}

// SyncTransform re-aims the host night light at a fixed elevation and copies
// the host moon transform into the disk and specular lights.
func (r *LightRig) SyncTransform(host core.HostLightSource, rollDeg float32) bool {
	night, moon, ok := hostLights(host)
	if !ok {
		return false
	}

	ground := moon.Transform.Position
	ground[1] = 0
	if ground.LenSqr() > 1e-12 {
		ground = ground.Normalize()
	}
	ground[1] = nightLightAnchorHeight
	night.Transform.Position = ground
	night.Transform.LookAt(mgl32.Vec3{}, core.AxisUp)

	r.followMoon(moon, rollDeg)
	r.MoonSpecular.Transform.CopyFrom(moon.Transform)
	return true
}

// SyncSpecularTransform only needs the moon transform, not its validity.
func (r *LightRig) SyncSpecularTransform(host core.HostLightSource) bool {
	if host == nil {
		return false
	}
	moon := host.MoonLight()
	if moon == nil || moon.Transform == nil {
		return false
	}
	r.MoonSpecular.Transform.CopyFrom(moon.Transform)
	return true
}

func (r *LightRig) followMoon(moon *core.HostLight, rollDeg float32) {
	r.MoonDisk.Transform.CopyFrom(moon.Transform)
	if rollDeg != 0 {
		r.MoonDisk.Transform.RollDegrees(rollDeg)
	}
}

// ApplyNightSky sets the night-sky light intensity. The dimmer keeps the
// product of intensity and dimmer constant; a zero intensity leaves it as is.
func (r *LightRig) ApplyNightSky(intensity float32) {
	r.NightSky.Intensity = intensity
	if intensity != 0 {
		r.NightSky.Flags.LightDimmer = nightSkyDimmerScale / intensity
	}
}

func (r *LightRig) ApplyAmbient(host core.HostLightSource, intensity float32) bool {
	night, _, ok := hostLights(host)
	if !ok {
		return false
	}
	night.Intensity = intensity
	return true
}

// ApplyMoonDisk follows the host moon transform and surface texture and sets
// the disk size and intensity.
func (r *LightRig) ApplyMoonDisk(host core.HostLightSource, size, intensity, rollDeg float32) bool {
	_, moon, ok := hostLights(host)
	if !ok {
		return false
	}
	r.followMoon(moon, rollDeg)
	if r.MoonDisk.SurfaceTexture != moon.SurfaceTexture {
		r.MoonDisk.SurfaceTexture = moon.SurfaceTexture
	}
	r.MoonDisk.AngularDiameter = size
	r.MoonDisk.Intensity = MoonDiskIntensity(size, intensity)
	return true
}

// ApplyDirectMoon compensates the host moon light for its elevation, softened
// by averager, and scales the specular light the opposite way.
func (r *LightRig) ApplyDirectMoon(host core.HostLightSource, intensity, averager float32) bool {
	_, moon, ok := hostLights(host)
	if !ok {
		return false
	}
	m := AntiLambertIntensity(moon.Transform.Rotation)
	r.MoonSpecular.Intensity = intensity / m / specularDivisor
	moon.Intensity = intensity * BlendAverager(m, averager)
	return true
}

// ApplyColorTemperature colours the host night light with ambientK and the
// host moon, specular and night-sky lights with moonK. The specular light is
// then pulled toward tint by tintAmount.
func (r *LightRig) ApplyColorTemperature(host core.HostLightSource, ambientK, moonK float32, tint core.Color, tintAmount float32) bool {
	night, moon, ok := hostLights(host)
	if !ok {
		return false
	}
	moonColor := core.ColorTemperatureToRGB(moonK)
	night.Color = core.ColorTemperatureToRGB(ambientK)
	moon.Color = moonColor
	r.MoonSpecular.Color = moonColor.Tint(tint, tintAmount)
	r.NightSky.Color = moonColor
	return true
}

func (r *LightRig) ApplyAurora(level AuroraLevel, intensity float32) {
	r.Volume.AuroraOverride = level > AuroraOff
	r.Volume.AuroraIntensity = intensity
	switch level {
	case AuroraBasic:
		r.Volume.Priority = DefaultVolumePriority
	case AuroraPhotoMode:
		r.Volume.Priority = PhotoModeVolumePriority
	default:
		r.Volume.Priority = r.basePriority
	}
}

func (r *LightRig) ApplyStarfieldEmission(strength float32) {
	r.Volume.SpaceEmissionOverride = true
	r.Volume.SpaceEmission = strength
}
