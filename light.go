package nightlight

import (
	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/go-gl/mathgl/mgl32"
)

type LightRole uint32

const (
	RoleNightSky     LightRole = 0
	RoleMoonDisk     LightRole = 1
	RoleMoonSpecular LightRole = 2
)

func (r LightRole) String() string {
	switch r {
	case RoleNightSky:
		return "night-sky"
	case RoleMoonDisk:
		return "moon-disk"
	case RoleMoonSpecular:
		return "moon-specular"
	}
	return "unknown"
}

type LightUnit uint32

const (
	LightUnitIntensity LightUnit = 0
	LightUnitLux       LightUnit = 1
)

const (
	TagNightSkyLight     = "MoonLightAtmosphere"
	TagMoonDiskLight     = "MoonDiskLight"
	TagMoonSpecularLight = "MoonSpecularLight"
)

// LightHandle is one synthetic directional light. The transform belongs to
// the handle; SurfaceTexture is only referenced, never owned.
type LightHandle struct {
	Tag             string
	Role            LightRole
	Transform       core.Transform
	Enabled         bool
	Color           core.Color
	Intensity       float32
	AngularDiameter float32 // degrees, disk light only
	Flags           core.LightFlags
	Unit            LightUnit
	FlareSize       float32
	FlareFalloff    float32
	SurfaceTexture  core.Texture
	// Persistent handles survive scene reloads.
	Persistent bool
}

func newDirectionalLight(tag string, role LightRole) *LightHandle {
	return &LightHandle{
		Tag:        tag,
		Role:       role,
		Transform:  *core.NewTransform(),
		Color:      core.White,
		Intensity:  1,
		Flags:      core.LightFlags{LightDimmer: 1, VolumetricDimmer: 1},
		Persistent: true,
	}
}

func newNightSkyLight() *LightHandle {
	l := newDirectionalLight(TagNightSkyLight, RoleNightSky)
	l.Flags.AffectsDiffuse = false
	l.Flags.AffectsSpecular = false
	l.Flags.AffectsVolumetric = true
	l.Flags.InteractsWithSky = true
	l.Flags.LightDimmer = 0.5
	l.AngularDiameter = 0
	l.Intensity = 1

	l.Transform.Position = core.AxisUp
	l.Transform.LookAt(mgl32.Vec3{}, core.AxisForward)
	return l
}

func newMoonSpecularLight() *LightHandle {
	l := newDirectionalLight(TagMoonSpecularLight, RoleMoonSpecular)
	l.Flags.AffectsDiffuse = false
	l.Flags.AffectsSpecular = true
	l.Flags.AffectsVolumetric = true
	l.Flags.InteractsWithSky = false
	l.Flags.LightDimmer = 0.1
	l.AngularDiameter = 0
	l.Intensity = 1
	return l
}

func newMoonDiskLight() *LightHandle {
	l := newDirectionalLight(TagMoonDiskLight, RoleMoonDisk)
	l.Flags.AffectsDiffuse = false
	l.Flags.AffectsSpecular = true
	l.Flags.AffectsVolumetric = true
	l.Flags.InteractsWithSky = true
	l.Flags.LightDimmer = 0.1
	l.AngularDiameter = 2
	l.Intensity = 0
	l.Unit = LightUnitLux
	l.FlareSize = 0
	l.FlareFalloff = 0
	l.Color = core.ColorTemperatureToRGB(6000)
	return l
}
