package nightlight

import (
	"math"

	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	moonDiskRatio = 0.01
	moonDiskBias  = -0.0055
	moonDiskPower = 1.5
)

// AntiLambertFromPitch returns 1/cos(90° - pitch), the inverse of the
// Lambertian falloff for a directional light pitched pitchDeg below the
// horizon. The result diverges as the light approaches the horizon and is
// left unclamped.
func AntiLambertFromPitch(pitchDeg float32) float32 {
	theta := (90 - float64(pitchDeg)) * math.Pi / 180
	return float32(1 / math.Cos(theta))
}

// AntiLambertIntensity extracts the Euler pitch of rot and compensates for it.
func AntiLambertIntensity(rot mgl32.Quat) float32 {
	return AntiLambertFromPitch(core.PitchOf(rot))
}

// BlendAverager softens multiplier m by strength a: 0 disables compensation,
// 1 applies it fully, and m == 1 stays 1 for every a.
func BlendAverager(m, a float32) float32 {
	return (m-1)*a + 1
}

// MoonDiskIntensity is the empirical disk intensity for an angular size.
// Not clamped: MoonDiskIntensity(0, 1) is -0.0055.
func MoonDiskIntensity(size, factor float32) float32 {
	return (float32(math.Pow(float64(size), moonDiskPower))*moonDiskRatio + moonDiskBias) * factor
}
