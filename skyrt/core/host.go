package core

// LightFlags mirrors the host's per-light interaction settings.
type LightFlags struct {
	AffectsDiffuse    bool
	AffectsSpecular   bool
	AffectsVolumetric bool
	InteractsWithSky  bool
	LightDimmer       float32
	VolumetricDimmer  float32
}

// HostLight is a live, host-owned light. Callers mutate it in place; the host
// reads it back when it renders the frame.
type HostLight struct {
	Transform      *Transform
	Valid          bool
	Flags          LightFlags
	Color          Color
	Intensity      float32
	SurfaceTexture Texture
}

// Usable reports whether the light carries a transform and the host marked
// it valid for this frame.
func (l *HostLight) Usable() bool {
	return l != nil && l.Transform != nil && l.Valid
}

// HostLightSource exposes the host's celestial lights.
type HostLightSource interface {
	NightLight() *HostLight
	MoonLight() *HostLight
	SunLight() *HostLight
}

// CameraProvider exposes the camera currently used for rendering. It may
// return nil.
type CameraProvider interface {
	ActiveCamera() *Camera
}
