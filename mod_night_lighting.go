package nightlight

import (
	"github.com/gekko3d/nightlight/skyrt/core"
	"github.com/gekko3d/nightlight/skyrt/moontex"
)

const toggleOverwriteOp = "toggle-overwrite"

// customTextureProvider is implemented by providers that expose a
// user-managed texture directory.
type customTextureProvider interface {
	SetCustom(dir string, spherical bool)
}

// NightLightingModule installs the NightLighting resource and its per-frame
// system in PreRender, after the host has moved its celestial bodies.
type NightLightingModule struct {
	Host     core.HostLightSource
	Cameras  core.CameraProvider
	Textures TextureProvider
	// Settings defaults to a store holding DefaultSettings.
	Settings       *SettingsStore
	VolumePriority float32
}

func (m NightLightingModule) Install(app *App, cmd *Commands) {
	store := m.Settings
	if store == nil {
		store = NewSettingsStore(DefaultSettings())
	}
	nl := NewNightLighting(m.Host, m.Cameras, m.Textures, store, m.VolumePriority, app.Logger())
	cmd.AddResources(nl)
	cmd.UseSystem(System(nightLightingSystem).InStage(PreRender))
	cmd.OnTeardown(nl.Teardown)
}

func nightLightingSystem(nl *NightLighting) {
	nl.Update()
}

// NightLighting drives the light rig, the overwrite state machine and the
// moon texture compositor once per frame.
type NightLighting struct {
	host     core.HostLightSource
	settings *SettingsStore

	rig       *LightRig
	overwrite overwriteMachine
	pending   PendingQueue
	textures  textureControl

	defaultRenderer *moontex.Switch
	renderer        moontex.Renderer

	customDir string
	tornDown  bool
	log       Logger
}

func NewNightLighting(host core.HostLightSource, cameras core.CameraProvider, textures TextureProvider, settings *SettingsStore, volumePriority float32, log Logger) *NightLighting {
	if log == nil {
		log = NewNopLogger()
	}
	if settings == nil {
		settings = NewSettingsStore(DefaultSettings())
	}
	rig := NewLightRig(volumePriority, log)
	sw := moontex.NewSwitch(host, cameras, ZapOf(log).Named("moontex"))

	nl := &NightLighting{
		host:     host,
		settings: settings,
		rig:      rig,
		overwrite: overwriteMachine{
			rig: rig,
			log: log,
		},
		textures: textureControl{
			provider: textures,
			binder:   sw,
			log:      log,
		},
		defaultRenderer: sw,
		renderer:        sw,
		log:             log,
	}
	sw.UseSphericalRender = nl.textures.UsesSphericalLitRender

	nl.syncCustomTexture(settings.Current())
	settings.OnApplied(nl.onSettingsApplied)

	// establish a consistent state once the host is ready
	nl.SetDirty()

	log.Infof("night lighting created")
	return nl
}

func (nl *NightLighting) onSettingsApplied(s Settings) {
	if nl.tornDown {
		return
	}
	nl.ToggleOverwrite()
	nl.syncCustomTexture(s)
	nl.textures.Select(s.SelectedTexture)
}

func (nl *NightLighting) syncCustomTexture(s Settings) {
	custom, ok := nl.textures.provider.(customTextureProvider)
	if !ok {
		return
	}
	if s.CustomTextureDir != nl.customDir {
		nl.log.Infof("custom texture dir: %s", s.CustomTextureDir)
		nl.customDir = s.CustomTextureDir
		nl.textures.forget()
	}
	custom.SetCustom(s.CustomTextureDir, s.CustomTextureSphereLit)
}

// Update runs one frame: drain the retry queue, apply the overwrite pipeline
// when enabled, then the aurora which is independent of the overwrite.
func (nl *NightLighting) Update() {
	if nl.tornDown {
		return
	}
	if done := nl.pending.Drain(); done > 0 {
		nl.log.Debugf("completed %d pending operation(s)", done)
	}

	s := nl.settings.Current()
	if s.OverwriteNightLighting {
		nl.rig.SyncTransform(nl.host, s.roll())
		nl.rig.ApplyNightSky(s.NightSkyLight)
		nl.rig.ApplyDirectMoon(nl.host, s.MoonDirectionalLight, s.MoonLightAveragerStrength)
		nl.rig.SyncSpecularTransform(nl.host)
		nl.rig.ApplyAmbient(nl.host, s.AmbientLight)
		nl.updateMoonDisk(s)
		nl.applyTemperature(s.NightLightTemperature, s.MoonTemperature, s.SpecularTintStrength)
		nl.rig.ApplyStarfieldEmission(s.StarfieldEmissionStrength)
	}
	nl.rig.ApplyAurora(s.AuroraOverwriteLevel, s.AuroraIntensity)
}

func (nl *NightLighting) updateMoonDisk(s Settings) bool {
	if !nl.rig.ApplyMoonDisk(nl.host, s.MoonDiskSize, s.MoonDiskIntensity, s.roll()) {
		return false
	}
	if !s.OverrideTexture || nl.renderer == nil {
		return true
	}
	target, ok := nl.rig.MoonDisk.SurfaceTexture.(*core.RenderTexture)
	if !ok {
		return true
	}
	nl.textures.Select(s.SelectedTexture)
	nl.renderer.Render(target)
	return true
}

func (nl *NightLighting) applyTemperature(ambientK, moonK, tintStrength float32) bool {
	tint, ok := nl.textures.Average()
	if !ok {
		tintStrength = 0
	}
	return nl.rig.ApplyColorTemperature(nl.host, ambientK, moonK, tint.Normalized(), tintStrength)
}

// SetDirty queues an overwrite toggle for the next frame. Repeated calls
// while one is queued return the queued id.
func (nl *NightLighting) SetDirty() PendingID {
	return nl.pending.AddUnique(toggleOverwriteOp, func() bool {
		return nl.toggle().Done()
	})
}

// ToggleOverwrite brings the host lights in line with the
// OverwriteNightLighting setting. When the host is not ready the toggle is
// queued and false is returned; a degraded restore also reports false.
func (nl *NightLighting) ToggleOverwrite() bool {
	res := nl.toggle()
	if !res.Done() {
		nl.SetDirty()
	}
	return res == ToggleApplied
}

func (nl *NightLighting) toggle() ToggleResult {
	return nl.overwrite.toggle(nl.host, nl.settings.Current().OverwriteNightLighting)
}

// commit stores fn's edits and reports whether the rig is live.
func (nl *NightLighting) commit(fn func(*Settings)) bool {
	nl.settings.Update(fn).Apply()
	return nl.overwrite.state == Overwritten
}

func (nl *NightLighting) UpdateMoonDisk(size, intensity float32) bool {
	if !nl.commit(func(s *Settings) {
		s.MoonDiskSize = size
		s.MoonDiskIntensity = intensity
	}) {
		return false
	}
	return nl.updateMoonDisk(nl.settings.Current())
}

func (nl *NightLighting) UpdateNightSky(intensity float32) bool {
	if !nl.commit(func(s *Settings) { s.NightSkyLight = intensity }) {
		return false
	}
	nl.rig.ApplyNightSky(nl.settings.Current().NightSkyLight)
	return true
}

func (nl *NightLighting) UpdateTemperature(ambientK, moonK float32) bool {
	if !nl.commit(func(s *Settings) {
		s.NightLightTemperature = ambientK
		s.MoonTemperature = moonK
	}) {
		return false
	}
	s := nl.settings.Current()
	return nl.applyTemperature(s.NightLightTemperature, s.MoonTemperature, s.SpecularTintStrength)
}

// UpdateAurora applies immediately; the aurora does not depend on the
// overwrite state.
func (nl *NightLighting) UpdateAurora(level AuroraLevel, intensity float32) {
	nl.settings.Update(func(s *Settings) {
		s.AuroraOverwriteLevel = level
		s.AuroraIntensity = intensity
	}).Apply()
	s := nl.settings.Current()
	nl.rig.ApplyAurora(s.AuroraOverwriteLevel, s.AuroraIntensity)
}

func (nl *NightLighting) UpdateSpaceTextureEmission(strength float32) bool {
	if !nl.commit(func(s *Settings) { s.StarfieldEmissionStrength = strength }) {
		return false
	}
	nl.rig.ApplyStarfieldEmission(nl.settings.Current().StarfieldEmissionStrength)
	return true
}

// SetOverrideRenderer replaces the moon texture renderer. nil restores the
// built-in spherical/flat switch.
func (nl *NightLighting) SetOverrideRenderer(r moontex.Renderer) {
	if r == nil {
		r = nl.defaultRenderer
	}
	nl.renderer = r
}

func (nl *NightLighting) OverrideRenderer() moontex.Renderer { return nl.renderer }
func (nl *NightLighting) DefaultRenderer() *moontex.Switch  { return nl.defaultRenderer }

func (nl *NightLighting) IsPending(id PendingID) bool { return nl.pending.IsPending(id) }
func (nl *NightLighting) PendingCount() int           { return nl.pending.Len() }

// Defer queues op for the next frame.
func (nl *NightLighting) Defer(name string, op PendingOperation) PendingID {
	return nl.pending.Add(name, op)
}

func (nl *NightLighting) State() OverwriteState { return nl.overwrite.state }
func (nl *NightLighting) Rig() *LightRig        { return nl.rig }
func (nl *NightLighting) Settings() *SettingsStore {
	return nl.settings
}

// Snapshot returns the captured vanilla host light state, if any.
func (nl *NightLighting) Snapshot() (HostLightSnapshot, bool) {
	if nl.overwrite.snapshot == nil {
		return HostLightSnapshot{}, false
	}
	return *nl.overwrite.snapshot, true
}

// ReloadTextures drops the cached selection so the next frame fetches the
// selected texture again. Call it after the provider's files changed.
func (nl *NightLighting) ReloadTextures() {
	nl.textures.forget()
}

// SpecularTint is the average albedo colour of the bound moon texture.
func (nl *NightLighting) SpecularTint() (core.Color, bool) {
	return nl.textures.Average()
}

// Teardown puts the host lights back to vanilla when possible, drops the
// snapshot and stops all further updates.
func (nl *NightLighting) Teardown() {
	if nl.tornDown {
		return
	}
	if nl.overwrite.state == Overwritten {
		night, moon, ok := hostLights(nl.host)
		if ok {
			nl.overwrite.restore(night, moon)
		}
	}
	nl.rig.SetEnabled(false)
	nl.overwrite.snapshot = nil
	nl.pending.Clear()
	nl.tornDown = true
	nl.log.Infof("night lighting torn down")
}
