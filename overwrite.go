package nightlight

import (
	"github.com/gekko3d/nightlight/skyrt/core"
)

type OverwriteState int

const (
	Restored OverwriteState = iota
	Overwritten
)

func (s OverwriteState) String() string {
	if s == Overwritten {
		return "overwritten"
	}
	return "restored"
}

type ToggleResult int

const (
	// ToggleApplied means the requested state is now in effect.
	ToggleApplied ToggleResult = iota
	// ToggleHostUnavailable means nothing changed; retry on a later frame.
	ToggleHostUnavailable
	// ToggleDegraded means a restore ran without a snapshot. The synthetic
	// lights are off and the host lights were left as they are.
	ToggleDegraded
)

// Done reports whether a retry is pointless.
func (r ToggleResult) Done() bool {
	return r != ToggleHostUnavailable
}

const overwrittenMoonVolumetricDimmer = 0.25

// HostLightSnapshot is the vanilla colour and interaction flags of the host
// night and moon lights.
type HostLightSnapshot struct {
	NightColor core.Color
	NightFlags core.LightFlags
	MoonColor  core.Color
	MoonFlags  core.LightFlags
}

func captureSnapshot(night, moon *core.HostLight) HostLightSnapshot {
	return HostLightSnapshot{
		NightColor: night.Color,
		NightFlags: night.Flags,
		MoonColor:  moon.Color,
		MoonFlags:  moon.Flags,
	}
}

func (s HostLightSnapshot) restore(night, moon *core.HostLight) {
	night.Color = s.NightColor
	night.Flags = s.NightFlags
	moon.Color = s.MoonColor
	moon.Flags = s.MoonFlags
}

// overwriteMachine switches the host between vanilla lighting and the
// synthetic rig. The snapshot is taken on the first successful enable and
// kept until teardown.
type overwriteMachine struct {
	state    OverwriteState
	snapshot *HostLightSnapshot
	rig      *LightRig
	log      Logger
}

func (m *overwriteMachine) toggle(host core.HostLightSource, enable bool) ToggleResult {
	night, moon, ok := hostLights(host)
	if !ok {
		m.log.Debugf("overwrite toggle deferred: host lights not ready")
		return ToggleHostUnavailable
	}
	if enable {
		m.enable(night, moon)
		return ToggleApplied
	}
	return m.restore(night, moon)
}

func (m *overwriteMachine) enable(night, moon *core.HostLight) {
	if m.snapshot == nil {
		snap := captureSnapshot(night, moon)
		m.snapshot = &snap
		m.log.Debugf("captured vanilla host light snapshot")
	}

	night.Flags.AffectsDiffuse = true
	night.Flags.AffectsSpecular = false
	night.Flags.AffectsVolumetric = true

	moon.Flags.AffectsDiffuse = true
	moon.Flags.AffectsSpecular = false
	moon.Flags.AffectsVolumetric = true
	moon.Flags.InteractsWithSky = false
	moon.Flags.VolumetricDimmer = overwrittenMoonVolumetricDimmer

	m.rig.SetEnabled(true)
	if m.state != Overwritten {
		m.log.Infof("night lighting overwritten")
	}
	m.state = Overwritten
}

func (m *overwriteMachine) restore(night, moon *core.HostLight) ToggleResult {
	m.rig.SetEnabled(false)
	m.state = Restored

	// nothing was overwritten yet, so the host lights are still vanilla
	if m.snapshot == nil {
		m.log.Warnf("restore requested before any snapshot was taken, host lights left unchanged")
		return ToggleDegraded
	}

	m.snapshot.restore(night, moon)
	return ToggleApplied
}
