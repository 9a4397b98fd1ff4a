package nightlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setOverwrite(store *SettingsStore, enabled bool) {
	store.Update(func(s *Settings) { s.OverwriteNightLighting = enabled }).Apply()
}

func TestToggleOverwrite_Enable(t *testing.T) {
	h := newFakeHost()
	nl := NewNightLighting(h, h, nil, nil, 0, nil)

	require.True(t, nl.ToggleOverwrite())
	assert.Equal(t, Overwritten, nl.State())

	assert.True(t, h.night.Flags.AffectsDiffuse)
	assert.False(t, h.night.Flags.AffectsSpecular)
	assert.True(t, h.night.Flags.AffectsVolumetric)

	assert.True(t, h.moon.Flags.AffectsDiffuse)
	assert.False(t, h.moon.Flags.AffectsSpecular)
	assert.True(t, h.moon.Flags.AffectsVolumetric)
	assert.False(t, h.moon.Flags.InteractsWithSky)
	assert.Equal(t, float32(0.25), h.moon.Flags.VolumetricDimmer)

	for _, l := range nl.Rig().Handles() {
		assert.True(t, l.Enabled, l.Tag)
	}
}

func TestToggleOverwrite_SnapshotTakenOnceBeforeMutation(t *testing.T) {
	h := newFakeHost()
	vanilla := captureSnapshot(&h.night, &h.moon)
	nl := NewNightLighting(h, h, nil, nil, 0, nil)

	_, ok := nl.Snapshot()
	assert.False(t, ok)

	require.True(t, nl.ToggleOverwrite())
	snap, ok := nl.Snapshot()
	require.True(t, ok)
	assert.Equal(t, vanilla, snap)

	nl.Update()
	require.True(t, nl.ToggleOverwrite())
	again, _ := nl.Snapshot()
	assert.Equal(t, vanilla, again, "a second enable must not re-capture")
}

func TestToggleOverwrite_RoundTrip(t *testing.T) {
	h := newFakeHost()
	vanilla := captureSnapshot(&h.night, &h.moon)
	store := NewSettingsStore(DefaultSettings())
	nl := NewNightLighting(h, h, nil, store, 0, nil)

	require.True(t, nl.ToggleOverwrite())
	for i := 0; i < 3; i++ {
		nl.Update()
	}
	require.NotEqual(t, vanilla, captureSnapshot(&h.night, &h.moon))

	setOverwrite(store, false)

	assert.Equal(t, Restored, nl.State())
	assert.Equal(t, vanilla, captureSnapshot(&h.night, &h.moon))
	for _, l := range nl.Rig().Handles() {
		assert.False(t, l.Enabled, l.Tag)
	}
}

func TestToggleOverwrite_RestoreIsIdempotent(t *testing.T) {
	h := newFakeHost()
	store := NewSettingsStore(DefaultSettings())
	nl := NewNightLighting(h, h, nil, store, 0, nil)
	require.True(t, nl.ToggleOverwrite())

	setOverwrite(store, false)
	once := captureSnapshot(&h.night, &h.moon)
	assert.True(t, nl.ToggleOverwrite())
	twice := captureSnapshot(&h.night, &h.moon)

	assert.Equal(t, once, twice)
	assert.Equal(t, Restored, nl.State())
}

func TestToggleOverwrite_RestoreWithoutSnapshotDegrades(t *testing.T) {
	h := newFakeHost()
	vanilla := captureSnapshot(&h.night, &h.moon)
	settings := DefaultSettings()
	settings.OverwriteNightLighting = false
	nl := NewNightLighting(h, h, nil, NewSettingsStore(settings), 0, nil)

	assert.False(t, nl.ToggleOverwrite())
	assert.Equal(t, Restored, nl.State())
	_, ok := nl.Snapshot()
	assert.False(t, ok, "a degraded restore does not create a snapshot")
	assert.Equal(t, vanilla, captureSnapshot(&h.night, &h.moon))

	// the startup toggle completes instead of retrying forever
	nl.Update()
	assert.Equal(t, 0, nl.PendingCount())
	assert.Equal(t, vanilla, captureSnapshot(&h.night, &h.moon))
	for _, l := range nl.Rig().Handles() {
		assert.False(t, l.Enabled, l.Tag)
	}
}

func TestToggleOverwrite_StartDisabledThenRoundTrip(t *testing.T) {
	h := newFakeHost()
	vanilla := captureSnapshot(&h.night, &h.moon)
	settings := DefaultSettings()
	settings.OverwriteNightLighting = false
	store := NewSettingsStore(settings)
	nl := NewNightLighting(h, h, nil, store, 0, nil)
	nl.Update()

	setOverwrite(store, true)
	require.Equal(t, Overwritten, nl.State())
	snap, ok := nl.Snapshot()
	require.True(t, ok)
	assert.Equal(t, vanilla, snap)
	nl.Update()

	setOverwrite(store, false)
	assert.Equal(t, Restored, nl.State())
	assert.Equal(t, vanilla, captureSnapshot(&h.night, &h.moon))
}

func TestToggleOverwrite_DeferredUntilHostValid(t *testing.T) {
	h := newFakeHost()
	h.setValid(false)
	vanilla := captureSnapshot(&h.night, &h.moon)
	nl := NewNightLighting(h, h, nil, nil, 0, nil)

	assert.False(t, nl.ToggleOverwrite())
	assert.Equal(t, Restored, nl.State())
	assert.Equal(t, vanilla, captureSnapshot(&h.night, &h.moon))

	id := nl.SetDirty()
	assert.True(t, nl.IsPending(id))
	assert.Equal(t, 1, nl.PendingCount())

	nl.Update()
	nl.Update()
	assert.True(t, nl.IsPending(id))
	assert.Equal(t, Restored, nl.State())

	h.setValid(true)
	nl.Update()

	assert.False(t, nl.IsPending(id))
	assert.Equal(t, 0, nl.PendingCount())
	assert.Equal(t, Overwritten, nl.State())
	snap, ok := nl.Snapshot()
	require.True(t, ok)
	assert.Equal(t, vanilla, snap)
}
