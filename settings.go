package nightlight

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the user tunables. Values are committed through a
// SettingsStore; systems read a copy once per frame.
type Settings struct {
	OverwriteNightLighting    bool        `yaml:"overwriteNightLighting"`
	AmbientLight              float32     `yaml:"ambientLight"`
	NightSkyLight             float32     `yaml:"nightSkyLight"`
	MoonDirectionalLight      float32     `yaml:"moonDirectionalLight"`
	MoonDiskSize              float32     `yaml:"moonDiskSize"`
	MoonDiskIntensity         float32     `yaml:"moonDiskIntensity"`
	NightLightTemperature     float32     `yaml:"nightLightTemperature"`
	MoonTemperature           float32     `yaml:"moonTemperature"`
	MoonLightAveragerStrength float32     `yaml:"moonLightAveragerStrength"`
	StarfieldEmissionStrength float32     `yaml:"starfieldEmissionStrength"`
	AuroraOverwriteLevel      AuroraLevel `yaml:"auroraOverwriteLevel"`
	AuroraIntensity           float32     `yaml:"auroraIntensity"`

	OverrideTexture        bool    `yaml:"overrideTexture"`
	SelectedTexture        string  `yaml:"selectedTexture"`
	DoZRotation            bool    `yaml:"doZRotation"`
	ZRotation              float32 `yaml:"zRotation"`
	CustomTextureDir       string  `yaml:"customTextureDir"`
	CustomTextureSphereLit bool    `yaml:"customTextureSphereLit"`
	SpecularTintStrength   float32 `yaml:"specularTintStrength"`
}

func DefaultSettings() Settings {
	return Settings{
		OverwriteNightLighting:    true,
		AmbientLight:              3.5,
		NightSkyLight:             1,
		MoonDirectionalLight:      4,
		MoonDiskSize:              1.5,
		MoonDiskIntensity:         1,
		NightLightTemperature:     6750,
		MoonTemperature:           7200,
		MoonLightAveragerStrength: 0.7,
		StarfieldEmissionStrength: 0.3,
		AuroraOverwriteLevel:      AuroraOff,
		AuroraIntensity:           1,
		CustomTextureSphereLit:    true,
		SpecularTintStrength:      0.5,
	}
}

func clampf(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}

// Clamp pulls every slider value back into its range.
func (s *Settings) Clamp() {
	s.AmbientLight = clampf(s.AmbientLight, 0, 15)
	s.NightSkyLight = clampf(s.NightSkyLight, 0, 15)
	s.MoonDirectionalLight = clampf(s.MoonDirectionalLight, 0, 15)
	s.MoonDiskSize = clampf(s.MoonDiskSize, 0.05, 10)
	s.MoonDiskIntensity = clampf(s.MoonDiskIntensity, 0.1, 10)
	s.NightLightTemperature = clampf(s.NightLightTemperature, 3500, 10000)
	s.MoonTemperature = clampf(s.MoonTemperature, 3500, 10000)
	s.MoonLightAveragerStrength = clampf(s.MoonLightAveragerStrength, 0, 1)
	s.StarfieldEmissionStrength = clampf(s.StarfieldEmissionStrength, 0, 10)
	s.AuroraIntensity = clampf(s.AuroraIntensity, 0, 10)
	s.SpecularTintStrength = clampf(s.SpecularTintStrength, 0, 1)
	s.AuroraOverwriteLevel = max(AuroraOff, min(AuroraPhotoMode, s.AuroraOverwriteLevel))
	s.ZRotation = float32(math.Mod(float64(s.ZRotation), 360))
	if s.ZRotation < 0 {
		s.ZRotation += 360
	}
}

// roll is the moon disk roll in degrees, zero when rotation is off.
func (s Settings) roll() float32 {
	if !s.DoZRotation {
		return 0
	}
	return s.ZRotation
}

// SettingsStore holds the committed settings and a staged copy. Apply
// commits the staged copy and notifies observers.
type SettingsStore struct {
	current   Settings
	staged    Settings
	observers []func(Settings)
}

func NewSettingsStore(initial Settings) *SettingsStore {
	initial.Clamp()
	return &SettingsStore{current: initial, staged: initial}
}

func (st *SettingsStore) Current() Settings {
	return st.current
}

// Update edits the staged copy. Nothing is visible until Apply.
func (st *SettingsStore) Update(fn func(*Settings)) *SettingsStore {
	fn(&st.staged)
	return st
}

func (st *SettingsStore) Apply() {
	st.staged.Clamp()
	st.current = st.staged
	for _, fn := range st.observers {
		fn(st.current)
	}
}

func (st *SettingsStore) OnApplied(fn func(Settings)) {
	st.observers = append(st.observers, fn)
}

// Reset restores the defaults and applies them.
func (st *SettingsStore) Reset() {
	st.staged = DefaultSettings()
	st.Apply()
}

// LoadSettings reads YAML from path on top of the defaults. A missing file
// yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	s.Clamp()
	return s, nil
}

func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
