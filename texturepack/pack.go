// Package texturepack discovers moon texture variants on disk and serves
// their albedo and normal bitmaps by key.
package texturepack

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gekko3d/nightlight/skyrt/moontex"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const (
	ManifestFile = "nightlight.moonTextures.json"

	CustomKey     = "nightlight.custom"
	ProceduralKey = "nightlight.procedural"

	customAlbedo = "albedo.png"
	customNormal = "normal.png"

	defaultNormalSize = 4
)

var ErrTextureNotFound = errors.New("texture not found")

// Config describes one selectable moon texture.
type Config struct {
	Name            string `json:"name"`
	Caption         string `json:"caption"`
	Albedo          string `json:"albedo"`
	Normal          string `json:"normal,omitempty"`
	SphericalRender *bool  `json:"sphericalRender,omitempty"`

	// Dir is resolved at discovery time.
	Dir string `json:"-"`

	generated  image.Image
	discovered bool
}

func (c *Config) spherical() bool {
	return c.SphericalRender == nil || *c.SphericalRender
}

// Manifest is the on-disk layout of ManifestFile.
type Manifest struct {
	Scope  string   `json:"scope"`
	Assets []Config `json:"assets"`
}

type scanRoot struct {
	dir        string
	startDepth int
	maxDepth   int
}

// Pack keeps texture configs in discovery order.
type Pack struct {
	configs       []*Config
	defaultNormal image.Image
	roots         []scanRoot
	watcher       *fsnotify.Watcher
	log           *zap.Logger
}

func New(log *zap.Logger) *Pack {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pack{
		defaultNormal: moontex.FlatNormal(defaultNormalSize),
		log:           log,
	}
}

// AddConfig appends cfg, replacing an existing entry with the same name.
func (p *Pack) AddConfig(cfg Config) {
	for i, c := range p.configs {
		if c.Name == cfg.Name {
			p.configs[i] = &cfg
			return
		}
	}
	p.configs = append(p.configs, &cfg)
}

// AddGenerated registers an in-memory albedo under name.
func (p *Pack) AddGenerated(name, caption string, albedo image.Image, spherical bool) {
	p.AddConfig(Config{
		Name:            name,
		Caption:         caption,
		SphericalRender: &spherical,
		generated:       albedo,
	})
}

// SetCustom points the user-managed custom entry at dir, which is expected
// to contain albedo.png and optionally normal.png.
func (p *Pack) SetCustom(dir string, spherical bool) {
	if c := p.find(CustomKey); c != nil && c.Dir != dir {
		p.log.Info("Custom texture directory changed", zap.String("dir", dir))
	}
	p.AddConfig(Config{
		Name:            CustomKey,
		Caption:         "Custom Texture",
		Albedo:          customAlbedo,
		Normal:          customNormal,
		SphericalRender: &spherical,
		Dir:             dir,
	})
}

func (p *Pack) Selections() []string {
	keys := make([]string, 0, len(p.configs))
	for _, c := range p.configs {
		keys = append(keys, c.Name)
	}
	return keys
}

func (p *Pack) Caption(key string) string {
	if c := p.find(key); c != nil {
		return c.Caption
	}
	return ""
}

func (p *Pack) UsesSphericalLitRender(key string) bool {
	c := p.find(key)
	return c == nil || c.spherical()
}

// Albedo returns the decoded albedo for key, or nil when the key or file is
// missing.
func (p *Pack) Albedo(key string) image.Image {
	img, err := p.LoadAlbedo(key)
	if err != nil {
		p.log.Warn("Albedo unavailable", zap.String("key", key), zap.Error(err))
		return nil
	}
	return img
}

func (p *Pack) LoadAlbedo(key string) (image.Image, error) {
	c := p.find(key)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrTextureNotFound, key)
	}
	if c.generated != nil {
		return c.generated, nil
	}
	if c.Dir == "" || c.Albedo == "" {
		return nil, fmt.Errorf("%w: %q has no albedo file", ErrTextureNotFound, key)
	}
	return p.decode(filepath.Join(c.Dir, c.Albedo))
}

// Normal returns the DXT5nm normal map for key. Missing keys and files fall
// back to a flat default normal.
func (p *Pack) Normal(key string) image.Image {
	c := p.find(key)
	if c == nil || c.Dir == "" || c.Normal == "" {
		return p.defaultNormal
	}
	img, err := p.decode(filepath.Join(c.Dir, c.Normal))
	if err != nil {
		p.log.Debug("Using default normal", zap.String("key", key), zap.Error(err))
		return p.defaultNormal
	}
	return moontex.ToDXT5nm(img)
}

func (p *Pack) DefaultNormal() image.Image { return p.defaultNormal }

func (p *Pack) find(key string) *Config {
	for _, c := range p.configs {
		if c.Name == key {
			return c
		}
	}
	return nil
}

func (p *Pack) decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	p.log.Info("Texture loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// Scan walks dir and loads every manifest found between startDepth and
// maxDepth (dir itself is depth 0). The root is remembered for Rescan.
func (p *Pack) Scan(dir string, startDepth, maxDepth int) (int, error) {
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}
	p.log.Info("Searching texture manifests", zap.String("dir", dir))
	p.roots = append(p.roots, scanRoot{dir: dir, startDepth: startDepth, maxDepth: maxDepth})
	return p.scan(dir, startDepth, maxDepth, 0), nil
}

func (p *Pack) scan(dir string, startDepth, maxDepth, depth int) int {
	if depth > maxDepth {
		return 0
	}
	loaded := 0
	if depth >= startDepth {
		n, err := p.LoadDir(dir)
		if err != nil {
			p.log.Error("Failed to read texture manifest", zap.String("dir", dir), zap.Error(err))
		}
		loaded += n
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return loaded
	}
	for _, e := range entries {
		if e.IsDir() {
			loaded += p.scan(filepath.Join(dir, e.Name()), startDepth, maxDepth, depth+1)
		}
	}
	return loaded
}

// LoadDir reads the manifest in dir, if any. Asset names are prefixed with
// the manifest scope.
func (p *Pack) LoadDir(dir string) (int, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	p.log.Info("Texture manifest found", zap.String("path", path), zap.Int("assets", len(m.Assets)))
	for _, asset := range m.Assets {
		asset.Name = m.Scope + "." + asset.Name
		asset.Dir = dir
		asset.discovered = true
		p.AddConfig(asset)
	}
	return len(m.Assets), nil
}

// Rescan drops every manifest-discovered entry and walks the remembered
// roots again. Generated and custom entries are kept.
func (p *Pack) Rescan() int {
	kept := p.configs[:0]
	for _, c := range p.configs {
		if !c.discovered {
			kept = append(kept, c)
		}
	}
	p.configs = kept

	loaded := 0
	for _, r := range p.roots {
		loaded += p.scan(r.dir, r.startDepth, r.maxDepth, 0)
	}
	return loaded
}
