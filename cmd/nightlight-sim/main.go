package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/gekko3d/nightlight"
	"github.com/gekko3d/nightlight/hostsim"
	"github.com/gekko3d/nightlight/skyrt/gpu"
	"github.com/gekko3d/nightlight/skyrt/moontex"
	"github.com/gekko3d/nightlight/texturepack"
	"go.uber.org/zap"
)

func main() {
	frames := flag.Int("frames", 600, "Number of frames to simulate")
	step := flag.Duration("step", 16*time.Millisecond, "Simulated frame time")
	hours := flag.Float64("hours", 22, "Time of day to start at")
	textures := flag.String("textures", "", "Directory scanned for moon texture packs")
	watch := flag.Bool("watch", false, "Reload texture packs when files change")
	settingsPath := flag.String("settings", "", "YAML settings file")
	save := flag.Bool("save", false, "Write the final settings back to -settings")
	selectKey := flag.String("select", "", "Texture key to composite (implies texture override)")
	seed := flag.Int64("seed", 7, "Seed for the procedural moon albedo")
	out := flag.String("out", "", "Write the composited moon surface to this PNG file")
	useGPU := flag.Bool("gpu", false, "Mirror the moon surface into a WebGPU texture")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := run(options{
		frames:       *frames,
		step:         *step,
		hours:        float32(*hours),
		textures:     *textures,
		watch:        *watch,
		settingsPath: *settingsPath,
		save:         *save,
		selectKey:    *selectKey,
		seed:         *seed,
		out:          *out,
		gpu:          *useGPU,
		debug:        *debug,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	frames       int
	step         time.Duration
	hours        float32
	textures     string
	watch        bool
	settingsPath string
	save         bool
	selectKey    string
	seed         int64
	out          string
	gpu          bool
	debug        bool
}

func run(opts options) error {
	app := nightlight.NewAppBuilder().
		UseModule(
			nightlight.LoggingModule{Prefix: "nightlight", Debug: opts.debug},
			nightlight.TimeModule{FixedStep: opts.step},
		).
		Build()
	defer app.Shutdown()

	logger := app.Logger()
	zl := nightlight.ZapOf(logger)

	settings := nightlight.DefaultSettings()
	if opts.settingsPath != "" {
		loaded, err := nightlight.LoadSettings(opts.settingsPath)
		if err != nil {
			return err
		}
		settings = loaded
	}
	store := nightlight.NewSettingsStore(settings)

	sky := hostsim.New(zl.Named("hostsim"))
	sky.Hours = opts.hours
	sky.WarmupFrames = 3

	pack := texturepack.New(zl.Named("texturepack"))
	pack.AddGenerated(texturepack.ProceduralKey, "Procedural", moontex.ProceduralAlbedo(256, opts.seed), true)
	if opts.textures != "" {
		n, err := pack.Scan(opts.textures, 1, 2)
		if err != nil {
			return err
		}
		logger.Infof("found %d moon texture(s) in %s", n, opts.textures)
		if opts.watch {
			if err := pack.Watch(); err != nil {
				return err
			}
			app.Commands().OnTeardown(func() { _ = pack.Close() })
		}
	}

	if opts.gpu {
		mirror, err := attachMirror(sky, zl.Named("gpu"))
		if err != nil {
			return err
		}
		app.Commands().OnTeardown(mirror)
	}

	nightlight.NightLightingModule{
		Host:     sky,
		Cameras:  sky,
		Textures: pack,
		Settings: store,
	}.Install(app, app.Commands())
	nl := nightlight.Resource[nightlight.NightLighting](app)

	app.UseSystem(nightlight.System(func(t *nightlight.Time) {
		sky.Advance(t.Dt)
	}).InStage(nightlight.Update))
	if opts.watch {
		app.UseSystem(nightlight.System(func(nl *nightlight.NightLighting) {
			if pack.Poll() {
				nl.ReloadTextures()
			}
		}).InStage(nightlight.PreUpdate))
	}

	if opts.selectKey != "" {
		store.Update(func(s *nightlight.Settings) {
			s.OverrideTexture = true
			s.SelectedTexture = opts.selectKey
		}).Apply()
	}

	ran := app.Run(opts.frames)
	logger.Infof("simulated %d frame(s), state %s, %d pending", ran, nl.State(), nl.PendingCount())

	if opts.out != "" {
		if err := writePNG(opts.out, sky); err != nil {
			return err
		}
		logger.Infof("wrote %s", opts.out)
	}
	if opts.save && opts.settingsPath != "" {
		if err := nightlight.SaveSettings(opts.settingsPath, store.Current()); err != nil {
			return err
		}
	}
	return nil
}

// attachMirror uploads every composited moon frame to a headless GPU device
// and returns the release hook.
func attachMirror(sky *hostsim.Sky, log *zap.Logger) (func(), error) {
	device, err := gpu.NewHeadlessDevice()
	if err != nil {
		return nil, err
	}
	mirror, err := gpu.NewTextureMirror(device.Device, device.Queue, sky.MoonSurface(), log)
	if err != nil {
		device.Release()
		return nil, err
	}
	mirror.Attach(sky.MoonSurface())
	return func() {
		log.Info("Releasing moon texture mirror", zap.Uint64("uploads", mirror.Uploaded()))
		mirror.Release()
		device.Release()
	}, nil
}

func writePNG(path string, sky *hostsim.Sky) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, sky.MoonSurface().Image()); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
