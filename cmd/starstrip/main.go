package main

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-starstrip/internal/brightness"
	"github.com/coreman2200/funtimes-starstrip/internal/button"
	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/config"
	"github.com/coreman2200/funtimes-starstrip/internal/effect"
	"github.com/coreman2200/funtimes-starstrip/internal/fx"
	"github.com/coreman2200/funtimes-starstrip/internal/led"
	"github.com/coreman2200/funtimes-starstrip/internal/show"
	"github.com/coreman2200/funtimes-starstrip/internal/starfield"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

var (
	configPath = "starstrip.yaml"
	simOnly    = false
	verbose    = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "configuration file")
	pflag.BoolVar(&simOnly, "sim-only", simOnly, "force console simulation (no hardware output)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
}

func main() {
	pflag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := loadConfig()

	if _, err := host.Init(); err != nil {
		log.Warn().Err(err).Msg("periph host init failed; hardware inputs unavailable")
	}

	// Validate everything fatal before the driver owns hardware, so an
	// exit on these paths never skips the deferred close.
	orient, err := strip.ParseOrientation(cfg.Orientation)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	catalog := fx.Catalog()
	if err := catalog.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid effect catalog")
	}

	drv := openDriver(cfg)
	defer drv.Close()

	handle := strip.New(cfg.Leds, orient, drv, cfg.Brightness)

	modeBtn := openButton(cfg.Buttons.Mode, "mode")
	brightBtn := openButton(cfg.Buttons.Brightness, "brightness")
	lamp := openLamp(cfg.Lamp)

	clk := clock.Wall()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	rc := effect.NewContext(handle, clk, rng)
	sched := show.New(
		catalog, rc, rng,
		time.Duration(cfg.Show.MinEffectMs)*time.Millisecond,
		time.Duration(cfg.Show.MaxEffectMs)*time.Millisecond,
		log.With().Str("component", "scheduler").Logger(),
	)

	ctrl := brightness.New(handle, cfg.BrightnessCtl.Step, lamp, clk,
		log.With().Str("component", "brightness").Logger())
	sched.SetBlinker(ctrl)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handle.Run(ctx, cfg.FPS)
	})
	g.Go(func() error {
		return ctrl.Watch(ctx, brightBtn)
	})
	g.Go(func() error {
		// Small settle delay so the pins are stable after reset.
		clk.Sleep(time.Duration(cfg.Boot.SettleMs) * time.Millisecond)

		arb := show.Arbitrator{
			Clock:  clk,
			Window: time.Duration(cfg.Boot.WindowMs) * time.Millisecond,
			Log:    log.With().Str("component", "boot").Logger(),
		}
		if arb.ChooseMode(modeBtn) == show.ModeAmbient {
			sf := starfield.New(starfieldConfig(cfg), handle, modeBtn, clk, rng,
				log.With().Str("component", "starfield").Logger())
			sf.SetBlinker(ctrl)
			if err := sf.Run(ctx); err != nil {
				return err
			}
		}
		return sched.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		// log.Fatal exits without running defers; release the port first.
		_ = drv.Close()
		log.Fatal().Err(err).Msg("starstrip stopped")
	}
	log.Info().Msg("shutting down")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", configPath).Msg("config not found; using defaults")
			return config.Default()
		}
		// Unreadable or invalid configuration is fatal, not silently
		// defaulted.
		log.Fatal().Err(err).Str("path", configPath).Msg("invalid configuration")
	}
	return cfg
}

func openDriver(cfg *config.Config) led.Driver {
	if simOnly || cfg.Driver == "sim" {
		log.Info().Msg("using console sim driver")
		return led.NewSim(cfg.Leds)
	}
	drv, err := led.NewSPI(cfg.SPI.Dev, cfg.Leds)
	if err != nil {
		log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("SPI init failed; falling back to sim")
		return led.NewSim(cfg.Leds)
	}
	log.Info().Str("dev", cfg.SPI.Dev).Int("leds", cfg.Leds).Msg("SPI strip driver ready")
	return drv
}

// openButton degrades to an absent (never-pressed) button when the pin
// is missing, rather than failing the whole fixture.
func openButton(pin, role string) *button.Button {
	if pin == "" {
		log.Warn().Str("role", role).Msg("no button pin configured")
		return nil
	}
	b, err := button.New(pin)
	if err != nil {
		log.Warn().Err(err).Str("role", role).Str("pin", pin).Msg("button unavailable")
		return nil
	}
	log.Debug().Str("role", role).Str("pin", pin).Msg("button ready")
	return b
}

func openLamp(cfg config.Lamp) led.Lamp {
	if cfg.Red == "" || cfg.Green == "" || cfg.Blue == "" {
		return led.NopLamp{}
	}
	l, err := led.NewGPIOLamp(cfg.Red, cfg.Green, cfg.Blue)
	if err != nil {
		log.Warn().Err(err).Msg("status lamp unavailable")
		return led.NopLamp{}
	}
	return l
}

func starfieldConfig(cfg *config.Config) starfield.Config {
	sf := starfield.DefaultConfig()
	s := cfg.Starfield
	sf.MinBright = s.MinBright
	sf.MaxBright = s.MaxBright
	sf.FadeSpeed = s.FadeSpeed
	sf.NewTargetChance = s.NewTargetChance
	sf.SaturationMax = s.SaturationMax
	sf.HueSpreadDeg = s.HueSpreadDeg
	sf.FrameDelay = time.Duration(s.FrameDelayMs) * time.Millisecond
	sf.CometChance = s.CometChance
	sf.CometMinTrail = s.CometMinTrail
	sf.CometMaxTrail = s.CometMaxTrail
	sf.CometMinDelay = time.Duration(s.CometMinMs) * time.Millisecond
	sf.CometMaxDelay = time.Duration(s.CometMaxMs) * time.Millisecond
	sf.CometHeadMin = s.CometHeadMin
	sf.CometHeadMax = s.CometHeadMax
	sf.Afterglow = s.Afterglow
	return sf
}
