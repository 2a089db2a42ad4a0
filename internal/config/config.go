package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

type SPI struct {
	Dev string `yaml:"dev"` // e.g. /dev/spidev0.0
}

type Buttons struct {
	Mode       string `yaml:"mode"`       // boot/ambient-exit button pin
	Brightness string `yaml:"brightness"` // interrupt-driven brightness pin
}

type Lamp struct {
	Red   string `yaml:"red"`
	Green string `yaml:"green"`
	Blue  string `yaml:"blue"`
}

type Show struct {
	MinEffectMs int `yaml:"min_effect_ms"`
	MaxEffectMs int `yaml:"max_effect_ms"`
}

type Boot struct {
	WindowMs int `yaml:"window_ms"`
	SettleMs int `yaml:"settle_ms"`
}

type Brightness struct {
	Step float64 `yaml:"step"`
}

type Starfield struct {
	MinBright       float64 `yaml:"min_bright"`
	MaxBright       float64 `yaml:"max_bright"`
	FadeSpeed       float64 `yaml:"fade_speed"`
	NewTargetChance float64 `yaml:"new_target_chance"`
	SaturationMax   float64 `yaml:"saturation_max"`
	HueSpreadDeg    float64 `yaml:"hue_spread_deg"`
	FrameDelayMs    int     `yaml:"frame_delay_ms"`

	CometChance   float64 `yaml:"comet_chance"`
	CometMinTrail int     `yaml:"comet_min_trail"`
	CometMaxTrail int     `yaml:"comet_max_trail"`
	CometMinMs    int     `yaml:"comet_min_ms"`
	CometMaxMs    int     `yaml:"comet_max_ms"`
	CometHeadMin  float64 `yaml:"comet_head_min"`
	CometHeadMax  float64 `yaml:"comet_head_max"`
	Afterglow     float64 `yaml:"afterglow"`
}

type Config struct {
	Driver      string  `yaml:"driver"` // "spi" | "sim"
	Leds        int     `yaml:"leds"`
	Orientation string  `yaml:"orientation"` // "bottom" | "top"
	Brightness  float64 `yaml:"brightness"`
	FPS         int     `yaml:"fps"`

	SPI           SPI        `yaml:"spi,omitempty"`
	Buttons       Buttons    `yaml:"buttons,omitempty"`
	Lamp          Lamp       `yaml:"lamp,omitempty"`
	Show          Show       `yaml:"show"`
	Boot          Boot       `yaml:"boot"`
	BrightnessCtl Brightness `yaml:"brightness_ctl"`
	Starfield     Starfield  `yaml:"starfield"`
}

// Default returns the shipped fixture tuning.
func Default() *Config {
	return &Config{
		Driver:      "spi",
		Leds:        66,
		Orientation: "bottom",
		Brightness:  0.8,
		FPS:         60,
		SPI:         SPI{Dev: "/dev/spidev0.0"},
		Show:        Show{MinEffectMs: 6000, MaxEffectMs: 40000},
		Boot:        Boot{WindowMs: 1200, SettleMs: 300},
		BrightnessCtl: Brightness{
			Step: 0.1,
		},
		Starfield: Starfield{
			MinBright:       0.02,
			MaxBright:       0.8,
			FadeSpeed:       0.01,
			NewTargetChance: 0.01,
			SaturationMax:   0.05,
			HueSpreadDeg:    20,
			FrameDelayMs:    50,
			CometChance:     0.00015,
			CometMinTrail:   3,
			CometMaxTrail:   8,
			CometMinMs:      15,
			CometMaxMs:      35,
			CometHeadMin:    0.6,
			CometHeadMax:    1.0,
			Afterglow:       0.4,
		},
	}
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the config back out.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate fails fast on configurations the fixture cannot run with.
func (c *Config) Validate() error {
	if c.Leds <= 0 {
		return errors.Errorf("invalid led count %d", c.Leds)
	}
	if _, err := strip.ParseOrientation(c.Orientation); err != nil {
		return err
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return errors.Errorf("brightness %v outside [0,1]", c.Brightness)
	}
	if c.BrightnessCtl.Step <= 0 || c.BrightnessCtl.Step > 1 {
		return errors.Errorf("brightness step %v outside (0,1]", c.BrightnessCtl.Step)
	}
	if c.Show.MinEffectMs <= 0 || c.Show.MaxEffectMs < c.Show.MinEffectMs {
		return errors.Errorf("invalid effect duration range [%d,%d]ms", c.Show.MinEffectMs, c.Show.MaxEffectMs)
	}
	if c.Starfield.MinBright < 0 || c.Starfield.MaxBright > 1 || c.Starfield.MinBright >= c.Starfield.MaxBright {
		return errors.Errorf("invalid star brightness range [%v,%v]", c.Starfield.MinBright, c.Starfield.MaxBright)
	}
	if c.Starfield.CometMinTrail <= 0 || c.Starfield.CometMaxTrail < c.Starfield.CometMinTrail {
		return errors.Errorf("invalid comet trail range [%d,%d]", c.Starfield.CometMinTrail, c.Starfield.CometMaxTrail)
	}
	return nil
}
