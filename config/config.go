// Package config loads the viewer configuration from YAML.
package config

import (
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Stats   StatsConfig   `yaml:"stats"`
	Window  WindowConfig  `yaml:"window"`
	Metrics MetricsConfig `yaml:"metrics"`
	Demo    DemoConfig    `yaml:"demo"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type StatsConfig struct {
	IntervalMillis int    `yaml:"interval_ms"`
	AlarmColor     string `yaml:"alarm_color"`
	ShowOnStart    bool   `yaml:"show_on_start"`
}

type WindowConfig struct {
	Title      string `yaml:"title"`
	ScrollRate int    `yaml:"scroll_rate"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	// Listen is the address of the /metrics endpoint; empty disables it.
	Listen    string `yaml:"listen"`
}

// DemoConfig describes the built-in test pattern connection.
type DemoConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	FPS       int  `yaml:"fps"`
	Multicast bool `yaml:"multicast"`
}

func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "INFO"},
		Stats: StatsConfig{
			IntervalMillis: 100,
			AlarmColor:     "red",
		},
		Window: WindowConfig{
			Title:      "vncview",
			ScrollRate: 10,
		},
		Metrics: MetricsConfig{Namespace: "vncview"},
		Demo: DemoConfig{
			Width:  800,
			Height: 600,
			FPS:    30,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, errors.Annotatef(err, "could not read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Annotatef(err, "could not parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Annotatef(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Stats.IntervalMillis <= 0 {
		return errors.NotValidf("stats interval %dms", c.Stats.IntervalMillis)
	}
	if _, err := ParseColor(c.Stats.AlarmColor); err != nil {
		return err
	}
	if c.Window.ScrollRate < 0 {
		return errors.NotValidf("scroll rate %d", c.Window.ScrollRate)
	}
	if c.Demo.Width < 0 || c.Demo.Height < 0 {
		return errors.NotValidf("demo size %dx%d", c.Demo.Width, c.Demo.Height)
	}
	if c.Demo.FPS <= 0 {
		return errors.NotValidf("demo fps %d", c.Demo.FPS)
	}
	return nil
}

func (c StatsConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMillis) * time.Millisecond
}

var namedColors = map[string]color.RGBA{
	"red":    {R: 0xff, A: 0xff},
	"orange": {R: 0xff, G: 0xa5, A: 0xff},
	"yellow": {R: 0xff, G: 0xff, A: 0xff},
	"green":  {G: 0x80, A: 0xff},
	"blue":   {B: 0xff, A: 0xff},
	"white":  {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"black":  {A: 0xff},
}

// ParseColor accepts a colour name or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, errors.NotValidf("colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, errors.NotValidf("colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
