package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/errors"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stats.Interval() != 100*time.Millisecond {
		t.Fatalf("interval = %v, want 100ms", cfg.Stats.Interval())
	}
	if cfg.Window.ScrollRate != 10 {
		t.Fatalf("scroll rate = %d, want 10", cfg.Window.ScrollRate)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vncview.yaml")
	data := []byte("stats:\n  interval_ms: 250\n  alarm_color: \"#00ff00\"\ndemo:\n  multicast: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stats.IntervalMillis != 250 || !cfg.Demo.Multicast {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Demo.Width != 800 || cfg.Logging.Level != "INFO" {
		t.Fatalf("unset keys lost their defaults: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "stats: [",
		"zero interval": "stats:\n  interval_ms: 0\n",
		"bad colour":    "stats:\n  alarm_color: mauve\n",
		"negative size": "demo:\n  width: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vncview.yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"red", color.RGBA{R: 0xff, A: 0xff}, true},
		{" RED ", color.RGBA{R: 0xff, A: 0xff}, true},
		{"#102030", color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, true},
		{"#10203", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
	}
	for _, tt := range cases {
		got, err := ParseColor(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseColor(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.IsNotValid(err) {
			t.Errorf("ParseColor(%q) error = %v, want NotValid", tt.in, err)
		}
	}
}
