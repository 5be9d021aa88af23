package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

func deg(v float64) *float64 { return &v }

// Presets are named starting points. CLI flags and config files are
// applied on top of them.
var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"cad": func() *Config {
		c := DefaultConfig()
		c.Camera.Projection = "orthographic"
		c.Controls.EnableDamping = false
		c.Controls.Mouse = MouseConfig{Left: "rotate", Middle: "pan", Right: "dolly"}
		c.Controls.MinZoom = 0.1
		c.Controls.MaxZoom = 20
		return c
	},
	"turntable": func() *Config {
		c := DefaultConfig()
		c.Controls.AutoRotate = true
		c.Controls.AutoRotateSpeed = 4
		c.Controls.EnablePan = false
		c.Controls.MinPolarDeg = 60
		c.Controls.MaxPolarDeg = 120
		c.Density.Visible = false
		return c
	},
	"locked": func() *Config {
		c := DefaultConfig()
		c.Controls.EnableZoom = false
		c.Controls.EnablePan = false
		c.Controls.MinAzimuthDeg = deg(-45)
		c.Controls.MaxAzimuthDeg = deg(45)
		c.Controls.MinPolarDeg = 45
		c.Controls.MaxPolarDeg = 135
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve starts from the named preset and overlays the file at path,
// if any.
func Resolve(preset, path string) (*Config, error) {
	if preset == "" {
		preset = "default"
	}
	cfg := GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, preset, ListPresets())
	}
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
