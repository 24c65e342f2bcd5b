package config

import (
	"slices"
	"time"
)

// Presets maps a preset name to a function that adjusts the defaults.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"dense": func(c *Config) {
		c.Field.SmallCount = 120
		c.Field.LargeCount = 320
		c.Field.MaxSize = 3
		c.Links.Threshold = 90
		c.Links.GridThreshold = 256
	},
	"calm": func(c *Config) {
		c.Field.Speed = 0.05
		c.Physics.PointerStrength = 0.04
		c.Camera.RotationSpeed = 0.0008
		c.Links.Opacity = 0.1
		c.Frame.FadeIn = 3 * time.Second
	},
	"mobile": func(c *Config) {
		c.Field.LargeCount = c.Field.SmallCount
		c.Field.MaxSize = 3
		c.Links.Threshold = 100
		c.Frame.FPS = 30
	},
	"storm": func(c *Config) {
		c.Theme = "ember"
		c.Field.Speed = 0.6
		c.Field.Palette = []string{"#FF6B35", "#FFB38A", "#FFFFFF", "#94A3B8"}
		c.Physics.InfluenceRadius = 160
		c.Physics.PointerStrength = 0.3
		c.Physics.Damping = 0.995
		c.Camera.RotationSpeed = 0.006
		c.Links.Color = "#FF6B35"
		c.Links.Opacity = 0.25
	},
}

// GetPreset returns a fresh config for name, or nil when the preset does not exist.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
