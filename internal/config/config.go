package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitfield/internal/camera"
	"github.com/san-kum/orbitfield/internal/field"
	"github.com/san-kum/orbitfield/internal/frame"
)

const (
	DefaultTheme  = "violet"
	DefaultFPS    = 60
	DefaultFadeIn = 1500 * time.Millisecond
	MaxFPS        = 240
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Seed  int64  `yaml:"seed"`
	Theme string `yaml:"theme"`
	// LogLevel overrides the logger level; empty keeps the command line choice.
	LogLevel string        `yaml:"log_level,omitempty"`
	Field    FieldConfig   `yaml:"field"`
	Physics  PhysicsConfig `yaml:"physics"`
	Camera   CameraConfig  `yaml:"camera"`
	Links    LinksConfig   `yaml:"links"`
	Frame    FrameConfig   `yaml:"frame"`
}

type FieldConfig struct {
	Bounds     float64  `yaml:"bounds"`
	Speed      float64  `yaml:"speed"`
	MinSize    float64  `yaml:"min_size"`
	MaxSize    float64  `yaml:"max_size"`
	Palette    []string `yaml:"palette"`
	Breakpoint float64  `yaml:"breakpoint"`
	SmallCount int      `yaml:"small_count"`
	LargeCount int      `yaml:"large_count"`
}

type PhysicsConfig struct {
	InfluenceRadius float64 `yaml:"influence_radius"`
	PointerStrength float64 `yaml:"pointer_strength"`
	Restitution     float64 `yaml:"restitution"`
	Damping         float64 `yaml:"damping"`
}

type CameraConfig struct {
	RotationSpeed float64 `yaml:"rotation_speed"`
	Perspective   float64 `yaml:"perspective"`
	MaxScale      float64 `yaml:"max_scale"`
	MinOpacity    float64 `yaml:"min_opacity"`
}

type LinksConfig struct {
	Threshold     float64 `yaml:"threshold"`
	Opacity       float64 `yaml:"opacity"`
	Width         float64 `yaml:"width"`
	Color         string  `yaml:"color"`
	GridThreshold int     `yaml:"grid_threshold"`
}

type FrameConfig struct {
	FPS    int           `yaml:"fps"`
	FadeIn time.Duration `yaml:"fade_in"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme: DefaultTheme,
		Field: FieldConfig{
			Bounds:     field.DefaultBounds,
			Speed:      field.DefaultSpeed,
			MinSize:    field.DefaultMinSize,
			MaxSize:    field.DefaultMaxSize,
			Palette:    field.DefaultPalette().Hex(),
			Breakpoint: field.DefaultBreakpoint,
			SmallCount: field.SmallCount,
			LargeCount: field.LargeCount,
		},
		Physics: PhysicsConfig{
			InfluenceRadius: field.DefaultInfluenceRadius,
			PointerStrength: field.DefaultPointerStrength,
			Restitution:     field.DefaultRestitution,
			Damping:         field.DefaultDamping,
		},
		Camera: CameraConfig{
			RotationSpeed: camera.DefaultDelta,
			Perspective:   camera.DefaultPerspective,
			MaxScale:      camera.DefaultMaxScale,
			MinOpacity:    camera.DefaultMinOpacity,
		},
		Links: LinksConfig{
			Threshold:     field.DefaultLinkThreshold,
			Opacity:       field.DefaultLinkOpacity,
			Width:         frame.DefaultLinkWidth,
			Color:         field.LinkColor.Hex(),
			GridThreshold: field.DefaultGridThreshold,
		},
		Frame: FrameConfig{
			FPS:    DefaultFPS,
			FadeIn: DefaultFadeIn,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys it
// changes. The result is validated.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base, typically a preset.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseOver(data, base)
}

func Parse(data []byte) (*Config, error) {
	return ParseOver(data, DefaultConfig())
}

func ParseOver(data []byte, base *Config) (*Config, error) {
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Field.Palette = append([]string(nil), c.Field.Palette...)
	return &cp
}

func invalid(key string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, key, fmt.Sprintf(format, args...))
}

// Validate reports every out-of-range value; each joined error wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, key, format string, args ...any) {
		if !ok {
			errs = append(errs, invalid(key, format, args...))
		}
	}

	f := c.Field
	check(f.Bounds > 0, "field.bounds", "must be positive, got %v", f.Bounds)
	check(f.Speed >= 0, "field.speed", "must not be negative, got %v", f.Speed)
	check(f.MinSize > 0, "field.min_size", "must be positive, got %v", f.MinSize)
	check(f.MaxSize >= f.MinSize, "field.max_size", "must be at least min_size, got %v", f.MaxSize)
	check(f.Breakpoint >= 0, "field.breakpoint", "must not be negative, got %v", f.Breakpoint)
	check(f.SmallCount > 0, "field.small_count", "must be positive, got %d", f.SmallCount)
	check(f.LargeCount > 0, "field.large_count", "must be positive, got %d", f.LargeCount)
	if _, err := field.ParsePalette(f.Palette); err != nil {
		errs = append(errs, invalid("field.palette", "%v", err))
	}

	p := c.Physics
	check(p.InfluenceRadius >= 0, "physics.influence_radius", "must not be negative, got %v", p.InfluenceRadius)
	check(p.Restitution >= 0 && p.Restitution <= 1, "physics.restitution", "must be in [0, 1], got %v", p.Restitution)
	check(p.Damping >= 0 && p.Damping <= 1, "physics.damping", "must be in [0, 1], got %v", p.Damping)

	cam := c.Camera
	check(cam.Perspective > 0, "camera.perspective", "must be positive, got %v", cam.Perspective)
	check(cam.MaxScale >= 1, "camera.max_scale", "must be at least 1, got %v", cam.MaxScale)
	check(cam.MinOpacity >= 0 && cam.MinOpacity <= 1, "camera.min_opacity", "must be in [0, 1], got %v", cam.MinOpacity)

	l := c.Links
	check(l.Threshold >= 0, "links.threshold", "must not be negative, got %v", l.Threshold)
	check(l.Opacity >= 0 && l.Opacity <= 1, "links.opacity", "must be in [0, 1], got %v", l.Opacity)
	check(l.Width > 0, "links.width", "must be positive, got %v", l.Width)
	check(l.GridThreshold >= 0, "links.grid_threshold", "must not be negative, got %d", l.GridThreshold)
	if _, err := field.ParseHex(l.Color); err != nil {
		errs = append(errs, invalid("links.color", "%v", err))
	}

	check(c.Frame.FPS > 0 && c.Frame.FPS <= MaxFPS, "frame.fps", "must be in [1, %d], got %d", MaxFPS, c.Frame.FPS)
	check(c.Frame.FadeIn >= 0, "frame.fade_in", "must not be negative, got %v", c.Frame.FadeIn)

	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, invalid("log_level", "%v", err))
		}
	}

	return errors.Join(errs...)
}

// Tuning converts a validated config into scheduler tuning.
func (c *Config) Tuning() (frame.Tuning, error) {
	if err := c.Validate(); err != nil {
		return frame.Tuning{}, err
	}
	palette, _ := field.ParsePalette(c.Field.Palette)
	linkColor, _ := field.ParseHex(c.Links.Color)

	t := frame.DefaultTuning()
	t.Init = field.InitOptions{
		Bounds:  c.Field.Bounds,
		Speed:   c.Field.Speed,
		MinSize: c.Field.MinSize,
		MaxSize: c.Field.MaxSize,
		Palette: palette,
	}
	t.Breakpoint = c.Field.Breakpoint
	t.SmallCount = c.Field.SmallCount
	t.LargeCount = c.Field.LargeCount
	t.Stepper = field.Stepper{
		InfluenceRadius: c.Physics.InfluenceRadius,
		PointerStrength: c.Physics.PointerStrength,
		Bounds:          c.Field.Bounds,
		Restitution:     c.Physics.Restitution,
		Damping:         c.Physics.Damping,
	}
	t.Links = field.LinkIndex{
		Threshold:     c.Links.Threshold,
		MaxOpacity:    c.Links.Opacity,
		GridThreshold: c.Links.GridThreshold,
	}
	t.LinkColor = linkColor
	t.LinkWidth = c.Links.Width
	t.RotationDelta = c.Camera.RotationSpeed
	t.Perspective = c.Camera.Perspective
	t.MaxScale = c.Camera.MaxScale
	t.MinOpacity = c.Camera.MinOpacity
	t.FadeIn = c.Frame.FadeIn
	t.FPS = c.Frame.FPS
	return t, nil
}
