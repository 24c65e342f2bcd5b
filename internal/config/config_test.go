package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/san-kum/orbitfield/internal/field"
	"github.com/san-kum/orbitfield/internal/frame"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 400.0, cfg.Field.Bounds)
	assert.Equal(t, 80, cfg.Field.SmallCount)
	assert.Equal(t, 150, cfg.Field.LargeCount)
	assert.Equal(t, 0.99, cfg.Physics.Damping)
	assert.Equal(t, 120.0, cfg.Links.Threshold)
	assert.Len(t, cfg.Field.Palette, 5)
}

func TestDefaultTuningMatchesScheduler(t *testing.T) {
	tuning, err := DefaultConfig().Tuning()
	require.NoError(t, err)

	want := frame.DefaultTuning()
	assert.Equal(t, want.Stepper, tuning.Stepper)
	assert.Equal(t, want.Links, tuning.Links)
	assert.Equal(t, want.LinkColor, tuning.LinkColor)
	assert.Equal(t, want.Init.Palette, tuning.Init.Palette)
	assert.Equal(t, want.RotationDelta, tuning.RotationDelta)
	assert.Equal(t, want.FadeIn, tuning.FadeIn)
	assert.Equal(t, want.CountFor(767), tuning.CountFor(767))
	assert.Equal(t, want.CountFor(768), tuning.CountFor(768))
}

func TestParsePartialFile(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 42
physics:
  damping: 0.95
frame:
  fade_in: 250ms
`))
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.95, cfg.Physics.Damping)
	assert.Equal(t, 250*time.Millisecond, cfg.Frame.FadeIn)
	assert.Equal(t, field.DefaultInfluenceRadius, cfg.Physics.InfluenceRadius)
	assert.Empty(t, cfg.LogLevel)

	cfg, err = Parse([]byte("log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"bounds", func(c *Config) { c.Field.Bounds = 0 }, "field.bounds"},
		{"sizes", func(c *Config) { c.Field.MaxSize = 0.5 }, "field.max_size"},
		{"palette", func(c *Config) { c.Field.Palette = []string{"violet"} }, "field.palette"},
		{"damping", func(c *Config) { c.Physics.Damping = 1.2 }, "physics.damping"},
		{"perspective", func(c *Config) { c.Camera.Perspective = -1 }, "camera.perspective"},
		{"link colour", func(c *Config) { c.Links.Color = "#zzz" }, "links.color"},
		{"fps", func(c *Config) { c.Frame.FPS = 0 }, "frame.fps"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.key)

			_, err = cfg.Tuning()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.Bounds = -1
	cfg.Frame.FPS = 1000
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field.bounds")
	assert.Contains(t, err.Error(), "frame.fps")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbitfield.yaml")
	cfg := GetPreset("storm")
	require.NotNil(t, cfg)
	cfg.Seed = 7
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Parse([]byte("field: [unterminated"))
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"calm", "default", "dense", "mobile", "storm"}, names)

	for _, name := range names {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}

	assert.Nil(t, GetPreset("nonexistent"))
	assert.Equal(t, DefaultConfig(), GetPreset("default"))
}

func TestGetPresetReturnsFreshCopies(t *testing.T) {
	a := GetPreset("storm")
	a.Field.Palette[0] = "#000000"
	b := GetPreset("storm")
	assert.Equal(t, "#FF6B35", b.Field.Palette[0])
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.Field.Palette[0] = "#000000"
	cp.Seed = 9
	assert.NotEqual(t, cfg.Field.Palette[0], cp.Field.Palette[0])
	assert.Zero(t, cfg.Seed)
}

func TestWatchDeliversReloads(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "orbitfield.yaml")
	require.NoError(t, Save(path, DefaultConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config, err error) {
			if err != nil {
				return
			}
			select {
			case got <- cfg:
			default:
			}
		})
	}()

	// the watcher may not be registered yet; keep rewriting until it reports
	changed := DefaultConfig()
	changed.Physics.Damping = 0.9
	deadline := time.After(5 * time.Second)
	var cfg *Config
	for cfg == nil || cfg.Physics.Damping != 0.9 {
		require.NoError(t, Save(path, changed))
		select {
		case cfg = <-got:
		case <-time.After(250 * time.Millisecond):
		case <-deadline:
			t.Fatal("no reload delivered")
		}
	}
	assert.Equal(t, 0.9, cfg.Physics.Damping)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "x.yaml"), func(*Config, error) {})
	assert.Error(t, err)
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweak.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame:\n  fps: 24\n"), 0644))

	base := GetPreset("storm")
	cfg, err := LoadOver(path, base)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Frame.FPS)
	assert.Equal(t, "ember", cfg.Theme)
	assert.Equal(t, 60, base.Frame.FPS, "base must not be modified")
}
