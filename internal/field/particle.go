package field

import "math/rand"

const (
	DefaultBounds     = 400.0
	DefaultSpeed      = 0.15
	DefaultMinSize    = 1.0
	DefaultMaxSize    = 4.0
	DefaultBreakpoint = 768.0
	SmallCount        = 80
	LargeCount        = 150
)

type Particle struct {
	Pos   Vec3
	Vel   Vec3
	Color Color
	Size  float64
}

// InitOptions controls the distribution of a freshly created field.
type InitOptions struct {
	Count   int
	Bounds  float64 // positions drawn from [-Bounds, Bounds] per axis
	Speed   float64 // velocity components drawn from [-Speed, Speed)
	MinSize float64
	MaxSize float64
	Palette Palette
}

func DefaultInitOptions(count int) InitOptions {
	return InitOptions{
		Count:   count,
		Bounds:  DefaultBounds,
		Speed:   DefaultSpeed,
		MinSize: DefaultMinSize,
		MaxSize: DefaultMaxSize,
		Palette: DefaultPalette(),
	}
}

// CountForWidth picks the particle count for a viewport width: narrow viewports
// get the small field.
func CountForWidth(width float64) int {
	return CountFor(width, DefaultBreakpoint, SmallCount, LargeCount)
}

func CountFor(width, breakpoint float64, small, large int) int {
	if width < breakpoint {
		return small
	}
	return large
}

// Initialize creates count particles with the default speed and size ranges.
func Initialize(count int, bounds float64, palette Palette, rng *rand.Rand) []Particle {
	opts := DefaultInitOptions(count)
	opts.Bounds = bounds
	opts.Palette = palette
	return InitializeWith(opts, rng)
}

// InitializeWith creates a field from opts. Each particle consumes the random
// source in the order x, y, z, vx, vy, vz, colour, size, so a seeded source
// always reproduces the same layout.
func InitializeWith(opts InitOptions, rng *rand.Rand) []Particle {
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	if opts.Count < 0 {
		opts.Count = 0
	}

	span := func(half float64) float64 { return (rng.Float64()*2 - 1) * half }

	ps := make([]Particle, opts.Count)
	for i := range ps {
		p := &ps[i]
		p.Pos = Vec3{span(opts.Bounds), span(opts.Bounds), span(opts.Bounds)}
		p.Vel = Vec3{span(opts.Speed), span(opts.Speed), span(opts.Speed)}
		p.Color = palette[rng.Intn(len(palette))]
		p.Size = opts.MinSize + rng.Float64()*(opts.MaxSize-opts.MinSize)
	}
	return ps
}
