package camera

import (
	"math"

	"github.com/san-kum/orbitfield/internal/field"
)

const (
	DefaultDelta       = 0.002
	DefaultPerspective = 600.0
	DefaultMaxScale    = 10.0
	DefaultMinOpacity  = 0.3
)

// Viewport is the logical drawing area. Projection centres on it.
type Viewport struct {
	Width, Height float64
}

// Camera turns the field about the vertical axis and projects it with a
// single-point perspective.
type Camera struct {
	Rotation    float64 // radians, kept in [0, 2π)
	Delta       float64 // rotation added per frame
	Perspective float64
	MaxScale    float64 // depth scale ceiling near and behind the eye
	MinOpacity  float64
}

func New() *Camera {
	return &Camera{
		Delta:       DefaultDelta,
		Perspective: DefaultPerspective,
		MaxScale:    DefaultMaxScale,
		MinOpacity:  DefaultMinOpacity,
	}
}

// Advance moves the rotation one frame forward.
func (c *Camera) Advance() {
	c.Rotation = math.Mod(c.Rotation+c.Delta, 2*math.Pi)
	if c.Rotation < 0 {
		c.Rotation += 2 * math.Pi
	}
}

// Projection is a particle mapped to the drawing plane.
type Projection struct {
	X, Y    float64
	Scale   float64
	Radius  float64
	Opacity float64
}

// Rotate turns p about the vertical axis. Y is untouched.
func (c *Camera) Rotate(p field.Vec3) field.Vec3 {
	cos, sin := math.Cos(c.Rotation), math.Sin(c.Rotation)
	return field.Vec3{
		X: p.X*cos - p.Z*sin,
		Y: p.Y,
		Z: p.X*sin + p.Z*cos,
	}
}

// Scale returns the perspective factor for a rotated depth. Once the
// denominator drops to Perspective/MaxScale (which covers zero and negative
// denominators) the factor is pinned at MaxScale.
func (c *Camera) Scale(z float64) float64 {
	denom := c.Perspective + z
	if c.MaxScale > 0 && denom <= c.Perspective/c.MaxScale {
		return c.MaxScale
	}
	return c.Perspective / denom
}

func (c *Camera) Project(p field.Particle, vp Viewport) Projection {
	r := c.Rotate(p.Pos)
	s := c.Scale(r.Z)
	return Projection{
		X:       r.X*s + vp.Width/2,
		Y:       r.Y*s + vp.Height/2,
		Scale:   s,
		Radius:  p.Size * s,
		Opacity: math.Max(c.MinOpacity, s),
	}
}

// ProjectAll projects every particle into dst, growing it when needed, and
// returns the filled slice.
func (c *Camera) ProjectAll(ps []field.Particle, vp Viewport, dst []Projection) []Projection {
	if cap(dst) < len(ps) {
		dst = make([]Projection, len(ps))
	}
	dst = dst[:len(ps)]
	for i := range ps {
		dst[i] = c.Project(ps[i], vp)
	}
	return dst
}
