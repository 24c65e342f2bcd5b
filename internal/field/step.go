package field

import "math"

const (
	DefaultInfluenceRadius = 100.0
	DefaultPointerStrength = 0.1
	DefaultRestitution     = 0.8
	DefaultDamping         = 0.99
)

// Stepper advances a field by one tick. The zero value does nothing useful;
// start from DefaultStepper.
type Stepper struct {
	InfluenceRadius float64
	PointerStrength float64
	Bounds          float64
	Restitution     float64
	Damping         float64
}

func DefaultStepper() Stepper {
	return Stepper{
		InfluenceRadius: DefaultInfluenceRadius,
		PointerStrength: DefaultPointerStrength,
		Bounds:          DefaultBounds,
		Restitution:     DefaultRestitution,
		Damping:         DefaultDamping,
	}
}

// Step mutates every particle in place: integrate, push away from the pointer,
// reflect at the boundary, damp.
func (s Stepper) Step(ps []Particle, pointer Vec2) {
	for i := range ps {
		p := &ps[i]
		p.Pos = p.Pos.Add(p.Vel)
		s.repel(p, pointer)
		Reflect(p, s.Bounds, s.Restitution)
		p.Vel = p.Vel.Scale(s.Damping)
	}
}

// repel decrements the planar velocity along the direction towards the pointer,
// which pushes the particle away. A particle exactly under the pointer has no
// direction and is left alone.
func (s Stepper) repel(p *Particle, pointer Vec2) {
	d := pointer.Sub(Vec2{p.Pos.X, p.Pos.Y})
	dist := d.Length()
	if dist == 0 || dist >= s.InfluenceRadius {
		return
	}
	force := (s.InfluenceRadius - dist) / s.InfluenceRadius
	p.Vel.X -= d.X / dist * force * s.PointerStrength
	p.Vel.Y -= d.Y / dist * force * s.PointerStrength
}

// Reflect flips and scales each velocity component whose coordinate lies
// outside [-bounds, bounds]. Positions are never clamped.
func Reflect(p *Particle, bounds, restitution float64) {
	if math.Abs(p.Pos.X) > bounds {
		p.Vel.X *= -restitution
	}
	if math.Abs(p.Pos.Y) > bounds {
		p.Vel.Y *= -restitution
	}
	if math.Abs(p.Pos.Z) > bounds {
		p.Vel.Z *= -restitution
	}
}

// KineticEnergy sums ½|v|² over the field, treating every particle as unit mass.
func KineticEnergy(ps []Particle) float64 {
	e := 0.0
	for i := range ps {
		v := ps[i].Vel
		e += 0.5 * (v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	}
	return e
}
