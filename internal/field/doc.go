// Package field provides the particle field simulated behind the visualizer.
//
// The package owns the particle state and the per-tick rules applied to it:
//
//   - [Initialize]: seeded bulk creation of particles inside a cube
//   - [Stepper]: integration, pointer repulsion, boundary reflection, damping
//   - [Links]: lazy sequence of near-enough particle pairs with faded opacity
//   - [LinkIndex]: grid-accelerated variant of [Links] for large fields
//
// A field is a plain []Particle buffer. Exactly one writer (the stepper) mutates it
// per tick; projection and link queries only read it afterwards.
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	ps := field.Initialize(field.CountForWidth(1024), 400, field.DefaultPalette(), rng)
//	st := field.DefaultStepper()
//	st.Step(ps, field.Vec2{})
//	for l := range field.Links(ps, 120) {
//	    _ = l.Opacity
//	}
package field
