package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/orbitfield/internal/field"
	"github.com/san-kum/orbitfield/internal/frame"
)

func moving(vx float64, n int) []field.Particle {
	ps := make([]field.Particle, n)
	for i := range ps {
		ps[i].Vel = field.Vec3{X: vx}
	}
	return ps
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy(3)
	for i := 1; i <= 5; i++ {
		m.Observe(frame.FrameInfo{Particles: moving(float64(i), 2)})
	}

	// two unit-mass particles at speed 5
	if math.Abs(m.Value()-25) > 1e-9 {
		t.Errorf("expected energy 25, got %f", m.Value())
	}
	h := m.History()
	if len(h) != 3 || h[0] != 9 || h[2] != 25 {
		t.Errorf("unexpected history %v", h)
	}

	m.Reset()
	if m.Value() != 0 || len(m.History()) != 0 {
		t.Error("expected empty metric after reset")
	}
}

func TestFrameRate(t *testing.T) {
	m := NewFrameRate()
	start := time.Unix(0, 0)
	for i := range 100 {
		m.Observe(frame.FrameInfo{Time: start.Add(time.Duration(i) * time.Second / 50)})
	}
	if math.Abs(m.Value()-50) > 1e-6 {
		t.Errorf("expected 50 fps, got %f", m.Value())
	}

	m.Reset()
	m.Observe(frame.FrameInfo{Time: start})
	if m.Value() != 0 {
		t.Error("a single frame should not produce a rate")
	}
}

func TestLinkDensity(t *testing.T) {
	m := NewLinkDensity()
	if m.Value() != 0 {
		t.Error("expected zero before any frame")
	}
	m.Observe(frame.FrameInfo{Particles: make([]field.Particle, 10), Links: 20})
	m.Observe(frame.FrameInfo{Particles: make([]field.Particle, 10), Links: 0})
	m.Observe(frame.FrameInfo{Links: 5})
	if m.Value() != 1 {
		t.Errorf("expected density 1, got %f", m.Value())
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment(100)
	if m.Value() != 1 {
		t.Error("expected full containment before any frame")
	}

	inside := []field.Particle{{Pos: field.Vec3{X: 99, Y: -99, Z: 0}}}
	outside := []field.Particle{{Pos: field.Vec3{Z: -101}}}
	m.Observe(frame.FrameInfo{Particles: inside})
	m.Observe(frame.FrameInfo{Particles: outside})
	m.Observe(frame.FrameInfo{Particles: inside})
	m.Observe(frame.FrameInfo{Particles: inside})

	if m.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}

}

func TestContainmentFollowsFrameBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds float64
		x      float64
		want   float64
	}{
		{"default bounds inside", 0, 599, 1},
		{"default bounds outside", 0, 601, 0},
		{"configured bounds inside", 1000, 1400, 1},
		{"configured bounds outside", 1000, 1501, 0},
		{"small bounds outside", 100, 151, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewContainment(0)
			m.Observe(frame.FrameInfo{
				Particles: []field.Particle{{Pos: field.Vec3{X: tt.x}}},
				Bounds:    tt.bounds,
			})
			if m.Value() != tt.want {
				t.Errorf("containment = %v, want %v", m.Value(), tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	s := Default()
	var _ frame.Observer = s

	s.OnFrame(frame.FrameInfo{Particles: moving(1, 4), Links: 2, Time: time.Unix(1, 0)})
	snap := s.Snapshot()
	for _, name := range []string{"kinetic_energy", "fps", "link_density", "containment"} {
		if _, ok := snap[name]; !ok {
			t.Errorf("snapshot missing %s", name)
		}
	}
	if snap["kinetic_energy"] != 2 {
		t.Errorf("expected energy 2, got %f", snap["kinetic_energy"])
	}
	if s.Get("link_density").Value() != 0.5 {
		t.Error("expected link density 0.5")
	}
	if s.Get("missing") != nil {
		t.Error("expected nil for an unknown metric")
	}

	s.Reset()
	if s.Snapshot()["kinetic_energy"] != 0 {
		t.Error("expected reset energy")
	}
}
