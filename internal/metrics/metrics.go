package metrics

import (
	"sync"

	"github.com/san-kum/orbitfield/internal/frame"
)

// Metric is a frame observer that reduces frames to a single number. Observe
// runs on the frame goroutine; Value may be read from any goroutine.
type Metric interface {
	Name() string
	Observe(info frame.FrameInfo)
	Value() float64
	Reset()
}

// Set fans frames out to its metrics and implements frame.Observer.
type Set struct {
	mu      sync.Mutex
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Default returns the metrics every host shows.
func Default() *Set {
	return NewSet(NewKineticEnergy(DefaultHistory), NewFrameRate(), NewLinkDensity(), NewContainment(0))
}

func (s *Set) Add(m Metric) {
	s.mu.Lock()
	s.metrics = append(s.metrics, m)
	s.mu.Unlock()
}

func (s *Set) OnFrame(info frame.FrameInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Observe(info)
	}
}

func (s *Set) Get(name string) Metric {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Snapshot returns every metric value keyed by name.
func (s *Set) Snapshot() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Reset()
	}
}
