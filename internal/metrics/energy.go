package metrics

import (
	"sync"

	"github.com/san-kum/orbitfield/internal/field"
	"github.com/san-kum/orbitfield/internal/frame"
)

const DefaultHistory = 120

// KineticEnergy tracks the field's total kinetic energy and keeps a bounded
// history for plotting.
type KineticEnergy struct {
	name    string
	mu      sync.Mutex
	current float64
	history []float64
	limit   int
}

func NewKineticEnergy(limit int) *KineticEnergy {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &KineticEnergy{name: "kinetic_energy", limit: limit}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(info frame.FrameInfo) {
	e := field.KineticEnergy(info.Particles)
	k.mu.Lock()
	defer k.mu.Unlock()
	k.current = e
	k.history = append(k.history, e)
	if len(k.history) > k.limit {
		k.history = k.history[len(k.history)-k.limit:]
	}
}

func (k *KineticEnergy) Value() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.current
}

// History returns a copy of the retained samples, oldest first.
func (k *KineticEnergy) History() []float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]float64(nil), k.history...)
}

func (k *KineticEnergy) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.current = 0
	k.history = nil
}
