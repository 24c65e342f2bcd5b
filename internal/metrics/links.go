package metrics

import (
	"sync"

	"github.com/san-kum/orbitfield/internal/frame"
)

// LinkDensity is the mean number of links drawn per particle, averaged over
// every observed frame.
type LinkDensity struct {
	name    string
	mu      sync.Mutex
	sum     float64
	samples int
}

func NewLinkDensity() *LinkDensity {
	return &LinkDensity{name: "link_density"}
}

func (l *LinkDensity) Name() string { return l.name }

func (l *LinkDensity) Observe(info frame.FrameInfo) {
	if len(info.Particles) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sum += float64(info.Links) / float64(len(info.Particles))
	l.samples++
}

func (l *LinkDensity) Value() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.samples == 0 {
		return 0
	}
	return l.sum / float64(l.samples)
}

func (l *LinkDensity) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sum = 0
	l.samples = 0
}
