package metrics

import (
	"math"
	"sync"

	"github.com/san-kum/orbitfield/internal/field"
	"github.com/san-kum/orbitfield/internal/frame"
)

// Containment is the fraction of frames in which every particle stayed within
// the threshold on all three axes. Reflection reverses velocity without
// clamping position, so brief excursions past the bounds are expected.
type Containment struct {
	name       string
	mu         sync.Mutex
	threshold  float64
	violations int
	samples    int
}

// boundsFactor scales the frame's reflection boundary when no fixed threshold
// is set.
const boundsFactor = 1.5

// NewContainment uses threshold as a fixed per-axis limit. Zero follows the
// reflection boundary reported with each frame, times 1.5.
func NewContainment(threshold float64) *Containment {
	return &Containment{name: "containment", threshold: max(threshold, 0)}
}

func (c *Containment) limit(info frame.FrameInfo) float64 {
	if c.threshold > 0 {
		return c.threshold
	}
	bounds := info.Bounds
	if bounds <= 0 {
		bounds = field.DefaultBounds
	}
	return boundsFactor * bounds
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(info frame.FrameInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples++
	limit := c.limit(info)
	for _, p := range info.Particles {
		if math.Abs(p.Pos.X) > limit || math.Abs(p.Pos.Y) > limit || math.Abs(p.Pos.Z) > limit {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.violations = 0
	c.samples = 0
}
