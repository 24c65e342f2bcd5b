package frame

import (
	"time"

	"github.com/san-kum/orbitfield/internal/camera"
	"github.com/san-kum/orbitfield/internal/field"
)

const DefaultLinkWidth = 0.5

// Tuning gathers every knob a running scheduler honours. Scheduler.Tune swaps
// it in at the start of the next frame.
type Tuning struct {
	Init       field.InitOptions // Count is ignored; it comes from the viewport
	Breakpoint float64
	SmallCount int
	LargeCount int

	Stepper field.Stepper
	Links   field.LinkIndex

	LinkColor field.Color
	LinkWidth float64

	RotationDelta float64
	Perspective   float64
	MaxScale      float64
	MinOpacity    float64

	FadeIn time.Duration
	FPS    int
}

func DefaultTuning() Tuning {
	return Tuning{
		Init:          field.DefaultInitOptions(0),
		Breakpoint:    field.DefaultBreakpoint,
		SmallCount:    field.SmallCount,
		LargeCount:    field.LargeCount,
		Stepper:       field.DefaultStepper(),
		Links:         field.DefaultLinkIndex(),
		LinkColor:     field.LinkColor,
		LinkWidth:     DefaultLinkWidth,
		RotationDelta: camera.DefaultDelta,
		Perspective:   camera.DefaultPerspective,
		MaxScale:      camera.DefaultMaxScale,
		MinOpacity:    camera.DefaultMinOpacity,
		FadeIn:        1500 * time.Millisecond,
		FPS:           60,
	}
}

// CountFor returns the particle count for a viewport width.
func (t Tuning) CountFor(width float64) int {
	return field.CountFor(width, t.Breakpoint, t.SmallCount, t.LargeCount)
}

func (t Tuning) applyCamera(c *camera.Camera) {
	c.Delta = t.RotationDelta
	c.Perspective = t.Perspective
	c.MaxScale = t.MaxScale
	c.MinOpacity = t.MinOpacity
}
