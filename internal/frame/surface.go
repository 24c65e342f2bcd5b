package frame

import (
	"math"

	"github.com/san-kum/orbitfield/internal/field"
)

// Viewport is the drawable area in logical pixels plus the device pixel ratio.
type Viewport struct {
	Width, Height float64
	DPR           float64
}

// Ratio returns the device pixel ratio, treating unset values as 1.
func (v Viewport) Ratio() float64 {
	if v.DPR <= 0 {
		return 1
	}
	return v.DPR
}

// Pixels returns the backing store size in device pixels.
func (v Viewport) Pixels() (int, int) {
	r := v.Ratio()
	return int(math.Round(v.Width * r)), int(math.Round(v.Height * r))
}

// PointerEvent is a pointer position relative to the drawable element's top-left
// corner, in logical pixels.
type PointerEvent struct {
	X, Y float64
}

// Surface is a 2-D drawing target. Coordinates are logical pixels; the surface
// applies the device pixel ratio given to Resize.
type Surface interface {
	Resize(width, height int, dpr float64)
	Clear()
	FillCircle(x, y, r float64, c field.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c field.Color)
}

// Host supplies the surface and forwards input notifications. The returned
// cancel functions remove the subscription.
type Host interface {
	Surface() (Surface, error)
	Viewport() Viewport
	OnPointerMove(fn func(PointerEvent)) (cancel func())
	OnResize(fn func(Viewport)) (cancel func())
}

type multiSurface []Surface

// Multi returns a surface that repeats every call on each of ss in order.
func Multi(ss ...Surface) Surface {
	return multiSurface(ss)
}

func (m multiSurface) Resize(width, height int, dpr float64) {
	for _, s := range m {
		s.Resize(width, height, dpr)
	}
}

func (m multiSurface) Clear() {
	for _, s := range m {
		s.Clear()
	}
}

func (m multiSurface) FillCircle(x, y, r float64, c field.Color) {
	for _, s := range m {
		s.FillCircle(x, y, r, c)
	}
}

func (m multiSurface) StrokeLine(x0, y0, x1, y1, width float64, c field.Color) {
	for _, s := range m {
		s.StrokeLine(x0, y0, x1, y1, width, c)
	}
}
