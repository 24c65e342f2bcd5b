package export

import (
	"errors"
	"time"

	"github.com/san-kum/orbitfield/internal/frame"
)

// Headless is a host with a fixed viewport and no input devices. Pointer and
// resize events can still be scripted through MovePointer and Resize.
type Headless struct {
	Clock *frame.LoopClock

	surface  frame.Surface
	viewport frame.Viewport
	pointer  frame.Listeners[frame.PointerEvent]
	resize   frame.Listeners[frame.Viewport]
	now      time.Time
}

func NewHeadless(vp frame.Viewport, surface frame.Surface) *Headless {
	return &Headless{
		Clock:    frame.NewLoopClock(),
		surface:  surface,
		viewport: vp,
		now:      time.Unix(0, 0),
	}
}

func (h *Headless) Surface() (frame.Surface, error) {
	if h.surface == nil {
		return nil, errors.New("export: headless host has no surface")
	}
	return h.surface, nil
}

func (h *Headless) Viewport() frame.Viewport { return h.viewport }

func (h *Headless) OnPointerMove(fn func(frame.PointerEvent)) func() { return h.pointer.Add(fn) }

func (h *Headless) OnResize(fn func(frame.Viewport)) func() { return h.resize.Add(fn) }

func (h *Headless) MovePointer(x, y float64) { h.pointer.Emit(frame.PointerEvent{X: x, Y: y}) }

func (h *Headless) Resize(vp frame.Viewport) {
	h.viewport = vp
	h.resize.Emit(vp)
}

// Advance fires n frames on a synthetic clock running at fps and returns how
// many frames ran. It stops early once nothing is pending.
func (h *Headless) Advance(n, fps int) int {
	if fps <= 0 {
		fps = 60
	}
	step := time.Second / time.Duration(fps)
	ran := 0
	for range n {
		if h.Clock.Pending() == 0 {
			break
		}
		h.Clock.Fire(h.now)
		h.now = h.now.Add(step)
		ran++
	}
	return ran
}
