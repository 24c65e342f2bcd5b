package frame

import (
	"errors"
	"sync"

	"github.com/san-kum/orbitfield/internal/field"
)

type line struct {
	x0, y0, x1, y1, width float64
	c                     field.Color
}

type circle struct {
	x, y, r float64
	c       field.Color
}

type recordingSurface struct {
	mu      sync.Mutex
	resizes [][2]int
	dpr     float64
	clears  int
	circles []circle
	lines   []line
	panicOn string
}

func (s *recordingSurface) Resize(w, h int, dpr float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizes = append(s.resizes, [2]int{w, h})
	s.dpr = dpr
}

func (s *recordingSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOn == "clear" {
		panic("surface lost")
	}
	s.clears++
	s.circles = s.circles[:0]
	s.lines = s.lines[:0]
}

func (s *recordingSurface) FillCircle(x, y, r float64, c field.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circles = append(s.circles, circle{x, y, r, c})
}

func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, w float64, c field.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line{x0, y0, x1, y1, w, c})
}

func (s *recordingSurface) drawCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears + len(s.circles) + len(s.lines)
}

type fakeHost struct {
	mu       sync.Mutex
	surface  Surface
	fail     bool
	viewport Viewport
	pointer  Listeners[PointerEvent]
	resize   Listeners[Viewport]
}

func newFakeHost(w, h float64) (*fakeHost, *recordingSurface) {
	s := &recordingSurface{}
	return &fakeHost{surface: s, viewport: Viewport{Width: w, Height: h, DPR: 1}}, s
}

func (h *fakeHost) Surface() (Surface, error) {
	if h.fail {
		return nil, errors.New("2d context unsupported")
	}
	return h.surface, nil
}

func (h *fakeHost) Viewport() Viewport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewport
}

func (h *fakeHost) OnPointerMove(fn func(PointerEvent)) func() { return h.pointer.Add(fn) }

func (h *fakeHost) OnResize(fn func(Viewport)) func() { return h.resize.Add(fn) }

func (h *fakeHost) subscriptions() int { return h.pointer.Len() + h.resize.Len() }

func (h *fakeHost) move(x, y float64) { h.pointer.Emit(PointerEvent{X: x, Y: y}) }

func (h *fakeHost) resizeTo(v Viewport) {
	h.mu.Lock()
	h.viewport = v
	h.mu.Unlock()
	h.resize.Emit(v)
}

// quietTuning disables the fade so alphas can be asserted exactly.
func quietTuning() Tuning {
	t := DefaultTuning()
	t.FadeIn = 0
	return t
}
