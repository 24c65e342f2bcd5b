package viz

import (
	"sync"

	"github.com/san-kum/orbitfield/internal/frame"
)

// Host adapts a terminal to frame.Host. Sizes and pointer positions arrive in
// cells and are converted to logical pixels.
type Host struct {
	surface *Surface

	mu       sync.Mutex
	viewport frame.Viewport
	pointer  frame.Listeners[frame.PointerEvent]
	resize   frame.Listeners[frame.Viewport]
}

func NewHost(surface *Surface, cols, rows int) *Host {
	return &Host{surface: surface, viewport: ViewportFor(cols, rows)}
}

// ViewportFor returns the logical viewport of a cols x rows canvas.
func ViewportFor(cols, rows int) frame.Viewport {
	return frame.Viewport{
		Width:  float64(cols * CellWidth),
		Height: float64(rows * CellHeight),
		DPR:    DotsPerPixel,
	}
}

func (h *Host) Surface() (frame.Surface, error) { return h.surface, nil }

func (h *Host) Viewport() frame.Viewport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewport
}

func (h *Host) OnPointerMove(fn func(frame.PointerEvent)) func() { return h.pointer.Add(fn) }

func (h *Host) OnResize(fn func(frame.Viewport)) func() { return h.resize.Add(fn) }

// SetSize reports a new canvas size in cells.
func (h *Host) SetSize(cols, rows int) {
	vp := ViewportFor(cols, rows)
	h.mu.Lock()
	h.viewport = vp
	h.mu.Unlock()
	h.resize.Emit(vp)
}

// PointerAt reports the pointer over the centre of cell (col, row).
func (h *Host) PointerAt(col, row int) {
	h.pointer.Emit(frame.PointerEvent{
		X: (float64(col) + 0.5) * CellWidth,
		Y: (float64(row) + 0.5) * CellHeight,
	})
}
