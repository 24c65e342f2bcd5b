package metrics

import (
	"sync"
	"time"

	"github.com/san-kum/orbitfield/internal/frame"
)

// smoothing is the weight of the newest sample in the moving average.
const smoothing = 0.1

// FrameRate is an exponential moving average of frames per second, measured
// from the frame timestamps.
type FrameRate struct {
	name string
	mu   sync.Mutex
	last time.Time
	fps  float64
}

func NewFrameRate() *FrameRate {
	return &FrameRate{name: "fps"}
}

func (f *FrameRate) Name() string { return f.name }

func (f *FrameRate) Observe(info frame.FrameInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.last.IsZero() {
		if dt := info.Time.Sub(f.last).Seconds(); dt > 0 {
			inst := 1 / dt
			if f.fps == 0 {
				f.fps = inst
			} else {
				f.fps += smoothing * (inst - f.fps)
			}
		}
	}
	f.last = info.Time
}

func (f *FrameRate) Value() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fps
}

func (f *FrameRate) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = time.Time{}
	f.fps = 0
}
