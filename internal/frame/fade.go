package frame

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// settle is ωt at which a critically damped spring released from rest is
// within 1% of its target: e^-x (1+x) = 0.01.
const settle = 6.64

// Fade eases a global alpha from 0 to 1 over roughly the configured duration.
type Fade struct {
	spring   harmonica.Spring
	pos, vel float64
	active   bool
}

// NewFade returns a fade stepped once per frame at fps. A non-positive
// duration yields a fade that is already complete.
func NewFade(d time.Duration, fps int) *Fade {
	if d <= 0 {
		return &Fade{pos: 1}
	}
	if fps <= 0 {
		fps = 60
	}
	return &Fade{
		spring: harmonica.NewSpring(harmonica.FPS(fps), settle/d.Seconds(), 1.0),
		active: true,
	}
}

// Next advances one frame and returns the alpha to apply.
func (f *Fade) Next() float64 {
	if !f.active {
		return f.pos
	}
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, 1)
	if f.pos >= 0.995 {
		f.pos, f.vel, f.active = 1, 0, false
	}
	if f.pos < 0 {
		return 0
	}
	return f.pos
}

// Retune changes the duration and frame rate of a fade still in progress,
// continuing from its current alpha. A non-positive duration completes it.
// A finished fade stays finished.
func (f *Fade) Retune(d time.Duration, fps int) {
	if !f.active {
		return
	}
	if d <= 0 {
		f.pos, f.vel, f.active = 1, 0, false
		return
	}
	if fps <= 0 {
		fps = 60
	}
	f.spring = harmonica.NewSpring(harmonica.FPS(fps), settle/d.Seconds(), 1.0)
}

func (f *Fade) Done() bool { return !f.active }
