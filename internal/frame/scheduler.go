package frame

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/orbitfield/internal/camera"
	"github.com/san-kum/orbitfield/internal/field"
	"go.uber.org/zap"
)

type State int

const (
	Idle State = iota
	Running
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// FrameInfo describes a completed frame. Particles aliases the live buffer and
// is only valid for the duration of the OnFrame call.
type FrameInfo struct {
	Frame     uint64
	Time      time.Time
	Particles []field.Particle
	Links     int
	Rotation  float64
	Pointer   field.Vec2
	Viewport  Viewport
	Alpha     float64
	Bounds    float64 // reflection boundary in effect for this frame
}

type Observer interface {
	OnFrame(info FrameInfo)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(FrameInfo)

func (f ObserverFunc) OnFrame(info FrameInfo) { f(info) }

// Scheduler owns the particle buffer, camera and input subscriptions and runs
// one frame per clock callback.
type Scheduler struct {
	host   Host
	clock  Clock
	log    *zap.Logger
	rng    *rand.Rand
	tuning Tuning

	// owned by the frame goroutine once running
	surface   Surface
	particles []field.Particle
	proj      []camera.Projection
	cam       *camera.Camera
	fade      *Fade
	viewport  Viewport
	pointer   field.Vec2
	frameNo   uint64
	observers []Observer

	pointerBox  *Mailbox[PointerEvent]
	viewportBox *Mailbox[Viewport]
	tuningBox   *Mailbox[Tuning]
	reseedBox   *Mailbox[struct{}]

	mu         sync.Mutex
	state      State
	pending    Handle
	hasPending bool
	unsubs     []func()
	err        error

	cancelled atomic.Bool
	stopOnce  sync.Once
	done      chan struct{}
}

// New returns an idle scheduler. rng seeds every particle collection it
// creates; pass a seeded source for reproducible layouts.
func New(host Host, clock Clock, tuning Tuning, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cam := camera.New()
	tuning.applyCamera(cam)
	return &Scheduler{
		host:        host,
		clock:       clock,
		log:         zap.NewNop(),
		rng:         rng,
		tuning:      tuning,
		cam:         cam,
		pointerBox:  NewMailbox[PointerEvent](),
		viewportBox: NewMailbox[Viewport](),
		tuningBox:   NewMailbox[Tuning](),
		reseedBox:   NewMailbox[struct{}](),
		done:        make(chan struct{}),
	}
}

// SetLogger must be called before Start.
func (s *Scheduler) SetLogger(l *zap.Logger) {
	if l != nil {
		s.log = l
	}
}

// SetParticles supplies the initial field instead of seeding one from the
// viewport. Must be called before Start.
func (s *Scheduler) SetParticles(ps []field.Particle) { s.particles = ps }

// AddObserver must be called before Start.
func (s *Scheduler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the scheduler is cancelled.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// Err returns the error that stopped the scheduler, if any.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Start moves an idle scheduler to Running. The first frame is requested, not
// drawn. When the host has no surface the scheduler is cancelled and the
// returned error wraps ErrNoSurface.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return ErrNotIdle
	}

	surface, err := s.host.Surface()
	if err == nil && surface == nil {
		err = errors.New("host returned a nil surface")
	}
	if err != nil {
		s.err = fmt.Errorf("%w: %w", ErrNoSurface, err)
		s.log.Debug("visualizer disabled", zap.Error(err))
		s.cancelLocked()
		return s.err
	}

	s.surface = surface
	s.viewport = s.host.Viewport()
	s.resizeSurface()
	if s.particles == nil {
		s.seed()
	}
	s.fade = NewFade(s.tuning.FadeIn, s.tuning.FPS)

	s.unsubs = append(s.unsubs,
		s.host.OnPointerMove(s.pointerBox.Put),
		s.host.OnResize(s.viewportBox.Put),
	)

	s.state = Running
	s.pending = s.clock.Request(s.frame)
	s.hasPending = true

	s.log.Debug("scheduler started",
		zap.Int("particles", len(s.particles)),
		zap.Float64("width", s.viewport.Width),
		zap.Float64("height", s.viewport.Height),
		zap.Float64("dpr", s.viewport.Ratio()))
	return nil
}

// Stop cancels the pending frame and removes every subscription. It is
// idempotent and never interrupts a frame already executing.
func (s *Scheduler) Stop() {
	s.cancelled.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	s.stopOnce.Do(func() {
		s.cancelled.Store(true)
		if s.hasPending {
			s.clock.Cancel(s.pending)
			s.hasPending = false
		}
		for _, unsub := range s.unsubs {
			if unsub != nil {
				unsub()
			}
		}
		s.unsubs = nil
		s.state = Cancelled
		close(s.done)
		s.log.Debug("scheduler stopped")
	})
}

// Run starts the scheduler and blocks until ctx is done or the scheduler stops
// on its own. The scheduler is stopped on every return path.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	select {
	case <-ctx.Done():
		return nil
	case <-s.done:
		return s.Err()
	}
}

// Reseed replaces the particle collection at the next frame, picking the count
// from the viewport current at that time.
func (s *Scheduler) Reseed() { s.reseedBox.Put(struct{}{}) }

// Tune replaces the tuning at the next frame. Rotation and particles carry
// over; a fade-in still in progress is retimed from its current alpha.
func (s *Scheduler) Tune(t Tuning) { s.tuningBox.Put(t) }

func (s *Scheduler) frame(now time.Time) {
	if s.cancelled.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.abort(&FrameError{Frame: s.frameNo, Wrapped: fmt.Errorf("panic: %v", r)})
		}
	}()

	s.applyInputs()

	s.surface.Clear()
	s.tuning.Stepper.Step(s.particles, s.pointer)
	s.cam.Advance()
	s.proj = s.cam.ProjectAll(s.particles, camera.Viewport{Width: s.viewport.Width, Height: s.viewport.Height}, s.proj)

	alpha := s.fade.Next()
	for i := range s.particles {
		pr := s.proj[i]
		c := s.particles[i].Color.WithAlpha(math.Min(1, pr.Opacity) * alpha)
		s.surface.FillCircle(pr.X, pr.Y, pr.Radius, c)
	}

	links := 0
	for l := range s.tuning.Links.Links(s.particles) {
		a, b := s.proj[l.A], s.proj[l.B]
		s.surface.StrokeLine(a.X, a.Y, b.X, b.Y, s.tuning.LinkWidth, s.tuning.LinkColor.WithAlpha(l.Opacity*alpha))
		links++
	}

	s.frameNo++
	info := FrameInfo{
		Frame:     s.frameNo,
		Time:      now,
		Particles: s.particles,
		Links:     links,
		Rotation:  s.cam.Rotation,
		Pointer:   s.pointer,
		Viewport:  s.viewport,
		Alpha:     alpha,
		Bounds:    s.tuning.Stepper.Bounds,
	}
	for _, o := range s.observers {
		o.OnFrame(info)
	}

	s.reschedule()
}

func (s *Scheduler) reschedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled.Load() {
		return
	}
	s.pending = s.clock.Request(s.frame)
	s.hasPending = true
}

func (s *Scheduler) abort(err error) {
	s.log.Error("frame aborted, visualizer disabled", zap.Error(err))
	s.cancelled.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
	s.cancelLocked()
}

func (s *Scheduler) applyInputs() {
	if v, ok := s.viewportBox.Take(); ok {
		s.viewport = v
		s.resizeSurface()
	}
	if e, ok := s.pointerBox.Take(); ok {
		s.pointer = field.Vec2{X: e.X - s.viewport.Width/2, Y: e.Y - s.viewport.Height/2}
	}
	if t, ok := s.tuningBox.Take(); ok {
		if t.FadeIn != s.tuning.FadeIn || t.FPS != s.tuning.FPS {
			s.fade.Retune(t.FadeIn, t.FPS)
		}
		s.tuning = t
		t.applyCamera(s.cam)
		s.log.Debug("tuning applied")
	}
	if _, ok := s.reseedBox.Take(); ok {
		s.seed()
		s.log.Debug("field reseeded", zap.Int("particles", len(s.particles)))
	}
}

func (s *Scheduler) resizeSurface() {
	w, h := s.viewport.Pixels()
	s.surface.Resize(w, h, s.viewport.Ratio())
}

func (s *Scheduler) seed() {
	opts := s.tuning.Init
	opts.Count = s.tuning.CountFor(s.viewport.Width)
	s.particles = field.InitializeWith(opts, s.rng)
}
