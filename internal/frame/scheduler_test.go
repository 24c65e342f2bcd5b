package frame

import (
	"context"
	"errors"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitfield/internal/field"
)

func still(x, y, z float64) field.Particle {
	return field.Particle{Pos: field.Vec3{X: x, Y: y, Z: z}, Color: field.Opaque(255, 255, 255), Size: 2}
}

var _ = Describe("Scheduler", func() {
	var (
		host    *fakeHost
		surface *recordingSurface
		clock   *LoopClock
		sched   *Scheduler
		now     time.Time
	)

	fire := func() { clock.Fire(now); now = now.Add(time.Second / 60) }

	BeforeEach(func() {
		host, surface = newFakeHost(1024, 768)
		clock = NewLoopClock()
		now = time.Unix(0, 0)
		sched = New(host, clock, quietTuning(), rand.New(rand.NewSource(7)))
	})

	Describe("lifecycle", func() {
		It("starts idle", func() {
			Expect(sched.State()).To(Equal(Idle))
			Expect(sched.State().String()).To(Equal("Idle"))
		})

		It("requests the first frame without drawing it", func() {
			Expect(sched.Start()).To(Succeed())
			Expect(sched.State()).To(Equal(Running))
			Expect(clock.Pending()).To(Equal(1))
			Expect(surface.drawCalls()).To(BeZero())
			Expect(host.subscriptions()).To(Equal(2))
			Expect(surface.resizes).To(Equal([][2]int{{1024, 768}}))
		})

		It("draws nothing when cancelled before the first frame", func() {
			Expect(sched.Start()).To(Succeed())
			sched.Stop()
			Expect(clock.Fire(now)).To(BeZero())

			Expect(surface.drawCalls()).To(BeZero())
			Expect(host.subscriptions()).To(BeZero())
			Expect(clock.Pending()).To(BeZero())
			Expect(sched.State()).To(Equal(Cancelled))
			Eventually(sched.Done()).Should(BeClosed())
		})

		It("treats repeated Stop as a no-op", func() {
			Expect(sched.Start()).To(Succeed())
			sched.Stop()
			Expect(sched.Stop).NotTo(Panic())
			Expect(sched.State()).To(Equal(Cancelled))
		})

		It("refuses to start twice", func() {
			Expect(sched.Start()).To(Succeed())
			Expect(sched.Start()).To(MatchError(ErrNotIdle))
			sched.Stop()
			Expect(sched.Start()).To(MatchError(ErrNotIdle))
		})

		It("stops quietly when the host has no surface", func() {
			host.fail = true
			err := sched.Start()
			Expect(errors.Is(err, ErrNoSurface)).To(BeTrue())
			Expect(sched.Err()).To(MatchError(ErrNoSurface))
			Expect(sched.State()).To(Equal(Cancelled))
			Expect(host.subscriptions()).To(BeZero())
			Expect(clock.Pending()).To(BeZero())
		})

		It("stops when Run's context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			errc := make(chan error, 1)
			go func() { errc <- sched.Run(ctx) }()

			Eventually(sched.State).Should(Equal(Running))
			cancel()
			Eventually(errc).Should(Receive(BeNil()))
			Expect(sched.State()).To(Equal(Cancelled))
			Expect(host.subscriptions()).To(BeZero())
		})

		It("returns the start error from Run", func() {
			host.fail = true
			Expect(sched.Run(context.Background())).To(MatchError(ErrNoSurface))
		})
	})

	Describe("frames", func() {
		It("seeds the field from the viewport width", func() {
			Expect(sched.Start()).To(Succeed())
			fire()
			Expect(surface.circles).To(HaveLen(field.LargeCount))
			Expect(surface.clears).To(Equal(1))
		})

		It("uses the small count below the breakpoint", func() {
			host.viewport.Width = 767
			Expect(sched.Start()).To(Succeed())
			fire()
			Expect(surface.circles).To(HaveLen(field.SmallCount))
		})

		It("reschedules exactly one frame per tick", func() {
			Expect(sched.Start()).To(Succeed())
			for range 5 {
				fire()
				Expect(clock.Pending()).To(Equal(1))
			}
		})

		It("accumulates rotation once per frame", func() {
			var last FrameInfo
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { last = fi }))
			Expect(sched.Start()).To(Succeed())
			for range 10 {
				fire()
			}
			Expect(last.Frame).To(BeEquivalentTo(10))
			Expect(last.Rotation).To(BeNumerically("~", 0.02, 1e-12))
		})

		It("draws a particle at the origin at the viewport centre", func() {
			sched.SetParticles([]field.Particle{still(0, 0, 0)})
			Expect(sched.Start()).To(Succeed())
			fire()

			Expect(surface.circles).To(HaveLen(1))
			c := surface.circles[0]
			Expect(c.x).To(BeNumerically("~", 512, 1e-9))
			Expect(c.y).To(BeNumerically("~", 384, 1e-9))
			Expect(c.r).To(BeNumerically("~", 2, 1e-9))
			Expect(c.c.A).To(BeNumerically("~", 1, 1e-9))
		})

		It("draws links after every particle", func() {
			sched.SetParticles([]field.Particle{still(0, 0, 0), still(60, 0, 0)})
			Expect(sched.Start()).To(Succeed())
			fire()

			Expect(surface.circles).To(HaveLen(2))
			Expect(surface.lines).To(HaveLen(1))
			l := surface.lines[0]
			Expect(l.width).To(Equal(DefaultLinkWidth))
			Expect(l.c.A).To(BeNumerically("~", 0.075, 1e-9))
			Expect(l.x0).To(BeNumerically("~", surface.circles[0].x, 1e-9))
			Expect(l.x1).To(BeNumerically("~", surface.circles[1].x, 1e-9))
		})

		It("fades the field in", func() {
			sched = New(host, clock, DefaultTuning(), rand.New(rand.NewSource(7)))
			var alphas []float64
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { alphas = append(alphas, fi.Alpha) }))
			Expect(sched.Start()).To(Succeed())
			for range 3 {
				fire()
			}
			Expect(alphas[0]).To(BeNumerically(">=", 0))
			Expect(alphas[0]).To(BeNumerically("<", 1))
			Expect(alphas[2]).To(BeNumerically(">", alphas[0]))
		})

		It("retimes the fade when the tuning changes it", func() {
			sched = New(host, clock, DefaultTuning(), rand.New(rand.NewSource(7)))
			var alphas []float64
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { alphas = append(alphas, fi.Alpha) }))
			Expect(sched.Start()).To(Succeed())
			fire()
			Expect(alphas[0]).To(BeNumerically("<", 1))

			sched.Tune(quietTuning())
			fire()
			Expect(alphas[1]).To(Equal(1.0))
		})
	})

	Describe("input", func() {
		It("keeps the particle count across a resize and recentres", func() {
			var counts []int
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { counts = append(counts, len(fi.Particles)) }))
			Expect(sched.Start()).To(Succeed())
			fire()

			host.resizeTo(Viewport{Width: 600, Height: 800, DPR: 2})
			fire()

			Expect(counts).To(Equal([]int{field.LargeCount, field.LargeCount}))
			Expect(surface.resizes[len(surface.resizes)-1]).To(Equal([2]int{1200, 1600}))
			Expect(surface.dpr).To(Equal(2.0))
		})

		It("projects against the latest viewport", func() {
			sched.SetParticles([]field.Particle{still(0, 0, 0)})
			Expect(sched.Start()).To(Succeed())
			fire()
			host.resizeTo(Viewport{Width: 600, Height: 800, DPR: 1})
			fire()

			c := surface.circles[0]
			Expect(c.x).To(BeNumerically("~", 300, 1e-9))
			Expect(c.y).To(BeNumerically("~", 400, 1e-9))
		})

		It("measures the pointer from the viewport centre", func() {
			ps := []field.Particle{still(0, 0, 0)}
			sched.SetParticles(ps)
			var last FrameInfo
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { last = fi }))
			Expect(sched.Start()).To(Succeed())

			host.move(512+50, 384)
			fire()

			Expect(last.Pointer).To(Equal(field.Vec2{X: 50, Y: 0}))
			Expect(ps[0].Vel.X).To(BeNumerically("<", 0))
		})

		It("applies only the latest pointer position", func() {
			var last FrameInfo
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { last = fi }))
			Expect(sched.Start()).To(Succeed())
			host.move(0, 0)
			host.move(1024, 768)
			fire()
			Expect(last.Pointer).To(Equal(field.Vec2{X: 512, Y: 384}))
		})

		It("swaps tuning at the next frame", func() {
			sched.SetParticles([]field.Particle{still(0, 0, 0), still(60, 0, 0)})
			var last FrameInfo
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { last = fi }))
			Expect(sched.Start()).To(Succeed())
			fire()

			t := quietTuning()
			t.LinkWidth = 2
			t.RotationDelta = 0.01
			t.Stepper.Bounds = 1000
			sched.Tune(t)
			Expect(surface.lines[0].width).To(Equal(DefaultLinkWidth))

			fire()
			Expect(surface.lines[0].width).To(Equal(2.0))
			Expect(last.Rotation).To(BeNumerically("~", 0.012, 1e-12))
			Expect(last.Particles).To(HaveLen(2))
			Expect(last.Bounds).To(Equal(1000.0))
		})

		It("reseeds from the current viewport", func() {
			var counts []int
			sched.AddObserver(ObserverFunc(func(fi FrameInfo) { counts = append(counts, len(fi.Particles)) }))
			Expect(sched.Start()).To(Succeed())
			fire()
			host.resizeTo(Viewport{Width: 600, Height: 800, DPR: 1})
			fire()
			sched.Reseed()
			fire()
			Expect(counts).To(Equal([]int{field.LargeCount, field.LargeCount, field.SmallCount}))
		})
	})

	Describe("failure", func() {
		It("disables itself when a frame panics", func() {
			Expect(sched.Start()).To(Succeed())
			fire()
			surface.panicOn = "clear"

			Expect(func() { fire() }).NotTo(Panic())
			Expect(sched.State()).To(Equal(Cancelled))
			Expect(clock.Pending()).To(BeZero())
			Expect(host.subscriptions()).To(BeZero())

			var fe *FrameError
			Expect(errors.As(sched.Err(), &fe)).To(BeTrue())
			Expect(fe.Frame).To(BeEquivalentTo(1))
			Expect(fe.Error()).To(ContainSubstring("surface lost"))
		})

		It("does not reschedule when stopped from inside a frame", func() {
			sched.AddObserver(ObserverFunc(func(FrameInfo) { sched.Stop() }))
			Expect(sched.Start()).To(Succeed())
			fire()
			Expect(clock.Pending()).To(BeZero())
			Expect(sched.Err()).NotTo(HaveOccurred())
			Expect(surface.clears).To(Equal(1))
		})
	})
})
