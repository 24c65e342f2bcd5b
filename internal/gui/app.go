package gui

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/orbitfield/internal/field"
	"github.com/san-kum/orbitfield/internal/frame"
	"github.com/san-kum/orbitfield/internal/metrics"
)

var (
	ColBg      = rl.NewColor(10, 10, 18, 255)
	ColText    = rl.NewColor(148, 163, 184, 255) // slate
	ColTextDim = rl.NewColor(60, 60, 72, 255)
	ColError   = rl.NewColor(255, 68, 68, 255)
)

type Options struct {
	Tuning frame.Tuning
	Seed   int64 // zero seeds from the clock
	Width  int32
	Height int32
	Title  string
	Logger *zap.Logger

	// Reload delivers new tuning while the window is open.
	Reload <-chan frame.Tuning
}

// App is a raylib window acting as both host and surface for a scheduler.
// Frames run inside BeginDrawing/EndDrawing on the main thread.
type App struct {
	clock   *frame.LoopClock
	sched   *frame.Scheduler
	metrics *metrics.Set
	log     *zap.Logger

	reload <-chan frame.Tuning

	viewport  frame.Viewport
	pointer   frame.Listeners[frame.PointerEvent]
	resize    frame.Listeners[frame.Viewport]
	lastMouse rl.Vector2
	hasMouse  bool

	showStats bool
	last      frame.FrameInfo
	particles int
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(opts.Width, opts.Height, opts.Title)
	rl.SetTargetFPS(int32(opts.Tuning.FPS))
}

// Run opens the window and blocks until it is closed or ctx is done. It must
// be called from the main goroutine.
func Run(ctx context.Context, opts Options) (*App, error) {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Title == "" {
		opts.Title = "orbitfield"
	}
	if opts.Tuning.FPS <= 0 {
		opts.Tuning.FPS = 60
	}

	initWindow(opts)
	defer rl.CloseWindow()

	app, err := NewApp(opts)
	if err != nil {
		return nil, err
	}
	app.RunLoop(ctx)
	return app, nil
}

// NewApp starts a scheduler against the open window.
func NewApp(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		clock:     frame.NewLoopClock(),
		metrics:   metrics.Default(),
		log:       log,
		reload:    opts.Reload,
		viewport:  currentViewport(),
		showStats: true,
	}
	a.sched = frame.New(a, a.clock, opts.Tuning, rand.New(rand.NewSource(seed)))
	a.sched.SetLogger(log)
	a.sched.AddObserver(a.metrics)
	a.sched.AddObserver(frame.ObserverFunc(func(info frame.FrameInfo) {
		a.particles = len(info.Particles)
		info.Particles = nil
		a.last = info
	}))
	if err := a.sched.Start(); err != nil {
		return nil, err
	}
	log.Info("window host started",
		zap.Int64("seed", seed),
		zap.Float64("width", a.viewport.Width),
		zap.Float64("height", a.viewport.Height),
		zap.Float64("dpr", a.viewport.Ratio()))
	return a, nil
}

// Tune forwards new tuning to the scheduler; safe from any goroutine.
func (a *App) Tune(t frame.Tuning) { a.sched.Tune(t) }

// Err reports why the visualizer stopped, if it stopped on its own.
func (a *App) Err() error { return a.sched.Err() }

func (a *App) RunLoop(ctx context.Context) {
	defer a.sched.Stop()
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	select {
	case t := <-a.reload:
		a.sched.Tune(t)
		a.log.Info("tuning reloaded")
	default:
	}

	if rl.IsWindowResized() {
		a.viewport = currentViewport()
		a.resize.Emit(a.viewport)
	}

	mouse := rl.GetMousePosition()
	if !a.hasMouse || mouse != a.lastMouse {
		a.lastMouse, a.hasMouse = mouse, true
		a.pointer.Emit(frame.PointerEvent{X: float64(mouse.X), Y: float64(mouse.Y)})
	}

	if rl.IsKeyPressed(rl.KeyR) {
		a.sched.Reseed()
		a.metrics.Reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.showStats = !a.showStats
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	if a.clock.Fire(time.Now()) == 0 {
		// nothing scheduled; the visualizer is off
		rl.ClearBackground(ColBg)
	}
	if a.showStats {
		a.drawStats()
	}
	if err := a.sched.Err(); err != nil {
		rl.DrawText(err.Error(), 16, int32(a.viewport.Height)-28, 16, ColError)
	}
	rl.EndDrawing()
}

func (a *App) drawStats() {
	snap := a.metrics.Snapshot()
	lines := []string{
		fmt.Sprintf("%d particles  %d links", a.particles, a.last.Links),
		fmt.Sprintf("%.0f fps  energy %.3f", snap["fps"], snap["kinetic_energy"]),
		fmt.Sprintf("rotation %.3f rad", a.last.Rotation),
	}
	for i, l := range lines {
		rl.DrawText(l, 16, int32(16+i*20), 16, ColText)
	}
	rl.DrawText("R reseed  TAB stats  ESC quit", 16, int32(16+len(lines)*20+8), 14, ColTextDim)
}

func currentViewport() frame.Viewport {
	dpi := rl.GetWindowScaleDPI()
	return frame.Viewport{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
		DPR:    float64(dpi.X),
	}
}

// frame.Host

func (a *App) Surface() (frame.Surface, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("gui: window is not open")
	}
	return a, nil
}

func (a *App) Viewport() frame.Viewport { return a.viewport }

func (a *App) OnPointerMove(fn func(frame.PointerEvent)) func() { return a.pointer.Add(fn) }

func (a *App) OnResize(fn func(frame.Viewport)) func() { return a.resize.Add(fn) }

// frame.Surface

// Resize is a no-op; raylib resizes the framebuffer with the window and
// draws in logical pixels.
func (a *App) Resize(int, int, float64) {}

func (a *App) Clear() { rl.ClearBackground(ColBg) }

func (a *App) FillCircle(x, y, r float64, c field.Color) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), toRL(c))
}

func (a *App) StrokeLine(x0, y0, x1, y1, width float64, c field.Color) {
	rl.DrawLineEx(rl.NewVector2(float32(x0), float32(y0)), rl.NewVector2(float32(x1), float32(y1)), float32(width), toRL(c))
}

func toRL(c field.Color) rl.Color {
	n := c.NRGBA()
	return rl.NewColor(n.R, n.G, n.B, n.A)
}
