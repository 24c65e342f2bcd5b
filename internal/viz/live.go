package viz

import (
	"fmt"
	"image"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/orbitfield/internal/export"
	"github.com/san-kum/orbitfield/internal/frame"
	"github.com/san-kum/orbitfield/internal/metrics"
)

const (
	defaultCols = 80
	defaultRows = 24

	// recordEvery keeps one frame in this many while recording.
	recordEvery = 3
)

type TickMsg time.Time

// ConfigMsg swaps the tuning and theme of a running model, typically after a
// configuration reload.
type ConfigMsg struct {
	Tuning frame.Tuning
	Theme  string
}

type Options struct {
	Tuning  frame.Tuning
	Seed    int64 // zero seeds from the clock
	Theme   string
	Logger  *zap.Logger
	GIFPath string
}

// Model is the Bubble Tea program driving a scheduler on a LoopClock. Frames
// run inside Update, so the canvas is only touched from the UI goroutine.
type Model struct {
	sched   *frame.Scheduler
	clock   *frame.LoopClock
	host    *Host
	surface *Surface
	metrics *metrics.Set
	energy  *metrics.KineticEnergy
	log     *zap.Logger

	theme  Theme
	styles styles
	fps    int

	cols, rows int
	running    bool
	showHelp   bool
	recording  bool
	frames     []*image.Paletted
	gifPath    string
	notice     string

	seed      int64
	last      frame.FrameInfo
	particles int
}

func NewModel(opts Options) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fps := opts.Tuning.FPS
	if fps <= 0 {
		fps = 60
	}
	gifPath := opts.GIFPath
	if gifPath == "" {
		gifPath = "orbitfield.gif"
	}

	theme := GetTheme(opts.Theme)
	surface := NewSurface(theme.Canvas)
	cols, rows := defaultCols-statsWidth, defaultRows
	host := NewHost(surface, cols, rows)
	clock := frame.NewLoopClock()

	m := &Model{
		clock:   clock,
		host:    host,
		surface: surface,
		energy:  metrics.NewKineticEnergy(metrics.DefaultHistory),
		log:     log,
		theme:   theme,
		styles:  newStyles(theme),
		fps:     fps,
		cols:    cols,
		rows:    rows,
		running: true,
		gifPath: gifPath,
	}
	m.metrics = metrics.NewSet(m.energy, metrics.NewFrameRate(), metrics.NewLinkDensity(), metrics.NewContainment(0))

	m.sched = frame.New(host, clock, opts.Tuning, rand.New(rand.NewSource(seed)))
	m.sched.SetLogger(log)
	m.sched.AddObserver(m.metrics)
	m.sched.AddObserver(frame.ObserverFunc(m.observe))
	m.seed = seed
	return m, nil
}

// start runs once the terminal size is known, so the particle count follows
// the real canvas width rather than the placeholder one.
func (m *Model) start() {
	if err := m.sched.Start(); err != nil {
		m.log.Error("visualizer disabled", zap.Error(err))
		m.notice = "visualizer disabled"
		return
	}
	m.log.Info("terminal host started",
		zap.Int64("seed", m.seed),
		zap.String("theme", m.theme.Name),
		zap.Int("cols", m.cols),
		zap.Int("rows", m.rows))
}

func (m *Model) observe(info frame.FrameInfo) {
	m.particles = len(info.Particles)
	info.Particles = nil
	m.last = info
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sched.Reseed()
			m.metrics.Reset()
			m.notice = "reseeded"
		case "t":
			m.setTheme(NextTheme(m.theme))
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		if msg.X < m.cols && msg.Y < m.rows {
			m.host.PointerAt(msg.X, msg.Y)
		}

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-statsWidth, 10)
		m.rows = max(msg.Height-1, 4)
		m.host.SetSize(m.cols, m.rows)
		if m.sched.State() == frame.Idle {
			m.start()
		}

	case ConfigMsg:
		m.sched.Tune(msg.Tuning)
		if msg.Theme != "" && msg.Theme != m.theme.Name {
			m.setTheme(GetTheme(msg.Theme))
		}
		m.notice = "config reloaded"

	case TickMsg:
		switch m.sched.State() {
		case frame.Idle:
			return m, m.tick()
		case frame.Cancelled:
			return m, nil
		}
		if m.running {
			m.clock.Fire(time.Time(msg))
			if m.recording && m.last.Frame%recordEvery == 0 {
				m.frames = append(m.frames, export.Quantize(m.surface.Canvas.Image(CellWidth, CellHeight)))
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.styles = newStyles(t)
	m.surface.SetBackground(t.Canvas)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.notice = "recording"
		return
	}
	m.recording = false
	m.saveGIF()
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		m.notice = "nothing recorded"
		return
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.log.Error("create gif", zap.Error(err))
		m.notice = "gif failed"
		return
	}
	defer f.Close()
	if err := export.EncodeGIF(f, m.frames, 100*recordEvery/m.fps); err != nil {
		m.log.Error("encode gif", zap.Error(err))
		m.notice = "gif failed"
		return
	}
	m.log.Info("gif saved", zap.String("path", m.gifPath), zap.Int("frames", len(m.frames)))
	m.notice = "saved " + m.gifPath
	m.frames = nil
}

func (m *Model) quit() {
	if m.recording {
		m.recording = false
		m.saveGIF()
	}
	m.sched.Stop()
}

// Err reports why the visualizer stopped, if it stopped on its own.
func (m *Model) Err() error { return m.sched.Err() }

func (m *Model) View() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.header.Render(GradientText("ORBITFIELD", m.theme.Primary, m.theme.Accent)) + "\n")

	status := st.running.Render(AnimatedSpinner(m.last.Frame) + " RUNNING")
	switch {
	case m.sched.State() == frame.Idle:
		status = st.paused.Render("WAITING")
	case m.sched.State() == frame.Cancelled:
		status = st.errText.Render("STOPPED")
	case !m.running:
		status = st.paused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + st.recording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	if hist := m.energy.History(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(statsWidth-14), asciigraph.Caption("kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	snap := m.metrics.Snapshot()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Particles", fmt.Sprintf("%d", m.particles))
	row("Links", fmt.Sprintf("%d", m.last.Links))
	row("FPS", fmt.Sprintf("%.1f", snap["fps"]))
	row("Energy", fmt.Sprintf("%.3f", snap["kinetic_energy"]))
	row("Density", fmt.Sprintf("%.2f", snap["link_density"]))
	row("Contained", fmt.Sprintf("%.0f%%", 100*snap["containment"]))
	row("Rotation", fmt.Sprintf("%.3f rad", m.last.Rotation))
	row("Pointer", fmt.Sprintf("%+.0f, %+.0f", m.last.Pointer.X, m.last.Pointer.Y))
	row("Fade", ProgressBar(m.last.Alpha, 12))
	row("Theme", m.theme.Name)
	if err := m.sched.Err(); err != nil {
		s.WriteString("\n" + st.errText.Render(err.Error()) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + st.label.Render(m.notice) + "\n")
	}

	s.WriteString(st.help.Render(Separator(statsWidth-6) + "\nSP:Pause R:Reseed Q:Quit\nT:Theme  G:Record  ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, m.surface.Canvas.Render(), st.stats.Render(s.String()))
	if m.showHelp {
		return st.overlay.Render(helpText) + "\n" + mainView
	}
	return mainView
}

const helpText = `KEYBOARD SHORTCUTS

Space   Pause/Resume
R       Reseed the field
T       Cycle themes
G       Toggle GIF recording
?       Toggle this help
Q       Quit

Move the mouse over the field to push particles away.`
