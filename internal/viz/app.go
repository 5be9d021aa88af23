package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/molview/internal/camera"
	"github.com/san-kum/molview/internal/density"
	"github.com/san-kum/molview/internal/logging"
	"github.com/san-kum/molview/internal/parse"
	"github.com/san-kum/molview/internal/viewer"
)

// statusLines is the height of the bar under the canvas.
const statusLines = 1

// thresholdStep scales a density threshold per key press.
const thresholdStep = 2.0

type TickMsg time.Time

type loadedMsg struct{ batch parse.Batch }

type Options struct {
	Viewer *viewer.Viewer
	// Paths are loaded in the background once the program starts.
	Paths  []string
	Theme  string
	FPS    int
	Logger logging.Logger
}

// Model is the bubbletea model around one viewer.
type Model struct {
	v        *viewer.Viewer
	log      logging.Logger
	canvas   *Canvas
	theme    Theme
	st       styles
	fps      int
	paths    []string
	ctx      context.Context
	cancel   context.CancelFunc
	width    int
	height   int
	ready    bool
	loading  bool
	frame    viewer.FrameResult
	current  int
	showHelp bool
	status   string
}

func NewModel(opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	th := GetTheme(opts.Theme)
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		v:       opts.Viewer,
		log:     logging.OrNop(opts.Logger),
		canvas:  NewCanvas(80, 23),
		theme:   th,
		st:      newStyles(th),
		fps:     fps,
		paths:   opts.Paths,
		ctx:     ctx,
		cancel:  cancel,
		width:   80,
		height:  24,
		loading: len(opts.Paths) > 0,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) load() tea.Cmd {
	v, ctx, paths := m.v, m.ctx, m.paths
	return func() tea.Msg { return loadedMsg{batch: v.Load(ctx, paths)} }
}

func (m Model) Init() tea.Cmd {
	if len(m.paths) == 0 {
		return m.tick()
	}
	return tea.Batch(m.tick(), m.load())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if !m.ready {
			m.ready = true
			m.v.SurfaceReady()
		}
	case TickMsg:
		m.frame = m.v.Frame(time.Time(msg))
		return m, m.tick()
	case loadedMsg:
		m.loading = false
		before := len(m.v.Errors())
		if m.v.Accept(msg.batch) {
			n := len(msg.batch.Molecules())
			m.status = fmt.Sprintf("loaded %d molecules", n)
			if failed := len(m.v.Errors()) - before; failed > 0 {
				m.status += fmt.Sprintf(", %d files failed", failed)
			}
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.canvas = NewCanvas(w, max(h-statusLines, 1))
	dw, dh := m.canvas.PixelSize()
	m.v.SetViewport(float64(dw), float64(dh))
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if msg.Alt && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		x, y := cellToDots(msg.X, msg.Y)
		dw, dh := m.canvas.PixelSize()
		if hit, ok := m.v.PickAt(camera.ToNDC(x, y, float64(dw), float64(dh)), time.Now()); ok {
			m.current = hit.Molecule
			m.status = fmt.Sprintf("picked atom %d", hit.Index)
		}
		return
	}
	forwardMouse(m.v.Input, msg)
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.v
	s := msg.String()
	if e, ok := arrowKey(s, v.Controls.Keys); ok {
		v.Input.KeyDown(e)
		return m, nil
	}

	switch s {
	case "q", "ctrl+c":
		m.cancel()
		v.Close()
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "+", "=":
		v.Input.Wheel(camera.WheelEvent{DeltaY: -1})
	case "-", "_":
		v.Input.Wheel(camera.WheelEvent{DeltaY: 1})
	case "tab":
		if n := v.Scene.Len(); n > 0 {
			m.current = (m.current + 1) % n
		}
	case "l":
		if e, err := v.Scene.Entry(m.current); err == nil {
			_ = v.Scene.SetLabelsVisible(m.current, !e.Molecule.LabelsVisible)
		}
	case "v":
		if e, err := v.Scene.Entry(m.current); err == nil {
			_ = v.Scene.SetVisible(m.current, !e.Molecule.Visible)
		}
	case "x":
		if err := v.Scene.Remove(m.current); err == nil && m.current >= v.Scene.Len() {
			m.current = max(v.Scene.Len()-1, 0)
		}
	case "d":
		v.Density.Toggle()
	case "]", "[", "}", "{":
		m.stepThreshold(s)
	case "f":
		v.FrameAll()
	case "r":
		v.Focus.Cancel()
		v.Controls.Reset()
	case "s":
		v.Controls.SaveState()
		m.status = "view saved"
	case "a":
		v.Controls.AutoRotate = !v.Controls.AutoRotate
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.st = newStyles(m.theme)
	}
	return m, nil
}

func (m *Model) stepThreshold(key string) {
	th := m.v.Density.Thresholds()
	switch key {
	case "]":
		th.Positive *= thresholdStep
	case "[":
		th.Positive /= thresholdStep
	case "}":
		th.Negative *= thresholdStep
	case "{":
		th.Negative /= thresholdStep
	}
	m.v.Density.SetThresholds(th)
	m.status = fmt.Sprintf("thresholds +%.3g -%.3g", th.Positive, th.Negative)
}

func (m Model) View() string {
	if !m.ready {
		return "starting...\n"
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.st.BoxWithTitle("molview", keyHelp(helpBindings), 44))
	}
	m.canvas.Clear()
	Render3D(m.canvas, m.frame, m.v.Camera, m.theme)
	return m.canvas.Render(m.theme.Muted) + "\n" + m.statusBar()
}

var helpBindings = [][2]string{
	{"drag", "rotate (shift/ctrl: pan)"},
	{"right drag", "pan"},
	{"wheel + -", "zoom"},
	{"arrows", "pan (shift/ctrl: rotate)"},
	{"alt+click", "focus atom"},
	{"tab", "next molecule"},
	{"v x", "hide / delete molecule"},
	{"l", "labels"},
	{"d", "density cloud"},
	{"[ ]  { }", "positive / negative threshold"},
	{"f r s", "frame all / reset / save view"},
	{"a", "auto-rotate"},
	{"t", "theme"},
	{"q", "quit"},
}

func (m Model) statusBar() string {
	var parts []string
	v := m.v
	if e, err := v.Scene.Entry(m.current); err == nil {
		name := e.Molecule.Name
		if !e.Molecule.Visible {
			name += " (hidden)"
		}
		parts = append(parts, m.st.title.Render(fmt.Sprintf("%d/%d %s", m.current+1, v.Scene.Len(), name)))
	} else if m.loading {
		parts = append(parts, m.st.muted.Render("loading..."))
	} else {
		parts = append(parts, m.st.muted.Render("no molecules"))
	}
	if v.Density.Grid() != nil {
		parts = append(parts, m.st.status.Render(densityStatus(v.Density)))
	}
	if v.Controls.AutoRotate {
		parts = append(parts, m.st.status.Render("auto"))
	}
	if n := len(v.Errors()); n > 0 {
		parts = append(parts, m.st.err.Render(fmt.Sprintf("%d errors", n)))
	}
	if m.status != "" {
		parts = append(parts, m.st.warn.Render(m.status))
	}
	parts = append(parts, m.st.key.Render("? help"))
	return strings.Join(parts, m.st.muted.Render(" | "))
}

func densityStatus(o *density.Overlay) string {
	th := o.Thresholds()
	state := "off"
	if o.Visible() {
		state = "on"
	}
	return fmt.Sprintf("density %s +%.3g -%.3g", state, th.Positive, th.Negative)
}

// Run starts the terminal viewer and blocks until the user quits.
func Run(opts Options) error {
	m := NewModel(opts)
	defer m.cancel()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	opts.Viewer.Close()
	return err
}
