package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/molview/internal/camera"
	"github.com/san-kum/molview/internal/config"
	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/parse"
	"github.com/san-kum/molview/internal/viewer"
)

func TestCanvasDots(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, "#ff0000")
	c.Set(3, 3, "#00ff00")
	c.Set(-1, 0, "#0000ff")
	c.Set(4, 0, "#0000ff")

	if got := c.Grid[0][0]; got != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", got)
	}
	if got := c.Grid[0][1]; got != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", got)
	}
	if c.Colors[0][0] != "#ff0000" || c.Colors[0][1] != "#00ff00" {
		t.Errorf("colours = %v", c.Colors[0])
	}
	if !c.Lit(3, 3) || c.Lit(1, 0) {
		t.Error("Lit disagrees with Set")
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("cell 0 after unset = %U", c.Grid[0][0])
	}
	c.Clear()
	if c.String() != "⠀⠀\n" {
		t.Errorf("cleared canvas = %q", c.String())
	}
}

func TestCanvasTextAndLines(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 0, "#ffffff")
	for x := 0; x < 8; x++ {
		if !c.Lit(x, 0) {
			t.Fatalf("dot %d not lit", x)
		}
	}
	c.Text(2, 1, "Hello", "#ffffff")
	lines := strings.Split(c.String(), "\n")
	if !strings.HasSuffix(lines[1], "He") {
		t.Errorf("text row = %q", lines[1])
	}

	c.FillCircle(4, 4, 1, "#123456")
	if !c.Lit(4, 4) || !c.Lit(5, 4) || c.Lit(5, 5) {
		t.Error("unexpected circle dots")
	}
	if out := c.Render(lipgloss.Color("#888888")); !strings.Contains(out, "H") {
		t.Errorf("render lost the text: %q", out)
	}
}

func TestArrowKey(t *testing.T) {
	keys := camera.Keys{Left: "L", Up: "U", Right: "R", Bottom: "D"}
	cases := []struct {
		in    string
		code  string
		shift bool
		ctrl  bool
		ok    bool
	}{
		{"up", "U", false, false, true},
		{"shift+left", "L", true, false, true},
		{"ctrl+down", "D", false, true, true},
		{"ctrl+shift+right", "R", true, true, true},
		{"+", "", false, false, false},
		{"x", "", false, false, false},
	}
	for _, tc := range cases {
		e, ok := arrowKey(tc.in, keys)
		if ok != tc.ok || e.Code != tc.code || e.Shift != tc.shift || e.Ctrl != tc.ctrl {
			t.Errorf("arrowKey(%q) = %+v, %v", tc.in, e, ok)
		}
	}
}

func newTestViewer(t *testing.T) *viewer.Viewer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Controls.EnableDamping = false
	v, err := viewer.New(viewer.Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestForwardMouseDrivesControls(t *testing.T) {
	v := newTestViewer(t)
	v.SetViewport(160, 96)

	press := tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if !forwardMouse(v.Input, press) {
		t.Fatal("press not forwarded")
	}
	if v.Controls.State() != camera.StateRotate {
		t.Errorf("state = %v, want rotate", v.Controls.State())
	}

	before := v.Controls.AzimuthalAngle()
	forwardMouse(v.Input, tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	v.Controls.Update()
	if v.Controls.AzimuthalAngle() == before {
		t.Error("drag did not rotate")
	}

	forwardMouse(v.Input, tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionRelease})
	if v.Controls.State() != camera.StateNone {
		t.Errorf("state after release = %v", v.Controls.State())
	}

	d := v.Controls.Distance()
	forwardMouse(v.Input, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if v.Controls.Distance() >= d {
		t.Errorf("wheel up did not zoom in: %g >= %g", v.Controls.Distance(), d)
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModelLifecycle(t *testing.T) {
	v := newTestViewer(t)
	m := NewModel(Options{Viewer: v, Theme: "ocean"})

	if v.Density.Ready() {
		t.Fatal("overlay ready before the surface exists")
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 21})
	if !v.Density.Ready() {
		t.Error("first resize did not mark the surface ready")
	}
	if w, h := v.Viewport(); w != 120 || h != 80 {
		t.Errorf("viewport = %gx%g, want 120x80", w, h)
	}

	b := parse.Batch{Files: []parse.FileResult{{Path: "demo", Molecules: molecule.Demo()}}}
	m = update(t, m, loadedMsg{batch: b})
	if v.Scene.Len() != 2 {
		t.Fatalf("scene has %d molecules", v.Scene.Len())
	}

	m = update(t, m, TickMsg(time.Now()))
	out := m.View()
	if !strings.Contains(out, "Demo Object (Water)") {
		t.Errorf("status bar missing molecule name:\n%s", out)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != 1 {
		t.Errorf("tab moved to %d", m.current)
	}
	m = update(t, m, runes("v"))
	if e, _ := v.Scene.Entry(1); e.Molecule.Visible {
		t.Error("v did not hide the current molecule")
	}
	m = update(t, m, runes("x"))
	if v.Scene.Len() != 1 || m.current != 0 {
		t.Errorf("after delete: %d molecules, current %d", v.Scene.Len(), m.current)
	}

	m = update(t, m, runes("]"))
	if got := v.Density.Thresholds().Positive; got != config.DefaultConfig().Density.Positive*thresholdStep {
		t.Errorf("positive threshold = %g", got)
	}
	m = update(t, m, runes("d"))
	if v.Density.Visible() {
		t.Error("d did not hide the density cloud")
	}
	m = update(t, m, runes("t"))
	if m.theme.Name != NextTheme("ocean").Name {
		t.Errorf("theme = %s", m.theme.Name)
	}
	m = update(t, m, runes("?"))
	if !strings.Contains(m.View(), "auto-rotate") {
		t.Error("help overlay missing")
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if !v.Closed() {
		t.Error("viewer still open after quit")
	}
}

func TestRender3DDrawsScene(t *testing.T) {
	v := newTestViewer(t)
	c := NewCanvas(40, 20)
	w, h := c.PixelSize()
	v.SetViewport(float64(w), float64(h))
	v.AddMolecules(molecule.Demo()...)

	Render3D(c, v.Frame(time.Now()), v.Camera, ThemeDefault)
	lit := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.Lit(x, y) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("nothing drawn")
	}
	if !strings.Contains(c.String(), "O") {
		t.Error("atom labels not drawn")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "default" {
		t.Error("unknown theme should fall back to default")
	}
	names := ThemeNames()
	if NextTheme(names[len(names)-1]).Name != names[0] {
		t.Error("NextTheme does not wrap")
	}
	if GradientText("ab", "#000000", "#ffffff") == "" {
		t.Error("empty gradient")
	}
	if GradientText("ab", "bad", "#ffffff") != "ab" {
		t.Error("invalid colour should leave text alone")
	}
}
