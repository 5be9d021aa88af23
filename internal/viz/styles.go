package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// styles holds the lipgloss styles derived from a theme.
type styles struct {
	title  lipgloss.Style
	status lipgloss.Style
	key    lipgloss.Style
	muted  lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	panel  lipgloss.Style
}

func newStyles(th Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(th.Accent),
		status: lipgloss.NewStyle().Foreground(th.Text),
		key:    lipgloss.NewStyle().Foreground(th.Muted).Italic(true),
		muted:  lipgloss.NewStyle().Foreground(th.Muted),
		warn:   lipgloss.NewStyle().Bold(true).Foreground(th.Warning),
		err:    lipgloss.NewStyle().Foreground(th.Error),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}
}

// GradientText colours each rune of text on a blend from start to end.
// Invalid colours leave the text unstyled.
func GradientText(text string, start, end lipgloss.Color) string {
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	runes := []rune(text)
	if errA != nil || errB != nil || len(runes) == 0 {
		return text
	}

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

// BoxWithTitle renders content in a bordered panel with a title line.
func (s styles) BoxWithTitle(title, content string, width int) string {
	body := s.title.Render(title) + "\n" + content
	return s.panel.Width(width).Render(body)
}

// keyHelp lays out key bindings as two aligned columns.
func keyHelp(bindings [][2]string) string {
	w := 0
	for _, b := range bindings {
		w = max(w, len(b[0]))
	}
	var out strings.Builder
	for i, b := range bindings {
		if i > 0 {
			out.WriteByte('\n')
		}
		fmt.Fprintf(&out, "%-*s  %s", w, b[0], b[1])
	}
	return out.String()
}
