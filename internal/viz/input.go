package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/molview/internal/camera"
)

// mousePointer is the pointer id given to the terminal mouse.
const mousePointer = 1

// cellToDots maps a terminal cell to the centre of its braille dots.
func cellToDots(col, row int) (x, y float64) {
	return float64(col*2 + 1), float64(row*4 + 2)
}

func mouseButton(b tea.MouseButton) (int, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return camera.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return camera.ButtonMiddle, true
	case tea.MouseButtonRight:
		return camera.ButtonRight, true
	}
	return 0, false
}

func pointerEvent(msg tea.MouseMsg) camera.PointerEvent {
	x, y := cellToDots(msg.X, msg.Y)
	btn, _ := mouseButton(msg.Button)
	return camera.PointerEvent{
		PointerID: mousePointer,
		Type:      camera.PointerMouse,
		Button:    btn,
		X:         x,
		Y:         y,
		Ctrl:      msg.Ctrl,
		Shift:     msg.Shift,
	}
}

// forwardMouse sends a terminal mouse message to the camera input. Wheel
// notches become wheel events. It reports whether msg was used.
func forwardMouse(in *camera.Hub, msg tea.MouseMsg) bool {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress {
			in.Wheel(camera.WheelEvent{DeltaY: -1})
		}
		return true
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress {
			in.Wheel(camera.WheelEvent{DeltaY: 1})
		}
		return true
	}

	e := pointerEvent(msg)
	switch msg.Action {
	case tea.MouseActionPress:
		if _, ok := mouseButton(msg.Button); !ok {
			return false
		}
		in.PointerDown(e)
	case tea.MouseActionMotion:
		in.PointerMove(e)
	case tea.MouseActionRelease:
		in.PointerUp(e)
	default:
		return false
	}
	return true
}

// arrowKey maps "up", "shift+left", "ctrl+down" and the like onto the
// control key codes.
func arrowKey(s string, keys camera.Keys) (camera.KeyEvent, bool) {
	parts := strings.Split(s, "+")
	var e camera.KeyEvent
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			e.Ctrl = true
		case "shift":
			e.Shift = true
		case "alt":
			e.Meta = true
		default:
			return camera.KeyEvent{}, false
		}
	}
	switch parts[len(parts)-1] {
	case "up":
		e.Code = keys.Up
	case "down":
		e.Code = keys.Bottom
	case "left":
		e.Code = keys.Left
	case "right":
		e.Code = keys.Right
	default:
		return camera.KeyEvent{}, false
	}
	return e, true
}
