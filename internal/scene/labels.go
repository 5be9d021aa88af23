package scene

import "github.com/san-kum/molview/internal/camera"

// ScreenLabel is a label placed in viewport pixels, origin top left.
type ScreenLabel struct {
	Label
	X, Y    float64
	Depth   float64
	Visible bool
}

// ProjectLabels places every label of f for the current camera pose. It
// runs once per frame, so its cost is linear in the label count.
func ProjectLabels(f Frame, cam *camera.Camera, width, height float64) []ScreenLabel {
	out := make([]ScreenLabel, len(f.Labels))
	for i, l := range f.Labels {
		out[i].Label = l
		ndc, ok := cam.Project(l.Anchor)
		if !ok {
			continue
		}
		out[i].X, out[i].Y = camera.ToScreen(ndc, width, height)
		out[i].Depth = ndc[2]
		out[i].Visible = ndc[0] >= -1 && ndc[0] <= 1 && ndc[1] >= -1 && ndc[1] <= 1 && ndc[2] >= -1 && ndc[2] <= 1
	}
	return out
}
