package review

import "github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"

// Drafter runs the three-phase pointer flow that authors an
// annotation: begin anchors the first corner, move tracks the pointer,
// end emits a two-point shape. All coordinates are normalized to the
// frame so shapes survive player resizes.
type Drafter struct {
	tool  string
	color string

	active  bool
	start   model.Point
	current model.Point
}

// NewDrafter creates a drafter for one shape tool. Freehand is not an
// authoring tool here: only bounded two-point shapes are drawn.
func NewDrafter(tool, color string) *Drafter {
	return &Drafter{tool: tool, color: color}
}

// Active reports whether a drag is in progress.
func (d *Drafter) Active() bool { return d.active }

// Preview returns the in-progress shape for rendering, valid only
// while active.
func (d *Drafter) Preview() model.Annotation {
	return model.Annotation{
		Type:   d.tool,
		Points: []model.Point{d.start, d.current},
		Color:  d.color,
	}
}

// Begin anchors the shape at a pointer-down position.
func (d *Drafter) Begin(x, y float64) {
	p := clampPoint(x, y)
	d.start = p
	d.current = p
	d.active = true
}

// Move tracks the pointer during the drag. Ignored when no drag is
// active.
func (d *Drafter) Move(x, y float64) {
	if !d.active {
		return
	}
	d.current = clampPoint(x, y)
}

// End finishes the drag and returns the authored annotation. Degenerate
// drags (no movement, freehand tool) produce nothing.
func (d *Drafter) End(x, y float64) (*model.Annotation, bool) {
	if !d.active {
		return nil, false
	}
	d.active = false
	d.current = clampPoint(x, y)

	if d.tool == model.AnnotationFreehand {
		return nil, false
	}
	if d.start == d.current {
		return nil, false
	}

	a := d.Preview()
	return &a, true
}

// Cancel aborts an in-progress drag.
func (d *Drafter) Cancel() {
	d.active = false
}

// Normalize converts pixel coordinates inside a rendered frame of the
// given size to frame-relative [0,1] coordinates.
func Normalize(px, py, width, height float64) model.Point {
	if width <= 0 || height <= 0 {
		return model.Point{}
	}
	return clampPoint(px/width, py/height)
}

func clampPoint(x, y float64) model.Point {
	return model.Point{X: clamp(x, 0, 1), Y: clamp(y, 0, 1)}
}
