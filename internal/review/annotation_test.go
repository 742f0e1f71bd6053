package review

import (
	"testing"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

func TestDrafterThreePhaseFlow(t *testing.T) {
	d := NewDrafter(model.AnnotationRect, "#ff0000")

	d.Begin(0.1, 0.2)
	if !d.Active() {
		t.Fatal("Begin() must activate the drag")
	}
	d.Move(0.3, 0.3)

	a, ok := d.End(0.4, 0.5)
	if !ok {
		t.Fatal("End() produced no annotation")
	}
	if d.Active() {
		t.Error("End() must deactivate the drag")
	}
	if a.Type != model.AnnotationRect || a.Color != "#ff0000" {
		t.Errorf("shape = %s/%s", a.Type, a.Color)
	}
	if len(a.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(a.Points))
	}
	if a.Points[0] != (model.Point{X: 0.1, Y: 0.2}) || a.Points[1] != (model.Point{X: 0.4, Y: 0.5}) {
		t.Errorf("points = %v", a.Points)
	}
}

func TestDrafterClampsOutOfFrame(t *testing.T) {
	d := NewDrafter(model.AnnotationArrow, "#00ff00")

	d.Begin(-0.2, 0.5)
	a, ok := d.End(1.4, 0.5)
	if !ok {
		t.Fatal("End() produced no annotation")
	}
	if a.Points[0].X != 0 || a.Points[1].X != 1 {
		t.Errorf("points not clamped: %v", a.Points)
	}
}

func TestDrafterDegenerateDragDropped(t *testing.T) {
	d := NewDrafter(model.AnnotationEllipse, "#fff")

	d.Begin(0.5, 0.5)
	if _, ok := d.End(0.5, 0.5); ok {
		t.Error("zero-size drag must produce nothing")
	}
}

func TestDrafterFreehandUnsupported(t *testing.T) {
	d := NewDrafter(model.AnnotationFreehand, "#fff")

	d.Begin(0.1, 0.1)
	if _, ok := d.End(0.9, 0.9); ok {
		t.Error("freehand drags must not author annotations")
	}
}

func TestDrafterCancel(t *testing.T) {
	d := NewDrafter(model.AnnotationRect, "#fff")

	d.Begin(0.1, 0.1)
	d.Cancel()
	if d.Active() {
		t.Error("Cancel() must deactivate")
	}
	if _, ok := d.End(0.9, 0.9); ok {
		t.Error("End() after Cancel() must produce nothing")
	}
}

func TestNormalizeIsResolutionInvariant(t *testing.T) {
	small := Normalize(192, 108, 1920, 1080)
	large := Normalize(384, 216, 3840, 2160)

	if small != large {
		t.Errorf("normalized points differ across resolutions: %v vs %v", small, large)
	}
	if small != (model.Point{X: 0.1, Y: 0.1}) {
		t.Errorf("point = %v, want {0.1 0.1}", small)
	}
}

func TestNormalizeZeroFrame(t *testing.T) {
	if got := Normalize(10, 10, 0, 0); got != (model.Point{}) {
		t.Errorf("zero frame = %v, want origin", got)
	}
}
