package annotate

import (
	"image"
	"image/color"
	"testing"

	"github.com/catwatch/cat-tracker/internal/detect"
)

func grayFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
		}
	}
	return img
}

func TestDrawPaintsBorder(t *testing.T) {
	frame := grayFrame(200, 200)
	dets := []detect.Detection{
		{
			ClassName:  "cat",
			Confidence: 0.91,
			BBox:       detect.BoundingBox{X: 50, Y: 50, W: 80, H: 60},
		},
	}

	out := Draw(frame, dets, "cat")

	// Top border pixel should carry the highlight color.
	got := out.RGBAAt(60, 50)
	if got != targetColor {
		t.Fatalf("border pixel = %v, want %v", got, targetColor)
	}
	// A pixel well inside the box stays untouched (except where the label sits).
	inside := out.RGBAAt(90, 90)
	if inside != (color.RGBA{R: 20, G: 20, B: 20, A: 255}) {
		t.Fatalf("interior pixel = %v, want original", inside)
	}
}

func TestDrawDoesNotMutateInput(t *testing.T) {
	frame := grayFrame(100, 100)
	dets := []detect.Detection{
		{ClassName: "cat", Confidence: 0.8, BBox: detect.BoundingBox{X: 10, Y: 10, W: 40, H: 40}},
	}

	_ = Draw(frame, dets, "cat")

	if frame.RGBAAt(20, 10) != (color.RGBA{R: 20, G: 20, B: 20, A: 255}) {
		t.Fatal("Draw mutated the source frame")
	}
}

func TestDrawClipsOutOfBoundsBoxes(t *testing.T) {
	frame := grayFrame(100, 100)
	dets := []detect.Detection{
		// Box partially outside the frame.
		{ClassName: "cat", Confidence: 0.8, BBox: detect.BoundingBox{X: 80, Y: -10, W: 60, H: 60}},
		// Box entirely outside the frame.
		{ClassName: "dog", Confidence: 0.7, BBox: detect.BoundingBox{X: 300, Y: 300, W: 40, H: 40}},
	}

	// Must not panic; output bounds unchanged.
	out := Draw(frame, dets, "cat")
	if out.Bounds() != frame.Bounds() {
		t.Fatalf("bounds changed: %v", out.Bounds())
	}
}

func TestNonTargetClassUsesNeutralColor(t *testing.T) {
	frame := grayFrame(200, 200)
	dets := []detect.Detection{
		{ClassName: "dog", Confidence: 0.9, BBox: detect.BoundingBox{X: 50, Y: 50, W: 80, H: 60}},
	}

	out := Draw(frame, dets, "cat")
	if got := out.RGBAAt(60, 50); got != otherColor {
		t.Fatalf("border pixel = %v, want %v", got, otherColor)
	}
}
