// Package annotate renders detection boxes and labels onto frames before
// they are streamed or persisted.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/catwatch/cat-tracker/internal/detect"
)

const borderWidth = 2

var (
	targetColor = color.RGBA{R: 46, G: 204, B: 113, A: 255} // green for the tracked class
	otherColor  = color.RGBA{R: 149, G: 165, B: 166, A: 255}
	labelText   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Draw copies the frame and paints one labeled box per detection. The
// tracked class is highlighted; all other classes share a neutral color.
func Draw(img image.Image, dets []detect.Detection, targetClass string) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, d := range dets {
		c := otherColor
		if d.ClassName == targetClass {
			c = targetColor
		}
		box := d.BBox.Rect().Intersect(bounds)
		if box.Empty() {
			continue
		}
		drawBorder(out, box, c)
		drawLabel(out, box, fmt.Sprintf("%s %.2f", d.ClassName, d.Confidence), c)
	}
	return out
}

func drawBorder(img *image.RGBA, box image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	top := image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+borderWidth)
	bottom := image.Rect(box.Min.X, box.Max.Y-borderWidth, box.Max.X, box.Max.Y)
	left := image.Rect(box.Min.X, box.Min.Y, box.Min.X+borderWidth, box.Max.Y)
	right := image.Rect(box.Max.X-borderWidth, box.Min.Y, box.Max.X, box.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(img, edge.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}

func drawLabel(img *image.RGBA, box image.Rectangle, text string, c color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 8
	height := face.Height + 4

	// Label sits above the box when there is room, inside it otherwise.
	bg := image.Rect(box.Min.X, box.Min.Y-height, box.Min.X+width, box.Min.Y)
	if bg.Min.Y < img.Bounds().Min.Y {
		bg = image.Rect(box.Min.X, box.Min.Y, box.Min.X+width, box.Min.Y+height)
	}
	bg = bg.Intersect(img.Bounds())
	if bg.Empty() {
		return
	}
	draw.Draw(img, bg, image.NewUniform(c), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelText),
		Face: face,
		Dot: fixed.P(
			bg.Min.X+4,
			bg.Min.Y+face.Ascent+2,
		),
	}
	drawer.DrawString(text)
}
