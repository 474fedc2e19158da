package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mj1618/slidescene/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelMode controls what text is drawn on each annotated element.
type LabelMode int

const (
	// LabelIndex draws "[i]", the element's paint-order index.
	LabelIndex LabelMode = iota
	// LabelTag draws the element's tag name.
	LabelTag
)

// AnnotateSlide draws bounding boxes and labels for a slide's elements on
// img. frame is the slide size in CSS pixels; element positions are scaled
// by the ratio of image size to frame size. With fill set, element
// background colors are painted first, giving a wireframe of the slide.
func AnnotateSlide(img image.Image, slide model.SlideResult, frame [2]float64, mode LabelMode, fill bool) *image.RGBA {
	rgba := ImageToRGBA(img)

	b := img.Bounds()
	scaleX, scaleY := 1.0, 1.0
	if frame[0] > 0 {
		scaleX = float64(b.Dx()) / frame[0]
	}
	if frame[1] > 0 {
		scaleY = float64(b.Dy()) / frame[1]
	}

	boxColor := color.RGBA{R: 255, G: 0, B: 0, A: 160}
	pendingColor := color.RGBA{R: 255, G: 160, B: 0, A: 255}
	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor := color.RGBA{R: 0, G: 0, B: 0, A: 200}

	if fill {
		for _, el := range slide.Elements {
			if c, ok := elementFill(el); ok {
				x, y, w, h := scaledBox(el.Position, scaleX, scaleY)
				draw.Draw(rgba, image.Rect(x, y, x+w, y+h).Intersect(rgba.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
			}
		}
	}

	for i, el := range slide.Elements {
		if el.Position == nil {
			continue
		}
		x, y, w, h := scaledBox(el.Position, scaleX, scaleY)
		c := boxColor
		if el.ShouldScreenshot {
			c = pendingColor
		}
		drawRectangle(rgba, x, y, x+w, y+h, c)

		var label string
		switch mode {
		case LabelTag:
			label = el.TagName
		default:
			label = fmt.Sprintf("[%d]", i)
		}
		drawTextWithOutline(rgba, label, x+w/2, y+h/2, textColor, outlineColor)
	}
	return rgba
}

// ImageToRGBA converts any image to RGBA
func ImageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// blankSlide returns a white canvas, or the slide background when it has one.
func blankSlide(slide model.SlideResult, width, height int) *image.RGBA {
	var bg color.Color = color.White
	if c, err := colorful.Hex("#" + slide.BackgroundColor); err == nil && slide.BackgroundColor != "" {
		bg = c
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// elementFill returns the element's background as a draw color.
func elementFill(el model.ElementAttributes) (color.Color, bool) {
	hex := el.BackgroundColor()
	if hex == "" || el.Position == nil {
		return nil, false
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return nil, false
	}
	alpha := 1.0
	if el.Background != nil && el.Background.Opacity != nil {
		alpha = *el.Background.Opacity
	}
	r, g, b := c.RGB255()
	a := uint8(alpha * 255)
	// color.RGBA is premultiplied
	return color.RGBA{
		R: uint8(float64(r) * alpha),
		G: uint8(float64(g) * alpha),
		B: uint8(float64(b) * alpha),
		A: a,
	}, true
}

func scaledBox(p *model.Position, scaleX, scaleY float64) (x, y, w, h int) {
	if p == nil {
		return 0, 0, 0, 0
	}
	return int(p.Left * scaleX), int(p.Top * scaleY), int(p.Width * scaleX), int(p.Height * scaleY)
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline on the image
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x < x2; x++ {
		if isWithinBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if isWithinBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}
	for y := y1; y < y2; y++ {
		if isWithinBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if isWithinBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}

// drawTextWithOutline draws text centered at (x, y) with a one-pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13 glyphs are 7 pixels wide, 13 high
	offsetX := x - len(text)*7/2
	offsetY := y + 13/2

	drawer := func(c color.Color, dx, dy int) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(offsetX+dx, offsetY+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				drawer(outlineColor, dx, dy)
			}
		}
	}
	drawer(textColor, 0, 0)
}
