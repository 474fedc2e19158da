package extract

import "github.com/mj1618/slidescene/internal/model"

// Frame is the reference rectangle of one slide, captured from the slide
// root before its children are walked.
type Frame struct {
	Left, Top, Width, Height float64
}

// NewFrame builds the frame from the slide root's position. A root with
// no usable box falls back to the default size at the origin.
func NewFrame(root *model.Position, defaultWidth, defaultHeight float64) Frame {
	if root == nil || root.Width <= 0 || root.Height <= 0 {
		return Frame{Width: defaultWidth, Height: defaultHeight}
	}
	return Frame{Left: root.Left, Top: root.Top, Width: root.Width, Height: root.Height}
}

// Reduce re-expresses p relative to the frame origin. Size is unchanged.
func (f Frame) Reduce(p *model.Position) *model.Position {
	if p == nil {
		return nil
	}
	return &model.Position{
		Left:   p.Left - f.Left,
		Top:    p.Top - f.Top,
		Width:  p.Width,
		Height: p.Height,
	}
}

// Renderable reports whether p has a nonzero area.
func Renderable(p *model.Position) bool {
	return p != nil && p.Width != 0 && p.Height != 0
}

// Covers reports whether the reduced position p occupies the whole frame.
// Comparison is exact.
func (f Frame) Covers(p *model.Position) bool {
	return p != nil && p.Left == 0 && p.Top == 0 && p.Width == f.Width && p.Height == f.Height
}
