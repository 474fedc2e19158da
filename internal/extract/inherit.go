package extract

import "github.com/mj1618/slidescene/internal/model"

// Inherited carries the nearest-ancestor values a child may take over.
// It is passed by value into each level of the walk and never mutated.
type Inherited struct {
	Font         *model.Font
	Background   *model.Background
	BorderRadius []float64
	ZIndex       *int
	Opacity      *float64
}

// Seed builds the starting context from the slide root. Border radius is
// not seeded.
func Seed(root *model.ElementAttributes) Inherited {
	z := root.ZIndex
	return Inherited{
		Font:       root.Font,
		Background: root.Background,
		ZIndex:     &z,
		Opacity:    root.Opacity,
	}
}

// Apply fills the fields of a that CSS leaves to the ancestors:
//   - font, only for elements with non-blank text and no font of their own
//   - background, only for shadowed elements without one
//   - border radius, when the element has none
//   - z-index, when the element's is 0
//   - opacity, when the element's is unset or exactly 1
//
// Inherited fragments are copied so records never share memory.
func (in Inherited) Apply(a *model.ElementAttributes) {
	if in.Font != nil && a.Font == nil && a.HasText() {
		f := *in.Font
		a.Font = &f
	}
	if in.Background != nil && a.Background == nil && a.Shadow != nil {
		b := *in.Background
		a.Background = &b
	}
	if in.BorderRadius != nil && a.BorderRadius == nil {
		a.BorderRadius = append([]float64(nil), in.BorderRadius...)
	}
	if in.ZIndex != nil && a.ZIndex == 0 {
		a.ZIndex = *in.ZIndex
	}
	if in.Opacity != nil && (a.Opacity == nil || *a.Opacity == 1) {
		op := *in.Opacity
		a.Opacity = &op
	}
}

// Descend returns the context for a's children: a's own resolved values
// where defined, the current ones otherwise.
func (in Inherited) Descend(a *model.ElementAttributes) Inherited {
	next := in
	if a.Font != nil {
		next.Font = a.Font
	}
	if a.Background != nil {
		next.Background = a.Background
	}
	if a.BorderRadius != nil {
		next.BorderRadius = a.BorderRadius
	}
	if a.ZIndex != 0 {
		z := a.ZIndex
		next.ZIndex = &z
	}
	if a.Opacity != nil {
		next.Opacity = a.Opacity
	}
	return next
}
