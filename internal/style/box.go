package style

import (
	"math"
	"regexp"
	"strings"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/model"
)

// ParseSpacing decodes the four sides of prefix ("margin" or "padding").
// Fallback: an unparseable side reads as 0; all-zero spacing is nil.
func ParseSpacing(s *dom.Snapshot, prefix string) *model.Spacing {
	side := func(name string) float64 {
		v, _ := leadingFloat(s.Prop(prefix + "-" + name))
		return v
	}
	sp := &model.Spacing{
		Top:    side("top"),
		Bottom: side("bottom"),
		Left:   side("left"),
		Right:  side("right"),
	}
	if sp.Top == 0 && sp.Bottom == 0 && sp.Left == 0 && sp.Right == 0 {
		return nil
	}
	return sp
}

// ParseBorder decodes a uniform border.
// Fallback: a zero width, or no width and no color, yields nil.
func ParseBorder(s *dom.Snapshot) *model.Border {
	width, hasWidth := leadingFloat(s.Prop("border-width"))
	if hasWidth && width == 0 {
		return nil
	}
	c := ParseColor(s.Prop("border-color"))
	if !hasWidth && !c.Defined() {
		return nil
	}
	b := &model.Border{Color: c.Hex, Opacity: c.Opacity}
	if hasWidth {
		b.Width = floatPtr(width)
	}
	return b
}

// ParseBackground decodes the background color.
// Fallback: transparent or unparseable colors yield nil.
func ParseBackground(s *dom.Snapshot) *model.Background {
	c := ParseColor(s.Prop("background-color"))
	if !c.Defined() {
		return nil
	}
	return &model.Background{Color: c.Hex, Opacity: c.Opacity}
}

var backgroundURLRe = regexp.MustCompile(`url\(['"]?([^'"]+)['"]?\)`)

// ParseBackgroundImage returns the first url() of a background-image.
// Fallback: "none" and gradients without a url yield "".
func ParseBackgroundImage(value string) string {
	if value == "" || value == "none" {
		return ""
	}
	m := backgroundURLRe.FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseBorderRadius expands a computed border-radius into four corners
// [top-left, top-right, bottom-right, bottom-left] and clamps each to half
// the element size: corners 0 and 2 against the width, 1 and 3 against
// the height. Only the horizontal radii of elliptical values are used.
// Fallback: "0px", empty values and more than four components yield nil;
// an unparseable component reads as 0.
func ParseBorderRadius(value string, width, height float64) []float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "0px" {
		return nil
	}
	horizontal, _, _ := strings.Cut(value, "/")
	parts := strings.Fields(horizontal)

	vals := make([]float64, len(parts))
	for i, p := range parts {
		vals[i], _ = leadingFloat(p)
	}

	var corners []float64
	switch len(vals) {
	case 1:
		corners = []float64{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		corners = []float64{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		corners = []float64{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		corners = vals
	default:
		return nil
	}

	for i, r := range corners {
		limit := width / 2
		if i%2 == 1 {
			limit = height / 2
		}
		corners[i] = math.Max(0, math.Min(r, limit))
	}
	return corners
}

// ParseShape classifies image elements: four 50 corners make a circle,
// anything else a rectangle. Non-image elements have no shape.
func ParseShape(tag string, radius []float64) string {
	if tag != "img" {
		return ""
	}
	if len(radius) == 4 {
		circle := true
		for _, r := range radius {
			if r != 50 {
				circle = false
			}
		}
		if circle {
			return model.ShapeCircle
		}
	}
	return model.ShapeRectangle
}
