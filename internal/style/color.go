package style

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a decoded CSS color: a 6-digit lowercase hex string without '#'
// and the alpha channel when the source carried one.
type Color struct {
	Hex     string
	Opacity *float64
}

// Defined reports whether the color resolved to something paintable.
func (c Color) Defined() bool {
	return c.Hex != ""
}

// ParseColor decodes rgb(), rgba(), hsl(), hsla(), #hex and named colors.
// Fallback: transparent, fully transparent (alpha 0), keywords such as
// currentcolor, and anything unparseable yield the zero Color.
func ParseColor(value string) Color {
	s := strings.ToLower(strings.TrimSpace(value))
	switch s {
	case "", "none", "transparent", "currentcolor", "inherit", "initial", "unset":
		return Color{}
	}

	var c Color
	var ok bool
	switch {
	case strings.HasPrefix(s, "rgb"):
		c, ok = parseRGB(s)
	case strings.HasPrefix(s, "hsl"):
		c, ok = parseHSL(s)
	case strings.HasPrefix(s, "#"):
		c, ok = parseHex(s[1:])
	default:
		if rgba, found := colornames.Map[s]; found {
			c, ok = Color{Hex: hexOf(float64(rgba.R), float64(rgba.G), float64(rgba.B))}, true
		}
	}
	if !ok {
		return Color{}
	}
	if c.Opacity != nil && *c.Opacity == 0 {
		return Color{}
	}
	return c
}

// hexOf formats 0-255 channel values as "rrggbb".
func hexOf(r, g, b float64) string {
	col := colorful.Color{R: clamp(r, 0, 255) / 255, G: clamp(g, 0, 255) / 255, B: clamp(b, 0, 255) / 255}
	return strings.TrimPrefix(col.Hex(), "#")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// functionArgs returns the arguments of the first "name(...)" in s, split
// on commas, whitespace and the slash before alpha.
func functionArgs(s string) []string {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return nil
	}
	body := s[open+1:]
	if end := strings.IndexByte(body, ')'); end >= 0 {
		body = body[:end]
	}
	return strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t'
	})
}

// channel parses one rgb channel, accepting percentages.
func channel(arg string) (float64, bool) {
	v, ok := leadingFloat(arg)
	if !ok {
		return 0, false
	}
	if strings.HasSuffix(arg, "%") {
		v = v * 255 / 100
	}
	return v, true
}

// alpha parses an alpha component, accepting percentages.
func alpha(arg string) (float64, bool) {
	v, ok := leadingFloat(arg)
	if !ok {
		return 0, false
	}
	if strings.HasSuffix(arg, "%") {
		v /= 100
	}
	return clamp(v, 0, 1), true
}

func parseRGB(s string) (Color, bool) {
	args := functionArgs(s)
	if len(args) < 3 {
		return Color{}, false
	}
	var rgb [3]float64
	for i := range rgb {
		v, ok := channel(args[i])
		if !ok {
			return Color{}, false
		}
		rgb[i] = math.Round(v)
	}
	c := Color{Hex: hexOf(rgb[0], rgb[1], rgb[2])}
	if len(args) > 3 {
		if a, ok := alpha(args[3]); ok {
			c.Opacity = floatPtr(a)
		}
	}
	return c, true
}

func parseHSL(s string) (Color, bool) {
	args := functionArgs(s)
	if len(args) < 3 {
		return Color{}, false
	}
	h, okH := leadingFloat(args[0])
	sat, okS := leadingFloat(args[1])
	light, okL := leadingFloat(args[2])
	if !okH || !okS || !okL {
		return Color{}, false
	}
	if strings.HasSuffix(args[0], "turn") {
		h *= 360
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	col := colorful.Hsl(h, clamp(sat, 0, 100)/100, clamp(light, 0, 100)/100).Clamped()
	c := Color{Hex: strings.TrimPrefix(col.Hex(), "#")}
	if len(args) > 3 {
		if a, ok := alpha(args[3]); ok {
			c.Opacity = floatPtr(a)
		}
	}
	return c, true
}

func parseHex(digits string) (Color, bool) {
	switch len(digits) {
	case 3, 4:
		var b strings.Builder
		for _, r := range digits {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		digits = b.String()
	case 6, 8:
	default:
		return Color{}, false
	}
	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(digits) == 6 {
		return Color{Hex: digits}, true
	}
	a := float64(n&0xff) / 255
	return Color{Hex: digits[:6], Opacity: floatPtr(math.Round(a*1000) / 1000)}, true
}
