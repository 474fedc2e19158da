package style

import (
	"math"
	"strings"

	"github.com/mj1618/slidescene/internal/model"
)

// SplitLayers splits a comma-separated box-shadow list, ignoring commas
// nested inside color functions.
func SplitLayers(value string) []string {
	var layers []string
	depth := 0
	start := 0
	for i, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				layers = append(layers, strings.TrimSpace(value[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(value[start:]); last != "" {
		layers = append(layers, last)
	}
	return layers
}

type shadowLayer struct {
	numbers []float64
	color   string
	inset   bool
}

// parseLayer tokenizes one shadow layer into its numeric lengths, its color
// text (functions kept whole) and the inset keyword.
func parseLayer(layer string) shadowLayer {
	var sl shadowLayer
	var colorParts []string
	fields := strings.Fields(layer)
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		lower := strings.ToLower(f)
		switch {
		case lower == "inset":
			sl.inset = true
		case strings.Contains(lower, "("):
			fn := f
			for strings.Count(fn, "(") > strings.Count(fn, ")") && i+1 < len(fields) {
				i++
				fn += " " + fields[i]
			}
			colorParts = append(colorParts, fn)
		default:
			if v, ok := leadingFloat(f); ok {
				sl.numbers = append(sl.numbers, v)
			} else {
				colorParts = append(colorParts, f)
			}
		}
	}
	sl.color = strings.Join(colorParts, " ")
	return sl
}

// visible reports whether the layer has a color worth the score bonus.
// Black is the browser default and earns nothing.
func (sl shadowLayer) visible() bool {
	c := ParseColor(sl.color)
	return c.Defined() && c.Hex != "000000"
}

func (sl shadowLayer) nonZero() int {
	n := 0
	for _, v := range sl.numbers {
		if v != 0 {
			n++
		}
	}
	return n
}

// ParseShadow picks the most significant layer of a computed box-shadow
// and decodes it. A layer qualifies when it has a nonzero length or a
// visible color; its score is the nonzero length count plus two when
// visible, and the first layer with the highest score wins. When nothing
// qualifies the first layer is used.
// Fallback: "none", fewer than two lengths or no resolvable color yield nil.
func ParseShadow(value string) *model.Shadow {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return nil
	}
	layers := SplitLayers(value)
	if len(layers) == 0 {
		return nil
	}

	parsed := make([]shadowLayer, len(layers))
	for i, l := range layers {
		parsed[i] = parseLayer(l)
	}

	best := parsed[0]
	bestScore := -1
	for _, sl := range parsed {
		nz := sl.nonZero()
		vis := sl.visible()
		if nz == 0 && !vis {
			continue
		}
		score := nz
		if vis {
			score += 2
		}
		if score > bestScore {
			best, bestScore = sl, score
		}
	}

	if len(best.numbers) < 2 || best.color == "" {
		return nil
	}
	c := ParseColor(best.color)
	if !c.Defined() {
		return nil
	}

	sh := &model.Shadow{
		Offset:  [2]float64{best.numbers[0], best.numbers[1]},
		Color:   c.Hex,
		Opacity: c.Opacity,
		Inset:   best.inset,
	}
	if len(best.numbers) > 2 {
		sh.Radius = best.numbers[2]
	}
	if len(best.numbers) > 3 {
		sh.Spread = best.numbers[3]
	}
	sh.Angle = math.Atan2(best.numbers[1], best.numbers[0]) * 180 / math.Pi
	return sh
}
