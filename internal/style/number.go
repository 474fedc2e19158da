// Package style decodes computed CSS values into the primitive fragments of
// an element record. Decoding is lenient: a value that cannot be parsed
// leaves its field unset instead of failing the element. Each decoder
// names its fallback.
package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloatRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	leadingIntRe   = regexp.MustCompile(`^[+-]?\d+`)
)

// leadingFloat parses the longest numeric prefix of s, ignoring leading
// whitespace and any trailing unit ("12.5px" is 12.5).
// Fallback: no numeric prefix reports false.
func leadingFloat(s string) (float64, bool) {
	m := leadingFloatRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// leadingInt parses the integer prefix of s ("700" is 700, "1.5" is 1).
// Fallback: no integer prefix reports false.
func leadingInt(s string) (int, bool) {
	m := leadingIntRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// finite replaces NaN and infinities with zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
