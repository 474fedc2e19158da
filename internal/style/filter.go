package style

import (
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/mj1618/slidescene/internal/model"
)

// ParseFilters decodes a CSS filter chain into the sparse Filters set,
// taking the first numeric argument of each known function. Units are
// dropped: blur(4px) is 4, hue-rotate(90deg) is 90, brightness(150%) is 150.
// Fallback: "none", unknown functions and functions without a numeric
// argument are skipped; a chain with no known function yields nil.
func ParseFilters(value string) *model.Filters {
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return nil
	}

	var f model.Filters
	fn := ""
	sign := 1.0
	s := scanner.New(value)
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			break
		}
		switch tok.Type {
		case scanner.TokenFunction:
			fn = strings.ToLower(strings.TrimSuffix(tok.Value, "("))
			sign = 1
		case scanner.TokenChar:
			switch tok.Value {
			case "-":
				sign = -1
			case ")":
				fn = ""
			}
		case scanner.TokenNumber, scanner.TokenDimension, scanner.TokenPercentage:
			if fn == "" {
				continue
			}
			if v, ok := leadingFloat(tok.Value); ok {
				setFilter(&f, fn, sign*v)
			}
			fn = ""
		}
	}

	if f.Empty() {
		return nil
	}
	return &f
}

func setFilter(f *model.Filters, fn string, v float64) {
	switch fn {
	case "invert":
		f.Invert = floatPtr(v)
	case "brightness":
		f.Brightness = floatPtr(v)
	case "contrast":
		f.Contrast = floatPtr(v)
	case "saturate":
		f.Saturate = floatPtr(v)
	case "hue-rotate":
		f.HueRotate = floatPtr(v)
	case "blur":
		f.Blur = floatPtr(v)
	case "grayscale":
		f.Grayscale = floatPtr(v)
	case "sepia":
		f.Sepia = floatPtr(v)
	case "opacity":
		f.Opacity = floatPtr(v)
	}
}
