package style

import (
	"strings"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/model"
)

// ParseFont decodes the text style of an element.
// Fallback: an unparseable size or weight is left unset; a font with no
// name, size, weight or color that is not italic is nil.
func ParseFont(s *dom.Snapshot) *model.Font {
	f := &model.Font{}

	if family := s.Prop("font-family"); family != "initial" {
		first, _, _ := strings.Cut(family, ",")
		f.Name = strings.Trim(strings.TrimSpace(first), `"'`)
	}
	if size, ok := leadingFloat(s.Prop("font-size")); ok {
		f.Size = floatPtr(size)
	}
	if weight, ok := leadingInt(s.Prop("font-weight")); ok {
		f.Weight = intPtr(weight)
	}
	f.Color = ParseColor(s.Prop("color")).Hex
	f.Italic = s.Prop("font-style") == "italic"

	if f.Name == "" && f.Size == nil && f.Weight == nil && f.Color == "" && !f.Italic {
		return nil
	}
	return f
}

// ParseLineHeight returns the computed line height in pixels for text that
// spans multiple lines: explicit line breaks, a box taller than two single
// lines, or content overflowing the box.
// Fallback: single-line text, "normal" and unparseable values yield nil.
func ParseLineHeight(s *dom.Snapshot) *float64 {
	raw := s.Prop("line-height")
	if raw == "" || raw == "normal" {
		return nil
	}
	lh, ok := leadingFloat(raw)
	if !ok {
		return nil
	}

	// A numeric line height is the height of one line.
	single := lh
	explicit := strings.ContainsAny(s.TextContent, "\r\n")
	wrapped := s.OffsetHeight > single*2
	overflow := s.ScrollHeight > s.ClientHeight
	if !explicit && !wrapped && !overflow {
		return nil
	}
	return floatPtr(lh)
}
