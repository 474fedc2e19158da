package style

import (
	"strings"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/model"
)

// Decode turns one element snapshot into an attribute record. Fields of
// the inherited context are not applied here.
func Decode(s *dom.Snapshot) *model.ElementAttributes {
	a := &model.ElementAttributes{
		TagName:   strings.ToLower(s.TagName),
		ID:        s.ID,
		ClassName: s.ClassName,
		Position: &model.Position{
			Left:   finite(s.Rect.Left),
			Top:    finite(s.Rect.Top),
			Width:  finite(s.Rect.Width),
			Height: finite(s.Rect.Height),
		},
		Shadow:     ParseShadow(s.Prop("box-shadow")),
		Background: ParseBackground(s),
		Border:     ParseBorder(s),
		Font:       ParseFont(s),
		LineHeight: ParseLineHeight(s),
		Margin:     ParseSpacing(s, "margin"),
		Padding:    ParseSpacing(s, "padding"),
		ObjectFit:  s.Prop("object-fit"),
		TextWrap:   s.Prop("white-space") != "nowrap",
		Filters:    ParseFilters(s.Prop("filter")),
	}

	if s.OnlyText {
		a.InnerText = s.TextContent
	}

	// Fallback: "auto" and unparseable z-index read as 0.
	if z, ok := leadingInt(s.Prop("z-index")); ok {
		a.ZIndex = z
	}

	switch align := s.Prop("text-align"); align {
	case "", "left", "start":
	default:
		a.TextAlign = align
	}

	a.ImageSrc = s.Src
	if a.ImageSrc == "" {
		a.ImageSrc = ParseBackgroundImage(s.Prop("background-image"))
	}

	a.BorderRadius = ParseBorderRadius(s.Prop("border-radius"), a.Position.Width, a.Position.Height)
	a.Shape = ParseShape(a.TagName, a.BorderRadius)

	// Fallback: an unparseable opacity is left unset.
	if op, ok := leadingFloat(s.Prop("opacity")); ok {
		a.Opacity = floatPtr(op)
	}
	return a
}
