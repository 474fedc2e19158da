package dom

// Rect is a bounding client rectangle in viewport CSS pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StyleProperties lists the computed style properties a Snapshot carries.
var StyleProperties = []string{
	"background-color",
	"background-image",
	"border-color",
	"border-width",
	"border-radius",
	"box-shadow",
	"color",
	"filter",
	"font-family",
	"font-size",
	"font-style",
	"font-weight",
	"line-height",
	"margin-top",
	"margin-bottom",
	"margin-left",
	"margin-right",
	"object-fit",
	"opacity",
	"padding-top",
	"padding-bottom",
	"padding-left",
	"padding-right",
	"text-align",
	"white-space",
	"z-index",
}

// Snapshot is the raw observation of one element: its computed style and
// the geometry and text facts the style decoder needs.
type Snapshot struct {
	TagName   string            `json:"tagName"`
	ID        string            `json:"id"`
	ClassName string            `json:"className"`
	Style     map[string]string `json:"style"`
	Rect      Rect              `json:"rect"`

	// TextContent is the element's full text content.
	TextContent string `json:"textContent"`
	// OnlyText is true when the element has no element children.
	OnlyText bool `json:"onlyText"`
	// Src is the element's resolved src property, if it has one.
	Src string `json:"src"`

	OffsetHeight float64 `json:"offsetHeight"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// Prop returns a computed style property, or "" when absent.
func (s *Snapshot) Prop(name string) string {
	if s.Style == nil {
		return ""
	}
	return s.Style[name]
}
