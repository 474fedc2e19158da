package output

import (
	"github.com/mj1618/slidescene/internal/model"
)

// View selects how an extraction result is shaped for output.
type View struct {
	Flat    bool
	Tags    []string
	BBox    *[4]int
	Text    string
	Pending bool
}

// Filtered reports whether any element filter is set. Filters imply a
// flat listing.
func (v View) Filtered() bool {
	return len(v.Tags) > 0 || v.BBox != nil || v.Text != "" || v.Pending
}

// Shape builds the printable result for p: the full presentation, or a
// flat element list when v asks for one.
func Shape(source string, ts int64, p *model.Presentation, v View) interface{} {
	if !v.Flat && !v.Filtered() {
		return ExtractResult{Source: source, TS: ts, Presentation: *p}
	}
	elements := model.FlattenPresentation(*p)
	elements = model.FilterElements(elements, v.Tags, v.BBox)
	elements = model.FilterByText(elements, v.Text)
	if v.Pending {
		elements = model.FilterPending(elements)
	}
	if elements == nil {
		elements = []model.FlatElement{}
	}
	return ExtractFlatResult{Source: source, TS: ts, Elements: elements}
}
