package extract

import (
	"sort"

	"github.com/mj1618/slidescene/internal/model"
)

// keep decides whether a top-level entry survives: elements with special
// content always do, elements with visual properties do unless they cover
// the whole slide, and structural wrappers never do.
func keep(a *model.ElementAttributes, frame Frame) bool {
	special := a.ImageSrc != "" || rasterTags[a.TagName]
	if special {
		return true
	}
	visual := a.BackgroundColor() != "" ||
		(a.Border != nil && a.Border.Color != "") ||
		(a.Shadow != nil && a.Shadow.Color != "") ||
		a.HasText()
	return visual && !frame.Covers(a.Position)
}

// slideBackground returns the color of the first full-slide entry with a
// background, or fallback.
func slideBackground(entries []entry, frame Frame, fallback string) string {
	for _, e := range entries {
		if frame.Covers(e.attrs.Position) && e.attrs.BackgroundColor() != "" {
			return e.attrs.BackgroundColor()
		}
	}
	return fallback
}

// reduceSlide filters the walked entries, orders them for painting
// (z-index descending, then shallower first; ties keep walk order) and
// gives shadowed elements without a fill the slide background.
func reduceSlide(entries []entry, frame Frame, rootBackground string) model.SlideResult {
	bg := slideBackground(entries, frame, rootBackground)

	kept := make([]entry, 0, len(entries))
	for _, e := range entries {
		if keep(e.attrs, frame) {
			kept = append(kept, e)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].attrs.ZIndex != kept[j].attrs.ZIndex {
			return kept[i].attrs.ZIndex > kept[j].attrs.ZIndex
		}
		return kept[i].depth < kept[j].depth
	})

	result := model.SlideResult{
		Elements:        make([]model.ElementAttributes, len(kept)),
		BackgroundColor: bg,
	}
	for i, e := range kept {
		a := *e.attrs
		if a.Shadow != nil && a.Shadow.Color != "" && a.BackgroundColor() == "" && bg != "" {
			a.Background = &model.Background{Color: bg}
		}
		result.Elements[i] = a
	}
	return result
}
