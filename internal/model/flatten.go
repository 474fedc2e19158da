package model

import (
	"fmt"
	"math"
	"strings"
)

// maxFlatText bounds the text excerpt kept on a FlatElement.
const maxFlatText = 60

// FlatElement is a one-line summary of an extracted element, addressed by
// slide and paint-order index instead of carrying the full attribute set.
type FlatElement struct {
	Slide   int    `yaml:"slide"             json:"slide"`
	Index   int    `yaml:"i"                 json:"i"`
	Tag     string `yaml:"tag"               json:"tag"`
	Bounds  [4]int `yaml:"b"                 json:"b"`
	ZIndex  int    `yaml:"z,omitempty"       json:"z,omitempty"`
	Fill    string `yaml:"fill,omitempty"    json:"fill,omitempty"`
	Text    string `yaml:"t,omitempty"       json:"t,omitempty"`
	Image   string `yaml:"img,omitempty"     json:"img,omitempty"`
	Pending bool   `yaml:"pending,omitempty" json:"pending,omitempty"`
	Path    string `yaml:"p,omitempty"       json:"p,omitempty"`
}

// FlattenPresentation converts every slide's element list into flat
// summaries. Each element gets a path of the form "slide 2 > svg".
func FlattenPresentation(p Presentation) []FlatElement {
	var result []FlatElement
	for s, slide := range p.Slides {
		for i := range slide.Elements {
			result = append(result, flattenElement(s+1, i, &slide.Elements[i]))
		}
	}
	return result
}

func flattenElement(slide, index int, el *ElementAttributes) FlatElement {
	flat := FlatElement{
		Slide:   slide,
		Index:   index,
		Tag:     el.TagName,
		Bounds:  roundBounds(el.Position),
		ZIndex:  el.ZIndex,
		Fill:    el.BackgroundColor(),
		Text:    excerpt(el.InnerText),
		Image:   el.ImageSrc,
		Pending: el.ShouldScreenshot,
		Path:    fmt.Sprintf("slide %d > %s", slide, el.TagName),
	}
	return flat
}

// roundBounds converts a position into integer [x, y, w, h].
func roundBounds(p *Position) [4]int {
	if p == nil {
		return [4]int{}
	}
	return [4]int{
		int(math.Round(p.Left)),
		int(math.Round(p.Top)),
		int(math.Round(p.Width)),
		int(math.Round(p.Height)),
	}
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxFlatText {
		return s
	}
	return string(r[:maxFlatText-1]) + "…"
}
