package model

import (
	"fmt"
)

// ChangeType represents the kind of element change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// ElementChange represents a single change between two extractions.
type ElementChange struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	Slide   int                  `yaml:"slide"             json:"slide"`
	Index   int                  `yaml:"i"                 json:"i"`
	Element *FlatElement         `yaml:"el,omitempty"      json:"el,omitempty"` // added and removed
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"`
}

type slot struct{ slide, index int }

// DiffElementsByPosition compares two flat element lists slot by slot:
// elements are matched by slide number and paint index. Use it when a
// deck is re-rendered with the same structure; DiffElementsByHash is the
// better fit when elements move.
func DiffElementsByPosition(prev, curr []FlatElement) []ElementChange {
	prevMap := make(map[slot]FlatElement, len(prev))
	for _, el := range prev {
		prevMap[slot{el.Slide, el.Index}] = el
	}
	currMap := make(map[slot]FlatElement, len(curr))
	for _, el := range curr {
		currMap[slot{el.Slide, el.Index}] = el
	}

	var changes []ElementChange
	for _, el := range curr {
		prevEl, existed := prevMap[slot{el.Slide, el.Index}]
		if !existed {
			elCopy := el
			changes = append(changes, ElementChange{Type: ChangeAdded, Slide: el.Slide, Index: el.Index, Element: &elCopy})
			continue
		}
		if diffs := diffProperties(prevEl, el); len(diffs) > 0 {
			changes = append(changes, ElementChange{Type: ChangeChanged, Slide: el.Slide, Index: el.Index, Changes: diffs})
		}
	}

	for _, el := range prev {
		if _, exists := currMap[slot{el.Slide, el.Index}]; !exists {
			elCopy := el
			changes = append(changes, ElementChange{Type: ChangeRemoved, Slide: el.Slide, Index: el.Index, Element: &elCopy})
		}
	}

	return changes
}

// diffProperties compares two elements in the same slot and returns
// changed fields.
func diffProperties(prev, curr FlatElement) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Tag != curr.Tag {
		diffs["tag"] = [2]string{prev.Tag, curr.Tag}
	}
	if prev.Text != curr.Text {
		diffs["t"] = [2]string{prev.Text, curr.Text}
	}
	if prev.Image != curr.Image {
		diffs["img"] = [2]string{prev.Image, curr.Image}
	}
	if prev.Fill != curr.Fill {
		diffs["fill"] = [2]string{prev.Fill, curr.Fill}
	}
	if prev.Bounds != curr.Bounds {
		diffs["b"] = [2]string{
			fmt.Sprintf("%v", prev.Bounds),
			fmt.Sprintf("%v", curr.Bounds),
		}
	}
	if prev.ZIndex != curr.ZIndex {
		diffs["z"] = [2]string{
			fmt.Sprintf("%d", prev.ZIndex),
			fmt.Sprintf("%d", curr.ZIndex),
		}
	}
	if prev.Pending != curr.Pending {
		diffs["pending"] = [2]string{
			fmt.Sprintf("%v", prev.Pending),
			fmt.Sprintf("%v", curr.Pending),
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
