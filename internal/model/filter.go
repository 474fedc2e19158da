package model

import "strings"

// FilterElements applies tag and bounding-box filters to a flat element
// list. An empty tag list and a nil bbox match everything.
func FilterElements(elements []FlatElement, tags []string, bbox *[4]int) []FlatElement {
	if len(tags) == 0 && bbox == nil {
		return elements
	}

	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var result []FlatElement
	for _, el := range elements {
		tagMatch := len(tagSet) == 0 || tagSet[el.Tag]
		bboxMatch := bbox == nil || boundsIntersect(el.Bounds, *bbox)
		if tagMatch && bboxMatch {
			result = append(result, el)
		}
	}
	return result
}

// FilterByText keeps elements whose text excerpt or image source contains
// text (case-insensitive).
func FilterByText(elements []FlatElement, text string) []FlatElement {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	var result []FlatElement
	for _, el := range elements {
		if strings.Contains(strings.ToLower(el.Text), textLower) ||
			strings.Contains(strings.ToLower(el.Image), textLower) {
			result = append(result, el)
		}
	}
	return result
}

// FilterPending keeps only elements still waiting for a capture.
func FilterPending(elements []FlatElement) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		if el.Pending {
			result = append(result, el)
		}
	}
	return result
}

// boundsIntersect checks if two [x, y, width, height] rectangles overlap.
func boundsIntersect(a, b [4]int) bool {
	ax1, ay1, ax2, ay2 := a[0], a[1], a[0]+a[2], a[1]+a[3]
	bx1, by1, bx2, by2 := b[0], b[1], b[0]+b[2], b[1]+b[3]
	return ax1 < bx2 && ax2 > bx1 && ay1 < by2 && ay2 > by1
}
