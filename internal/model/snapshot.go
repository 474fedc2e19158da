package model

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// HashChange represents a changed element detected by hash-based diffing.
type HashChange struct {
	Slide   int                  `yaml:"slide"   json:"slide"`
	Index   int                  `yaml:"i"       json:"i"`
	Tag     string               `yaml:"tag"     json:"tag"`
	Changes map[string][2]string `yaml:"changes" json:"changes"`
}

// TreeDiff is the result of comparing two extraction results by content hash.
type TreeDiff struct {
	Added          []FlatElement `yaml:"added,omitempty"   json:"added,omitempty"`
	Removed        []FlatElement `yaml:"removed,omitempty" json:"removed,omitempty"`
	Changed        []HashChange  `yaml:"changed,omitempty" json:"changed,omitempty"`
	UnchangedCount int           `yaml:"unchanged_count"   json:"unchanged_count"`
}

// ElementHash computes a stable identity hash for an element from its
// slide, tag, text and image. Paint-order indexes may shift between
// runs, so they are not part of the identity.
func ElementHash(el FlatElement) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s", el.Slide, el.Tag, el.Text, el.Image)
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// DiffElementsByHash compares two flat element lists using content hashing.
// Elements sharing a hash are paired in order of appearance.
func DiffElementsByHash(prev, curr []FlatElement) TreeDiff {
	prevByHash := make(map[string][]FlatElement, len(prev))
	for _, el := range prev {
		h := ElementHash(el)
		prevByHash[h] = append(prevByHash[h], el)
	}

	var diff TreeDiff
	for _, el := range curr {
		h := ElementHash(el)
		candidates := prevByHash[h]
		if len(candidates) == 0 {
			diff.Added = append(diff.Added, el)
			continue
		}
		prevEl := candidates[0]
		prevByHash[h] = candidates[1:]

		changes := diffSnapshotProperties(prevEl, el)
		if len(changes) > 0 {
			diff.Changed = append(diff.Changed, HashChange{
				Slide:   el.Slide,
				Index:   el.Index,
				Tag:     el.Tag,
				Changes: changes,
			})
		} else {
			diff.UnchangedCount++
		}
	}

	var hashes []string
	for h := range prevByHash {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	for _, h := range hashes {
		diff.Removed = append(diff.Removed, prevByHash[h]...)
	}
	sort.SliceStable(diff.Removed, func(i, j int) bool {
		if diff.Removed[i].Slide != diff.Removed[j].Slide {
			return diff.Removed[i].Slide < diff.Removed[j].Slide
		}
		return diff.Removed[i].Index < diff.Removed[j].Index
	})

	return diff
}

// diffSnapshotProperties compares the mutable properties of two elements
// matched by hash: bounds, paint position, z-index and fill.
func diffSnapshotProperties(prev, curr FlatElement) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Bounds != curr.Bounds {
		diffs["b"] = [2]string{
			fmt.Sprintf("%v", prev.Bounds),
			fmt.Sprintf("%v", curr.Bounds),
		}
	}
	if prev.Index != curr.Index {
		diffs["i"] = [2]string{
			fmt.Sprintf("%d", prev.Index),
			fmt.Sprintf("%d", curr.Index),
		}
	}
	if prev.ZIndex != curr.ZIndex {
		diffs["z"] = [2]string{
			fmt.Sprintf("%d", prev.ZIndex),
			fmt.Sprintf("%d", curr.ZIndex),
		}
	}
	if prev.Fill != curr.Fill {
		diffs["fill"] = [2]string{prev.Fill, curr.Fill}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

// SaveSnapshot writes an extraction result to path as JSON.
func SaveSnapshot(path string, p Presentation) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSnapshot reads an extraction result previously written by SaveSnapshot.
func LoadSnapshot(path string) (Presentation, error) {
	var p Presentation
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("load snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return p, nil
}
