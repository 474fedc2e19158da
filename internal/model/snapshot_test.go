package model

import (
	"path/filepath"
	"testing"
)

func TestElementHash_Stable(t *testing.T) {
	el := FlatElement{Slide: 1, Index: 0, Tag: "p", Text: "Hello"}
	h1 := ElementHash(el)
	h2 := ElementHash(el)
	if h1 != h2 {
		t.Errorf("hash not stable: %s != %s", h1, h2)
	}
}

func TestElementHash_IgnoresIndex(t *testing.T) {
	el1 := FlatElement{Slide: 1, Index: 0, Tag: "p", Text: "Hello"}
	el2 := FlatElement{Slide: 1, Index: 7, Tag: "p", Text: "Hello"}
	if ElementHash(el1) != ElementHash(el2) {
		t.Error("hash should not depend on paint index")
	}
}

func TestElementHash_DiffersBySlide(t *testing.T) {
	el1 := FlatElement{Slide: 1, Tag: "p", Text: "Hello"}
	el2 := FlatElement{Slide: 2, Tag: "p", Text: "Hello"}
	if ElementHash(el1) == ElementHash(el2) {
		t.Error("different slides should produce different hashes")
	}
}

func TestDiffElementsByHash_NoChanges(t *testing.T) {
	elements := []FlatElement{
		{Slide: 1, Index: 0, Tag: "p", Text: "OK", Bounds: [4]int{10, 20, 100, 30}},
	}
	diff := DiffElementsByHash(elements, elements)
	if len(diff.Added) != 0 || len(diff.Removed) != 0 || len(diff.Changed) != 0 {
		t.Errorf("expected no differences, got %+v", diff)
	}
	if diff.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged, got %d", diff.UnchangedCount)
	}
}

func TestDiffElementsByHash_AddedRemovedChanged(t *testing.T) {
	prev := []FlatElement{
		{Slide: 1, Index: 0, Tag: "p", Text: "Title", Bounds: [4]int{0, 0, 100, 20}},
		{Slide: 1, Index: 1, Tag: "p", Text: "Old footer"},
	}
	curr := []FlatElement{
		{Slide: 1, Index: 0, Tag: "p", Text: "Title", Bounds: [4]int{0, 10, 100, 20}},
		{Slide: 1, Index: 1, Tag: "svg"},
	}
	diff := DiffElementsByHash(prev, curr)
	if len(diff.Added) != 1 || diff.Added[0].Tag != "svg" {
		t.Errorf("added: got %+v", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].Text != "Old footer" {
		t.Errorf("removed: got %+v", diff.Removed)
	}
	if len(diff.Changed) != 1 {
		t.Fatalf("expected 1 changed, got %d", len(diff.Changed))
	}
	if _, ok := diff.Changed[0].Changes["b"]; !ok {
		t.Errorf("expected bounds change, got %v", diff.Changed[0].Changes)
	}
}

func TestDiffElementsByHash_DuplicatesPairInOrder(t *testing.T) {
	prev := []FlatElement{
		{Slide: 1, Index: 0, Tag: "div", Fill: "ffffff"},
		{Slide: 1, Index: 1, Tag: "div", Fill: "ffffff"},
	}
	curr := []FlatElement{
		{Slide: 1, Index: 0, Tag: "div", Fill: "ffffff"},
	}
	diff := DiffElementsByHash(prev, curr)
	if diff.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged, got %d", diff.UnchangedCount)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].Index != 1 {
		t.Errorf("removed: got %+v", diff.Removed)
	}
}

func TestSaveLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	p := Presentation{Slides: []SlideResult{{
		BackgroundColor: "ff0000",
		SpeakerNote:     "intro",
		Elements:        []ElementAttributes{{TagName: "p", InnerText: "Hi"}},
	}}}
	if err := SaveSnapshot(path, p); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Slides) != 1 || loaded.Slides[0].SpeakerNote != "intro" {
		t.Errorf("unexpected snapshot: %+v", loaded)
	}
	if loaded.Slides[0].Elements[0].InnerText != "Hi" {
		t.Errorf("innerText: got %q", loaded.Slides[0].Elements[0].InnerText)
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}
