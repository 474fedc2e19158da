package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/model"
	"github.com/mj1618/slidescene/internal/style"
)

// skippedTags never produce output.
var skippedTags = map[string]bool{
	"style":  true,
	"script": true,
	"link":   true,
	"meta":   true,
	"path":   true,
}

// rasterTags are captured as one image and not walked into.
var rasterTags = map[string]bool{
	"svg":    true,
	"canvas": true,
	"table":  true,
}

// inlineTags are the formatting tags a paragraph may contain and still be
// emitted as a single text leaf.
var inlineTags = map[string]bool{
	"strong": true,
	"u":      true,
	"em":     true,
	"code":   true,
	"s":      true,
}

// entry is one walked element and its nesting depth relative to the slide.
type entry struct {
	attrs *model.ElementAttributes
	depth int
}

// walker visits one slide. Handles for elements pending capture are kept
// in handles; every other child handle is released once visited.
type walker struct {
	doc     dom.Document
	frame   Frame
	handles *dom.Handles
	log     *slog.Logger
}

// walk visits the direct children of n and returns them, each followed by
// its own descendants, tagged with depth.
func (w *walker) walk(ctx context.Context, n dom.Node, depth int, in Inherited) ([]entry, error) {
	children, err := w.doc.Children(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("list children of <%s>: %w", n.TagName(), err)
	}

	var out []entry
	for i, child := range children {
		held, err := w.visit(ctx, child, depth, in, &out)
		if !held {
			w.release(ctx, child)
		}
		if err != nil {
			for _, rest := range children[i+1:] {
				w.release(ctx, rest)
			}
			return nil, err
		}
	}
	return out, nil
}

// visit processes one child, appending its entries to out. It reports
// whether the child's handle was kept for capture.
func (w *walker) visit(ctx context.Context, child dom.Node, depth int, in Inherited, out *[]entry) (bool, error) {
	tag := child.TagName()
	if skippedTags[tag] {
		w.log.Debug("extract: skip", "tag", tag)
		return false, nil
	}

	snap, err := w.doc.Snapshot(ctx, child)
	if err != nil {
		return false, fmt.Errorf("snapshot <%s>: %w", tag, err)
	}
	attrs := style.Decode(snap)
	in.Apply(attrs)
	attrs.Position = w.frame.Reduce(attrs.Position)
	if !Renderable(attrs.Position) {
		return false, nil
	}

	if attrs.TagName == "p" {
		collapsed, err := w.collapseParagraph(ctx, child, attrs)
		if err != nil {
			return false, err
		}
		if collapsed {
			*out = append(*out, entry{attrs: attrs, depth: depth})
			return false, nil
		}
	}

	if rasterTags[attrs.TagName] {
		attrs.ShouldScreenshot = true
		attrs.CaptureKey = w.handles.Hold(child)
		w.log.Debug("extract: flagged for capture", "tag", attrs.TagName, "key", attrs.CaptureKey)
		*out = append(*out, entry{attrs: attrs, depth: depth})
		return true, nil
	}

	*out = append(*out, entry{attrs: attrs, depth: depth})

	nested, err := w.walk(ctx, child, depth+1, in.Descend(attrs))
	if err != nil {
		return false, err
	}
	for _, e := range nested {
		*out = append(*out, entry{attrs: e.attrs, depth: depth + 1})
	}
	return false, nil
}

// collapseParagraph turns a paragraph whose only descendants are inline
// formatting tags into one text leaf carrying its inner markup.
func (w *walker) collapseParagraph(ctx context.Context, p dom.Node, attrs *model.ElementAttributes) (bool, error) {
	tags, err := w.doc.DescendantTags(ctx, p)
	if err != nil {
		return false, fmt.Errorf("descendants of <p>: %w", err)
	}
	if len(tags) == 0 {
		return false, nil
	}
	for _, t := range tags {
		if !inlineTags[t] {
			return false, nil
		}
	}
	inner, err := w.doc.InnerHTML(ctx, p)
	if err != nil {
		return false, fmt.Errorf("inner markup of <p>: %w", err)
	}
	attrs.InnerText = inner
	w.log.Debug("extract: collapsed paragraph", "inline", tags)
	return true, nil
}

func (w *walker) release(ctx context.Context, n dom.Node) {
	if err := w.doc.Release(ctx, n); err != nil {
		w.log.Debug("extract: release handle", "tag", n.TagName(), "err", err)
	}
}
