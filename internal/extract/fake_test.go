package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/slidescene/internal/dom"
)

// fakeNode is an in-memory element for driving the walker without a browser.
type fakeNode struct {
	tag      string
	id       string
	attrs    map[string]string
	rect     dom.Rect
	style    map[string]string
	text     string
	inner    string
	children []*fakeNode
}

func (n *fakeNode) TagName() string { return n.tag }

func el(tag string, rect dom.Rect, style map[string]string, children ...*fakeNode) *fakeNode {
	return &fakeNode{tag: tag, rect: rect, style: style, children: children}
}

func text(n *fakeNode, s string) *fakeNode {
	n.text = s
	return n
}

// fakeDoc implements dom.Document over fakeNodes and records calls.
type fakeDoc struct {
	root      *fakeNode
	released  int
	snapshots int
	failOn    string
}

func (d *fakeDoc) find(n *fakeNode, id string) *fakeNode {
	if n.id == id {
		return n
	}
	for _, c := range n.children {
		if f := d.find(c, id); f != nil {
			return f
		}
	}
	return nil
}

func (d *fakeDoc) ElementByID(ctx context.Context, id string) (dom.Node, error) {
	if f := d.find(d.root, id); f != nil {
		return f, nil
	}
	return nil, dom.ErrNotFound
}

func (d *fakeDoc) Children(ctx context.Context, n dom.Node) ([]dom.Node, error) {
	fn := n.(*fakeNode)
	out := make([]dom.Node, len(fn.children))
	for i, c := range fn.children {
		out[i] = c
	}
	return out, nil
}

func (d *fakeDoc) Snapshot(ctx context.Context, n dom.Node) (*dom.Snapshot, error) {
	fn := n.(*fakeNode)
	d.snapshots++
	if d.failOn != "" && fn.tag == d.failOn {
		return nil, fmt.Errorf("snapshot of %s failed", fn.tag)
	}
	s := &dom.Snapshot{
		TagName:      fn.tag,
		ID:           fn.id,
		Style:        fn.style,
		Rect:         fn.rect,
		TextContent:  fn.text,
		OnlyText:     len(fn.children) == 0,
		OffsetHeight: fn.rect.Height,
		ScrollHeight: fn.rect.Height,
		ClientHeight: fn.rect.Height,
	}
	if src, ok := fn.attrs["src"]; ok {
		s.Src = src
	}
	return s, nil
}

func (d *fakeDoc) DescendantTags(ctx context.Context, n dom.Node) ([]string, error) {
	var tags []string
	var walk func(*fakeNode)
	walk = func(n *fakeNode) {
		for _, c := range n.children {
			tags = append(tags, c.tag)
			walk(c)
		}
	}
	walk(n.(*fakeNode))
	return tags, nil
}

func (d *fakeDoc) InnerHTML(ctx context.Context, n dom.Node) (string, error) {
	return n.(*fakeNode).inner, nil
}

func (d *fakeDoc) OuterHTML(ctx context.Context, n dom.Node) (string, error) {
	fn := n.(*fakeNode)
	return "<" + fn.tag + ">" + fn.inner + "</" + fn.tag + ">", nil
}

func (d *fakeDoc) AttributeValues(ctx context.Context, n dom.Node, attr string) ([]string, error) {
	var vals []string
	var walk func(*fakeNode)
	walk = func(n *fakeNode) {
		for _, c := range n.children {
			if v, ok := c.attrs[attr]; ok {
				vals = append(vals, v)
			}
			walk(c)
		}
	}
	walk(n.(*fakeNode))
	return vals, nil
}

func (d *fakeDoc) Screenshot(ctx context.Context, n dom.Node) ([]byte, error) {
	return nil, dom.ErrUnsupported
}

func (d *fakeDoc) Isolate(ctx context.Context, n dom.Node) (dom.Restore, error) {
	return func(context.Context) error { return nil }, nil
}

func (d *fakeDoc) Release(ctx context.Context, n dom.Node) error {
	d.released++
	return nil
}

// deckRoot wraps slides the way the presentation page does:
// #root > div > div(slide).
func deckRoot(slides ...*fakeNode) *fakeNode {
	root := &fakeNode{tag: "div", id: "presentation-slides-wrapper", rect: slideRect}
	for _, s := range slides {
		root.children = append(root.children, el("div", slideRect, nil, s))
	}
	return &fakeNode{tag: "body", children: []*fakeNode{root}}
}

var slideRect = dom.Rect{Left: 0, Top: 0, Width: 1280, Height: 720}

func css(pairs ...string) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[strings.TrimSpace(pairs[i])] = pairs[i+1]
	}
	return m
}
