// Package static implements dom.Document over a saved HTML snapshot,
// without a browser. Layout comes from data-rect attributes or inline
// absolute pixel styles, and computed style from inline declarations
// over browser defaults. Element capture is not supported.
package static

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/mj1618/slidescene/internal/dom"
)

func init() {
	dom.Register("static", Open)
}

type node struct{ n *html.Node }

func (n *node) TagName() string { return strings.ToLower(n.n.Data) }

// Document is a parsed HTML document.
type Document struct {
	root     *html.Node
	isolated bool
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("static: parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// Open loads src.HTMLPath. URLs are not supported.
func Open(ctx context.Context, src dom.Source, opts dom.Options) (dom.Session, error) {
	if src.HTMLPath == "" {
		return nil, fmt.Errorf("%w: static backend needs an HTML file, got %q", dom.ErrUnsupported, src.URL)
	}
	f, err := os.Open(src.HTMLPath)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if opts.WaitID != "" {
		if _, err := doc.ElementByID(ctx, opts.WaitID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Close implements dom.Session.
func (d *Document) Close() error { return nil }

func htmlNode(n dom.Node) (*html.Node, error) {
	sn, ok := n.(*node)
	if !ok || sn == nil {
		return nil, fmt.Errorf("static: foreign node %T", n)
	}
	return sn.n, nil
}

// below returns the matches of sel under n, excluding n itself.
func below(n *html.Node, sel cascadia.Selector) []*html.Node {
	var out []*html.Node
	for _, m := range sel.MatchAll(n) {
		if m != n {
			out = append(out, m)
		}
	}
	return out
}

var anyElement = cascadia.MustCompile("*")

// ElementByID implements dom.Document.
func (d *Document) ElementByID(ctx context.Context, id string) (dom.Node, error) {
	sel, err := cascadia.Compile("[id=" + strconv.Quote(id) + "]")
	if err != nil {
		return nil, fmt.Errorf("static: id selector %q: %w", id, err)
	}
	m := sel.MatchFirst(d.root)
	if m == nil {
		return nil, fmt.Errorf("%w: #%s", dom.ErrNotFound, id)
	}
	return &node{n: m}, nil
}

// Children implements dom.Document.
func (d *Document) Children(ctx context.Context, n dom.Node) ([]dom.Node, error) {
	hn, err := htmlNode(n)
	if err != nil {
		return nil, err
	}
	var out []dom.Node
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &node{n: c})
		}
	}
	return out, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// onlyText reports whether n has no element children. Comments do not
// count.
func onlyText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}

// Snapshot implements dom.Document.
func (d *Document) Snapshot(ctx context.Context, n dom.Node) (*dom.Snapshot, error) {
	hn, err := htmlNode(n)
	if err != nil {
		return nil, err
	}
	r := rect(hn)
	s := &dom.Snapshot{
		TagName:      strings.ToLower(hn.Data),
		Style:        computedStyle(hn),
		Rect:         r,
		TextContent:  textContent(hn),
		OnlyText:     onlyText(hn),
		OffsetHeight: r.Height,
		ScrollHeight: r.Height,
		ClientHeight: r.Height,
	}
	s.ID, _ = attr(hn, "id")
	s.ClassName, _ = attr(hn, "class")
	s.Src, _ = attr(hn, "src")
	return s, nil
}

// DescendantTags implements dom.Document.
func (d *Document) DescendantTags(ctx context.Context, n dom.Node) ([]string, error) {
	hn, err := htmlNode(n)
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, m := range below(hn, anyElement) {
		tags = append(tags, strings.ToLower(m.Data))
	}
	return tags, nil
}

// InnerHTML implements dom.Document.
func (d *Document) InnerHTML(ctx context.Context, n dom.Node) (string, error) {
	hn, err := htmlNode(n)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("static: render: %w", err)
		}
	}
	return buf.String(), nil
}

// OuterHTML implements dom.Document.
func (d *Document) OuterHTML(ctx context.Context, n dom.Node) (string, error) {
	hn, err := htmlNode(n)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, hn); err != nil {
		return "", fmt.Errorf("static: render: %w", err)
	}
	return buf.String(), nil
}

// AttributeValues implements dom.Document.
func (d *Document) AttributeValues(ctx context.Context, n dom.Node, name string) ([]string, error) {
	hn, err := htmlNode(n)
	if err != nil {
		return nil, err
	}
	sel, err := cascadia.Compile("[" + strings.TrimSpace(name) + "]")
	if err != nil {
		return nil, fmt.Errorf("static: attribute selector %q: %w", name, err)
	}
	var vals []string
	for _, m := range below(hn, sel) {
		v, _ := attr(m, name)
		vals = append(vals, v)
	}
	return vals, nil
}

// Screenshot implements dom.Document. A snapshot has no pixels.
func (d *Document) Screenshot(ctx context.Context, n dom.Node) ([]byte, error) {
	return nil, fmt.Errorf("%w: screenshot of <%s>", dom.ErrUnsupported, n.TagName())
}

// Isolate implements dom.Document. Nothing is painted, so isolation only
// tracks that restores happen before the next isolation.
func (d *Document) Isolate(ctx context.Context, n dom.Node) (dom.Restore, error) {
	if d.isolated {
		return nil, dom.ErrIsolationActive
	}
	d.isolated = true
	var done bool
	return func(context.Context) error {
		if !done {
			done = true
			d.isolated = false
		}
		return nil
	}, nil
}

// Release implements dom.Document.
func (d *Document) Release(ctx context.Context, n dom.Node) error { return nil }

var _ dom.Session = (*Document)(nil)
