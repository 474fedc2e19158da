// Package chrome implements dom.Document over a live Chrome tab driven
// through the DevTools protocol.
package chrome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/mj1618/slidescene/internal/dom"
)

// node is a remote object handle to one element.
type node struct {
	id  runtime.RemoteObjectID
	tag string
}

func (n *node) TagName() string { return n.tag }

// Document is a dom.Document bound to one browser tab.
type Document struct {
	tab    context.Context
	cancel context.CancelFunc
}

// NewDocument wraps a chromedp tab context. cancel, if non-nil, is
// called by Close.
func NewDocument(tab context.Context, cancel context.CancelFunc) *Document {
	return &Document{tab: tab, cancel: cancel}
}

// Close shuts the tab and its browser down.
func (d *Document) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	return nil
}

// run executes fn against the tab once ctx is still live.
func (d *Document) run(ctx context.Context, fn chromedp.ActionFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(d.tab, fn)
}

func asNode(n dom.Node) (*node, error) {
	cn, ok := n.(*node)
	if !ok || cn == nil {
		return nil, fmt.Errorf("chrome: foreign node %T", n)
	}
	return cn, nil
}

func exceptionError(exc *runtime.ExceptionDetails) error {
	msg := exc.Text
	if exc.Exception != nil && exc.Exception.Description != "" {
		msg = exc.Exception.Description
	}
	return fmt.Errorf("chrome: script exception: %s", msg)
}

// call runs fn on n and decodes its by-value result into out.
func (d *Document) call(ctx context.Context, n dom.Node, fn string, out any) error {
	cn, err := asNode(n)
	if err != nil {
		return err
	}
	return d.run(ctx, func(ctx context.Context) error {
		res, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(cn.id).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return fmt.Errorf("chrome: call function: %w", err)
		}
		if exc != nil {
			return exceptionError(exc)
		}
		if out == nil || res == nil || len(res.Value) == 0 {
			return nil
		}
		if err := json.Unmarshal([]byte(res.Value), out); err != nil {
			return fmt.Errorf("chrome: decode result: %w", err)
		}
		return nil
	})
}

// object runs fn on n and returns the element it evaluates to as a new
// handle, or dom.ErrNotFound when it evaluates to null.
func (d *Document) object(ctx context.Context, n dom.Node, fn string) (dom.Node, error) {
	cn, err := asNode(n)
	if err != nil {
		return nil, err
	}
	var id runtime.RemoteObjectID
	err = d.run(ctx, func(ctx context.Context) error {
		res, exc, err := runtime.CallFunctionOn(fn).WithObjectID(cn.id).Do(ctx)
		if err != nil {
			return fmt.Errorf("chrome: call function: %w", err)
		}
		if exc != nil {
			return exceptionError(exc)
		}
		if res != nil {
			id = res.ObjectID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, dom.ErrNotFound
	}
	return d.tagged(ctx, id)
}

// tagged builds a node for id, reading its tag name.
func (d *Document) tagged(ctx context.Context, id runtime.RemoteObjectID) (dom.Node, error) {
	n := &node{id: id}
	if err := d.call(ctx, n, tagNameJS, &n.tag); err != nil {
		return nil, err
	}
	return n, nil
}

// ElementByID implements dom.Document.
func (d *Document) ElementByID(ctx context.Context, id string) (dom.Node, error) {
	var objID runtime.RemoteObjectID
	err := d.run(ctx, func(ctx context.Context) error {
		res, exc, err := runtime.Evaluate("document.getElementById(" + jsString(id) + ")").Do(ctx)
		if err != nil {
			return fmt.Errorf("chrome: evaluate: %w", err)
		}
		if exc != nil {
			return exceptionError(exc)
		}
		if res != nil {
			objID = res.ObjectID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if objID == "" {
		return nil, fmt.Errorf("%w: #%s", dom.ErrNotFound, id)
	}
	return d.tagged(ctx, objID)
}

// Children implements dom.Document.
func (d *Document) Children(ctx context.Context, n dom.Node) ([]dom.Node, error) {
	var tags []string
	if err := d.call(ctx, n, childTagsJS, &tags); err != nil {
		return nil, err
	}
	children := make([]dom.Node, 0, len(tags))
	for i := range tags {
		c, err := d.object(ctx, n, fmt.Sprintf(childAtJS, i))
		if errors.Is(err, dom.ErrNotFound) {
			// The child list changed underneath us; keep what we have.
			break
		}
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return children, nil
}

// Snapshot implements dom.Document.
func (d *Document) Snapshot(ctx context.Context, n dom.Node) (*dom.Snapshot, error) {
	var s dom.Snapshot
	if err := d.call(ctx, n, snapshotScript(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DescendantTags implements dom.Document.
func (d *Document) DescendantTags(ctx context.Context, n dom.Node) ([]string, error) {
	var tags []string
	err := d.call(ctx, n, descendantTagsJS, &tags)
	return tags, err
}

// InnerHTML implements dom.Document.
func (d *Document) InnerHTML(ctx context.Context, n dom.Node) (string, error) {
	var s string
	err := d.call(ctx, n, innerHTMLJS, &s)
	return s, err
}

// OuterHTML implements dom.Document.
func (d *Document) OuterHTML(ctx context.Context, n dom.Node) (string, error) {
	var s string
	err := d.call(ctx, n, outerHTMLJS, &s)
	return s, err
}

// AttributeValues implements dom.Document.
func (d *Document) AttributeValues(ctx context.Context, n dom.Node, attr string) ([]string, error) {
	var vals []string
	err := d.call(ctx, n, attributeValuesScript(attr), &vals)
	return vals, err
}

// Screenshot implements dom.Document. The element is clipped from the
// page in document coordinates, so it need not be inside the viewport.
func (d *Document) Screenshot(ctx context.Context, n dom.Node) ([]byte, error) {
	var r dom.Rect
	if err := d.call(ctx, n, pageRectJS, &r); err != nil {
		return nil, err
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("chrome: element <%s> has empty box %vx%v", n.TagName(), r.Width, r.Height)
	}
	var buf []byte
	err := d.run(ctx, func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithClip(&page.Viewport{
				X:      math.Floor(r.Left),
				Y:      math.Floor(r.Top),
				Width:  math.Ceil(r.Width),
				Height: math.Ceil(r.Height),
				Scale:  1,
			}).
			Do(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("chrome: capture screenshot: %w", err)
	}
	return buf, nil
}

// Isolate implements dom.Document. Only one isolation may be active per
// page; a second request fails until the first is restored. The returned
// restore is safe to call more than once.
func (d *Document) Isolate(ctx context.Context, n dom.Node) (dom.Restore, error) {
	var hidden int
	if err := d.call(ctx, n, isolateJS, &hidden); err != nil {
		return nil, fmt.Errorf("chrome: isolate <%s>: %w", n.TagName(), err)
	}
	if hidden < 0 {
		return nil, dom.ErrIsolationActive
	}
	var done bool
	return func(ctx context.Context) error {
		if done {
			return nil
		}
		var restored bool
		err := d.run(ctx, func(ctx context.Context) error {
			res, exc, err := runtime.Evaluate(restoreJS).WithReturnByValue(true).Do(ctx)
			if err != nil {
				return err
			}
			if exc != nil {
				return exceptionError(exc)
			}
			if res != nil && len(res.Value) > 0 {
				return json.Unmarshal([]byte(res.Value), &restored)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("chrome: restore isolation: %w", err)
		}
		done = true
		if !restored {
			return errors.New("chrome: restore isolation: no isolation was active")
		}
		return nil
	}, nil
}

// Release implements dom.Document.
func (d *Document) Release(ctx context.Context, n dom.Node) error {
	cn, err := asNode(n)
	if err != nil {
		return err
	}
	return d.run(ctx, func(ctx context.Context) error {
		return runtime.ReleaseObject(cn.id).Do(ctx)
	})
}

var _ dom.Session = (*Document)(nil)
