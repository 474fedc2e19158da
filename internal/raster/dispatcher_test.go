package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/extract"
	"github.com/mj1618/slidescene/internal/model"
)

type stubNode struct {
	tag   string
	outer string
}

func (n *stubNode) TagName() string { return n.tag }

// stubDoc serves markup and screenshots for stubNodes and tracks isolation.
type stubDoc struct {
	byID      map[string]*stubNode
	shotErr   map[string]error
	isolated  int
	maxActive int
	active    int
	restores  int
	released  int
}

func (d *stubDoc) ElementByID(ctx context.Context, id string) (dom.Node, error) {
	if n, ok := d.byID[id]; ok {
		return n, nil
	}
	return nil, dom.ErrNotFound
}
func (d *stubDoc) Children(context.Context, dom.Node) ([]dom.Node, error) { return nil, nil }
func (d *stubDoc) Snapshot(context.Context, dom.Node) (*dom.Snapshot, error) {
	return nil, dom.ErrUnsupported
}
func (d *stubDoc) DescendantTags(context.Context, dom.Node) ([]string, error) { return nil, nil }
func (d *stubDoc) InnerHTML(context.Context, dom.Node) (string, error)        { return "", nil }
func (d *stubDoc) OuterHTML(ctx context.Context, n dom.Node) (string, error) {
	return n.(*stubNode).outer, nil
}
func (d *stubDoc) AttributeValues(context.Context, dom.Node, string) ([]string, error) {
	return nil, nil
}
func (d *stubDoc) Screenshot(ctx context.Context, n dom.Node) ([]byte, error) {
	if d.active != 1 {
		return nil, fmt.Errorf("screenshot without isolation (active=%d)", d.active)
	}
	if err := d.shotErr[n.TagName()]; err != nil {
		return nil, err
	}
	return []byte("png:" + n.TagName()), nil
}
func (d *stubDoc) Isolate(ctx context.Context, n dom.Node) (dom.Restore, error) {
	d.isolated++
	d.active++
	if d.active > d.maxActive {
		d.maxActive = d.active
	}
	return func(context.Context) error {
		d.active--
		d.restores++
		return nil
	}, nil
}
func (d *stubDoc) Release(context.Context, dom.Node) error {
	d.released++
	return nil
}

type stubRasterizer struct {
	svg []string
	err error
}

func (r *stubRasterizer) Rasterize(ctx context.Context, svg []byte, w, h int) ([]byte, error) {
	r.svg = append(r.svg, string(svg))
	if r.err != nil {
		return nil, r.err
	}
	return []byte(fmt.Sprintf("png:%dx%d", w, h)), nil
}

func flagged(tag string, handles *dom.Handles, n dom.Node) model.ElementAttributes {
	return model.ElementAttributes{
		TagName:          tag,
		Position:         &model.Position{Width: 32, Height: 16},
		ShouldScreenshot: true,
		CaptureKey:       handles.Hold(n),
	}
}

func TestNewDispatcher_NoOutputDir(t *testing.T) {
	_, err := NewDispatcher(&stubDoc{}, "", nil)
	assert.ErrorIs(t, err, extract.ErrNoOutputDir)
}

func TestCapture_IsolatesFailures(t *testing.T) {
	doc := &stubDoc{
		byID: map[string]*stubNode{
			"dot": {tag: "symbol", outer: `<symbol id="dot"><circle r="2"></circle></symbol>`},
		},
		shotErr: map[string]error{"table": errors.New("target closed")},
	}
	dir := filepath.Join(t.TempDir(), "screenshots")
	r := &stubRasterizer{}
	d, err := NewDispatcher(doc, dir, r)
	require.NoError(t, err)
	names := 0
	d.newName = func() string { names++; return fmt.Sprintf("img-%d", names) }

	handles := dom.NewHandles()
	svg := &stubNode{tag: "svg", outer: `<svg width="32" height="16"><use href="#dot"></use></svg>`}
	table := &stubNode{tag: "table"}
	canvas := &stubNode{tag: "canvas"}
	result := &model.SlideResult{Elements: []model.ElementAttributes{
		flagged("svg", handles, svg),
		{TagName: "p", InnerText: "untouched"},
		flagged("table", handles, table),
		flagged("canvas", handles, canvas),
	}}
	result.Elements[0].Font = &model.Font{Color: "00ff00"}

	failures := d.Capture(context.Background(), 3, result, handles)

	require.Len(t, failures, 1)
	assert.Equal(t, model.CaptureFailure{
		Slide: 3, Index: 2, Tag: "table", Kind: KindScreenshot,
		Message: "screenshot capture failed: target closed",
	}, failures[0])

	els := result.Elements
	assert.False(t, els[0].ShouldScreenshot)
	assert.Equal(t, dir+"/img-1.png", els[0].ImageSrc)
	assert.True(t, els[2].ShouldScreenshot, "failed element stays flagged")
	assert.Empty(t, els[2].ImageSrc)
	assert.False(t, els[3].ShouldScreenshot)
	assert.Equal(t, dir+"/img-2.png", els[3].ImageSrc)
	assert.Equal(t, "cover", els[3].ObjectFit)
	assert.Empty(t, els[2].ObjectFit)
	assert.Equal(t, "untouched", els[1].InnerText)

	data, err := os.ReadFile(els[3].ImageSrc)
	require.NoError(t, err)
	assert.Equal(t, "png:canvas", string(data))
	data, err = os.ReadFile(els[0].ImageSrc)
	require.NoError(t, err)
	assert.Equal(t, "png:32x16", string(data))

	require.Len(t, r.svg, 1)
	assert.Contains(t, r.svg[0], "<circle")
	assert.NotContains(t, r.svg[0], "<use")

	assert.Equal(t, 2, doc.isolated)
	assert.Equal(t, 2, doc.restores, "every isolation is restored, including the failed one")
	assert.Equal(t, 1, doc.maxActive, "isolations never overlap")
	assert.Equal(t, 1, handles.Len(), "only the failed element keeps its handle")
}

func TestCapture_RasterizeFailure(t *testing.T) {
	doc := &stubDoc{}
	d, err := NewDispatcher(doc, t.TempDir(), &stubRasterizer{err: errors.New("bad path data")})
	require.NoError(t, err)

	handles := dom.NewHandles()
	result := &model.SlideResult{Elements: []model.ElementAttributes{
		flagged("svg", handles, &stubNode{tag: "svg", outer: `<svg viewBox="0 0 1 1"></svg>`}),
	}}
	failures := d.Capture(context.Background(), 0, result, handles)
	require.Len(t, failures, 1)
	assert.Equal(t, KindRasterize, failures[0].Kind)
	assert.True(t, strings.HasPrefix(failures[0].Message, "vector graphic rasterization failed"))
	assert.True(t, result.Elements[0].ShouldScreenshot)
}

func TestCapture_MissingHandle(t *testing.T) {
	d, err := NewDispatcher(&stubDoc{}, t.TempDir(), &stubRasterizer{})
	require.NoError(t, err)
	result := &model.SlideResult{Elements: []model.ElementAttributes{
		{TagName: "canvas", ShouldScreenshot: true, CaptureKey: 42},
	}}
	failures := d.Capture(context.Background(), 0, result, dom.NewHandles())
	require.Len(t, failures, 1)
	assert.Equal(t, KindScreenshot, failures[0].Kind)
}

func TestCapture_WriteFailureKind(t *testing.T) {
	doc := &stubDoc{}
	d, err := NewDispatcher(doc, t.TempDir(), &stubRasterizer{})
	require.NoError(t, err)
	d.newName = func() string { return "missing/dir/img" }

	handles := dom.NewHandles()
	result := &model.SlideResult{Elements: []model.ElementAttributes{
		flagged("svg", handles, &stubNode{tag: "svg", outer: `<svg viewBox="0 0 1 1"></svg>`}),
		flagged("canvas", handles, &stubNode{tag: "canvas"}),
	}}
	failures := d.Capture(context.Background(), 1, result, handles)
	require.Len(t, failures, 2)
	assert.Equal(t, KindRasterize, failures[0].Kind)
	assert.Equal(t, KindScreenshot, failures[1].Kind)
	assert.Contains(t, failures[1].Message, "write ")
	assert.True(t, result.Elements[0].ShouldScreenshot)
	assert.True(t, result.Elements[1].ShouldScreenshot)
	assert.Equal(t, 1, doc.restores, "the page is restored even when the write fails")
}

func TestIsolationGuard(t *testing.T) {
	doc := &stubDoc{}
	var g isolation
	n := &stubNode{tag: "canvas"}

	release, err := g.acquire(context.Background(), doc, n)
	require.NoError(t, err)
	_, err = g.acquire(context.Background(), doc, n)
	assert.ErrorIs(t, err, dom.ErrIsolationActive)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))
	assert.Equal(t, 1, doc.restores, "release is idempotent")

	release2, err := g.acquire(context.Background(), doc, n)
	require.NoError(t, err)
	require.NoError(t, release2(context.Background()))
}
