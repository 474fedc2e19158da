// Package raster resolves the elements the extractor flagged for capture:
// vector graphics are serialized and rasterized in-process, canvases and
// tables are screenshotted in isolation. Each success becomes a PNG file
// under the output directory.
package raster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/extract"
	"github.com/mj1618/slidescene/internal/model"
)

// Failure kinds recorded in model.CaptureFailure.
const (
	KindRasterize  = "rasterize"
	KindScreenshot = "screenshot"
	KindSetup      = "setup"
)

// Dispatcher captures flagged elements of one document.
type Dispatcher struct {
	doc        dom.Document
	dir        string
	rasterizer Rasterizer
	iso        isolation
	newName    func() string
	log        *slog.Logger
}

// NewDispatcher returns a Dispatcher writing into dir, which is created on
// first use. A nil rasterizer selects SVGRasterizer.
func NewDispatcher(doc dom.Document, dir string, r Rasterizer) (*Dispatcher, error) {
	if dir == "" {
		return nil, extract.ErrNoOutputDir
	}
	if r == nil {
		r = SVGRasterizer{}
	}
	return &Dispatcher{
		doc:        doc,
		dir:        dir,
		rasterizer: r,
		newName:    func() string { return uuid.NewString() },
		log:        slog.Default(),
	}, nil
}

// WithLogger replaces the logger.
func (d *Dispatcher) WithLogger(l *slog.Logger) *Dispatcher {
	d.log = l
	return d
}

// Capture implements extract.Capturer. Elements are handled one at a time
// in paint order; a failure is recorded and logged, leaves the element
// flagged, and does not stop the others.
func (d *Dispatcher) Capture(ctx context.Context, slide int, result *model.SlideResult, handles *dom.Handles) []model.CaptureFailure {
	var failures []model.CaptureFailure
	fail := func(i int, el *model.ElementAttributes, err error) {
		f := model.CaptureFailure{
			Slide:   slide,
			Index:   i,
			Tag:     el.TagName,
			Kind:    failureKind(err),
			Message: err.Error(),
		}
		d.log.Warn("raster: capture failed", "slide", slide, "index", i, "tag", el.TagName, "kind", f.Kind, "err", err)
		failures = append(failures, f)
	}

	mkdirErr := os.MkdirAll(d.dir, 0o755)
	for i := range result.Elements {
		el := &result.Elements[i]
		if !el.ShouldScreenshot {
			continue
		}
		if mkdirErr != nil {
			fail(i, el, fmt.Errorf("create output directory: %w", mkdirErr))
			continue
		}
		path, err := d.captureOne(ctx, el, handles)
		if err != nil {
			fail(i, el, err)
			continue
		}
		if err := handles.Release(ctx, d.doc, el.CaptureKey); err != nil {
			d.log.Debug("raster: release handle", "key", el.CaptureKey, "err", err)
		}
		el.ImageSrc = path
		el.ObjectFit = "cover"
		el.ShouldScreenshot = false
		el.CaptureKey = 0
		d.log.Debug("raster: captured", "slide", slide, "index", i, "tag", el.TagName, "path", path)
	}
	return failures
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, extract.ErrRasterizeFailed):
		return KindRasterize
	case errors.Is(err, extract.ErrCaptureFailed):
		return KindScreenshot
	default:
		return KindSetup
	}
}

func (d *Dispatcher) captureOne(ctx context.Context, el *model.ElementAttributes, handles *dom.Handles) (string, error) {
	n, ok := handles.Get(el.CaptureKey)
	if !ok {
		return "", extract.Wrap(extract.ErrCaptureFailed, fmt.Errorf("no live handle for <%s>", el.TagName))
	}

	var data []byte
	var err error
	if el.TagName == "svg" {
		data, err = d.rasterizeSVG(ctx, el, n)
	} else {
		data, err = d.screenshot(ctx, n)
	}
	if err != nil {
		return "", err
	}

	path := filepath.ToSlash(filepath.Join(d.dir, d.newName()+".png"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		kind := extract.ErrCaptureFailed
		if el.TagName == "svg" {
			kind = extract.ErrRasterizeFailed
		}
		return "", extract.Wrap(kind, fmt.Errorf("write %s: %w", path, err))
	}
	return path, nil
}

func (d *Dispatcher) rasterizeSVG(ctx context.Context, el *model.ElementAttributes, n dom.Node) ([]byte, error) {
	markup, err := d.doc.OuterHTML(ctx, n)
	if err != nil {
		return nil, extract.Wrap(extract.ErrRasterizeFailed, fmt.Errorf("serialize svg: %w", err))
	}
	var width, height float64
	if el.Position != nil {
		width, height = el.Position.Width, el.Position.Height
	}
	color := ""
	if el.Font != nil {
		color = el.Font.Color
	}
	svg, err := PrepareSVG(ctx, d.log, markup, d.lookup, color, width, height)
	if err != nil {
		return nil, extract.Wrap(extract.ErrRasterizeFailed, err)
	}
	png, err := d.rasterizer.Rasterize(ctx, svg, int(math.Ceil(width)), int(math.Ceil(height)))
	if err != nil {
		return nil, extract.Wrap(extract.ErrRasterizeFailed, err)
	}
	return png, nil
}

// lookup serializes a <use> target from the live document.
func (d *Dispatcher) lookup(ctx context.Context, id string) (string, error) {
	n, err := d.doc.ElementByID(ctx, id)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := d.doc.Release(ctx, n); err != nil {
			d.log.Debug("raster: release handle", "id", id, "err", err)
		}
	}()
	return d.doc.OuterHTML(ctx, n)
}

// screenshot captures n with every unrelated element hidden. The page is
// restored before returning, whatever the outcome.
func (d *Dispatcher) screenshot(ctx context.Context, n dom.Node) ([]byte, error) {
	release, err := d.iso.acquire(ctx, d.doc, n)
	if err != nil {
		return nil, extract.Wrap(extract.ErrCaptureFailed, fmt.Errorf("isolate <%s>: %w", n.TagName(), err))
	}
	defer release(ctx)

	data, shotErr := d.doc.Screenshot(ctx, n)
	restoreErr := release(ctx)
	if shotErr != nil {
		return nil, extract.Wrap(extract.ErrCaptureFailed, shotErr)
	}
	if restoreErr != nil {
		return nil, extract.Wrap(extract.ErrCaptureFailed, fmt.Errorf("restore after capture: %w", restoreErr))
	}
	return data, nil
}

var _ extract.Capturer = (*Dispatcher)(nil)
