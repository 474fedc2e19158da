// Package extract walks the slides of a rendered presentation and reduces
// each to a flat, paint-ordered list of style-resolved elements.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/model"
	"github.com/mj1618/slidescene/internal/style"
)

// Options configures an extraction run.
type Options struct {
	// RootID is the id of the container whose div > div children are slides.
	RootID string
	// NoteAttribute names the attribute carrying speaker notes.
	NoteAttribute string
	// Width and Height are the slide size assumed when a slide root has
	// no usable box.
	Width, Height float64
}

// Capturer resolves the elements of a slide that are flagged for capture.
// It returns the failures; failed elements stay flagged.
type Capturer interface {
	Capture(ctx context.Context, slide int, result *model.SlideResult, handles *dom.Handles) []model.CaptureFailure
}

// Extractor runs the slide walk against one document.
type Extractor struct {
	doc      dom.Document
	opts     Options
	capturer Capturer
	log      *slog.Logger
}

// New returns an Extractor. capturer may be nil, in which case flagged
// elements are returned unresolved.
func New(doc dom.Document, opts Options, capturer Capturer) *Extractor {
	return &Extractor{doc: doc, opts: opts, capturer: capturer, log: slog.Default()}
}

// WithLogger replaces the logger.
func (e *Extractor) WithLogger(l *slog.Logger) *Extractor {
	e.log = l
	return e
}

type walkedSlide struct {
	result  model.SlideResult
	handles *dom.Handles
}

// Run extracts every slide, then resolves captures slide by slide and
// attaches speaker notes in document order. Any error before the capture
// phase aborts the whole run.
func (e *Extractor) Run(ctx context.Context) (*model.Presentation, error) {
	start := time.Now()
	root, err := e.doc.ElementByID(ctx, e.opts.RootID)
	if err != nil {
		if errors.Is(err, dom.ErrNotFound) {
			return nil, Wrap(ErrRootNotFound, err)
		}
		return nil, fmt.Errorf("find root #%s: %w", e.opts.RootID, err)
	}
	defer e.release(ctx, root)

	var notes []string
	if e.opts.NoteAttribute != "" {
		notes, err = e.doc.AttributeValues(ctx, root, e.opts.NoteAttribute)
		if err != nil {
			return nil, fmt.Errorf("read speaker notes: %w", err)
		}
	}

	slides, err := e.slideNodes(ctx, root)
	if err != nil {
		return nil, err
	}
	e.log.Info("extract: found slides", "slides", len(slides), "notes", len(notes))

	walked := make([]walkedSlide, 0, len(slides))
	releaseWalked := func() {
		for _, w := range walked {
			if err := w.handles.ReleaseAll(ctx, e.doc); err != nil {
				e.log.Debug("extract: release handles", "err", err)
			}
		}
	}
	for i, s := range slides {
		slideStart := time.Now()
		result, handles, err := e.ExtractSlide(ctx, s)
		e.release(ctx, s)
		if err != nil {
			for _, rest := range slides[i+1:] {
				e.release(ctx, rest)
			}
			releaseWalked()
			return nil, fmt.Errorf("slide %d: %w", i, err)
		}
		walked = append(walked, walkedSlide{result: result, handles: handles})
		logStats(e.log, i, result, time.Since(slideStart))
	}

	p := &model.Presentation{Slides: make([]model.SlideResult, 0, len(walked))}
	for i := range walked {
		w := &walked[i]
		if e.capturer != nil && w.handles.Len() > 0 {
			failures := e.capturer.Capture(ctx, i, &w.result, w.handles)
			p.CaptureFailures = append(p.CaptureFailures, failures...)
		}
		if err := w.handles.ReleaseAll(ctx, e.doc); err != nil {
			e.log.Debug("extract: release handles", "slide", i, "err", err)
		}
		if i < len(notes) {
			w.result.SpeakerNote = notes[i]
		}
		p.Slides = append(p.Slides, w.result)
	}

	e.log.Info("extract: done",
		"slides", len(p.Slides),
		"capture_failures", len(p.CaptureFailures),
		"elapsed_ms", time.Since(start).Milliseconds())
	return p, nil
}

// slideNodes returns the slide roots: the div children of the root's div
// children, in document order.
func (e *Extractor) slideNodes(ctx context.Context, root dom.Node) ([]dom.Node, error) {
	wrappers, err := e.doc.Children(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list slide wrappers: %w", err)
	}
	var slides []dom.Node
	for _, w := range wrappers {
		if w.TagName() != "div" {
			e.release(ctx, w)
			continue
		}
		kids, err := e.doc.Children(ctx, w)
		e.release(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("list slides: %w", err)
		}
		for _, k := range kids {
			if k.TagName() == "div" {
				slides = append(slides, k)
			} else {
				e.release(ctx, k)
			}
		}
	}
	return slides, nil
}

// ExtractSlide walks one slide root. The returned handles hold the live
// elements flagged for capture; the caller must release them.
func (e *Extractor) ExtractSlide(ctx context.Context, slide dom.Node) (model.SlideResult, *dom.Handles, error) {
	snap, err := e.doc.Snapshot(ctx, slide)
	if err != nil {
		return model.SlideResult{}, nil, fmt.Errorf("snapshot slide root: %w", err)
	}
	root := style.Decode(snap)
	frame := NewFrame(root.Position, e.opts.Width, e.opts.Height)

	w := &walker{doc: e.doc, frame: frame, handles: dom.NewHandles(), log: e.log}
	entries, err := w.walk(ctx, slide, 0, Seed(root))
	if err != nil {
		if rerr := w.handles.ReleaseAll(ctx, e.doc); rerr != nil {
			e.log.Debug("extract: release handles", "err", rerr)
		}
		return model.SlideResult{}, nil, err
	}
	return reduceSlide(entries, frame, root.BackgroundColor()), w.handles, nil
}

func (e *Extractor) release(ctx context.Context, n dom.Node) {
	if err := e.doc.Release(ctx, n); err != nil {
		e.log.Debug("extract: release handle", "tag", n.TagName(), "err", err)
	}
}

// logStats writes the per-slide summary: element count, tag histogram,
// pending captures and elapsed time.
func logStats(log *slog.Logger, slide int, r model.SlideResult, elapsed time.Duration) {
	counts := make(map[string]int)
	pending := 0
	for _, el := range r.Elements {
		counts[el.TagName]++
		if el.ShouldScreenshot {
			pending++
		}
	}
	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	hist := make([]string, len(tags))
	for i, t := range tags {
		hist[i] = fmt.Sprintf("%s:%d", t, counts[t])
	}

	log.Info("extract: slide done",
		"slide", slide,
		"elements", len(r.Elements),
		"tags", strings.Join(hist, " "),
		"svg", counts["svg"],
		"table", counts["table"],
		"canvas", counts["canvas"],
		"pending_captures", pending,
		"background", r.BackgroundColor,
		"elapsed_ms", elapsed.Milliseconds())
}
