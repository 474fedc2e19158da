package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mj1618/slidescene/internal/config"
	"github.com/mj1618/slidescene/internal/dom"
	_ "github.com/mj1618/slidescene/internal/dom/chrome"
	_ "github.com/mj1618/slidescene/internal/dom/static"
	"github.com/mj1618/slidescene/internal/extract"
	"github.com/mj1618/slidescene/internal/model"
	"github.com/mj1618/slidescene/internal/raster"
)

// Request identifies one extraction: where the deck lives and which dom
// backend renders it.
type Request struct {
	Source  dom.Source
	Backend string
}

// Runner performs extractions with a fixed configuration.
type Runner struct {
	cfg config.Config
	log *slog.Logger
}

// NewRunner validates cfg and returns a Runner.
func NewRunner(cfg config.Config, log *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg, log: log}, nil
}

// Config returns the runner's configuration.
func (r *Runner) Config() config.Config { return r.cfg }

// Request builds a request for a presentation id, a page URL or a local
// HTML file. The first non-empty of htmlPath, url and id wins.
func (r *Runner) Request(id, url, htmlPath, backend string) (Request, error) {
	req := Request{Backend: backend}
	switch {
	case htmlPath != "":
		req.Source.HTMLPath = htmlPath
		if backend == "" {
			req.Backend = "static"
		}
	case url != "":
		req.Source.URL = url
	case id != "":
		req.Source.URL = r.cfg.PresentationURL(id)
	default:
		return req, fmt.Errorf("one of id, url or html is required")
	}
	if req.Backend == "" {
		req.Backend = r.cfg.Backend
	}
	return req, nil
}

// Run opens the deck, extracts every slide and resolves captures. The
// page timeout bounds the whole run.
func (r *Runner) Run(ctx context.Context, req Request) (*model.Presentation, error) {
	if r.cfg.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.PageTimeout)
		defer cancel()
	}

	r.log.Debug("server: opening deck", "source", req.Source.String(), "backend", req.Backend)
	sess, err := dom.Open(ctx, req.Backend, req.Source, dom.Options{
		ExecPath:    r.cfg.ChromePath,
		Width:       r.cfg.ViewportWidth,
		Height:      r.cfg.ViewportHeight,
		WaitID:      r.cfg.RootID,
		WaitTimeout: r.cfg.RootWait,
		Settle:      r.cfg.Settle,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", req.Source, err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			r.log.Debug("server: close session", "err", err)
		}
	}()

	disp, err := raster.NewDispatcher(sess, r.cfg.OutputDir, raster.SVGRasterizer{Scale: r.cfg.RasterScale})
	if err != nil {
		return nil, err
	}
	disp.WithLogger(r.log)

	ex := extract.New(sess, extract.Options{
		RootID:        r.cfg.RootID,
		NoteAttribute: r.cfg.NoteAttribute,
		Width:         float64(r.cfg.ViewportWidth),
		Height:        float64(r.cfg.ViewportHeight),
	}, disp).WithLogger(r.log)
	return ex.Run(ctx)
}
