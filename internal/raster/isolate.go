package raster

import (
	"context"

	"github.com/mj1618/slidescene/internal/dom"
)

// isolation hands out at most one active isolation at a time.
type isolation struct {
	active bool
}

// acquire isolates n and returns the release function, which restores the
// page and must run on every exit path. Release is idempotent and runs
// even if ctx has been cancelled.
func (g *isolation) acquire(ctx context.Context, doc dom.Document, n dom.Node) (func(context.Context) error, error) {
	if g.active {
		return nil, dom.ErrIsolationActive
	}
	restore, err := doc.Isolate(ctx, n)
	if err != nil {
		return nil, err
	}
	g.active = true
	released := false
	return func(ctx context.Context) error {
		if released {
			return nil
		}
		released = true
		g.active = false
		return restore(context.WithoutCancel(ctx))
	}, nil
}
