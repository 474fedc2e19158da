package dom

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Source names the document a session loads: a page URL or a saved HTML file.
type Source struct {
	URL      string
	HTMLPath string
}

// String returns the URL or file path for logging.
func (s Source) String() string {
	if s.HTMLPath != "" {
		return s.HTMLPath
	}
	return s.URL
}

// Options controls how a backend opens a session.
type Options struct {
	// ExecPath is the browser executable; empty lets the backend search.
	ExecPath string
	// Width and Height are the viewport size in CSS pixels.
	Width, Height int
	// WaitID is an element id the page must contain before the session is
	// returned.
	WaitID string
	// WaitTimeout bounds the wait for WaitID.
	WaitTimeout time.Duration
	// Settle is an extra pause after WaitID appears, for late layout.
	Settle time.Duration
}

// OpenFunc opens a session on src. Backends register one via init().
type OpenFunc func(ctx context.Context, src Source, opts Options) (Session, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[string]OpenFunc)
)

// Register makes a backend available under name. It is meant to be called
// from a backend package's init function.
func Register(name string, fn OpenFunc) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[name] = fn
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens a session with the named backend.
func Open(ctx context.Context, backend string, src Source, opts Options) (Session, error) {
	openersMu.RLock()
	fn := openers[backend]
	openersMu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("%w: unknown backend %q (registered: %v)", ErrUnsupported, backend, Backends())
	}
	return fn(ctx, src, opts)
}
