// Package dom defines the view of a rendered document that extraction
// works against: direct-child enumeration, one-shot computed style and
// geometry snapshots, markup serialization, element capture and
// opacity-based isolation. Backends live in the chrome and static
// subpackages.
package dom

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a queried element does not exist.
	ErrNotFound = errors.New("dom: element not found")

	// ErrUnsupported is returned by backends that cannot perform an operation.
	ErrUnsupported = errors.New("dom: operation not supported by this backend")

	// ErrIsolationActive is returned when an isolation is requested while
	// another one has not been restored yet.
	ErrIsolationActive = errors.New("dom: another isolation is still active")
)

// Node is a live handle to one element of a rendered document.
type Node interface {
	// TagName returns the lowercase tag name.
	TagName() string
}

// Restore undoes an isolation. It must be called on every exit path.
type Restore func(ctx context.Context) error

// Document is a rendered, laid-out document. Every method may cross into
// the rendering process; callers issue them one at a time.
type Document interface {
	// ElementByID returns the element with the given id or ErrNotFound.
	ElementByID(ctx context.Context, id string) (Node, error)

	// Children returns the direct element children of n in document order.
	Children(ctx context.Context, n Node) ([]Node, error)

	// Snapshot reads the computed style and geometry of n.
	Snapshot(ctx context.Context, n Node) (*Snapshot, error)

	// DescendantTags returns the lowercase tag names of every element
	// below n (not n itself) in document order.
	DescendantTags(ctx context.Context, n Node) ([]string, error)

	// InnerHTML and OuterHTML serialize markup.
	InnerHTML(ctx context.Context, n Node) (string, error)
	OuterHTML(ctx context.Context, n Node) (string, error)

	// AttributeValues returns the value of attr on every element below n
	// carrying it, in document order.
	AttributeValues(ctx context.Context, n Node, attr string) ([]string, error)

	// Screenshot captures the rendered pixels of n as PNG.
	Screenshot(ctx context.Context, n Node) ([]byte, error)

	// Isolate hides every element that is neither n, inside n, nor an
	// ancestor of n, and returns the function restoring the previous state.
	Isolate(ctx context.Context, n Node) (Restore, error)

	// Release drops a handle the caller no longer needs.
	Release(ctx context.Context, n Node) error
}

// Session is a Document bound to resources that must be closed.
type Session interface {
	Document
	Close() error
}
