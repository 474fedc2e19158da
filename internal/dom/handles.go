package dom

import "context"

// Handles is a side table of live element handles keyed by a synthetic
// index, so result records never embed a live handle. Keys start at 1.
type Handles struct {
	next  int
	nodes map[int]Node
}

// NewHandles returns an empty table.
func NewHandles() *Handles {
	return &Handles{nodes: make(map[int]Node)}
}

// Hold stores n and returns its key.
func (h *Handles) Hold(n Node) int {
	h.next++
	h.nodes[h.next] = n
	return h.next
}

// Get returns the handle stored under key.
func (h *Handles) Get(key int) (Node, bool) {
	n, ok := h.nodes[key]
	return n, ok
}

// Release removes key from the table and releases its handle in doc.
func (h *Handles) Release(ctx context.Context, doc Document, key int) error {
	n, ok := h.nodes[key]
	if !ok {
		return nil
	}
	delete(h.nodes, key)
	return doc.Release(ctx, n)
}

// ReleaseAll releases every handle still held. The first error is returned
// after all handles have been dropped.
func (h *Handles) ReleaseAll(ctx context.Context, doc Document) error {
	var first error
	for key := range h.nodes {
		if err := h.Release(ctx, doc, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Len returns the number of held handles.
func (h *Handles) Len() int {
	return len(h.nodes)
}
