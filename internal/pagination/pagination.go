// Package pagination slices ordered collections into fixed-size, 1-based pages.
//
// Every function here is pure. An out-of-range page index is not an error:
// it simply selects nothing, and callers that want clamping use Count.
package pagination

import "math"

// DefaultSize is the page size used by list views when none is requested.
const DefaultSize = 10

// MaxSize caps the page size accepted at API boundaries.
const MaxSize = 100

// Count returns the number of pages needed for total items, never less than one.
// An empty collection still has exactly one, empty, page.
func Count(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return (total-1)/size + 1
}

// Bounds translates a page index into an offset and limit. ok is false when
// the index or size can never select anything, including an offset past
// math.MaxInt.
func Bounds(index, size int) (offset, limit int, ok bool) {
	if index < 1 || size < 1 || index-1 > math.MaxInt/size {
		return 0, 0, false
	}
	return (index - 1) * size, size, true
}

// Window returns items[(index-1)*size : index*size] clipped to the collection.
// The result shares the backing array with items and is never nil.
func Window[T any](items []T, index, size int) []T {
	offset, limit, ok := Bounds(index, size)
	if !ok || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end:end]
}

// Page is one rendered page of a collection.
type Page[T any] struct {
	Items []T `json:"items"`
	Index int `json:"page"`
	Size  int `json:"page_size"`
	Count int `json:"page_count"`
	Total int `json:"total"`
}

// Of paginates a fully materialised collection.
func Of[T any](items []T, index, size int) Page[T] {
	return Page[T]{
		Items: Window(items, index, size),
		Index: index,
		Size:  size,
		Count: Count(len(items), size),
		Total: len(items),
	}
}

// FromTotal wraps a window that was already cut by storage.
func FromTotal[T any](window []T, total, index, size int) Page[T] {
	if window == nil {
		window = []T{}
	}
	return Page[T]{
		Items: window,
		Index: index,
		Size:  size,
		Count: Count(total, size),
		Total: total,
	}
}

// HasNext reports whether a page follows p.
func (p Page[T]) HasNext() bool { return p.Index >= 1 && p.Index < p.Count }

// HasPrev reports whether a page precedes p.
func (p Page[T]) HasPrev() bool { return p.Index > 1 && p.Index <= p.Count }
