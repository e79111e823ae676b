package repository

import "github.com/maxviazov/composer-workspace-service/internal/pagination"

// Page selects one 1-based page of a listing. Storage applies the same
// window as pagination.Window, so an index past the end yields no items
// while Total still reports the full count.
type Page struct {
	Index int
	Size  int
}

// Bounds returns the SQL-style offset and limit for p.
func (p Page) Bounds() (offset, limit int, ok bool) {
	return pagination.Bounds(p.Index, p.Size)
}

// PageResult carries a slice of items and the total count matching the query.
// I return the total so clients can compute pagination without an extra round trip.
type PageResult[T any] struct {
	Items []T
	Total int
}
