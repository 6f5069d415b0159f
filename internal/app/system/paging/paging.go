// internal/app/system/paging/paging.go
package paging

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the number of rows returned by paged list endpoints.
// Keep this as an int because call sites add one and then cast to
// int64 for Mongo Find().SetLimit().
const PageSize = 50

// LimitPlusOne returns PageSize+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasNext).
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// ParseAfter extracts the "after" cursor query parameter. The cursor is
// the hex id of the last row of the previous page; empty means first
// page.
func ParseAfter(r *http.Request) string {
	return query.Get(r, "after")
}

// Trim trims a slice fetched with LimitPlusOne rows down to PageSize.
// It modifies the slice in place and reports whether a further page
// exists.
func Trim[T any](rows *[]T) bool {
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		return true
	}
	return false
}
