// internal/app/system/paging/paging.go

// Package paging implements the console's "show more" list model: ranked
// lists are revealed in fixed pages of 15 rows, and each request fetches
// the next page by 1-based start index.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the number of rows revealed per "show more" step.
const PageSize = 15

// ParseStart extracts the 1-based "start" query parameter.
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Window describes the slice a page call returned.
type Window struct {
	Start   int  // 1-based index of the first row returned (0 if none)
	End     int  // 1-based index of the last row returned (0 if none)
	Total   int  // size of the full list
	HasMore bool // true when rows beyond End exist
}

// Slice returns the page of rows beginning at the 1-based start index.
// Out-of-range starts return an empty page rather than an error.
func Slice[T any](rows []T, start int) ([]T, Window) {
	total := len(rows)
	if start < 1 {
		start = 1
	}
	lo := start - 1
	if lo >= total {
		return nil, Window{Total: total}
	}
	hi := lo + PageSize
	if hi > total {
		hi = total
	}
	page := rows[lo:hi]
	return page, Window{
		Start:   lo + 1,
		End:     hi,
		Total:   total,
		HasMore: hi < total,
	}
}
