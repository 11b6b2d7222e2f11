// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the number of rows in one page of a feed or interaction
// list. List pipelines compute total/page/pages against this size and
// window the sorted set with $skip/$limit.
const PageSize = 10

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Pages returns ceil(total/pageSize) for the meta envelope.
// Zero total yields zero pages.
func Pages(total int64, pageSize int) int64 {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// Skip returns the number of rows before the requested page window.
func Skip(page, pageSize int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * int64(pageSize)
}
