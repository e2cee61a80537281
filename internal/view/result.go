package view

import (
	"fmt"

	"github.com/leengari/viewdash/internal/domain/data"
)

// Result is the materialized page of a view plus its pagination metadata.
// It is derived on every call and owned by the caller; its rows are copies, so
// editing them never reaches the table.
type Result struct {
	Columns    []string   `json:"columns"`
	Rows       []data.Row `json:"rows"`
	TotalRows  int        `json:"total_rows"`
	TotalPages int        `json:"total_pages"`
	Page       int        `json:"page"`      // effective page after clamping
	PageSize   int        `json:"page_size"` // validated page size
	FirstRow   int        `json:"first_row"` // 1-based, 0 when the page is empty
	LastRow    int        `json:"last_row"`  // 1-based, 0 when the page is empty
}

// HasNext reports whether a later page exists
func (r *Result) HasNext() bool {
	return r.Page < r.TotalPages
}

// HasPrev reports whether an earlier page exists
func (r *Result) HasPrev() bool {
	return r.Page > 1
}

// Status is the footer line shown under the table
func (r *Result) Status() string {
	return fmt.Sprintf("Showing page %d of %d", r.Page, r.TotalPages)
}
