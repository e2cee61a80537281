package paginate

import (
	"github.com/leengari/viewdash/internal/domain/errors"
)

// DefaultPageSizes is the page-size set offered by the "Show entries" selector
var DefaultPageSizes = []int{10, 25, 50}

// Spec is a requested page. Number is 1-based and is clamped, never rejected.
type Spec struct {
	Size   int `json:"size"`
	Number int `json:"number"`
}

// Window is the resolved position of a page inside a sequence of rows
type Window struct {
	Page       int // effective 1-based page number
	Size       int
	TotalRows  int
	TotalPages int // at least 1, even when TotalRows is 0
	Start      int // inclusive index into the sequence
	End        int // exclusive index into the sequence
}

// Len returns the number of rows on the page
func (w Window) Len() int {
	return w.End - w.Start
}

// HasNext reports whether a later page exists
func (w Window) HasNext() bool {
	return w.Page < w.TotalPages
}

// HasPrev reports whether an earlier page exists
func (w Window) HasPrev() bool {
	return w.Page > 1
}

// ValidateSize checks size against the allowed set
func ValidateSize(size int, allowed []int) error {
	for _, a := range allowed {
		if a == size {
			return nil
		}
	}
	return &errors.InvalidPageSizeError{Size: size, Allowed: append([]int{}, allowed...)}
}

// TotalPages returns ceil(totalRows / size) with a minimum of 1
func TotalPages(totalRows, size int) int {
	if size <= 0 || totalRows <= 0 {
		return 1
	}
	return (totalRows + size - 1) / size
}

// Clamp limits a requested page number to [1, totalPages]
func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Resolve computes the window for a sequence of totalRows rows.
// The size must be in the allowed set; the page number is clamped.
func Resolve(totalRows int, s Spec, allowed []int) (Window, error) {
	if err := ValidateSize(s.Size, allowed); err != nil {
		return Window{}, err
	}

	total := TotalPages(totalRows, s.Size)
	page := Clamp(s.Number, total)

	start := (page - 1) * s.Size
	if start > totalRows {
		start = totalRows
	}
	end := start + s.Size
	if end > totalRows {
		end = totalRows
	}

	return Window{
		Page:       page,
		Size:       s.Size,
		TotalRows:  totalRows,
		TotalPages: total,
		Start:      start,
		End:        end,
	}, nil
}
