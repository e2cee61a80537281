package controller

import (
	"fmt"

	"github.com/leengari/viewdash/internal/query/filter"
	"github.com/leengari/viewdash/internal/query/ordering"
)

// Event is one user interaction. Applying it to a State yields the candidate next
// State; the controller commits it only if the engine accepts it.
type Event interface {
	apply(c *Controller, s State) State
	fmt.Stringer
}

// SetRange constrains a numeric column (range slider)
type SetRange struct {
	Column   string
	Min, Max float64
}

func (e SetRange) apply(_ *Controller, s State) State {
	s.Filter = s.Filter.WithRange(e.Column, e.Min, e.Max)
	return s
}

func (e SetRange) String() string {
	return fmt.Sprintf("set_range(%s, %v, %v)", e.Column, e.Min, e.Max)
}

// SetValues constrains a categorical column (multiselect)
type SetValues struct {
	Column string
	Values []string
}

func (e SetValues) apply(_ *Controller, s State) State {
	s.Filter = s.Filter.WithValues(e.Column, e.Values...)
	return s
}

func (e SetValues) String() string {
	return fmt.Sprintf("set_values(%s, %v)", e.Column, e.Values)
}

// ClearFilter removes the constraint on Column, or every constraint when Column is empty
type ClearFilter struct {
	Column string
}

func (e ClearFilter) apply(_ *Controller, s State) State {
	if e.Column == "" {
		s.Filter = filter.Spec{}
		return s
	}
	s.Filter = s.Filter.Without(e.Column)
	return s
}

func (e ClearFilter) String() string {
	if e.Column == "" {
		return "clear_filter(*)"
	}
	return fmt.Sprintf("clear_filter(%s)", e.Column)
}

// SetSort changes the sort column and direction
type SetSort struct {
	Column    string
	Direction ordering.Direction
}

func (e SetSort) apply(_ *Controller, s State) State {
	s.Sort = ordering.Spec{Column: e.Column, Direction: e.Direction}
	return s
}

func (e SetSort) String() string {
	return fmt.Sprintf("set_sort(%s, %s)", e.Column, e.Direction)
}

// SetPageSize changes the page size. A changed size always returns to page 1 so the
// user is not dropped at an unrelated offset.
type SetPageSize struct {
	Size int
}

func (e SetPageSize) apply(_ *Controller, s State) State {
	if e.Size != s.Page.Size {
		s.Page.Size = e.Size
		s.Page.Number = 1
	}
	return s
}

func (e SetPageSize) String() string {
	return fmt.Sprintf("set_page_size(%d)", e.Size)
}

// NextPage advances one page; on the last page it is a no-op
type NextPage struct{}

func (NextPage) apply(c *Controller, s State) State {
	if c.last != nil && !c.last.HasNext() {
		return s
	}
	s.Page.Number++
	return s
}

func (NextPage) String() string { return "next_page" }

// PrevPage goes back one page; on the first page it is a no-op
type PrevPage struct{}

func (PrevPage) apply(_ *Controller, s State) State {
	if s.Page.Number > 1 {
		s.Page.Number--
	}
	return s
}

func (PrevPage) String() string { return "prev_page" }

// GotoPage requests a page number; the engine clamps it into range
type GotoPage struct {
	Number int
}

func (e GotoPage) apply(_ *Controller, s State) State {
	s.Page.Number = e.Number
	return s
}

func (e GotoPage) String() string {
	return fmt.Sprintf("goto_page(%d)", e.Number)
}

// Reset restores the initial view: full-range filter, default sort, default size, page 1
type Reset struct{}

func (Reset) apply(c *Controller, _ State) State {
	return c.initialState()
}

func (Reset) String() string { return "reset" }
