package view

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/schema"
	"github.com/leengari/viewdash/internal/query/filter"
	"github.com/leengari/viewdash/internal/query/ordering"
	"github.com/leengari/viewdash/internal/query/paginate"
)

// Engine turns (table, filter, sort, page) into the visible page of a view.
// It holds configuration only; every call is an independent, pure computation
// over an immutable table, so an Engine is safe for concurrent use once built.
type Engine struct {
	pageSizes []int
	observers []Observer
	logger    *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithPageSizes sets the allowed page sizes. Non-positive and duplicate sizes are dropped.
func WithPageSizes(sizes ...int) Option {
	return func(e *Engine) {
		seen := make(map[int]bool, len(sizes))
		allowed := make([]int, 0, len(sizes))
		for _, s := range sizes {
			if s > 0 && !seen[s] {
				seen[s] = true
				allowed = append(allowed, s)
			}
		}
		if len(allowed) > 0 {
			e.pageSizes = allowed
		}
	}
}

// WithObserver registers an observer at construction time
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithLogger sets the logger used for per-call summaries
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine with the default page sizes unless overridden
func New(opts ...Option) *Engine {
	e := &Engine{
		pageSizes: append([]int{}, paginate.DefaultPageSizes...),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeView runs a view computation with a default Engine
func ComputeView(t *schema.Table, f filter.Spec, s ordering.Spec, p paginate.Spec) (*Result, error) {
	return New().ComputeView(t, f, s, p)
}

// PageSizes returns the allowed page sizes
func (e *Engine) PageSizes() []int {
	return append([]int{}, e.pageSizes...)
}

// ComputeView filters, stably sorts and paginates the table.
//
// All three specs are validated before any row is touched: an unknown sort column,
// a page size outside the allowed set or an unsatisfiable filter returns an error and
// a nil result. An empty filtered set is not an error; it yields one empty page.
func (e *Engine) ComputeView(t *schema.Table, f filter.Spec, s ordering.Spec, p paginate.Spec) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("compute view: table is nil")
	}
	if err := f.Validate(t.Schema); err != nil {
		return nil, err
	}
	if err := s.Validate(t.Schema); err != nil {
		return nil, err
	}
	if err := paginate.ValidateSize(p.Size, e.pageSizes); err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	started := time.Now()

	// 1. Filter
	e.notify(Event{Type: EventFilterStart, RequestID: requestID, Table: t.Name, Data: f})
	filtered, err := filter.Apply(t, f)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", t.Name, err)
	}
	e.notify(Event{Type: EventFilterEnd, RequestID: requestID, Table: t.Name, Data: map[string]int{
		"rows_in":  t.Len(),
		"rows_out": len(filtered),
	}})

	// 2. Sort
	e.notify(Event{Type: EventSortStart, RequestID: requestID, Table: t.Name, Data: s})
	sorted, err := ordering.Apply(t.Schema, filtered, s)
	if err != nil {
		return nil, fmt.Errorf("sort %s: %w", t.Name, err)
	}
	e.notify(Event{Type: EventSortEnd, RequestID: requestID, Table: t.Name, Data: len(sorted)})

	// 3. Paginate
	e.notify(Event{Type: EventPaginateStart, RequestID: requestID, Table: t.Name, Data: p})
	w, err := paginate.Resolve(len(sorted), p, e.pageSizes)
	if err != nil {
		return nil, err
	}
	e.notify(Event{Type: EventPaginateEnd, RequestID: requestID, Table: t.Name, Data: w})

	// rows handed out are copies so callers cannot reach the table's maps
	page := make([]data.Row, 0, w.Len())
	for _, row := range sorted[w.Start:w.End] {
		page = append(page, row.Copy())
	}

	result := &Result{
		Columns:    t.Schema.ColumnNames(),
		Rows:       page,
		TotalRows:  w.TotalRows,
		TotalPages: w.TotalPages,
		Page:       w.Page,
		PageSize:   w.Size,
	}
	if w.Len() > 0 {
		result.FirstRow = w.Start + 1
		result.LastRow = w.End
	}

	e.logger.Debug("view computed",
		slog.String("table", t.Name),
		slog.String("request_id", requestID),
		slog.Int("total_rows", result.TotalRows),
		slog.Int("page", result.Page),
		slog.Int("total_pages", result.TotalPages),
		slog.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}

// Filtered returns the rows passing the filter in table order, without sorting or
// paging. Chart panels consume this directly.
func (e *Engine) Filtered(t *schema.Table, f filter.Spec) ([]data.Row, error) {
	if t == nil {
		return nil, fmt.Errorf("filter: table is nil")
	}
	return filter.Apply(t, f)
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer. Observers are matched by identity, so
// register pointers: an observer whose type is not comparable is never removed.
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if sameObserver(o, observer) {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

func sameObserver(a, b Observer) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	if len(e.observers) == 0 {
		return
	}
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
