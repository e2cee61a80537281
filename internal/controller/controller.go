package controller

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/schema"
	"github.com/leengari/viewdash/internal/query/filter"
	"github.com/leengari/viewdash/internal/query/ordering"
	"github.com/leengari/viewdash/internal/query/paginate"
	"github.com/leengari/viewdash/internal/view"
)

// State is the complete set of view parameters for one session.
// It is treated as a value: events produce a new State instead of editing one.
type State struct {
	Filter filter.Spec
	Sort   ordering.Spec
	Page   paginate.Spec
}

// clone returns a State that shares no maps with s
func (s State) clone() State {
	s.Filter = s.Filter.Clone()
	return s
}

// Controller translates UI events into view parameters and runs the engine.
// It serves a single interactive session and is not safe for concurrent Dispatch.
type Controller struct {
	table     *schema.Table
	engine    *view.Engine
	sessionID string
	logger    *slog.Logger

	defaultSort ordering.Spec
	defaultSize int

	state State
	last  *view.Result
}

// Option configures a Controller
type Option func(*Controller)

// WithDefaultSort sets the ordering applied on start and on Reset
func WithDefaultSort(s ordering.Spec) Option {
	return func(c *Controller) {
		c.defaultSort = s
	}
}

// WithDefaultPageSize sets the page size applied on start and on Reset
func WithDefaultPageSize(size int) Option {
	return func(c *Controller) {
		c.defaultSize = size
	}
}

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a controller and computes the initial view.
// An invalid default sort or page size is reported here, before any interaction.
func New(table *schema.Table, eng *view.Engine, opts ...Option) (*Controller, error) {
	if table == nil {
		return nil, fmt.Errorf("controller: table is nil")
	}
	if eng == nil {
		eng = view.New()
	}

	c := &Controller{
		table:       table,
		engine:      eng,
		sessionID:   uuid.New().String(),
		logger:      slog.Default(),
		defaultSize: paginate.DefaultPageSizes[0],
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("session_id", c.sessionID))

	if _, err := c.Dispatch(Reset{}); err != nil {
		return nil, fmt.Errorf("initial view: %w", err)
	}

	c.logger.Info("session started",
		slog.String("table", table.Name),
		slog.Int("rows", table.Len()),
	)
	return c, nil
}

// Dispatch applies one event. On success the new state and result are committed and
// returned; on error the previous state and result stay in place and the error is
// returned unchanged.
func (c *Controller) Dispatch(ev Event) (*view.Result, error) {
	next := ev.apply(c, c.state.clone())

	result, err := c.engine.ComputeView(c.table, next.Filter, next.Sort, next.Page)
	if err != nil {
		c.logger.Warn("event rejected",
			slog.String("event", ev.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	// keep the effective page so Next/Prev continue from what the user sees
	next.Page.Number = result.Page

	c.state = next
	c.last = result

	c.logger.Debug("event applied",
		slog.String("event", ev.String()),
		slog.Int("total_rows", result.TotalRows),
		slog.Int("page", result.Page),
		slog.Int("total_pages", result.TotalPages),
	)
	return result, nil
}

// State returns a copy of the committed view parameters
func (c *Controller) State() State {
	return c.state.clone()
}

// Result returns the last committed view
func (c *Controller) Result() *view.Result {
	return c.last
}

// SessionID identifies this session in logs
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Table returns the session's table
func (c *Controller) Table() *schema.Table {
	return c.table
}

// Filtered returns every row passing the current filter, in table order,
// for panels that chart the filtered table instead of a page.
func (c *Controller) Filtered() ([]data.Row, error) {
	return c.engine.Filtered(c.table, c.state.Filter)
}

// Visible returns every row passing the current filter in the current sort order
func (c *Controller) Visible() ([]data.Row, error) {
	rows, err := c.Filtered()
	if err != nil {
		return nil, err
	}
	return ordering.Apply(c.table.Schema, rows, c.state.Sort)
}

func (c *Controller) initialState() State {
	return State{
		Filter: filter.Defaults(c.table),
		Sort:   c.defaultSort,
		Page:   paginate.Spec{Size: c.defaultSize, Number: 1},
	}
}
