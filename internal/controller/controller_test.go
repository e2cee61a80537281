package controller

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/query/ordering"
	"github.com/leengari/viewdash/internal/testutil"
	"github.com/leengari/viewdash/internal/view"
)

func TestNew(t *testing.T) {
	table := testutil.CreateSequentialTable(t, 25)

	t.Run("InitialViewIsFirstPageOfEverything", func(t *testing.T) {
		c, err := New(table, nil)
		assert.NilError(t, err)

		res := c.Result()
		assert.Equal(t, res.TotalRows, 25)
		assert.Equal(t, res.Page, 1)
		assert.Equal(t, res.PageSize, 10)
		assert.Equal(t, res.TotalPages, 3)
		assert.Assert(t, c.SessionID() != "")
	})

	t.Run("InvalidDefaultSort", func(t *testing.T) {
		_, err := New(table, nil, WithDefaultSort(ordering.Spec{Column: "unknown_col"}))
		assert.ErrorIs(t, err, errors.ErrInvalidSortColumn)
	})

	t.Run("InvalidDefaultPageSize", func(t *testing.T) {
		_, err := New(table, nil, WithDefaultPageSize(12))
		assert.ErrorIs(t, err, errors.ErrInvalidPageSize)
	})
}

func TestPaging(t *testing.T) {
	table := testutil.CreateSequentialTable(t, 25)
	c, err := New(table, view.New(), WithDefaultSort(ordering.Spec{Column: "age"}))
	assert.NilError(t, err)

	t.Run("PrevOnFirstPageIsNoop", func(t *testing.T) {
		res, err := c.Dispatch(PrevPage{})
		assert.NilError(t, err)
		assert.Equal(t, res.Page, 1)
	})

	t.Run("NextStopsAtLastPage", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, err := c.Dispatch(NextPage{})
			assert.NilError(t, err)
		}
		res := c.Result()
		assert.Equal(t, res.Page, 3)
		assert.Equal(t, c.State().Page.Number, 3)
		assert.DeepEqual(t, testutil.Ages(res.Rows), []int64{20, 21, 22, 23, 24})
	})

	t.Run("PrevAfterLastPage", func(t *testing.T) {
		res, err := c.Dispatch(PrevPage{})
		assert.NilError(t, err)
		assert.Equal(t, res.Page, 2)
	})

	t.Run("GotoPageIsClamped", func(t *testing.T) {
		res, err := c.Dispatch(GotoPage{Number: 40})
		assert.NilError(t, err)
		assert.Equal(t, res.Page, 3)
		assert.Equal(t, c.State().Page.Number, 3)
	})

	t.Run("PageSizeChangeResetsToFirstPage", func(t *testing.T) {
		res, err := c.Dispatch(SetPageSize{Size: 25})
		assert.NilError(t, err)
		assert.Equal(t, res.Page, 1)
		assert.Equal(t, res.TotalPages, 1)
		assert.Equal(t, len(res.Rows), 25)
	})

	t.Run("SamePageSizeKeepsPage", func(t *testing.T) {
		_, err := c.Dispatch(SetPageSize{Size: 10})
		assert.NilError(t, err)
		_, err = c.Dispatch(GotoPage{Number: 2})
		assert.NilError(t, err)
		res, err := c.Dispatch(SetPageSize{Size: 10})
		assert.NilError(t, err)
		assert.Equal(t, res.Page, 2)
	})
}

func TestFilteringShrinksPage(t *testing.T) {
	table := testutil.CreateSequentialTable(t, 40)
	c, err := New(table, nil)
	assert.NilError(t, err)

	_, err = c.Dispatch(GotoPage{Number: 4})
	assert.NilError(t, err)

	res, err := c.Dispatch(SetValues{Column: "region", Values: []string{"northeast"}})
	assert.NilError(t, err)
	assert.Equal(t, res.TotalRows, 10)
	assert.Equal(t, res.TotalPages, 1)
	assert.Equal(t, res.Page, 1)
	assert.Equal(t, c.State().Page.Number, 1)

	rows, err := c.Filtered()
	assert.NilError(t, err)
	assert.Equal(t, len(rows), 10)

	res, err = c.Dispatch(ClearFilter{Column: "region"})
	assert.NilError(t, err)
	assert.Equal(t, res.TotalRows, 40)

	res, err = c.Dispatch(SetRange{Column: "age", Min: 5, Max: 9})
	assert.NilError(t, err)
	assert.Equal(t, res.TotalRows, 5)

	res, err = c.Dispatch(ClearFilter{})
	assert.NilError(t, err)
	assert.Equal(t, res.TotalRows, 40)
	assert.Assert(t, c.State().Filter.IsEmpty())
}

func TestRejectedEventKeepsState(t *testing.T) {
	table := testutil.CreateInsuranceTable(t, testutil.SampleRecords())
	c, err := New(table, nil, WithDefaultSort(ordering.Spec{Column: "charges"}))
	assert.NilError(t, err)

	_, err = c.Dispatch(SetValues{Column: "smoker", Values: []string{"no"}})
	assert.NilError(t, err)
	before := c.State()
	beforeResult := c.Result()

	cases := []Event{
		SetSort{Column: "unknown_col"},
		SetPageSize{Size: 11},
		SetRange{Column: "region", Min: 0, Max: 1},
		SetRange{Column: "age", Min: 50, Max: 10},
	}
	for _, ev := range cases {
		t.Run(ev.String(), func(t *testing.T) {
			res, err := c.Dispatch(ev)
			assert.Assert(t, err != nil)
			assert.Assert(t, res == nil)
			assert.DeepEqual(t, c.State(), before)
			assert.Equal(t, c.Result(), beforeResult)
		})
	}
}

func TestStateIsACopy(t *testing.T) {
	table := testutil.CreateInsuranceTable(t, testutil.SampleRecords())
	c, err := New(table, nil)
	assert.NilError(t, err)

	s := c.State()
	s.Filter.Sets["region"] = []string{"northeast"}

	assert.Equal(t, c.Result().TotalRows, 12)
	assert.Equal(t, len(c.State().Filter.Sets["region"]), 4)
}

func TestResetRestoresDefaults(t *testing.T) {
	table := testutil.CreateInsuranceTable(t, testutil.SampleRecords())
	c, err := New(table, nil,
		WithDefaultSort(ordering.Spec{Column: "charges", Direction: ordering.Descending}),
		WithDefaultPageSize(25),
	)
	assert.NilError(t, err)
	initial := c.State()

	_, err = c.Dispatch(SetSort{Column: "age"})
	assert.NilError(t, err)
	_, err = c.Dispatch(SetValues{Column: "sex", Values: []string{"male"}})
	assert.NilError(t, err)
	_, err = c.Dispatch(SetPageSize{Size: 10})
	assert.NilError(t, err)

	res, err := c.Dispatch(Reset{})
	assert.NilError(t, err)
	assert.DeepEqual(t, c.State(), initial)
	assert.Equal(t, res.TotalRows, 12)
	assert.Equal(t, res.PageSize, 25)
	assert.DeepEqual(t, testutil.Ages(res.Rows)[:2], []int64{60, 62})

	visible, err := c.Visible()
	assert.NilError(t, err)
	assert.DeepEqual(t, testutil.Ages(visible), testutil.Ages(res.Rows))
}
