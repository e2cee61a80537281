package repl

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/leengari/viewdash/internal/aggregate"
	"github.com/leengari/viewdash/internal/view"
)

// PrintResult renders one page as an aligned table followed by the page footer
func PrintResult(w io.Writer, res *view.Result) {
	if res == nil {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, col := range res.Columns {
		fmt.Fprintf(tw, "%s", col)
		if i < len(res.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Separator
	for i := range res.Columns {
		fmt.Fprintf(tw, "---")
		if i < len(res.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	for _, row := range res.Rows {
		for i, col := range res.Columns {
			val, ok := row.Data[col]
			if !ok || val == nil {
				fmt.Fprintf(tw, "NULL")
			} else {
				fmt.Fprintf(tw, "%s", formatCell(val))
			}
			if i < len(res.Columns)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	if res.TotalRows == 0 {
		fmt.Fprintln(w, "(no matching rows)")
	} else {
		fmt.Fprintf(w, "rows %d-%d of %d\n", res.FirstRow, res.LastRow, res.TotalRows)
	}
	fmt.Fprintln(w, res.Status())
}

// PrintGroups renders aggregate.MeanBy output
func PrintGroups(w io.Writer, group, measure string, groups []aggregate.Group) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tcount\tmean(%s)\tmin\tmax\t\n", group, measure)
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t\n", g.Key, g.Count, g.Mean, g.Min, g.Max)
	}
	tw.Flush()
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	}
	return fmt.Sprintf("%v", v)
}
