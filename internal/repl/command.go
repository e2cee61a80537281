package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/viewdash/internal/controller"
	"github.com/leengari/viewdash/internal/query/ordering"
)

type Kind int

const (
	KindEvent  Kind = iota // changes the view through the controller
	KindShow               // reprint the current page
	KindMean               // group means of the filtered rows
	KindExport             // write the filtered, sorted rows to a file
	KindSave               // write the filtered, sorted rows as a reloadable dataset
	KindHelp
	KindExit
)

// Command is one parsed input line
type Command struct {
	Kind  Kind
	Event controller.Event
	Args  []string
}

const helpText = `commands:
  filter <col> <min> <max>   keep rows with min <= col <= max
  filter <col> v1,v2,...     keep rows whose col is one of the values
  clear [col]                drop the filter on col, or every filter
  sort [<col> [asc|desc]]    order by col; without arguments keep load order
  size <n>                   rows per page (back to page 1)
  next | prev | page <n>     move between pages
  reset                      full ranges, all values, default sort and size
  show                       print the current page again
  mean <group> <measure>     average of measure per group over filtered rows
  export <file>              write filtered rows (.arrow, .parquet or .csv)
  save <dir>                 write filtered rows as a dataset (reload with -data <dir>)
  help                       this text
  exit | quit | \q           leave`

// ParseCommand turns one input line into a Command
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "filter":
		return parseFilter(args)

	case "clear":
		if len(args) > 1 {
			return Command{}, usage("clear [col]")
		}
		ev := controller.ClearFilter{}
		if len(args) == 1 {
			ev.Column = args[0]
		}
		return event(ev), nil

	case "sort":
		return parseSort(args)

	case "size":
		n, err := intArg(args, "size <n>")
		if err != nil {
			return Command{}, err
		}
		return event(controller.SetPageSize{Size: n}), nil

	case "page":
		n, err := intArg(args, "page <n>")
		if err != nil {
			return Command{}, err
		}
		return event(controller.GotoPage{Number: n}), nil

	case "next":
		return noArgs(args, "next", event(controller.NextPage{}))
	case "prev":
		return noArgs(args, "prev", event(controller.PrevPage{}))
	case "reset":
		return noArgs(args, "reset", event(controller.Reset{}))
	case "show":
		return noArgs(args, "show", Command{Kind: KindShow})
	case "help", "?":
		return Command{Kind: KindHelp}, nil
	case "exit", "quit", `\q`:
		return Command{Kind: KindExit}, nil

	case "mean":
		if len(args) != 2 {
			return Command{}, usage("mean <group> <measure>")
		}
		return Command{Kind: KindMean, Args: args}, nil

	case "export":
		if len(args) != 1 {
			return Command{}, usage("export <file>")
		}
		return Command{Kind: KindExport, Args: args}, nil

	case "save":
		if len(args) != 1 {
			return Command{}, usage("save <dir>")
		}
		return Command{Kind: KindSave, Args: args}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q (type help)", fields[0])
}

func parseFilter(args []string) (Command, error) {
	switch len(args) {
	case 3:
		min, errMin := strconv.ParseFloat(args[1], 64)
		max, errMax := strconv.ParseFloat(args[2], 64)
		if errMin != nil || errMax != nil {
			return Command{}, fmt.Errorf("filter %s: bounds must be numbers", args[0])
		}
		return event(controller.SetRange{Column: args[0], Min: min, Max: max}), nil
	case 2:
		var values []string
		for _, v := range strings.Split(args[1], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		return event(controller.SetValues{Column: args[0], Values: values}), nil
	}
	return Command{}, usage("filter <col> <min> <max> | filter <col> v1,v2,...")
}

func parseSort(args []string) (Command, error) {
	switch len(args) {
	case 0:
		return event(controller.SetSort{}), nil
	case 1, 2:
		dir := ordering.Ascending
		if len(args) == 2 {
			d, err := ordering.ParseDirection(args[1])
			if err != nil {
				return Command{}, err
			}
			dir = d
		}
		return event(controller.SetSort{Column: args[0], Direction: dir}), nil
	}
	return Command{}, usage("sort [<col> [asc|desc]]")
}

func event(ev controller.Event) Command {
	return Command{Kind: KindEvent, Event: ev}
}

func noArgs(args []string, name string, cmd Command) (Command, error) {
	if len(args) != 0 {
		return Command{}, usage(name)
	}
	return cmd, nil
}

func intArg(args []string, form string) (int, error) {
	if len(args) != 1 {
		return 0, usage(form)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", args[0])
	}
	return n, nil
}

func usage(form string) error {
	return fmt.Errorf("usage: %s", form)
}
