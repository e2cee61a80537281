package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/leengari/viewdash/internal/aggregate"
	"github.com/leengari/viewdash/internal/controller"
	"github.com/leengari/viewdash/internal/export"
	"github.com/leengari/viewdash/internal/storage/writer"
)

// Shell runs typed commands against one controller session
type Shell struct {
	ctrl   *controller.Controller
	out    io.Writer
	logger *slog.Logger
}

// NewShell creates a shell writing to out
func NewShell(ctrl *controller.Controller, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{ctrl: ctrl, out: out, logger: logger}
}

// Execute runs one input line. It reports false once the user asked to leave.
// Command errors are printed, never returned: the previous view stays in place.
func (s *Shell) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return true
	}

	switch cmd.Kind {
	case KindExit:
		return false
	case KindHelp:
		fmt.Fprintln(s.out, helpText)
	case KindShow:
		PrintResult(s.out, s.ctrl.Result())
	case KindEvent:
		res, err := s.ctrl.Dispatch(cmd.Event)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return true
		}
		PrintResult(s.out, res)
	case KindMean:
		s.mean(cmd.Args[0], cmd.Args[1])
	case KindExport:
		s.export(cmd.Args[0])
	case KindSave:
		s.save(cmd.Args[0])
	}
	return true
}

func (s *Shell) mean(group, measure string) {
	rows, err := s.ctrl.Filtered()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	groups, err := aggregate.MeanBy(s.ctrl.Table().Schema, rows, group, measure)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	PrintGroups(s.out, group, measure, groups)
}

func (s *Shell) export(path string) {
	rows, err := s.ctrl.Visible()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if err := export.WriteFile(path, s.ctrl.Table().Schema, rows); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	s.logger.Info("view exported",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
	)
	fmt.Fprintf(s.out, "Wrote %d rows to %s\n", len(rows), path)
}

func (s *Shell) save(dir string) {
	rows, err := s.ctrl.Visible()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if err := writer.SaveDataset(dir, s.ctrl.Table().Schema, rows); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Saved %d rows to %s\n", len(rows), dir)
}

// Start runs the interactive loop on the terminal until exit or EOF
func Start(ctrl *controller.Controller, historyFile string, logger *slog.Logger) error {
	shell := NewShell(ctrl, os.Stdout, logger)
	columns := func(string) []string { return ctrl.Table().Schema.ColumnNames() }

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "viewdash> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("filter", readline.PcItemDynamic(columns)),
			readline.PcItem("clear", readline.PcItemDynamic(columns)),
			readline.PcItem("sort", readline.PcItemDynamic(columns,
				readline.PcItem("asc"),
				readline.PcItem("desc"),
			)),
			readline.PcItem("mean", readline.PcItemDynamic(columns, readline.PcItemDynamic(columns))),
			readline.PcItem("size"),
			readline.PcItem("next"),
			readline.PcItem("prev"),
			readline.PcItem("page"),
			readline.PcItem("reset"),
			readline.PcItem("show"),
			readline.PcItem("export"),
			readline.PcItem("save"),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("Loaded %s (%d rows)\n", ctrl.Table().Name, ctrl.Table().Len())
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	PrintResult(os.Stdout, ctrl.Result())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return nil
		}
		if !shell.Execute(line) {
			return nil
		}
	}
}
