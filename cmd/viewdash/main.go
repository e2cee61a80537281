package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leengari/viewdash/internal/config"
	"github.com/leengari/viewdash/internal/controller"
	"github.com/leengari/viewdash/internal/domain/schema"
	"github.com/leengari/viewdash/internal/logging"
	"github.com/leengari/viewdash/internal/repl"
	"github.com/leengari/viewdash/internal/storage"
	"github.com/leengari/viewdash/internal/view"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML config file (optional)")
	dataPath := flag.String("data", "", "CSV file or dataset directory (overrides data.path)")
	schemaPath := flag.String("schema", "", "schema file, .hcl or .json (overrides data.schema)")
	historyPath := flag.String("history", defaultHistoryPath(), "command history file")
	oneShot := flag.String("c", "", "run ';'-separated commands and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if *schemaPath != "" {
		cfg.Data.Schema = *schemaPath
	}

	level, _ := cfg.LogLevel()
	logger, closeFn := logging.SetupLogger(logging.Options{
		Level:  level,
		SeqURL: cfg.Logging.SeqURL,
	})
	defer closeFn()
	slog.SetDefault(logger)

	logger.Info("Starting application...", slog.String("app", cfg.AppName))

	table, err := loadTable(cfg, logger)
	if err != nil {
		logger.Error("failed to load data", slog.Any("error", err))
		return err
	}

	eng := view.New(
		view.WithPageSizes(cfg.View.PageSizes...),
		view.WithLogger(logger),
		view.WithObserver(view.NewLoggingObserver(logger)),
	)

	ctrl, err := controller.New(table, eng,
		controller.WithDefaultSort(cfg.SortSpec()),
		controller.WithDefaultPageSize(cfg.View.DefaultPageSize),
		controller.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build initial view", slog.Any("error", err))
		return err
	}

	if strings.TrimSpace(*oneShot) != "" {
		shell := repl.NewShell(ctrl, os.Stdout, logger)
		for _, line := range strings.Split(*oneShot, ";") {
			if !shell.Execute(line) {
				break
			}
		}
		return nil
	}

	logger.Info("Starting REPL mode...", slog.String("session_id", ctrl.SessionID()))
	return repl.Start(ctrl, *historyPath, logger)
}

// loadTable loads a dataset directory, or a CSV file with the configured schema
func loadTable(cfg *config.Config, logger *slog.Logger) (*schema.Table, error) {
	if info, err := os.Stat(cfg.Data.Path); err == nil && info.IsDir() {
		return storage.LoadDataset(cfg.Data.Path, logger)
	}

	var (
		ts  *schema.TableSchema
		err error
	)
	if cfg.Data.Schema != "" {
		ts, err = storage.LoadSchema(cfg.Data.Schema)
	} else {
		ts, err = storage.DefaultSchema()
	}
	if err != nil {
		return nil, err
	}
	return storage.LoadTable(cfg.Data.Path, ts, logger)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".viewdash_history")
}
