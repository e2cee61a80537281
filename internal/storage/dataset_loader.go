package storage

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/domain/schema"
)

// DataFile is the CSV file name expected inside a dataset directory
const DataFile = "data.csv"

// Schema file names recognised inside a dataset directory
const (
	HCLSchemaFile  = "schema.hcl"
	JSONSchemaFile = "schema.json"
)

// schemaFiles are tried in order inside a dataset directory
var schemaFiles = []string{HCLSchemaFile, JSONSchemaFile}

// LoadDataset loads a dataset directory: data.csv plus an optional schema.hcl or
// schema.json. Without a schema file the built-in insurance schema is used.
func LoadDataset(dir string, logger *slog.Logger) (*schema.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &errors.DataLoadError{Source: dir, Reason: "cannot read dataset directory", Err: err}
	}
	if !info.IsDir() {
		return nil, &errors.DataLoadError{Source: dir, Reason: "not a directory"}
	}

	ts, schemaPath, err := findSchema(dir)
	if err != nil {
		return nil, err
	}

	table, err := LoadTable(filepath.Join(dir, DataFile), ts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", dir, err)
	}

	logger.Info("dataset loaded",
		slog.String("path", dir),
		slog.String("schema", schemaPath),
		slog.Int("column_count", len(ts.Columns)),
	)
	return table, nil
}

func findSchema(dir string) (*schema.TableSchema, string, error) {
	for _, name := range schemaFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, "", &errors.DataLoadError{Source: path, Reason: "cannot read schema file", Err: err}
		}
		ts, err := LoadSchema(path)
		return ts, path, err
	}

	ts, err := DefaultSchema()
	if err != nil {
		return nil, "", &errors.DataLoadError{Source: "insurance.hcl", Reason: "invalid built-in schema", Err: err}
	}
	return ts, "builtin", nil
}
