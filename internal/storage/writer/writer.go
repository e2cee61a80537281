package writer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/schema"
	"github.com/leengari/viewdash/internal/export"
	"github.com/leengari/viewdash/internal/storage"
)

// SchemaFile is the schema written next to data.csv; LoadDataset picks it up
const SchemaFile = storage.JSONSchemaFile

// SaveDataset writes rows as a dataset directory (schema.json + data.csv) that
// storage.LoadDataset can reload. Each file is written to a temp file and renamed
// into place, so neither file is ever half written; the pair is not replaced as a
// unit. A schema.hcl left in dir would shadow the new schema.json and is removed.
func SaveDataset(dir string, ts *schema.TableSchema, rows []data.Row) error {
	if ts == nil || dir == "" {
		return fmt.Errorf("cannot save dataset: nil schema or missing path")
	}
	tableName := ts.TableName

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory %s: %w", dir, err)
	}

	// 1. Marshal meta
	metaBytes, err := json.MarshalIndent(storage.MetaFromSchema(ts), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table meta for %s: %w", tableName, err)
	}

	// 2. Encode rows
	var dataBuf bytes.Buffer
	if err := export.WriteCSV(&dataBuf, ts.ColumnNames(), rows); err != nil {
		return fmt.Errorf("failed to encode rows for %s: %w", tableName, err)
	}

	// 3. Write both files using temp + rename
	files := []struct {
		path string
		data []byte
		name string
	}{
		{filepath.Join(dir, SchemaFile), metaBytes, SchemaFile},
		{filepath.Join(dir, storage.DataFile), dataBuf.Bytes(), storage.DataFile},
	}

	for _, f := range files {
		tmpPath := f.path + ".tmp"

		if err := os.WriteFile(tmpPath, f.data, 0644); err != nil {
			return fmt.Errorf("failed to write temp file %s for table %s: %w", f.name, tableName, err)
		}

		if err := os.Rename(tmpPath, f.path); err != nil {
			return fmt.Errorf("failed to rename temp → %s for table %s: %w", f.name, tableName, err)
		}
	}

	// 4. Drop a stale HCL schema, which LoadDataset would prefer
	stale := filepath.Join(dir, storage.HCLSchemaFile)
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale %s for table %s: %w", storage.HCLSchemaFile, tableName, err)
	}

	slog.Info("Dataset saved successfully",
		slog.String("table", tableName),
		slog.String("path", dir),
		slog.Int("row_count", len(rows)),
	)

	return nil
}
