package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/domain/schema"
)

//go:embed schemas/insurance.hcl
var insuranceSchema []byte

// DefaultSchema returns the built-in insurance schema
func DefaultSchema() (*schema.TableSchema, error) {
	file, diags := hclparse.NewParser().ParseHCL(insuranceSchema, "insurance.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse embedded schema: %w", diags)
	}
	return decodeHCLSchema(file, "insurance.hcl")
}

// LoadSchema reads a table schema from a .hcl or .json file.
// Every failure is reported as a DataLoadError for path.
func LoadSchema(path string) (*schema.TableSchema, error) {
	var (
		ts  *schema.TableSchema
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		ts, err = loadHCLSchema(path)
	case ".json":
		ts, err = loadJSONSchema(path)
	default:
		err = fmt.Errorf("unsupported schema format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &errors.DataLoadError{Source: path, Reason: "invalid schema", Err: err}
	}
	return ts, nil
}

func loadHCLSchema(path string) (*schema.TableSchema, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decodeHCLSchema(file, path)
}

func decodeHCLSchema(file *hcl.File, name string) (*schema.TableSchema, error) {
	var root schemaFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}
	return root.Table.toSchema()
}

func loadJSONSchema(path string) (*schema.TableSchema, error) {
	metaBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var meta TableMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, err
	}
	return meta.toSchema()
}
