// Package transfer moves furniture records between the store and files:
// the semicolon-delimited interchange format in both directions, and JSON or
// YAML snapshots for export.
package transfer

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lepinkainen/furnish/internal/csvutil"
	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/furnish/internal/fileutil"
	"github.com/lepinkainen/furnish/internal/furniture"
)

// Lister is the read side of the store needed for exports.
type Lister interface {
	ReadAll() ([]furniture.Furniture, error)
}

// Upserter is the part of the store needed for imports.
type Upserter interface {
	Lister
	Add(name, description string, price float64, height, width, length int) error
	Update(f furniture.Furniture) (int64, error)
}

// ImportSummary reports what an import changed.
type ImportSummary struct {
	ID      string
	Added   int
	Updated int
}

// Header is the first line of every delimited file.
func Header() string {
	return csvutil.FormatLine(furniture.Columns, csvutil.DefaultDelimiter)
}

// WriteDelimited writes the header and one line per item. Values are not
// escaped: a field containing the delimiter produces a line that will not
// re-import.
func WriteDelimited(w io.Writer, items []furniture.Furniture) error {
	if _, err := io.WriteString(w, Header()+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, item := range items {
		if strings.Contains(item.Name, csvutil.DefaultDelimiter) || strings.Contains(item.Description, csvutil.DefaultDelimiter) {
			slog.Warn("Field contains the delimiter and will not re-import", "name", item.Name)
		}
		line := csvutil.FormatLine(item.Fields(), csvutil.DefaultDelimiter)
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("failed to write %q: %w", item.Name, err)
		}
	}

	return nil
}

// ReadDelimited parses a delimited stream. Any malformed line fails the whole read.
func ReadDelimited(r io.Reader) ([]furniture.Furniture, error) {
	return csvutil.ProcessDelimited(r, parseRow, delimitedOptions())
}

// ExportToDelimitedFile writes every record in the store to path, replacing any existing file.
func ExportToDelimitedFile(store Lister, path string) (int, error) {
	items, err := store.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read furniture: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteDelimited(&buf, items); err != nil {
		return 0, err
	}

	if _, err := fileutil.WriteFileWithOverwrite(path, buf.Bytes(), 0644, true); err != nil {
		return 0, fmt.Errorf("failed to export to %s: %w", path, err)
	}

	slog.Info("Exported furniture", "file", path, "count", len(items))
	return len(items), nil
}

// ImportFromDelimitedFile upserts every row of path into the store: rows whose
// name already exists are updated, the rest are added. The file is parsed
// completely before anything is written, so a ParseError leaves the store
// untouched. Rows are applied in file order.
func ImportFromDelimitedFile(store Upserter, path string) (ImportSummary, error) {
	summary := ImportSummary{ID: uuid.NewString()}
	logger := slog.With("import_id", summary.ID, "file", path)

	items, err := csvutil.ProcessFile(path, parseRow, delimitedOptions())
	if err != nil {
		return summary, err
	}
	logger.Debug("Parsed import file", "rows", len(items))

	existing, err := store.ReadAll()
	if err != nil {
		return summary, fmt.Errorf("failed to read furniture: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, item := range existing {
		known[item.Name] = true
	}

	for _, item := range items {
		if known[item.Name] {
			if _, err := store.Update(item); err != nil {
				return summary, err
			}
			summary.Updated++
			continue
		}

		if err := store.Add(item.Name, item.Description, item.Price, item.Height, item.Width, item.Length); err != nil {
			return summary, err
		}
		known[item.Name] = true
		summary.Added++
	}

	logger.Info("Imported furniture", "added", summary.Added, "updated", summary.Updated)
	return summary, nil
}

// ExportJSON writes every record as an indented JSON array.
func ExportJSON(store Lister, path string, overwrite bool) (bool, error) {
	items, err := store.ReadAll()
	if err != nil {
		return false, fmt.Errorf("failed to read furniture: %w", err)
	}
	return fileutil.WriteJSONFile(items, path, overwrite)
}

// ExportYAML writes every record as a YAML list.
func ExportYAML(store Lister, path string, overwrite bool) (bool, error) {
	items, err := store.ReadAll()
	if err != nil {
		return false, fmt.Errorf("failed to read furniture: %w", err)
	}
	return fileutil.WriteYAMLFile(items, path, overwrite)
}

func delimitedOptions() csvutil.ProcessorOptions {
	return csvutil.ProcessorOptions{
		Delimiter:       csvutil.DefaultDelimiter,
		FieldsPerRecord: len(furniture.Columns),
		Header:          furniture.Columns,
	}
}

func parseRow(line int, fields []string) (furniture.Furniture, error) {
	f, err := furniture.ParseFields(fields)
	if err != nil {
		return furniture.Furniture{}, err
	}
	if strings.TrimSpace(f.Name) == "" {
		return furniture.Furniture{}, errors.NewParseError(line, "name", fmt.Errorf("name is required"))
	}
	return f, nil
}
