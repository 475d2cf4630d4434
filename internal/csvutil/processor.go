// Package csvutil reads line-oriented delimited text files.
//
// The interchange format has no quoting or escaping: every line is split on
// the delimiter as-is, so a value containing the delimiter cannot be
// represented. encoding/csv is not used because it would apply RFC 4180
// quote handling that the format does not have.
package csvutil

import (
	"bufio"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/lepinkainen/furnish/internal/errors"
)

// DefaultDelimiter separates fields in the furniture interchange format.
const DefaultDelimiter = ";"

const maxLineBytes = 1024 * 1024

// ErrEmptyFile is returned when the input has no header line.
var ErrEmptyFile = stdErrors.New("file is empty")

// ProcessorOptions configures delimited processing behavior.
type ProcessorOptions struct {
	// Delimiter separates fields. Defaults to DefaultDelimiter.
	Delimiter string

	// FieldsPerRecord sets the expected number of fields per record.
	// If 0, it's set to the number of fields in the header.
	FieldsPerRecord int

	// Header, when set, is compared with the first line. A mismatch is
	// logged but does not stop processing.
	Header []string

	// SkipInvalid controls whether to skip invalid records or return an error.
	SkipInvalid bool
}

// Parser converts the fields of one data line into T. line is 1-based and
// counts the header.
type Parser[T any] func(line int, fields []string) (T, error)

// ProcessFile opens filename and runs ProcessDelimited on it.
func ProcessFile[T any](filename string, parser Parser[T], opts ProcessorOptions) ([]T, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	items, err := ProcessDelimited(file, parser, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return items, nil
}

// ProcessDelimited reads the header line, then parses every following
// non-blank line into T. Unless SkipInvalid is set, the first malformed line
// aborts processing with a ParseError and no items are returned.
func ProcessDelimited[T any](r io.Reader, parser Parser[T], opts ProcessorOptions) ([]T, error) {
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, ErrEmptyFile
	}

	header := splitLine(strings.TrimPrefix(scanner.Text(), "\ufeff"), delimiter)
	if len(opts.Header) > 0 && !slices.Equal(header, opts.Header) {
		slog.Warn("Unexpected header line", "got", strings.Join(header, delimiter), "want", strings.Join(opts.Header, delimiter))
	}

	fieldsPerRecord := opts.FieldsPerRecord
	if fieldsPerRecord == 0 {
		fieldsPerRecord = len(header)
	}

	var items []T
	line := 1

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := splitLine(text, delimiter)

		item, err := parseRecord(line, fields, fieldsPerRecord, parser)
		if err != nil {
			if opts.SkipInvalid {
				slog.Warn("Skipping invalid record", "line", line, "error", err)
				continue
			}
			return nil, err
		}

		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", line+1, err)
	}

	return items, nil
}

func parseRecord[T any](line int, fields []string, fieldsPerRecord int, parser Parser[T]) (T, error) {
	var zero T

	if len(fields) != fieldsPerRecord {
		return zero, errors.NewParseError(line, "", fmt.Errorf("expected %d fields, got %d", fieldsPerRecord, len(fields)))
	}

	item, err := parser(line, fields)
	if err == nil {
		return item, nil
	}

	if _, ok := errors.AsParseError(err); ok {
		return zero, err
	}

	field := ""
	var validationErr *errors.ValidationError
	if stdErrors.As(err, &validationErr) {
		field = validationErr.Field
	}
	return zero, errors.NewParseError(line, field, err)
}

// splitLine splits one line on delimiter after dropping a trailing carriage return.
func splitLine(text, delimiter string) []string {
	return strings.Split(strings.TrimSuffix(text, "\r"), delimiter)
}

// FormatLine joins fields with delimiter. Values are written verbatim.
func FormatLine(fields []string, delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return strings.Join(fields, delimiter)
}
