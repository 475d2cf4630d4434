package errors

import (
	"errors"
	"fmt"
)

// ParseError is returned for a malformed row in a delimited file.
// Line is 1-based and counts the header line.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse error at line %d (%s): %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError for line. field may be empty when the
// whole row is malformed.
func NewParseError(line int, field string, err error) *ParseError {
	return &ParseError{Line: line, Field: field, Err: err}
}

// IsParseError reports whether err is a ParseError (even when wrapped).
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// AsParseError returns the first ParseError in err's chain.
func AsParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	ok := errors.As(err, &parseErr)
	return parseErr, ok
}
