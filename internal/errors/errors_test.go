package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Chair")

	expected := `furniture "Chair" not found`
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsNotFoundError(err) {
		t.Fatalf("IsNotFoundError returned false for NotFoundError")
	}

	wrapped := fmt.Errorf("read furniture: %w", err)
	if !IsNotFoundError(wrapped) {
		t.Fatalf("IsNotFoundError returned false for wrapped NotFoundError")
	}

	if IsUniqueConstraintError(err) {
		t.Fatalf("IsUniqueConstraintError returned true for NotFoundError")
	}
}

func TestUniqueConstraintError(t *testing.T) {
	driverErr := stdErrors.New("UNIQUE constraint failed: Furniture.Name")
	err := NewUniqueConstraintError("Table", driverErr)

	expected := `furniture "Table" already exists`
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsUniqueConstraintError(stdErrors.Join(err)) {
		t.Fatalf("IsUniqueConstraintError returned false for joined UniqueConstraintError")
	}

	if !stdErrors.Is(err, driverErr) {
		t.Fatalf("UniqueConstraintError does not unwrap to the driver error")
	}
}

func TestStorageUnavailableError(t *testing.T) {
	cause := stdErrors.New("unable to open database file")
	err := NewStorageUnavailableError("/nope/furniture.db", cause)

	expected := "storage unavailable (/nope/furniture.db): unable to open database file"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsStorageUnavailableError(fmt.Errorf("initialize: %w", err)) {
		t.Fatalf("IsStorageUnavailableError returned false for wrapped error")
	}

	if !stdErrors.Is(err, cause) {
		t.Fatalf("StorageUnavailableError does not unwrap to its cause")
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name            string
		err             *ParseError
		expectedMessage string
	}{
		{
			name:            "with field",
			err:             NewParseError(3, "Price", stdErrors.New(`invalid number "abc"`)),
			expectedMessage: `parse error at line 3 (Price): invalid number "abc"`,
		},
		{
			name:            "whole row",
			err:             NewParseError(7, "", stdErrors.New("expected 6 fields, got 5")),
			expectedMessage: "parse error at line 7: expected 6 fields, got 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMessage {
				t.Fatalf("Error message = %q, want %q", tt.err.Error(), tt.expectedMessage)
			}
			if !IsParseError(tt.err) {
				t.Fatalf("IsParseError returned false for ParseError")
			}
		})
	}
}

func TestAsParseError(t *testing.T) {
	err := fmt.Errorf("import: %w", NewParseError(2, "Height", stdErrors.New("bad")))

	parseErr, ok := AsParseError(err)
	if !ok {
		t.Fatalf("AsParseError returned false for wrapped ParseError")
	}
	if parseErr.Line != 2 || parseErr.Field != "Height" {
		t.Fatalf("ParseError = %+v, want line 2 field Height", parseErr)
	}

	if _, ok := AsParseError(stdErrors.New("plain")); ok {
		t.Fatalf("AsParseError returned true for a plain error")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("description", "is required")

	if err.Error() != "invalid description: is required" {
		t.Fatalf("Error message = %q", err.Error())
	}
	if !IsValidationError(stdErrors.Join(stdErrors.New("other"), err)) {
		t.Fatalf("IsValidationError returned false for joined ValidationError")
	}
	if IsNotFoundError(err) {
		t.Fatalf("IsNotFoundError returned true for ValidationError")
	}
}

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("datasette", 0)
	if err.Error() != "datasette rate limit exceeded" {
		t.Errorf("unexpected message %q", err.Error())
	}

	wrapped := fmt.Errorf("publish: %w", NewRateLimitError("datasette", 2*time.Second))
	if !IsRateLimitError(wrapped) {
		t.Error("expected wrapped RateLimitError to be detected")
	}
	if IsRateLimitError(stdErrors.New("other")) {
		t.Error("plain error reported as RateLimitError")
	}
}
