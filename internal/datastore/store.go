package datastore

import "github.com/lepinkainen/furnish/internal/furniture"

// Store defines the furniture persistence contract. Records are identified by
// name; the table's internal Id never leaves the store.
type Store interface {
	// Initialize creates the Furniture table if it doesn't exist
	Initialize() error

	// Add inserts one record. A duplicate name fails with a UniqueConstraintError.
	Add(name, description string, price float64, height, width, length int) error

	// ReadAll returns every record in storage order
	ReadAll() ([]furniture.Furniture, error)

	// ReadByName returns the record with exactly this name or a NotFoundError
	ReadByName(name string) (furniture.Furniture, error)

	// Update overwrites all non-key fields of the record named f.Name.
	// Matching nothing is not an error; the affected row count is returned.
	Update(f furniture.Furniture) (int64, error)

	// DeleteByName removes the named record. Matching nothing is not an error.
	DeleteByName(name string) (int64, error)

	// Close closes the connection to the data store
	Close() error
}
