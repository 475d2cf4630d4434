package datastore

import (
	"database/sql"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/furnish/internal/furniture"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var errNotConnected = stdErrors.New("database is not connected")

// SQLiteStore implements the Store interface for local SQLite storage
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore instance
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Open connects to the database at dbPath and ensures the schema exists.
func Open(dbPath string) (*SQLiteStore, error) {
	store := NewSQLiteStore(dbPath)
	if err := store.Connect(); err != nil {
		return nil, err
	}
	if err := store.Initialize(); err != nil {
		return nil, stdErrors.Join(err, store.Close())
	}
	return store, nil
}

// Connect opens a connection to the SQLite database
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return errors.NewStorageUnavailableError(s.dbPath, err)
	}

	// Single user, single process: one connection keeps SQLite locking trivial
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return stdErrors.Join(errors.NewStorageUnavailableError(s.dbPath, err), closeErr)
	}

	s.db = db
	return nil
}

// Path returns the database file the store was created for.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Initialize creates the Furniture table if it doesn't exist
func (s *SQLiteStore) Initialize() error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.Exec(FurnitureSchema); err != nil {
		return errors.NewStorageUnavailableError(s.dbPath, fmt.Errorf("failed to create table: %w", err))
	}
	return nil
}

// Add inserts a single furniture record
func (s *SQLiteStore) Add(name, description string, price float64, height, width, length int) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewValidationError("name", "is required")
	}

	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.Exec(insertFurniture, name, description, price, height, width, length); err != nil {
		if isUniqueViolation(err) {
			return errors.NewUniqueConstraintError(name, err)
		}
		return fmt.Errorf("failed to insert furniture %q: %w", name, err)
	}

	slog.Debug("Added furniture", "name", name)
	return nil
}

// ReadAll returns all furniture records in insertion order
func (s *SQLiteStore) ReadAll() ([]furniture.Furniture, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(selectFurniture + " ORDER BY Id")
	if err != nil {
		return nil, fmt.Errorf("failed to query furniture: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []furniture.Furniture{}
	for rows.Next() {
		f, err := scanFurniture(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read furniture: %w", err)
	}

	return items, nil
}

// ReadByName returns the record with the given name. The match is exact and case-sensitive.
func (s *SQLiteStore) ReadByName(name string) (furniture.Furniture, error) {
	db, err := s.conn()
	if err != nil {
		return furniture.Furniture{}, err
	}

	f, err := scanFurniture(db.QueryRow(selectFurniture+" WHERE Name = ?", name))
	if stdErrors.Is(err, sql.ErrNoRows) {
		return furniture.Furniture{}, errors.NewNotFoundError(name)
	}
	if err != nil {
		return furniture.Furniture{}, err
	}
	return f, nil
}

// Update overwrites description, price and dimensions of the record named f.Name
func (s *SQLiteStore) Update(f furniture.Furniture) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(updateFurniture, f.Description, f.Price, f.Height, f.Width, f.Length, f.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to update furniture %q: %w", f.Name, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read update result: %w", err)
	}

	slog.Debug("Updated furniture", "name", f.Name, "rows", affected)
	return affected, nil
}

// DeleteByName removes the record with the given name
func (s *SQLiteStore) DeleteByName(name string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(deleteFurniture, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete furniture %q: %w", name, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	slog.Debug("Deleted furniture", "name", name, "rows", affected)
	return affected, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, errors.NewStorageUnavailableError(s.dbPath, errNotConnected)
	}
	return s.db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFurniture(row rowScanner) (furniture.Furniture, error) {
	var f furniture.Furniture
	err := row.Scan(&f.Name, &f.Description, &f.Price, &f.Height, &f.Width, &f.Length)
	if stdErrors.Is(err, sql.ErrNoRows) {
		return furniture.Furniture{}, err
	}
	if err != nil {
		return furniture.Furniture{}, fmt.Errorf("failed to scan furniture: %w", err)
	}
	return f, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if stdErrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
