package sqlengine

import (
	"regexp"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const (
	// DialectPostgres renders SQL for PostgreSQL ($n placeholders).
	DialectPostgres = "postgres"

	// DialectSQLite renders SQL for SQLite (? placeholders).
	DialectSQLite = "sqlite3"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Option defines a functional option for configuring Storage.
type Option func(*Storage) error

// WithTableName sets the table the items are stored in.
func WithTableName(tableName string) Option {
	return func(s *Storage) error {
		if !tableNamePattern.MatchString(tableName) {
			return ErrInvalidTableName
		}

		s.tableName = tableName

		return nil
	}
}

// WithDialect sets the SQL dialect. Connections from NewStorageFromPGXPool are always PostgreSQL.
func WithDialect(dialect string) Option {
	return func(s *Storage) error {
		if dialect != DialectPostgres && dialect != DialectSQLite {
			return ErrUnsupportedDialect
		}

		s.dialect = dialect

		return nil
	}
}

// WithLogger sets the logger for the Storage.
// Debug level: every SQL statement with its duration
// Error level: failed statements.
func WithLogger(logger recordstore.Logger) Option {
	return func(s *Storage) error {
		s.logger = logger
		return nil
	}
}
