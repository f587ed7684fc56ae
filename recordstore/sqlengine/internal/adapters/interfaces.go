package adapters

import (
	"context"
	"errors"
)

// ErrNoValue is returned by LookupValue when the query yields no row.
var ErrNoValue = errors.New("no value found")

// DBAdapter is what the SQL storage needs from a connection: a single-column, single-row
// lookup and plain statement execution.
type DBAdapter interface {
	// LookupValue scans the first column of the first row into a string, or returns ErrNoValue.
	LookupValue(ctx context.Context, query string, args ...any) (string, error)
	Exec(ctx context.Context, statement string, args ...any) error
}
