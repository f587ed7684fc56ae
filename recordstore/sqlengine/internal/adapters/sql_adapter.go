package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter runs the storage statements on a database/sql handle (lib/pq, modernc sqlite).
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (a *SQLAdapter) LookupValue(ctx context.Context, query string, args ...any) (string, error) {
	return scanValue(a.db.QueryRowContext(ctx, query, args...))
}

func (a *SQLAdapter) Exec(ctx context.Context, statement string, args ...any) error {
	_, err := a.db.ExecContext(ctx, statement, args...)

	return err
}
