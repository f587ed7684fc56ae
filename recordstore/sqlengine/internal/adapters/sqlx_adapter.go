package adapters

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter runs the storage statements on a sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB
}

func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

func (a *SQLXAdapter) LookupValue(ctx context.Context, query string, args ...any) (string, error) {
	var value string

	err := a.db.GetContext(ctx, &value, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoValue
	}

	return value, err
}

func (a *SQLXAdapter) Exec(ctx context.Context, statement string, args ...any) error {
	_, err := a.db.ExecContext(ctx, statement, args...)

	return err
}
