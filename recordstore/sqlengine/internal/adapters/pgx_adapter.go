package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter runs the storage statements on a pgxpool.Pool.
type PGXAdapter struct {
	pool *pgxpool.Pool
}

func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

func (a *PGXAdapter) LookupValue(ctx context.Context, query string, args ...any) (string, error) {
	var value string

	err := a.pool.QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoValue
	}

	return value, err
}

// Exec ignores the command tag, the storage never inspects affected rows.
func (a *PGXAdapter) Exec(ctx context.Context, statement string, args ...any) error {
	_, err := a.pool.Exec(ctx, statement, args...)

	return err
}
