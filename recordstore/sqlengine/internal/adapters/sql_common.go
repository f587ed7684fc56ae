package adapters

import (
	"database/sql"
	"errors"
)

// scanValue maps sql.ErrNoRows to ErrNoValue for the database/sql based adapters.
func scanValue(row *sql.Row) (string, error) {
	var value string

	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoValue
	}

	return value, err
}
