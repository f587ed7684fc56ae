// Package adapters hides the differences between pgxpool.Pool, sql.DB and sqlx.DB
// behind the two operations the SQL key/value storage performs.
package adapters
