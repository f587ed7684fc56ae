package sqlengine

import "errors"

// ErrNilDatabaseConnection is returned when a constructor receives a nil connection.
var ErrNilDatabaseConnection = errors.New("nil database connection supplied")

// ErrInvalidTableName is returned for table names that are not plain SQL identifiers.
var ErrInvalidTableName = errors.New("invalid table name supplied")

// ErrUnsupportedDialect is returned for dialects other than DialectPostgres and DialectSQLite.
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")

// ErrBuildingQueryFailed wraps goqu query building failures.
var ErrBuildingQueryFailed = errors.New("building the sql query failed")

// ErrQueryingFailed wraps failures of the item lookup, including scan failures.
var ErrQueryingFailed = errors.New("querying the storage table failed")

// ErrExecFailed wraps failures of write statements.
var ErrExecFailed = errors.New("executing the storage statement failed")
