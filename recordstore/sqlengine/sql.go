package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore/sqlengine/internal/adapters"
)

const (
	defaultTableName       = "bookshelf_storage"
	colItemKey             = "item_key"
	colItemValue           = "item_value"
	excludedItemValue      = "excluded." + colItemValue
	createTableStatement   = "CREATE TABLE IF NOT EXISTS %s (" + colItemKey + " TEXT PRIMARY KEY, " + colItemValue + " TEXT NOT NULL)"
	driverNameSQLite       = "sqlite"
	logMsgBuildQueryFailed = "failed to build sql query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database statement execution failed"
	logMsgSQLExecuted      = "executed sql for: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrDurationMS      = "duration_ms"
	logActionGet           = "get"
	logActionSet           = "set"
	logActionRemove        = "remove"
	logActionSchema        = "schema"
)

// Storage stores string items in a SQL table.
type Storage struct {
	db        adapters.DBAdapter
	dialect   string
	tableName string
	logger    recordstore.Logger
}

// NewStorageFromPGXPool creates a new PostgreSQL Storage using a pgx Pool with optional configuration.
func NewStorageFromPGXPool(db *pgxpool.Pool, options ...Option) (*Storage, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	s, err := newStorage(adapters.NewPGXAdapter(db), DialectPostgres, options)
	if err != nil {
		return nil, err
	}

	if s.dialect != DialectPostgres {
		return nil, ErrUnsupportedDialect
	}

	return s, nil
}

// NewStorageFromSQLDB creates a new Storage using a sql.DB with optional configuration.
// The dialect defaults to DialectPostgres, use WithDialect for SQLite connections.
func NewStorageFromSQLDB(db *sql.DB, options ...Option) (*Storage, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStorage(adapters.NewSQLAdapter(db), DialectPostgres, options)
}

// NewStorageFromSQLX creates a new Storage using a sqlx.DB with optional configuration.
// The dialect is derived from the driver name unless WithDialect is given.
func NewStorageFromSQLX(db *sqlx.DB, options ...Option) (*Storage, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStorage(adapters.NewSQLXAdapter(db), dialectForDriver(db.DriverName()), options)
}

func newStorage(db adapters.DBAdapter, dialect string, options []Option) (*Storage, error) {
	s := &Storage{
		db:        db,
		dialect:   dialect,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func dialectForDriver(driverName string) string {
	switch driverName {
	case driverNameSQLite, DialectSQLite:
		return DialectSQLite
	default:
		return DialectPostgres
	}
}

// TableName returns the table the items are stored in.
func (s *Storage) TableName() string {
	return s.tableName
}

// EnsureSchema creates the storage table if it does not exist yet.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	statement := fmt.Sprintf(createTableStatement, s.tableName)

	return s.exec(ctx, logActionSchema, statement, nil)
}

// GetItem implements recordstore.KeyValueStorage.
func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query, args, err := goqu.Dialect(s.dialect).
		From(s.tableName).
		Select(colItemValue).
		Where(goqu.C(colItemKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		s.logError(logMsgBuildQueryFailed, err)
		return "", false, errors.Join(ErrBuildingQueryFailed, err)
	}

	start := time.Now()
	value, err := s.db.LookupValue(ctx, query, args...)
	s.logQueryWithDuration(query, logActionGet, time.Since(start))

	switch {
	case errors.Is(err, adapters.ErrNoValue):
		return "", false, nil
	case err != nil:
		s.logError(logMsgDBQueryFailed, err, logAttrQuery, query)
		return "", false, errors.Join(ErrQueryingFailed, err)
	}

	return value, true, nil
}

// SetItem implements recordstore.KeyValueStorage as an upsert.
func (s *Storage) SetItem(ctx context.Context, key string, value string) error {
	statement, args, err := goqu.Dialect(s.dialect).
		Insert(s.tableName).
		Rows(goqu.Record{colItemKey: key, colItemValue: value}).
		OnConflict(goqu.DoUpdate(colItemKey, goqu.C(colItemValue).Set(goqu.I(excludedItemValue)))).
		Prepared(true).
		ToSQL()
	if err != nil {
		s.logError(logMsgBuildQueryFailed, err)
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	return s.exec(ctx, logActionSet, statement, args)
}

// RemoveItem implements recordstore.KeyValueStorage. Removing a missing key is not an error.
func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	statement, args, err := goqu.Dialect(s.dialect).
		Delete(s.tableName).
		Where(goqu.C(colItemKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		s.logError(logMsgBuildQueryFailed, err)
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	return s.exec(ctx, logActionRemove, statement, args)
}

func (s *Storage) exec(ctx context.Context, action string, statement string, args []any) error {
	start := time.Now()
	err := s.db.Exec(ctx, statement, args...)
	s.logQueryWithDuration(statement, action, time.Since(start))

	if err != nil {
		s.logError(logMsgDBExecFailed, err, logAttrQuery, statement)
		return errors.Join(ErrExecFailed, err)
	}

	return nil
}

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (s *Storage) logQueryWithDuration(query string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, query)
	}
}

// logError logs error information at the error level if the logger is configured.
func (s *Storage) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

var _ recordstore.KeyValueStorage = (*Storage)(nil)
