package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for sqlx and database/sql
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore/memoryengine"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore/redisengine"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore/sqlengine"
)

const (
	sqliteDriverName          = "sqlite"
	postgresDriverName        = "postgres"
	defaultMaxConnLifetime    = time.Hour
	defaultMaxConnIdleTime    = time.Minute * 5
	defaultHealthCheckPeriod  = time.Minute
	defaultConnectTimeout     = time.Second * 5
	defaultMaxIdleConnections = 2
)

var (
	ErrOpeningDatabaseFailed = errors.New("opening database failed")
	ErrPingFailed            = errors.New("storage backend not reachable")
	ErrCreatingSchemaFailed  = errors.New("creating storage schema failed")
)

// Storage is an opened storage backend. Close releases its connections.
type Storage struct {
	recordstore.KeyValueStorage
	closers []func() error
}

// Close releases the connections of the backend.
func (s *Storage) Close() error {
	var err error
	for _, closeFn := range s.closers {
		err = errors.Join(err, closeFn())
	}

	return err
}

// OpenStorage connects to the configured backend and makes sure its schema exists.
// The logger, which may be nil, receives the SQL statements of the SQL backends.
func OpenStorage(ctx context.Context, cfg Config, logger recordstore.Logger) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendMemory:
		return openMemory(cfg)
	case BackendSQLite:
		return openSQLite(ctx, cfg, logger)
	case BackendPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return openRedis(ctx, cfg, logger)
	}
}

func openMemory(cfg Config) (*Storage, error) {
	storage, err := memoryengine.NewStorage(memoryengine.WithQuota(cfg.MemoryQuotaBytes))
	if err != nil {
		return nil, err
	}

	return &Storage{KeyValueStorage: storage}, nil
}

func openSQLite(ctx context.Context, cfg Config, logger recordstore.Logger) (*Storage, error) {
	db, err := sql.Open(sqliteDriverName, cfg.SQLitePath)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	// SQLite serializes writers, a single connection avoids "database is locked" errors
	db.SetMaxOpenConns(1)

	storage, err := sqlengine.NewStorageFromSQLDB(
		db,
		sqlengine.WithDialect(sqlengine.DialectSQLite),
		sqlengine.WithTableName(cfg.TableName),
		sqlengine.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return withSchema(ctx, storage, db.Close)
}

func openPostgres(ctx context.Context, cfg Config, logger recordstore.Logger) (*Storage, error) {
	options := []sqlengine.Option{
		sqlengine.WithTableName(cfg.TableName),
		sqlengine.WithLogger(logger),
	}

	switch cfg.Postgres.Driver {
	case PostgresDriverSQLX:
		db, err := sqlx.Open(postgresDriverName, cfg.Postgres.DSN)
		if err != nil {
			return nil, errors.Join(ErrOpeningDatabaseFailed, err)
		}

		configurePool(db.DB, cfg.Postgres.MaxConns)

		if err = pingWithRetry(ctx, cfg, logger, db.PingContext); err != nil {
			return nil, errors.Join(ErrPingFailed, err, db.Close())
		}

		storage, err := sqlengine.NewStorageFromSQLX(db, options...)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}

		return withSchema(ctx, storage, db.Close)

	case PostgresDriverSQLDB:
		db, err := sql.Open(postgresDriverName, cfg.Postgres.DSN)
		if err != nil {
			return nil, errors.Join(ErrOpeningDatabaseFailed, err)
		}

		configurePool(db, cfg.Postgres.MaxConns)

		if err = pingWithRetry(ctx, cfg, logger, db.PingContext); err != nil {
			return nil, errors.Join(ErrPingFailed, err, db.Close())
		}

		storage, err := sqlengine.NewStorageFromSQLDB(db, options...)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}

		return withSchema(ctx, storage, db.Close)

	default:
		poolConfig, err := PostgresPGXPoolConfig(cfg.Postgres)
		if err != nil {
			return nil, errors.Join(ErrOpeningDatabaseFailed, err)
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, errors.Join(ErrOpeningDatabaseFailed, err)
		}

		if err = pingWithRetry(ctx, cfg, logger, pool.Ping); err != nil {
			pool.Close()
			return nil, errors.Join(ErrPingFailed, err)
		}

		storage, err := sqlengine.NewStorageFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, err
		}

		return withSchema(ctx, storage, func() error {
			pool.Close()
			return nil
		})
	}
}

// PostgresPGXPoolConfig creates the pgxpool configuration for cfg.
func PostgresPGXPoolConfig(cfg PostgresConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns) //nolint:gosec // small configured value
	}

	poolConfig.MaxConnLifetime = defaultMaxConnLifetime
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return poolConfig, nil
}

func openRedis(ctx context.Context, cfg Config, logger recordstore.Logger) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }

	if err := pingWithRetry(ctx, cfg, logger, ping); err != nil {
		return nil, errors.Join(ErrPingFailed, err, client.Close())
	}

	storage, err := redisengine.NewStorage(client, redisengine.WithKeyPrefix(cfg.Redis.KeyPrefix))
	if err != nil {
		return nil, errors.Join(err, client.Close())
	}

	return &Storage{KeyValueStorage: storage, closers: []func() error{client.Close}}, nil
}

func withSchema(ctx context.Context, storage *sqlengine.Storage, closeFn func() error) (*Storage, error) {
	if err := storage.EnsureSchema(ctx); err != nil {
		return nil, errors.Join(ErrCreatingSchemaFailed, err, closeFn())
	}

	return &Storage{KeyValueStorage: storage, closers: []func() error{closeFn}}, nil
}

func configurePool(db *sql.DB, maxOpenConnections int) {
	if maxOpenConnections > 0 {
		db.SetMaxOpenConns(maxOpenConnections)
	}

	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
