package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "BOOKSHELF_"

	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"

	PostgresDriverPGX   = "pgx"
	PostgresDriverSQLX  = "sqlx"
	PostgresDriverSQLDB = "sqldb"

	defaultSQLitePath   = "bookshelf.db"
	defaultTableName    = "bookshelf_storage"
	defaultRedisAddr    = "localhost:6379"
	defaultRedisPrefix  = "bookshelf:"
	defaultHTTPAddr     = "localhost:8080"
	defaultLogLevel     = "info"
	defaultServiceName  = "bookshelf"
	defaultPostgresPool = 8
)

var (
	ErrReadingConfigFileFailed = errors.New("reading config file failed")
	ErrParsingConfigFileFailed = errors.New("parsing config file failed")
	ErrParsingEnvFailed        = errors.New("parsing environment failed")
	ErrUnknownBackend          = errors.New("unknown storage backend")
	ErrUnknownPostgresDriver   = errors.New("unknown postgres driver")
	ErrMissingPostgresDSN      = errors.New("postgres backend requires a dsn")
	ErrNegativeMemoryQuota     = errors.New("memory quota must not be negative")
	ErrNegativeConnectAttempts = errors.New("connect attempts must not be negative")
)

// Config is the complete configuration of the bookshelf binary.
type Config struct {
	Backend          string         `yaml:"backend"            env:"BACKEND"`
	SQLitePath       string         `yaml:"sqlite_path"        env:"SQLITE_PATH"`
	TableName        string         `yaml:"table_name"         env:"TABLE_NAME"`
	MemoryQuotaBytes int            `yaml:"memory_quota_bytes" env:"MEMORY_QUOTA_BYTES"`
	Postgres         PostgresConfig `yaml:"postgres"           envPrefix:"POSTGRES_"`
	Redis            RedisConfig    `yaml:"redis"              envPrefix:"REDIS_"`
	HTTPAddr         string         `yaml:"http_addr"          env:"HTTP_ADDR"`
	LogLevel         string         `yaml:"log_level"          env:"LOG_LEVEL"`
	OTLPEndpoint     string         `yaml:"otlp_endpoint"      env:"OTLP_ENDPOINT"`
	ServiceName      string         `yaml:"service_name"       env:"SERVICE_NAME"`
	ConnectAttempts  int            `yaml:"connect_attempts"   env:"CONNECT_ATTEMPTS"`
}

// PostgresConfig selects the PostgreSQL connection and the client library used for it.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"       env:"DSN"`
	Driver   string `yaml:"driver"    env:"DRIVER"`
	MaxConns int    `yaml:"max_conns" env:"MAX_CONNS"`
}

// RedisConfig selects the Redis server and the key namespace.
type RedisConfig struct {
	Addr      string `yaml:"addr"       env:"ADDR"`
	Password  string `yaml:"password"   env:"PASSWORD"`
	DB        int    `yaml:"db"         env:"DB"`
	KeyPrefix string `yaml:"key_prefix" env:"KEY_PREFIX"`
}

// Default returns the configuration used when nothing is configured: a local SQLite file.
func Default() Config {
	return Config{
		Backend:    BackendSQLite,
		SQLitePath: defaultSQLitePath,
		TableName:  defaultTableName,
		Postgres: PostgresConfig{
			Driver:   PostgresDriverPGX,
			MaxConns: defaultPostgresPool,
		},
		Redis: RedisConfig{
			Addr:      defaultRedisAddr,
			KeyPrefix: defaultRedisPrefix,
		},
		HTTPAddr:        defaultHTTPAddr,
		LogLevel:        defaultLogLevel,
		ServiceName:     defaultServiceName,
		ConnectAttempts: defaultConnectAttempts,
	}
}

// Load builds the configuration from the defaults, the YAML file at path (skipped if path is empty)
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadingConfigFileFailed, err)
		}

		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Join(ErrParsingConfigFileFailed, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, errors.Join(ErrParsingEnvFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the combination of backend and backend settings.
func (c Config) Validate() error {
	if c.ConnectAttempts < 0 {
		return ErrNegativeConnectAttempts
	}

	switch c.Backend {
	case BackendSQLite, BackendRedis:
	case BackendMemory:
		if c.MemoryQuotaBytes < 0 {
			return ErrNegativeMemoryQuota
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return ErrMissingPostgresDSN
		}

		switch c.Postgres.Driver {
		case PostgresDriverPGX, PostgresDriverSQLX, PostgresDriverSQLDB:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownPostgresDriver, c.Postgres.Driver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	return nil
}

// connectAttempts treats an unset value as the default.
func (c Config) connectAttempts() int {
	if c.ConnectAttempts == 0 {
		return defaultConnectAttempts
	}

	return c.ConnectAttempts
}
