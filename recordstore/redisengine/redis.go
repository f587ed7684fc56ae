package redisengine

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const defaultKeyPrefix = "bookshelf:"

// ErrNilRedisClient is returned by NewStorage when no client is supplied.
var ErrNilRedisClient = errors.New("nil redis client supplied")

// ErrRedisCommandFailed wraps any error returned by Redis except a missing key.
var ErrRedisCommandFailed = errors.New("redis command failed")

// Storage keeps string items in Redis.
type Storage struct {
	client    redis.UniversalClient
	keyPrefix string
}

// Option defines a functional option for configuring Storage.
type Option func(*Storage) error

// WithKeyPrefix sets the prefix prepended to every item key. An empty prefix is allowed.
func WithKeyPrefix(prefix string) Option {
	return func(s *Storage) error {
		s.keyPrefix = prefix
		return nil
	}
}

// NewStorage creates a Storage on top of client with optional configuration.
func NewStorage(client redis.UniversalClient, options ...Option) (*Storage, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}

	s := &Storage{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// GetItem implements recordstore.KeyValueStorage.
func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, errors.Join(ErrRedisCommandFailed, err)
	}

	return value, true, nil
}

// SetItem implements recordstore.KeyValueStorage. Items never expire.
func (s *Storage) SetItem(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, 0).Err(); err != nil {
		return errors.Join(ErrRedisCommandFailed, err)
	}

	return nil
}

// RemoveItem implements recordstore.KeyValueStorage.
func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return errors.Join(ErrRedisCommandFailed, err)
	}

	return nil
}

func (s *Storage) redisKey(key string) string {
	return s.keyPrefix + key
}

var _ recordstore.KeyValueStorage = (*Storage)(nil)
