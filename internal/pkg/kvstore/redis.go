package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*Redis)(nil)

// Redis stores records as plain string values. Records never expire; the
// browser-local semantics of the storefront have no TTL.
type Redis struct {
	client      *redis.Client
	serviceName string
}

func NewRedis(addr, serviceName string) *Redis {
	return NewRedisFromClient(redis.NewClient(&redis.Options{Addr: addr}), serviceName)
}

func NewRedisFromClient(client *redis.Client, serviceName string) *Redis {
	return &Redis{client: client, serviceName: serviceName}
}

func (r *Redis) Get(ctx context.Context, key Key) ([]byte, error) {
	v, err := r.client.Get(ctx, r.GenerateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key Key, value []byte) error {
	if err := r.client.Set(ctx, r.GenerateKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key Key) error {
	if err := r.client.Del(ctx, r.GenerateKey(key)).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// GenerateKey maps a Key onto the flat Redis keyspace as service:namespace:owner.
func (r *Redis) GenerateKey(key Key) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, key.Namespace, key.Owner)
}
