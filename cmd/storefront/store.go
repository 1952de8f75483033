package main

import (
	"context"
	"fmt"

	"github.com/jcmexdev/maison-storefront/internal/pkg/config"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore/sqlite"
)

// backend bundles the chosen store with its health probe and cleanup.
type backend struct {
	store kvstore.Store
	ping  func(ctx context.Context) error
	close func() error
}

func (b backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func openStore(ctx context.Context, cfg config.Config) (backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return backend{store: kvstore.NewMemory(), close: func() error { return nil }}, nil

	case config.BackendRedis:
		r := kvstore.NewRedis(cfg.RedisAddr, cfg.ServiceName)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return backend{}, fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
		}
		return backend{store: r, ping: r.Ping, close: r.Close}, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return backend{}, err
		}
		return backend{store: s, ping: s.Ping, close: s.Close}, nil

	default:
		return backend{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
