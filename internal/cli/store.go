package cli

import (
	"fmt"

	"github.com/aretw0/sirsim/internal/config"
	"github.com/aretw0/sirsim/pkg/adapters/file"
	"github.com/aretw0/sirsim/pkg/adapters/memory"
	"github.com/aretw0/sirsim/pkg/adapters/redis"
	"github.com/aretw0/sirsim/pkg/adapters/sqlite"
	"github.com/aretw0/sirsim/pkg/ports"
)

// OpenStore builds the configured run store. The returned close function
// is always non-nil.
func OpenStore(cfg config.Store) (ports.RunStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", config.BackendMemory:
		return memory.NewStore(), noop, nil
	case config.BackendFile:
		path := cfg.Path
		if path == "" {
			path = file.DefaultPath
		}
		return file.NewStore(path), noop, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
