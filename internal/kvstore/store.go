// Package kvstore is the durable key/value storage used for per-subject state that does
// not belong in the catalog tables: attempt counters, theme preferences and cached
// favorites.
package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/examprep/config"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Store is a string key/value store. A missing key is reported with ok=false and a nil
// error; errors are reserved for the backend itself failing.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewStore picks the backend named by KV_BACKEND.
func NewStore(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB) (Store, error) {
	switch cfg.KV.Backend {
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        cfg.KV.RedisAddr,
			Password:    cfg.KV.RedisPassword,
			DB:          cfg.KV.RedisDB,
			DialTimeout: 5 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return rdb.Close() },
		})
		log.Info().Str("addr", cfg.KV.RedisAddr).Msg("kv store: redis")
		return NewRedisStore(rdb, "examprep:"), nil
	case "memory":
		log.Warn().Msg("kv store: memory, attempt counters will not survive a restart")
		return NewMemoryStore(), nil
	case "", "database":
		log.Info().Msg("kv store: database table")
		return NewDBStore(db), nil
	default:
		return nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.KV.Backend)
	}
}
