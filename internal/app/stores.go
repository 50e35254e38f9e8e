package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smg-ev/vendor-portal/internal/drafts"
	"github.com/smg-ev/vendor-portal/internal/platform/cache"
	"github.com/smg-ev/vendor-portal/internal/platform/db"
)

// OpenDraftStore connects the configured draft backend. The returned close
// func is never nil.
func OpenDraftStore(ctx context.Context, cfg *Config, logger *slog.Logger) (drafts.Store, func(), error) {
	noop := func() {}
	switch cfg.DraftStore {
	case drafts.KindRedis:
		client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err != nil {
			return nil, noop, err
		}
		logger.Info("draft store", slog.String("kind", "redis"), slog.Duration("ttl", cfg.DraftTTL))
		return drafts.NewRedisStore(client, cfg.DraftTTL), func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}, nil
	case drafts.KindPostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, noop, err
		}
		store := drafts.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("app: draft schema: %w", err)
		}
		logger.Info("draft store", slog.String("kind", "postgres"))
		return store, pool.Close, nil
	case drafts.KindMemory, "":
		logger.Info("draft store", slog.String("kind", "memory"))
		return drafts.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("app: unknown draft store %q", cfg.DraftStore)
	}
}
