package realtime

import (
	"context"

	"go-taskhub/internal/config"
	"go-taskhub/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewBus builds the configured Bus implementation and ties it to the fx
// lifecycle. BUS_DRIVER=redis selects the Redis-backed bus; anything else
// gets the in-process hub.
func NewBus(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (Bus, error) {
	hub := NewHub(log, m)
	go hub.Run()

	if cfg.BusDriver != "redis" {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				hub.Stop()
				return nil
			},
		})
		return hub, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		hub.Stop()
		return nil, err
	}
	log.Info("realtime bus using redis", zap.String("addr", cfg.RedisAddr))

	bus := NewRedisBus(rdb, hub, log)
	runCtx, cancel := context.WithCancel(context.Background())
	go bus.Run(runCtx)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			cancel()
			hub.Stop()
			return rdb.Close()
		},
	})
	return bus, nil
}
