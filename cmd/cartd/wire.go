package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/freshmart-cart/internal/backend"
	"github.com/nikolayk812/freshmart-cart/internal/config"
	"github.com/nikolayk812/freshmart-cart/internal/port"
	"github.com/nikolayk812/freshmart-cart/internal/rabbitmq"
	"github.com/nikolayk812/freshmart-cart/internal/repository"
	"github.com/nikolayk812/freshmart-cart/internal/storage"
	"go.uber.org/zap"
)

// openStorage returns the configured slot backend and a func releasing it.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.SlotStorage, func(), error) {
	switch cfg.CartBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		logger.Info("cart storage: postgres")
		return repository.NewSlots(pool), pool.Close, nil

	case config.BackendRedis:
		r, err := storage.NewRedis(ctx, cfg.RedisAddr, cfg.RedisTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("storage.NewRedis: %w", err)
		}
		logger.Info("cart storage: redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.RedisTTL))
		return r, func() { _ = r.Close() }, nil

	default:
		logger.Warn("cart storage: memory, carts are lost on restart")
		return storage.NewMemory(), func() {}, nil
	}
}

// openSubmitter returns where checkout sends orders.
func openSubmitter(cfg *config.Config, client *backend.Client, logger *zap.Logger) (port.OrderSubmitter, func(), error) {
	if cfg.OrderSink != config.SinkRabbitMQ {
		return client, func() {}, nil
	}

	pool, err := rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq.NewChannelPool: %w", err)
	}

	return rabbitmq.NewPublisher(pool, cfg.RabbitMQQueue, logger), pool.Close, nil
}
