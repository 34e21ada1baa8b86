package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"productsync/internal/config"
	"productsync/internal/domain/event"
	"productsync/internal/infrastructure/adminapi"
	"productsync/internal/infrastructure/postgres"
	"productsync/internal/infrastructure/rabbitmq"
	"productsync/internal/infrastructure/redis"

	pgxpool "github.com/jackc/pgx/v5/pgxpool"
	go_redis "github.com/redis/go-redis/v9"
)

// Factory memoizes infrastructure clients so both binaries wire them the
// same way. Postgres and Redis fail fast; the broker manager is returned
// unstarted and keeps retrying on its own once Run is called.
type Factory struct {
	cfg    *config.Config
	logger *slog.Logger

	pgPool      *pgxpool.Pool
	redisCli    *go_redis.Client
	broker      *rabbitmq.Manager
	adminClient *adminapi.Client
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

func (f *Factory) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if f.pgPool != nil {
		return f.pgPool, nil
	}

	var pool *pgxpool.Pool
	var err error

	// Retry connection up to 5 times
	for i := 0; i < 5; i++ {
		pool, err = postgres.NewClient(ctx, postgres.Config{
			Host:     f.cfg.Postgres.Host,
			Port:     f.cfg.Postgres.Port,
			User:     f.cfg.Postgres.User,
			Password: f.cfg.Postgres.Password,
			DBName:   f.cfg.Postgres.DBName,
		})
		if err == nil {
			break
		}
		f.logger.Warn("postgres connect failed, retrying in 2s", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to init postgres after retries: %w", err)
	}

	f.pgPool = pool
	return pool, nil
}

func (f *Factory) Redis(ctx context.Context) (*go_redis.Client, error) {
	if f.redisCli != nil {
		return f.redisCli, nil
	}

	client, err := redis.NewClient(ctx, redis.Config{
		Addr: f.cfg.Redis.Addr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	f.redisCli = client
	return client, nil
}

// Broker builds the connection manager with the three change queues
// declared on every session. The caller owns its Run loop.
func (f *Factory) Broker() *rabbitmq.Manager {
	if f.broker != nil {
		return f.broker
	}

	f.broker = rabbitmq.NewManager(rabbitmq.Config{
		URL:        f.cfg.AMQP.URL,
		RetryDelay: f.cfg.AMQP.RetryDelay,
		Queues:     event.Queues(),
	}, f.logger)
	return f.broker
}

// AdminClient is the public service's synchronous path into the admin
// store.
func (f *Factory) AdminClient() *adminapi.Client {
	if f.adminClient != nil {
		return f.adminClient
	}

	f.adminClient = adminapi.NewClient(f.cfg.Admin.BaseURL)
	return f.adminClient
}

func (f *Factory) Close() {
	if f.pgPool != nil {
		f.pgPool.Close()
	}
	if f.redisCli != nil {
		f.redisCli.Close()
	}
}
