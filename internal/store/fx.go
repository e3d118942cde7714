package store

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicebook/internal/config"
	"github.com/smallbiznis/invoicebook/internal/observability/metrics"
	"github.com/smallbiznis/invoicebook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Lc      fx.Lifecycle
	Cfg     config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Result struct {
	fx.Out

	Store      Store
	Serializer Serializer
}

// Provide opens the configured backend.
func Provide(p Params) (Result, error) {
	log := p.Log.Named("store")

	switch p.Cfg.Store.Backend {
	case config.StoreBackendMemory:
		log.Warn("using in-memory entity store, data is lost on restart")
		return Result{
			Store:      Instrument(NewMemoryStore(), p.Metrics),
			Serializer: NewLocalSerializer(),
		}, nil

	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     p.Cfg.Redis.Addr,
			Password: p.Cfg.Redis.Password,
			DB:       p.Cfg.Redis.DB,
		})
		p.Lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		log.Info("using redis entity store", zap.String("addr", p.Cfg.Redis.Addr))
		ttl := time.Duration(p.Cfg.Redis.LockTTL) * time.Second
		return Result{
			Store:      Instrument(NewRedisStore(client, p.Cfg.Store.KeyPrefix), p.Metrics),
			Serializer: NewRedisSerializer(client, p.Cfg.Store.KeyPrefix+"write-lock", ttl),
		}, nil

	case config.StoreBackendSQL:
		conn, err := db.Open(p.Cfg, p.Log)
		if err != nil {
			return Result{}, err
		}
		p.Lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		st, err := NewSQLStore(conn)
		if err != nil {
			return Result{}, err
		}
		log.Info("using sql entity store", zap.String("dialect", p.Cfg.DBType))
		return Result{
			Store:      Instrument(st, p.Metrics),
			Serializer: NewLocalSerializer(),
		}, nil

	default:
		return Result{}, fmt.Errorf("unsupported store backend %q", p.Cfg.Store.Backend)
	}
}

var Module = fx.Module("store",
	fx.Provide(Provide),
)
