package cmd

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"aquashop/cart"
	"aquashop/config"
	"aquashop/repository"
	"aquashop/repository/memory"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// stores bundles the repositories chosen by configuration.
type stores struct {
	fishes   repository.FishRepository
	orders   repository.OrderRepository
	sessions repository.SessionRepository
	carts    cart.Storage

	db  *sql.DB
	rdb *redis.Client
}

func openDB(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	if cfg.Driver == "memory" {
		return nil, errors.New("DB_DRIVER=memory has no database to open")
	}
	db, err := repository.Open(ctx, cfg.Driver, cfg.URL)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*stores, error) {
	s := &stores{}
	var err error

	if cfg.Database.Driver == "memory" {
		log.Warn("using in-memory catalog and orders, data is lost on exit")
		s.fishes = memory.NewFishRepository()
		s.orders = memory.NewOrderRepository()
	} else {
		if s.db, err = openDB(ctx, cfg.Database); err != nil {
			return nil, err
		}
		log.Info("db connected", zap.String("driver", cfg.Database.Driver))
		if s.fishes, err = repository.NewFishRepository(s.db); err != nil {
			s.close()
			return nil, err
		}
		if s.orders, err = repository.NewOrderRepository(s.db); err != nil {
			s.close()
			return nil, err
		}
	}

	if cfg.Redis.URL == "" {
		log.Warn("REDIS_URL is empty, carts and admin sessions stay in memory")
		s.carts = memory.NewCartStore()
		s.sessions = memory.NewSessionRepository(cfg.Admin.SessionTTL)
		return s, nil
	}
	if s.rdb, err = repository.NewRedisClient(ctx, cfg.Redis); err != nil {
		s.close()
		return nil, err
	}
	log.Info("redis connected")
	if s.carts, err = repository.NewCartRepository(s.rdb, cfg.CartTTL); err != nil {
		s.close()
		return nil, err
	}
	if s.sessions, err = repository.NewSessionRepository(s.rdb, cfg.Admin.SessionTTL); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *stores) close() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

const shutdownTimeout = 10 * time.Second
