package repository

import (
	"context"
	"errors"
	"time"

	"aquashop/cart"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cartKeyPrefix = "cart:"

// CartRepo stores serialized cart line items in Redis, one key per cart,
// rewritten whole on every change.
type CartRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ cart.Storage = (*CartRepo)(nil)

func NewCartRepository(redisConn *redis.Client, ttl time.Duration) (*CartRepo, error) {
	if redisConn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CartRepo{
		rdb: redisConn,
		ttl: ttl,
	}, nil
}

func (c *CartRepo) Read(ctx context.Context, cartSessionId string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, cartKeyPrefix+cartSessionId).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		zap.L().Error("CartRepo.Read", zap.String("cart", cartSessionId), zap.Error(err))
		return nil, err
	}
	return val, nil
}

func (c *CartRepo) Write(ctx context.Context, cartSessionId string, data []byte) error {
	err := c.rdb.Set(ctx, cartKeyPrefix+cartSessionId, data, c.ttl).Err()
	if err != nil {
		zap.L().Error("CartRepo.Write", zap.String("cart", cartSessionId), zap.Error(err))
	}
	return err
}
