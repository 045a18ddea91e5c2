package repository

import (
	"context"
	"errors"
	"time"

	"aquashop/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "admin-session:"

type SessionRepository interface {
	CreateSession(ctx context.Context, username string) (sessionId string, err error)
	CheckSession(ctx context.Context, sessionId string) (bool, error)
	GetSessionUser(ctx context.Context, sessionId string) (username string, exists bool, err error)
	DeleteSession(ctx context.Context, sessionId string) (err error)
}

type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(redisConn *redis.Client, ttl time.Duration) (SessionRepository, error) {
	if redisConn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRepo{
		rdb: redisConn,
		ttl: ttl,
	}, nil
}

func (s *SessionRepo) CreateSession(ctx context.Context, username string) (sessionId string, err error) {
	sessionId = uuid.NewString()
	key := sessionKeyPrefix + sessionId
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "username", username, "admin", "1", "createdAt", time.Now().UTC().Format(time.RFC3339))
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		zap.L().Error("CreateSession", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (s *SessionRepo) CheckSession(ctx context.Context, sessionId string) (bool, error) {
	exists, err := s.rdb.Exists(ctx, sessionKeyPrefix+sessionId).Result()
	if err != nil {
		zap.L().Error("CheckSession", zap.Error(err))
		return false, models.ErrServerError
	}
	return exists > 0, nil
}

func (s *SessionRepo) GetSessionUser(ctx context.Context, sessionId string) (username string, exists bool, err error) {
	val, e := s.rdb.HGetAll(ctx, sessionKeyPrefix+sessionId).Result()
	if e != nil {
		zap.L().Error("GetSessionUser", zap.Error(e))
		err = models.ErrServerError
		return
	}
	if val["admin"] != "1" {
		return
	}
	username = val["username"]
	exists = true
	return
}

func (s *SessionRepo) DeleteSession(ctx context.Context, sessionId string) (err error) {
	err = s.rdb.Del(ctx, sessionKeyPrefix+sessionId).Err()
	if err != nil {
		zap.L().Error("DeleteSession", zap.Error(err))
		err = models.ErrServerError
	}
	return
}
