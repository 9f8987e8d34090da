package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const revokedTokenKeyPrefix = "auth:revoked:"

// TokenDenylist remembers logged-out tokens until they would have expired anyway
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenDenylist struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewTokenDenylist(redisClient *redis.Client, log *logrus.Logger) TokenDenylist {
	return &redisTokenDenylist{
		redisClient: redisClient,
		log:         log,
	}
}

func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.redisClient.Set(ctx, revokedTokenKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		d.log.Warnf("Failed to revoke token %s: %+v", tokenID, err)
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := d.redisClient.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token %s: %w", tokenID, err)
	}
	return exists > 0, nil
}
