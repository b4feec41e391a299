package cache

import (
	"context"
	"errors"
	"fmt"
	"solution_share/internal/domain/repository"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	displayNameKey   = "solution_share:user:%s:display_name"
	problemExistsKey = "solution_share:problem:%s:exists"
)

// CachedReadService puts redis in front of the lookups that every comment
// and solution write repeats. Redis trouble degrades to the database path.
type CachedReadService struct {
	repository.ReadService
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewCachedReadService(inner repository.ReadService, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedReadService {
	return &CachedReadService{ReadService: inner, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedReadService) GetUserDisplayName(ctx context.Context, userID string) (string, error) {
	key := fmt.Sprintf(displayNameKey, userID)
	name, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	name, err = c.ReadService.GetUserDisplayName(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, name, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return name, nil
}

// ProblemExists caches positive answers only; the catalog import may add a
// problem at any time.
func (c *CachedReadService) ProblemExists(ctx context.Context, problemID string) (bool, error) {
	key := fmt.Sprintf(problemExistsKey, problemID)
	n, err := c.rdb.Exists(ctx, key).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	ok, err := c.ReadService.ProblemExists(ctx, problemID)
	if err != nil || !ok {
		return ok, err
	}
	if err := c.rdb.Set(ctx, key, 1, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return true, nil
}

// ForgetUser drops cached data for a user that was deleted.
func (c *CachedReadService) ForgetUser(ctx context.Context, userID string) {
	key := fmt.Sprintf(displayNameKey, userID)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}
