// Package redis caches user profiles used to decorate question projections.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/doubt-desk/internal/config"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/pkg/logger/sl"
	"github.com/redis/go-redis/v9"
)

// PrefixProfile namespaces profile keys.
const PrefixProfile = "profile:"

var ErrInvalidTTL = errors.New("cache: invalid TTL")

func ProfileKey(userID string) string {
	return PrefixProfile + userID
}

type ProfileCache struct {
	client *redis.Client
	log    *slog.Logger
}

func NewProfileCache(ctx context.Context, cfg config.Redis, log *slog.Logger) (*ProfileCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("can't connect to redis: %w", err)
	}

	log.Info("connected to redis", slog.String("addr", cfg.Addr))

	return &ProfileCache{client: client, log: log}, nil
}

func (c *ProfileCache) Close() error {
	return c.client.Close()
}

// GetProfiles returns the cached profiles and the ids that missed.
// Entries that fail to decode count as misses.
func (c *ProfileCache) GetProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, []string, error) {
	const op = "internal.repository.redis.GetProfiles"

	found := make(map[string]domain.Profile, len(ids))
	if len(ids) == 0 {
		return found, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ProfileKey(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, ids, fmt.Errorf("%s: failed to read profiles: %w", op, err)
	}

	var missing []string
	for i, val := range values {
		raw, ok := val.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}

		var p domain.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			c.log.Warn("dropping malformed cached profile", slog.String("op", op), slog.String("key", keys[i]), sl.Err(err))
			missing = append(missing, ids[i])
			continue
		}

		found[ids[i]] = p
	}

	return found, missing, nil
}

func (c *ProfileCache) SetProfiles(ctx context.Context, profiles []domain.Profile, ttl time.Duration) error {
	const op = "internal.repository.redis.SetProfiles"

	if len(profiles) == 0 {
		return nil
	}

	if ttl < 0 {
		return ErrInvalidTTL
	}

	pipe := c.client.Pipeline()

	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("%s: failed to encode profile %s: %w", op, p.ID, err)
		}

		pipe.Set(ctx, ProfileKey(p.ID), data, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: failed to write profiles: %w", op, err)
	}

	return nil
}
