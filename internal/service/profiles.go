package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/repository"
	"github.com/YusovID/doubt-desk/pkg/logger/sl"
)

// ProfileResolver expands user ids into display-safe profiles.
type ProfileResolver interface {
	Lookup(ctx context.Context, ids []string) (map[string]domain.Profile, error)
}

// ProfileDirectory reads profiles from the account store, going through the
// cache when one is configured. Cache failures degrade to store reads.
type ProfileDirectory struct {
	log   *slog.Logger
	users repository.UserRepository
	cache repository.ProfileCache
	ttl   time.Duration
}

// NewProfileDirectory builds a directory; cache may be nil.
func NewProfileDirectory(log *slog.Logger, users repository.UserRepository, cache repository.ProfileCache, ttl time.Duration) *ProfileDirectory {
	return &ProfileDirectory{
		log:   log,
		users: users,
		cache: cache,
		ttl:   ttl,
	}
}

func (d *ProfileDirectory) Lookup(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	const op = "internal.service.profiles.Lookup"
	log := d.log.With(slog.String("op", op))

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return map[string]domain.Profile{}, nil
	}

	found := make(map[string]domain.Profile, len(ids))
	missing := ids

	if d.cache != nil {
		cached, miss, err := d.cache.GetProfiles(ctx, ids)
		if err != nil {
			log.Warn("profile cache unavailable", sl.Err(err))
		} else {
			for id, p := range cached {
				found[id] = p
			}

			missing = miss
		}
	}

	if len(missing) == 0 {
		return found, nil
	}

	loaded, err := d.users.GetProfilesByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load profiles: %w", op, err)
	}

	fresh := make([]domain.Profile, 0, len(loaded))
	for id, p := range loaded {
		found[id] = p
		fresh = append(fresh, p)
	}

	if d.cache != nil && len(fresh) > 0 {
		if err := d.cache.SetProfiles(ctx, fresh, d.ttl); err != nil {
			log.Warn("failed to cache profiles", sl.Err(err))
		}
	}

	return found, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
