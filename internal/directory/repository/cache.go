package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	directoryerrors "backstage/internal/directory/errors"
	"backstage/pkg/logger"
	"backstage/pkg/model"

	"github.com/go-redis/redis/v8"
)

const profileKeyPrefix = "directory:profile:"

type ProfileCache interface {
	Get(ctx context.Context, id string) (*model.TalentProfile, error)
	Set(ctx context.Context, profile *model.TalentProfile) error
	Delete(ctx context.Context, id string) error
}

type redisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) ProfileCache {
	return &redisProfileCache{client: client, ttl: ttl}
}

func profileKey(id string) string {
	return fmt.Sprintf("%s%s", profileKeyPrefix, id)
}

func (c *redisProfileCache) Get(ctx context.Context, id string) (*model.TalentProfile, error) {
	data, err := c.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, directoryerrors.ErrCacheMiss
		}
		return nil, err
	}

	var profile model.TalentProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *redisProfileCache) Set(ctx context.Context, profile *model.TalentProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(profile.ID), data, c.ttl).Err()
}

func (c *redisProfileCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, profileKey(id)).Err()
}

// cachedProfileRepository serves FindByID through the cache and invalidates
// on every write. Listings always hit the store because capacity counters
// change under concurrent assignment. Cache failures are logged and ignored.
type cachedProfileRepository struct {
	next  ProfileRepository
	cache ProfileCache
	log   *logger.Logger
}

func NewCachedProfileRepository(next ProfileRepository, cache ProfileCache, log *logger.Logger) ProfileRepository {
	return &cachedProfileRepository{next: next, cache: cache, log: log}
}

func (r *cachedProfileRepository) FindByID(ctx context.Context, id string) (*model.TalentProfile, error) {
	profile, err := r.cache.Get(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, directoryerrors.ErrCacheMiss) {
		r.log.Warn("Profile cache read failed", "profile_id", id, "error", err)
	}

	profile, err = r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, profile); err != nil {
		r.log.Warn("Profile cache write failed", "profile_id", id, "error", err)
	}
	return profile, nil
}

func (r *cachedProfileRepository) FindManagedAgents(ctx context.Context) ([]*model.TalentProfile, error) {
	return r.next.FindManagedAgents(ctx)
}

func (r *cachedProfileRepository) FindProfessionals(ctx context.Context, serviceType model.ServiceType) ([]*model.TalentProfile, error) {
	return r.next.FindProfessionals(ctx, serviceType)
}

func (r *cachedProfileRepository) UpsertService(ctx context.Context, userID string, svc *model.ProfessionalService, categories []string) error {
	if err := r.next.UpsertService(ctx, userID, svc, categories); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *cachedProfileRepository) ReserveCapacity(ctx context.Context, agentID string) (bool, error) {
	ok, err := r.next.ReserveCapacity(ctx, agentID)
	if ok {
		r.invalidate(ctx, agentID)
	}
	return ok, err
}

func (r *cachedProfileRepository) ReleaseCapacity(ctx context.Context, agentID string) error {
	if err := r.next.ReleaseCapacity(ctx, agentID); err != nil {
		return err
	}
	r.invalidate(ctx, agentID)
	return nil
}

func (r *cachedProfileRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("Profile cache invalidation failed", "profile_id", id, "error", err)
	}
}
