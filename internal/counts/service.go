// internal/counts/service.go

// Package counts serves the console's tab-badge numbers: listings
// grouped by status, type or plan. Counts are read far more often than
// they change, so they sit behind a short-TTL Redis cache that the
// status workflow invalidates on every transition.
package counts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/common/metrics"
)

const cacheKeyPrefix = "counts:listings:"

// Groups the service will serve. Anything else is rejected before it
// reaches the database.
var knownGroups = []string{"status", "type", "plan"}

// CountSource produces the grouped counts from storage.
type CountSource interface {
	FetchCounts(ctx context.Context, groupBy string) (map[string]int, error)
}

// Service answers badge-count queries through the cache.
type Service struct {
	source CountSource
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewService creates a counts service. A nil redis client disables
// caching; every call then hits storage.
func NewService(source CountSource, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		source: source,
		redis:  rdb,
		ttl:    ttl,
		logger: log,
	}
}

// Get returns the counts for one group, from cache when fresh. A cache
// read or write failure degrades to a storage query; stale or missing
// cache entries must never make the badges unavailable.
func (s *Service) Get(ctx context.Context, groupBy string) (map[string]int, error) {
	if !validGroup(groupBy) {
		return nil, errors.NewInvalidFilterError(fmt.Sprintf("cannot group by %q", groupBy))
	}

	key := cacheKeyPrefix + groupBy
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			var counts map[string]int
			if jsonErr := json.Unmarshal([]byte(cached), &counts); jsonErr == nil {
				metrics.CountsCacheHits.WithLabelValues("hit").Inc()
				return counts, nil
			}
			s.logger.Warn("corrupt counts cache entry, refetching", map[string]interface{}{
				"key": key,
			})
		} else if err != redis.Nil {
			s.logger.WithError(err).Warn("counts cache read failed", map[string]interface{}{
				"key": key,
			})
		}
		metrics.CountsCacheHits.WithLabelValues("miss").Inc()
	}

	counts, err := s.source.FetchCounts(ctx, groupBy)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		payload, _ := json.Marshal(counts)
		if err := s.redis.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.logger.WithError(err).Warn("counts cache write failed", map[string]interface{}{
				"key": key,
			})
		}
	}

	return counts, nil
}

// Invalidate drops all cached groups. Called by the workflow after a
// status transition so the badges reflect the move immediately.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	keys := make([]string, len(knownGroups))
	for i, g := range knownGroups {
		keys[i] = cacheKeyPrefix + g
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return errors.NewCountsError(err)
	}
	return nil
}

func validGroup(groupBy string) bool {
	for _, g := range knownGroups {
		if g == groupBy {
			return true
		}
	}
	return false
}
