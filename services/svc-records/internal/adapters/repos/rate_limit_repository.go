package repos

import (
	"context"
	"time"

	"github.com/architeacher/records/services/svc-records/internal/infrastructure/keydb"
	"github.com/throttled/throttled/v2"
)

const (
	rateLimitKeyPrefix = "svc-records:ratelimit:"
)

// RateLimitStore keeps GCRA state in KeyDB so replicas share one quota.
type RateLimitStore struct {
	client *keydb.Client
	prefix string
}

var _ throttled.GCRAStoreCtx = (*RateLimitStore)(nil)

func NewRateLimitStore(client *keydb.Client) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: rateLimitKeyPrefix,
	}
}

// GetWithTime returns -1 for an unknown key, as the GCRA limiter expects.
func (s *RateLimitStore) GetWithTime(ctx context.Context, key string) (int64, time.Time, error) {
	now := time.Now()

	value, found, err := s.client.GetInt64(ctx, s.prefix+key)
	if err != nil {
		return 0, now, err
	}

	if !found {
		return -1, now, nil
	}

	return value, now, nil
}

func (s *RateLimitStore) SetIfNotExistsWithTTL(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return s.client.SetInt64NX(ctx, s.prefix+key, value, ttl)
}

func (s *RateLimitStore) CompareAndSwapWithTTL(ctx context.Context, key string, old, new int64, ttl time.Duration) (bool, error) {
	return s.client.CompareAndSwapInt64(ctx, s.prefix+key, old, new, ttl)
}
