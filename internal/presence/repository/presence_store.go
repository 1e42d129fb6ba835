package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	markerSuffix   = ":isOnline"
	lastSeenSuffix = ":lastSeenOn"
	markerValue    = "true"
)

// PresenceStore definition TTL key/value abstraction for the online marker
// plus the non-expiring last-seen store
type PresenceStore interface {
	SetMarker(ctx context.Context, userID string, ttl time.Duration) error
	HasMarker(ctx context.Context, userID string) (bool, error)
	HasMarkers(ctx context.Context, userIDs []string) (map[string]bool, error)
	DeleteMarker(ctx context.Context, userID string) error

	SetLastSeen(ctx context.Context, userID string, t time.Time) error
	GetLastSeen(ctx context.Context, userID string) (*time.Time, error)
}

type redisPresenceStore struct {
	client *redis.Client
	prefix string
}

// NewRedisPresenceStore create a PresenceStore, keys {prefix}{id}:isOnline
// and {prefix}{id}:lastSeenOn
func NewRedisPresenceStore(client *redis.Client, keyPrefix string) PresenceStore {
	if keyPrefix == "" {
		keyPrefix = "user:"
	}
	return &redisPresenceStore{client: client, prefix: keyPrefix}
}

func (s *redisPresenceStore) markerKey(userID string) string {
	return s.prefix + userID + markerSuffix
}

func (s *redisPresenceStore) lastSeenKey(userID string) string {
	return s.prefix + userID + lastSeenSuffix
}

// SetMarker write the marker with TTL, refreshing any existing one
func (s *redisPresenceStore) SetMarker(ctx context.Context, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.markerKey(userID), markerValue, ttl).Err()
}

// HasMarker marker presence is the online state
func (s *redisPresenceStore) HasMarker(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.markerKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check marker for %s: %w", userID, err)
	}
	return n == 1, nil
}

// HasMarkers vectorized marker check, one MGET
func (s *redisPresenceStore) HasMarkers(ctx context.Context, userIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, s.markerKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check markers: %w", err)
	}
	for i, id := range userIDs {
		result[id] = values[i] != nil
	}
	return result, nil
}

// DeleteMarker delete the marker, a no-op when absent
func (s *redisPresenceStore) DeleteMarker(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.markerKey(userID)).Err()
}

// SetLastSeen overwrite the non-expiring last-seen timestamp
func (s *redisPresenceStore) SetLastSeen(ctx context.Context, userID string, t time.Time) error {
	return s.client.Set(ctx, s.lastSeenKey(userID), t.UTC().Format(time.RFC3339), 0).Err()
}

// GetLastSeen nil when the user never disconnected explicitly
func (s *redisPresenceStore) GetLastSeen(ctx context.Context, userID string) (*time.Time, error) {
	val, err := s.client.Get(ctx, s.lastSeenKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get last seen for %s: %w", userID, err)
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last seen for %s: %w", userID, err)
	}
	return &t, nil
}
