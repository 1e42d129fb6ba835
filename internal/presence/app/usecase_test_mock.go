package app

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockPresenceStore Mock PresenceStore
type MockPresenceStore struct {
	mock.Mock
}

// SetMarker mock marker write
func (m *MockPresenceStore) SetMarker(ctx context.Context, userID string, ttl time.Duration) error {
	args := m.Called(ctx, userID, ttl)
	return args.Error(0)
}

// HasMarker mock marker check
func (m *MockPresenceStore) HasMarker(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// HasMarkers mock vectorized marker check
func (m *MockPresenceStore) HasMarkers(ctx context.Context, userIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) != nil {
		return args.Get(0).(map[string]bool), args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteMarker mock marker delete
func (m *MockPresenceStore) DeleteMarker(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// SetLastSeen mock last-seen write
func (m *MockPresenceStore) SetLastSeen(ctx context.Context, userID string, t time.Time) error {
	args := m.Called(ctx, userID, t)
	return args.Error(0)
}

// GetLastSeen mock last-seen read
func (m *MockPresenceStore) GetLastSeen(ctx context.Context, userID string) (*time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*time.Time), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindAllUserIDs mock list user ids
func (m *MockUserRepository) FindAllUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// Exists mock user row check
func (m *MockUserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockEventBroadcaster Mock EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

// Publish mock fire-and-forget publish
func (m *MockEventBroadcaster) Publish(destination string, payload interface{}) error {
	args := m.Called(destination, payload)
	return args.Error(0)
}
