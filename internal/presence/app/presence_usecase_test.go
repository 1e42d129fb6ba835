package app

import (
	"context"
	"testing"
	"time"

	chatdomain "country_chat_service/internal/chat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testTTL = 5 * time.Minute

func TestPresenceUseCase_SetOnline(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockStore := new(MockPresenceStore)
	mockUsers := new(MockUserRepository)
	mockBroadcaster := new(MockEventBroadcaster)

	mockStore.On("SetMarker", ctx, userID, testTTL).Return(nil)
	mockBroadcaster.On("Publish", chatdomain.UserStatusTopic(userID), mock.Anything).Return(nil)

	uc := NewPresenceUseCase(mockStore, mockUsers, mockBroadcaster, testTTL)
	status, err := uc.SetOnline(ctx, userID)

	assert.NoError(t, err)
	assert.True(t, status.Online)
	assert.Nil(t, status.LastSeenOn)
	mockStore.AssertExpectations(t)
	mockBroadcaster.AssertExpectations(t)
}

func TestPresenceUseCase_SetOnline_RefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockStore := new(MockPresenceStore)
	mockBroadcaster := new(MockEventBroadcaster)

	mockStore.On("SetMarker", ctx, userID, testTTL).Return(nil).Twice()
	mockBroadcaster.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewPresenceUseCase(mockStore, new(MockUserRepository), mockBroadcaster, testTTL)
	_, err := uc.SetOnline(ctx, userID)
	assert.NoError(t, err)
	_, err = uc.SetOnline(ctx, userID)
	assert.NoError(t, err)

	mockStore.AssertExpectations(t)
}

func TestPresenceUseCase_SetOffline(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockStore := new(MockPresenceStore)
	mockBroadcaster := new(MockEventBroadcaster)

	mockStore.On("DeleteMarker", ctx, userID).Return(nil)
	mockStore.On("SetLastSeen", ctx, userID, mock.AnythingOfType("time.Time")).Return(nil)
	mockBroadcaster.On("Publish", chatdomain.UserStatusTopic(userID), mock.Anything).Return(nil)

	uc := NewPresenceUseCase(mockStore, new(MockUserRepository), mockBroadcaster, testTTL)
	status, err := uc.SetOffline(ctx, userID)

	assert.NoError(t, err)
	assert.False(t, status.Online)
	assert.NotNil(t, status.LastSeenOn)
	assert.WithinDuration(t, time.Now().UTC(), *status.LastSeenOn, 2*time.Second)
	mockStore.AssertExpectations(t)
}

func TestPresenceUseCase_QueryStatus_Online(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockStore := new(MockPresenceStore)
	mockUsers := new(MockUserRepository)

	mockUsers.On("Exists", ctx, userID).Return(true, nil)
	mockStore.On("HasMarker", ctx, userID).Return(true, nil)
	mockStore.On("GetLastSeen", ctx, userID).Return(nil, nil)

	uc := NewPresenceUseCase(mockStore, mockUsers, new(MockEventBroadcaster), testTTL)
	status, err := uc.QueryStatus(ctx, userID)

	assert.NoError(t, err)
	assert.True(t, status.Online)
	assert.Nil(t, status.LastSeenOn)
}

func TestPresenceUseCase_QueryStatus_OfflineWithLastSeen(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()
	lastSeen := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mockStore := new(MockPresenceStore)
	mockUsers := new(MockUserRepository)

	mockUsers.On("Exists", ctx, userID).Return(true, nil)
	mockStore.On("HasMarker", ctx, userID).Return(false, nil)
	mockStore.On("GetLastSeen", ctx, userID).Return(&lastSeen, nil)

	uc := NewPresenceUseCase(mockStore, mockUsers, new(MockEventBroadcaster), testTTL)
	status, err := uc.QueryStatus(ctx, userID)

	assert.NoError(t, err)
	assert.False(t, status.Online)
	assert.Equal(t, lastSeen, *status.LastSeenOn)
}

func TestPresenceUseCase_QueryStatus_UserNotFound(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockStore := new(MockPresenceStore)
	mockUsers := new(MockUserRepository)

	mockUsers.On("Exists", ctx, userID).Return(false, nil)

	uc := NewPresenceUseCase(mockStore, mockUsers, new(MockEventBroadcaster), testTTL)
	_, err := uc.QueryStatus(ctx, userID)

	de, ok := chatdomain.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, chatdomain.KindUserNotFound, de.Kind)
	mockStore.AssertNotCalled(t, "HasMarker", mock.Anything, mock.Anything)
}

func TestPresenceUseCase_QueryBatch(t *testing.T) {
	ctx := context.Background()
	online := uuid.New().String()
	neverSeen := uuid.New().String()
	ids := []string{online, neverSeen}

	mockStore := new(MockPresenceStore)

	mockStore.On("HasMarkers", ctx, ids).Return(map[string]bool{online: true, neverSeen: false}, nil)
	mockStore.On("GetLastSeen", ctx, online).Return(nil, nil)
	mockStore.On("GetLastSeen", ctx, neverSeen).Return(nil, nil)

	uc := NewPresenceUseCase(mockStore, new(MockUserRepository), new(MockEventBroadcaster), testTTL)
	statuses, err := uc.QueryBatch(ctx, ids)

	assert.NoError(t, err)
	assert.Len(t, statuses, 2)
	assert.Equal(t, online, statuses[0].UserID)
	assert.True(t, statuses[0].Online)
	// a user who never connected answers offline with no last-seen
	assert.False(t, statuses[1].Online)
	assert.Nil(t, statuses[1].LastSeenOn)
}

func TestPresenceUseCase_QueryAll(t *testing.T) {
	ctx := context.Background()
	a := uuid.New().String()
	b := uuid.New().String()

	mockStore := new(MockPresenceStore)
	mockUsers := new(MockUserRepository)

	mockUsers.On("FindAllUserIDs", ctx).Return([]string{a, b}, nil)
	mockStore.On("HasMarkers", ctx, []string{a, b}).Return(map[string]bool{a: false, b: true}, nil)
	mockStore.On("GetLastSeen", ctx, a).Return(nil, nil)
	mockStore.On("GetLastSeen", ctx, b).Return(nil, nil)

	uc := NewPresenceUseCase(mockStore, mockUsers, new(MockEventBroadcaster), testTTL)
	statuses, err := uc.QueryAll(ctx)

	assert.NoError(t, err)
	assert.Len(t, statuses, 2)
	mockUsers.AssertExpectations(t)
}
