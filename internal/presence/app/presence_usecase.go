package app

import (
	"context"
	"time"

	chatdomain "country_chat_service/internal/chat/domain"
	chatrepository "country_chat_service/internal/chat/repository"
	"country_chat_service/internal/presence/domain"
	"country_chat_service/internal/presence/repository"
	userrepository "country_chat_service/internal/user/repository"
	"country_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// PresenceUseCase answers "is user X online" and "when was X last seen",
// and transitions state on connect/disconnect. All operations reduce to
// atomic cache primitives, safe under arbitrary concurrency.
type PresenceUseCase struct {
	store       repository.PresenceStore
	userRepo    userrepository.UserRepository
	broadcaster chatrepository.EventBroadcaster
	ttl         time.Duration
}

// NewPresenceUseCase init presence use case, ttl is the heartbeat duration
func NewPresenceUseCase(
	store repository.PresenceStore,
	userRepo userrepository.UserRepository,
	broadcaster chatrepository.EventBroadcaster,
	ttl time.Duration,
) *PresenceUseCase {
	return &PresenceUseCase{
		store:       store,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		ttl:         ttl,
	}
}

// SetOnline write the marker with TTL, idempotent: re-setting while online
// only refreshes the heartbeat
func (uc *PresenceUseCase) SetOnline(ctx context.Context, userID string) (*domain.OnlineStatus, error) {
	if err := uc.store.SetMarker(ctx, userID, uc.ttl); err != nil {
		return nil, err
	}

	status := &domain.OnlineStatus{UserID: userID, Online: true, LastSeenOn: nil}
	uc.publishStatus(status)
	return status, nil
}

// SetOffline delete the marker and overwrite lastSeenOn unconditionally,
// even when no marker was present
func (uc *PresenceUseCase) SetOffline(ctx context.Context, userID string) (*domain.OnlineStatus, error) {
	if err := uc.store.DeleteMarker(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := uc.store.SetLastSeen(ctx, userID, now); err != nil {
		return nil, err
	}

	status := &domain.OnlineStatus{UserID: userID, Online: false, LastSeenOn: &now}
	uc.publishStatus(status)
	return status, nil
}

// QueryStatus single-user status, requires the user row to exist
func (uc *PresenceUseCase) QueryStatus(ctx context.Context, userID string) (*domain.OnlineStatus, error) {
	exists, err := uc.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, chatdomain.NewUserNotFound(userID)
	}

	return uc.statusOf(ctx, userID)
}

// QueryBatch vectorized status, unknown ids answer offline with nil lastSeenOn
func (uc *PresenceUseCase) QueryBatch(ctx context.Context, userIDs []string) ([]domain.OnlineStatus, error) {
	markers, err := uc.store.HasMarkers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.OnlineStatus, 0, len(userIDs))
	for _, id := range userIDs {
		lastSeen, err := uc.store.GetLastSeen(ctx, id)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, domain.OnlineStatus{
			UserID:     id,
			Online:     markers[id],
			LastSeenOn: lastSeen,
		})
	}
	return statuses, nil
}

// QueryAll batch status over the full known user id set
func (uc *PresenceUseCase) QueryAll(ctx context.Context) ([]domain.OnlineStatus, error) {
	ids, err := uc.userRepo.FindAllUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	return uc.QueryBatch(ctx, ids)
}

func (uc *PresenceUseCase) statusOf(ctx context.Context, userID string) (*domain.OnlineStatus, error) {
	online, err := uc.store.HasMarker(ctx, userID)
	if err != nil {
		return nil, err
	}
	lastSeen, err := uc.store.GetLastSeen(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.OnlineStatus{UserID: userID, Online: online, LastSeenOn: lastSeen}, nil
}

// publishStatus fire-and-forget presence snapshot to the user's destination
func (uc *PresenceUseCase) publishStatus(status *domain.OnlineStatus) {
	if uc.broadcaster == nil {
		return
	}
	if err := uc.broadcaster.Publish(chatdomain.UserStatusTopic(status.UserID), status); err != nil {
		logger.Log.Error("publish status failed",
			zap.String("userID", status.UserID),
			zap.Error(err),
		)
	}
}
