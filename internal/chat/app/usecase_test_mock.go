package app

import (
	"context"

	"country_chat_service/internal/chat/domain"
	"country_chat_service/internal/chat/repository"

	"github.com/stretchr/testify/mock"
)

// MockMembershipRepository Mock MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

// AutoMigrate mock migrate
func (m *MockMembershipRepository) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Transaction runs fn against the mock itself as one logical boundary
func (m *MockMembershipRepository) Transaction(ctx context.Context, fn func(repository.MembershipRepository) error) error {
	return fn(m)
}

// FindChat mock find chat by id
func (m *MockMembershipRepository) FindChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// InsertChat mock create chat
func (m *MockMembershipRepository) InsertChat(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

// DeleteChat mock delete chat
func (m *MockMembershipRepository) DeleteChat(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

// FindMembership mock find join record
func (m *MockMembershipRepository) FindMembership(ctx context.Context, chatID, userID string) (*domain.UserChat, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.UserChat), args.Error(1)
	}
	return nil, args.Error(1)
}

// InsertMembership mock create join record
func (m *MockMembershipRepository) InsertMembership(ctx context.Context, membership *domain.UserChat) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// DeleteMembership mock delete join record
func (m *MockMembershipRepository) DeleteMembership(ctx context.Context, membership *domain.UserChat) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// CountMembers mock membership size of a chat
func (m *MockMembershipRepository) CountMembers(ctx context.Context, chatID string) (int64, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(int64), args.Error(1)
}

// FindCountryRollup mock find rollup
func (m *MockMembershipRepository) FindCountryRollup(ctx context.Context, userID, countryName string) (*domain.UserCountry, error) {
	args := m.Called(ctx, userID, countryName)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.UserCountry), args.Error(1)
	}
	return nil, args.Error(1)
}

// InsertCountryRollup mock create rollup
func (m *MockMembershipRepository) InsertCountryRollup(ctx context.Context, rollup *domain.UserCountry) error {
	args := m.Called(ctx, rollup)
	return args.Error(0)
}

// DeleteCountryRollup mock delete rollup
func (m *MockMembershipRepository) DeleteCountryRollup(ctx context.Context, rollup *domain.UserCountry) error {
	args := m.Called(ctx, rollup)
	return args.Error(0)
}

// CountMembershipsInCountry mock remaining memberships under a country
func (m *MockMembershipRepository) CountMembershipsInCountry(ctx context.Context, userID, countryName string) (int64, error) {
	args := m.Called(ctx, userID, countryName)
	return args.Get(0).(int64), args.Error(1)
}

// SaveMessage mock persist message row
func (m *MockMembershipRepository) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
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
