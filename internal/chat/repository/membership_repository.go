package repository

import (
	"context"
	"errors"

	"country_chat_service/internal/chat/domain"

	"gorm.io/gorm"
)

// ErrDuplicateMembership the store rejected a second (user, chat) row
var ErrDuplicateMembership = errors.New("membership already exists")

// MembershipRepository definition CRUD over the chat membership relations,
// no business logic lives here
type MembershipRepository interface {
	AutoMigrate() error
	// Transaction runs fn against a repository bound to one ACID boundary
	Transaction(ctx context.Context, fn func(MembershipRepository) error) error

	FindChat(ctx context.Context, chatID string) (*domain.Chat, error)
	InsertChat(ctx context.Context, chat *domain.Chat) error
	DeleteChat(ctx context.Context, chat *domain.Chat) error

	FindMembership(ctx context.Context, chatID, userID string) (*domain.UserChat, error)
	InsertMembership(ctx context.Context, membership *domain.UserChat) error
	DeleteMembership(ctx context.Context, membership *domain.UserChat) error
	CountMembers(ctx context.Context, chatID string) (int64, error)

	FindCountryRollup(ctx context.Context, userID, countryName string) (*domain.UserCountry, error)
	InsertCountryRollup(ctx context.Context, rollup *domain.UserCountry) error
	DeleteCountryRollup(ctx context.Context, rollup *domain.UserCountry) error
	CountMembershipsInCountry(ctx context.Context, userID, countryName string) (int64, error)

	SaveMessage(ctx context.Context, msg *domain.ChatMessage) error
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository create a MembershipRepository on postgreSQL
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// AutoMigrate migrate the owned relations
func (r *membershipRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Chat{},
		&domain.UserChat{},
		&domain.UserCountry{},
		&domain.ChatMessage{},
	)
}

// Transaction every repository call inside fn shares one transaction
func (r *membershipRepository) Transaction(ctx context.Context, fn func(MembershipRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&membershipRepository{db: tx})
	})
}

// FindChat find chat by id, nil when missing
func (r *membershipRepository) FindChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, "id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// InsertChat create chat
func (r *membershipRepository) InsertChat(ctx context.Context, chat *domain.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// DeleteChat delete chat
func (r *membershipRepository) DeleteChat(ctx context.Context, chat *domain.Chat) error {
	return r.db.WithContext(ctx).Delete(chat).Error
}

// FindMembership find (user, chat) join record, nil when missing
func (r *membershipRepository) FindMembership(ctx context.Context, chatID, userID string) (*domain.UserChat, error) {
	var membership domain.UserChat
	err := r.db.WithContext(ctx).
		First(&membership, "chat_id = ? AND user_id = ?", chatID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// InsertMembership create join record, composite PK rejects duplicates
func (r *membershipRepository) InsertMembership(ctx context.Context, membership *domain.UserChat) error {
	err := r.db.WithContext(ctx).Create(membership).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateMembership
	}
	return err
}

// DeleteMembership delete join record
func (r *membershipRepository) DeleteMembership(ctx context.Context, membership *domain.UserChat) error {
	return r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", membership.ChatID, membership.UserID).
		Delete(&domain.UserChat{}).Error
}

// CountMembers current membership size of a chat
func (r *membershipRepository) CountMembers(ctx context.Context, chatID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserChat{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error
	return count, err
}

// FindCountryRollup find (user, country) rollup, nil when missing
func (r *membershipRepository) FindCountryRollup(ctx context.Context, userID, countryName string) (*domain.UserCountry, error) {
	var rollup domain.UserCountry
	err := r.db.WithContext(ctx).
		First(&rollup, "user_id = ? AND country_name = ?", userID, countryName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rollup, nil
}

// InsertCountryRollup create rollup record
func (r *membershipRepository) InsertCountryRollup(ctx context.Context, rollup *domain.UserCountry) error {
	return r.db.WithContext(ctx).Create(rollup).Error
}

// DeleteCountryRollup delete rollup record
func (r *membershipRepository) DeleteCountryRollup(ctx context.Context, rollup *domain.UserCountry) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND country_name = ?", rollup.UserID, rollup.CountryName).
		Delete(&domain.UserCountry{}).Error
}

// CountMembershipsInCountry memberships the user still holds under a country
func (r *membershipRepository) CountMembershipsInCountry(ctx context.Context, userID, countryName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserChat{}).
		Joins("JOIN chats ON chats.id = user_chats.chat_id").
		Where("user_chats.user_id = ? AND chats.country = ?", userID, countryName).
		Count(&count).Error
	return count, err
}

// SaveMessage persist one JOIN/LEAVE/TEXT row
func (r *membershipRepository) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}
