package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"country_chat_service/internal/chat/domain"
	"country_chat_service/internal/chat/repository"
	"country_chat_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatEventEngine validates and applies join/leave/typing transitions and
// keeps the chat / country / user rollup consistent. Every mutation of one
// event runs inside a single repository transaction, the broadcast happens
// after commit.
type ChatEventEngine struct {
	repo        repository.MembershipRepository
	broadcaster repository.EventBroadcaster
}

// NewChatEventEngine init chat event engine
func NewChatEventEngine(repo repository.MembershipRepository, broadcaster repository.EventBroadcaster) *ChatEventEngine {
	return &ChatEventEngine{
		repo:        repo,
		broadcaster: broadcaster,
	}
}

func newChatMessage(chatID, actorID string, eventType domain.EventType, content string) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		AuthorID:  actorID,
		Type:      eventType,
		Content:   content,
		Timestamp: time.Now().Unix(),
	}
}

// JoinChat NOT_MEMBER -> MEMBER. Steps run strictly: existence check,
// capacity check, membership check, insert membership, rollup upkeep,
// persist JOIN message, broadcast.
func (e *ChatEventEngine) JoinChat(ctx context.Context, chatID, actorID string) (*domain.ChatMessage, error) {
	var msg *domain.ChatMessage

	err := e.repo.Transaction(ctx, func(tx repository.MembershipRepository) error {
		chat, err := tx.FindChat(ctx, chatID)
		if err != nil {
			return err
		}
		if chat == nil {
			return domain.NewChatNotFound(chatID)
		}

		msg, err = e.join(ctx, tx, chat, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.publish(domain.ChatTopic(chatID), msg)
	return msg, nil
}

// join shared by JoinChat and CreateChat, runs inside the caller's transaction
func (e *ChatEventEngine) join(ctx context.Context, tx repository.MembershipRepository, chat *domain.Chat, actorID string) (*domain.ChatMessage, error) {
	if chat.Type == domain.ChatTypePrivate {
		count, err := tx.CountMembers(ctx, chat.ID)
		if err != nil {
			return nil, err
		}
		if count >= domain.PrivateChatCapacity {
			return nil, domain.NewPrivateChatCapacityExceeded(chat.ID)
		}
	}

	membership, err := tx.FindMembership(ctx, chat.ID, actorID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		return nil, domain.NewAlreadyJoined(actorID, chat.ID)
	}

	if err := tx.InsertMembership(ctx, &domain.UserChat{UserID: actorID, ChatID: chat.ID}); err != nil {
		// a concurrent duplicate join loses against the composite PK
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, domain.NewAlreadyJoined(actorID, chat.ID)
		}
		return nil, err
	}

	if chat.HasCountry() {
		rollup, err := tx.FindCountryRollup(ctx, actorID, *chat.Country)
		if err != nil {
			return nil, err
		}
		if rollup == nil {
			rollup = &domain.UserCountry{UserID: actorID, CountryName: *chat.Country}
			if err := tx.InsertCountryRollup(ctx, rollup); err != nil {
				return nil, err
			}
		}
	}

	msg := newChatMessage(chat.ID, actorID, domain.EventJoin, fmt.Sprintf("%s joined the chat", actorID))
	if err := tx.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// CreateChat insert the chat and join the creator in one transaction
func (e *ChatEventEngine) CreateChat(ctx context.Context, actorID, name string, chatType domain.ChatType, country *string) (*domain.Chat, error) {
	chat := &domain.Chat{
		ID:      uuid.New().String(),
		Type:    chatType,
		Country: country,
		Name:    name,
	}

	var msg *domain.ChatMessage
	err := e.repo.Transaction(ctx, func(tx repository.MembershipRepository) error {
		if err := tx.InsertChat(ctx, chat); err != nil {
			return err
		}
		var err error
		msg, err = e.join(ctx, tx, chat, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.publish(domain.ChatTopic(chat.ID), msg)
	return chat, nil
}

// LeaveChat MEMBER -> NOT_MEMBER. Deletes the membership, enforces the
// rollup invariant, persists the LEAVE message and removes a now-empty
// PRIVATE chat.
func (e *ChatEventEngine) LeaveChat(ctx context.Context, chatID, actorID string) (*domain.ChatMessage, error) {
	var msg *domain.ChatMessage

	err := e.repo.Transaction(ctx, func(tx repository.MembershipRepository) error {
		chat, err := tx.FindChat(ctx, chatID)
		if err != nil {
			return fmt.Errorf("load chat for leave: %w", err)
		}
		if chat == nil {
			return fmt.Errorf("load chat for leave: %w", domain.NewChatNotFound(chatID))
		}

		membership, err := tx.FindMembership(ctx, chatID, actorID)
		if err != nil {
			return err
		}
		if membership == nil {
			return domain.NewNotJoined(actorID, chatID)
		}

		if err := tx.DeleteMembership(ctx, membership); err != nil {
			return err
		}

		if chat.HasCountry() {
			rollup, err := tx.FindCountryRollup(ctx, actorID, *chat.Country)
			if err != nil {
				return err
			}
			if rollup == nil {
				// invariant violation, the rollup must exist while a
				// membership under its country existed
				return domain.NewUserCountryNotFound(actorID, *chat.Country)
			}
			remaining, err := tx.CountMembershipsInCountry(ctx, actorID, *chat.Country)
			if err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.DeleteCountryRollup(ctx, rollup); err != nil {
					return err
				}
			}
		}

		msg = newChatMessage(chatID, actorID, domain.EventLeave, fmt.Sprintf("%s left the chat", actorID))
		if err := tx.SaveMessage(ctx, msg); err != nil {
			return err
		}

		members, err := tx.CountMembers(ctx, chatID)
		if err != nil {
			return err
		}
		// empty private chats are not retained, group chats always are
		if members == 0 && chat.Type == domain.ChatTypePrivate {
			if err := tx.DeleteChat(ctx, chat); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(domain.ChatTopic(chatID), msg)
	return msg, nil
}

// SendMessage persist a TEXT message and broadcast it, members only
func (e *ChatEventEngine) SendMessage(ctx context.Context, chatID, actorID, content string) (*domain.ChatMessage, error) {
	var msg *domain.ChatMessage

	err := e.repo.Transaction(ctx, func(tx repository.MembershipRepository) error {
		chat, err := tx.FindChat(ctx, chatID)
		if err != nil {
			return err
		}
		if chat == nil {
			return domain.NewChatNotFound(chatID)
		}

		membership, err := tx.FindMembership(ctx, chatID, actorID)
		if err != nil {
			return err
		}
		if membership == nil {
			return domain.NewNotJoined(actorID, chatID)
		}

		msg = newChatMessage(chatID, actorID, domain.EventText, content)
		return tx.SaveMessage(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	e.publish(domain.ChatTopic(chatID), msg)
	return msg, nil
}

// StartTyping relay a transient TYPING_START event, never persisted.
// Only chat existence is checked, membership is not.
func (e *ChatEventEngine) StartTyping(ctx context.Context, chatID, actorID string) (*domain.ChatMessage, error) {
	return e.typing(ctx, chatID, actorID, domain.EventTypingStart)
}

// StopTyping relay a transient TYPING_STOP event, never persisted
func (e *ChatEventEngine) StopTyping(ctx context.Context, chatID, actorID string) (*domain.ChatMessage, error) {
	return e.typing(ctx, chatID, actorID, domain.EventTypingStop)
}

func (e *ChatEventEngine) typing(ctx context.Context, chatID, actorID string, eventType domain.EventType) (*domain.ChatMessage, error) {
	chat, err := e.repo.FindChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, domain.NewChatNotFound(chatID)
	}

	msg := newChatMessage(chatID, actorID, eventType, "")
	e.publish(domain.ChatTopic(chatID), msg)
	return msg, nil
}

// publish fire-and-forget, a broker failure never fails the event
func (e *ChatEventEngine) publish(destination string, payload interface{}) {
	if e.broadcaster == nil {
		return
	}
	if err := e.broadcaster.Publish(destination, payload); err != nil {
		logger.Log.Error("publish failed",
			zap.String("destination", destination),
			zap.Error(err),
		)
	}
}
