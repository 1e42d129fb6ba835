package domain

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind tags every domain failure
type ErrorKind string

const (
	// KindChatNotFound chat id does not exist
	KindChatNotFound ErrorKind = "CHAT_NOT_FOUND"
	// KindUserNotFound user id does not exist
	KindUserNotFound ErrorKind = "USER_NOT_FOUND"
	// KindAlreadyJoined conflict, the actor is already a member
	KindAlreadyJoined ErrorKind = "ALREADY_JOINED"
	// KindNotJoined conflict, the actor is not a member
	KindNotJoined ErrorKind = "NOT_JOINED"
	// KindPrivateChatCapacityExceeded conflict, private chat already holds 2 members
	KindPrivateChatCapacityExceeded ErrorKind = "PRIVATE_CHAT_CAPACITY_EXCEEDED"
	// KindUserCountryNotFound missing rollup, signals a consistency bug
	KindUserCountryNotFound ErrorKind = "USER_COUNTRY_NOT_FOUND"
)

// Error single tagged domain error carrying the ids involved
type Error struct {
	Kind    ErrorKind
	UserID  string
	ChatID  string
	Country string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindChatNotFound:
		return fmt.Sprintf("chat %s not found", e.ChatID)
	case KindUserNotFound:
		return fmt.Sprintf("user %s not found", e.UserID)
	case KindAlreadyJoined:
		return fmt.Sprintf("user %s already joined chat %s", e.UserID, e.ChatID)
	case KindNotJoined:
		return fmt.Sprintf("user %s has not joined chat %s", e.UserID, e.ChatID)
	case KindPrivateChatCapacityExceeded:
		return fmt.Sprintf("private chat %s already has %d members", e.ChatID, PrivateChatCapacity)
	case KindUserCountryNotFound:
		return fmt.Sprintf("user country (%s, %s) not found", e.UserID, e.Country)
	}
	return string(e.Kind)
}

// NewChatNotFound chat existence check failed
func NewChatNotFound(chatID string) *Error {
	return &Error{Kind: KindChatNotFound, ChatID: chatID}
}

// NewUserNotFound user existence check failed
func NewUserNotFound(userID string) *Error {
	return &Error{Kind: KindUserNotFound, UserID: userID}
}

// NewAlreadyJoined duplicate join
func NewAlreadyJoined(userID, chatID string) *Error {
	return &Error{Kind: KindAlreadyJoined, UserID: userID, ChatID: chatID}
}

// NewNotJoined leave without membership
func NewNotJoined(userID, chatID string) *Error {
	return &Error{Kind: KindNotJoined, UserID: userID, ChatID: chatID}
}

// NewPrivateChatCapacityExceeded private chat is full
func NewPrivateChatCapacityExceeded(chatID string) *Error {
	return &Error{Kind: KindPrivateChatCapacityExceeded, ChatID: chatID}
}

// NewUserCountryNotFound rollup missing while a membership in that country exists
func NewUserCountryNotFound(userID, country string) *Error {
	return &Error{Kind: KindUserCountryNotFound, UserID: userID, Country: country}
}

// AsDomainError unwrap to the tagged type
func AsDomainError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HTTPStatus pure mapping from kind to HTTP status
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindChatNotFound, KindUserNotFound:
		return fiber.StatusNotFound
	case KindAlreadyJoined, KindNotJoined, KindPrivateChatCapacityExceeded:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
