package domain

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(KindChatNotFound))
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(KindUserNotFound))
	assert.Equal(t, fiber.StatusConflict, HTTPStatus(KindAlreadyJoined))
	assert.Equal(t, fiber.StatusConflict, HTTPStatus(KindNotJoined))
	assert.Equal(t, fiber.StatusConflict, HTTPStatus(KindPrivateChatCapacityExceeded))
	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(KindUserCountryNotFound))
}

func TestAsDomainError_ThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("load chat: %w", NewChatNotFound("c1"))

	de, ok := AsDomainError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindChatNotFound, de.Kind)
	assert.Equal(t, "c1", de.ChatID)
}

func TestAsDomainError_ForeignError(t *testing.T) {
	_, ok := AsDomainError(fmt.Errorf("connection reset"))
	assert.False(t, ok)
}

func TestEventTypePersisted(t *testing.T) {
	assert.True(t, EventJoin.Persisted())
	assert.True(t, EventLeave.Persisted())
	assert.True(t, EventText.Persisted())
	assert.False(t, EventTypingStart.Persisted())
	assert.False(t, EventTypingStop.Persisted())
}

func TestTopicFormats(t *testing.T) {
	assert.Equal(t, "/countries/c1/messages", ChatTopic("c1"))
	assert.Equal(t, "/users/u1/onlineStatus", UserStatusTopic("u1"))
	assert.Equal(t, "/users/u1/errors", UserErrorsTopic("u1"))
}
