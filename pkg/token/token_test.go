package token

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseJWT(t *testing.T) {
	userID := uuid.New().String()

	tokenStr, err := GenerateJWT(userID, "chat_backend")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenStr)

	claims, err := ParseJWT(tokenStr)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "chat_backend", claims.Issuer)
}

func TestParseJWT_Tampered(t *testing.T) {
	tokenStr, err := GenerateJWT(uuid.New().String(), "chat_backend")
	assert.NoError(t, err)

	_, err = ParseJWT(tokenStr + "x")
	assert.Error(t, err)
}

func TestParseJWT_Garbage(t *testing.T) {
	_, err := ParseJWT("not-a-token")
	assert.Error(t, err)
}
