package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"country_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(TokenUserID).(string))
	})
	return app
}

func TestJWTMiddleware_QueryToken(t *testing.T) {
	app := newTestApp()
	userID := uuid.New().String()

	tokenStr, err := token.GenerateJWT(userID, "chat_backend")
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami?"+QueryToken+"="+tokenStr, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, userID, string(body))
}

func TestJWTMiddleware_CookieToken(t *testing.T) {
	app := newTestApp()
	userID := uuid.New().String()

	tokenStr, err := token.GenerateJWT(userID, "chat_backend")
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: tokenStr})
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddleware_MissingToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/whoami?"+QueryToken+"=garbage", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
