package middlewares

import (
	t_token "country_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenUserID get user from token, set c.locals name
	TokenUserID = "UserID"
)

// JWTMiddleware validates JWT in the query param or cookie
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Query(QueryToken)

		if tokenStr == "" {
			tokenStr = c.Cookies(CookieToken)
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		token, err := jwt.ParseWithClaims(tokenStr, &t_token.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Unexpected signing method")
			}
			return t_token.JWTSecret, nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		// the authenticated actor identity every handler reads from Locals
		if claims, ok := token.Claims.(*t_token.Claims); ok && token.Valid {
			c.Locals(TokenUserID, claims.UserID)
		} else {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		return c.Next()
	}
}
