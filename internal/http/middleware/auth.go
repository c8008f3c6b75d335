package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// TokenLocalKey holds the caller's access token in Fiber's context locals.
	TokenLocalKey = "access_token"

	googleTokenHeader = "Hermes-Google-Access-Token"
)

// RequireToken rejects requests that carry neither a bearer token nor a
// Google access token header with 401. The token is stored under
// TokenLocalKey for the handlers.
func RequireToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = strings.TrimSpace(c.Get(googleTokenHeader))
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing access token")
		}
		c.Locals(TokenLocalKey, token)
		return c.Next()
	}
}

// TokenFromCtx returns the token stored by RequireToken, or "".
func TokenFromCtx(c *fiber.Ctx) string {
	token, _ := c.Locals(TokenLocalKey).(string)
	return token
}

func bearerToken(h string) string {
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
