package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"teamleopard/internal/domain/session"
	"teamleopard/internal/usecase"
)

const CtxSessionKey = "session"

type AuthMiddleware struct {
	sessions usecase.SessionResolver
}

func NewAuthMiddleware(sessions usecase.SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Middleware resolves the bearer token into a session.Session stored in the
// request locals. Requests without a valid token get 401 with the login
// route as data.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return unauthorized("Unauthorized", nil)
		}

		sess, err := m.sessions.Resolve(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrSessionExpired):
				return unauthorized("Token expired", err)
			case errors.Is(err, usecase.ErrUnauthorized):
				return unauthorized("Invalid token", err)
			default:
				return NewAppError(fiber.StatusInternalServerError, "", nil, err)
			}
		}

		c.Locals(CtxSessionKey, sess)
		return c.Next()
	}
}

// RequireRole rejects sessions of any other role with 403.
func RequireRole(role session.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess, ok := SessionFrom(c)
		if !ok {
			return unauthorized("Unauthorized", nil)
		}
		if sess.Role != role {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}
		return c.Next()
	}
}

func SessionFrom(c fiber.Ctx) (session.Session, bool) {
	sess, ok := c.Locals(CtxSessionKey).(session.Session)
	return sess, ok
}

func unauthorized(msg string, cause error) *AppError {
	return NewAppError(fiber.StatusUnauthorized, msg, fiber.Map{"redirect": session.LoginRoute}, cause)
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
