package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	dservice "CryptoDash/internal/domain/service"
	xhttp "CryptoDash/pkg/http"
)

const ctxUserIDKey = "user_id"

// Auth accepts a Bearer token or the session cookie and stores the user id
// on the echo context. Failures short-circuit with 401.
func Auth(tokens dservice.TokenIssuer, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := tokenFromRequest(c, cookieName)
			if !ok {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("authentication required"))
			}
			userID, err := tokens.Parse(raw)
			if err != nil {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("invalid or expired token").WithError(err))
			}
			c.Set(ctxUserIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ctxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func tokenFromRequest(c echo.Context, cookieName string) (string, bool) {
	if h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if tok := strings.TrimSpace(parts[1]); tok != "" {
				return tok, true
			}
		}
		return "", false
	}
	if cookieName == "" {
		return "", false
	}
	ck, err := c.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}
