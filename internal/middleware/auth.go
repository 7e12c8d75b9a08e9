package middleware

import (
	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/logger"
	sessionRepo "github.com/ghaniswara/algolove/internal/repository/session"
	"github.com/ghaniswara/algolove/pkg/http_util"
	"github.com/ghaniswara/algolove/pkg/redact"
	"github.com/labstack/echo"
)

const sessionIDKey = "sessionID"

// SessionMiddleware reads the upstream session id from cookieName. Requests
// without it get 401; sessions already reported expired are refused too.
// A failing registry lets the request through.
func SessionMiddleware(cookieName string, sessions sessionRepo.ISessionRepo, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return http_util.EncodeError(c, apperror.NewAuthenticationRequired("Authentication required"))
			}
			sessionID := cookie.Value

			if sessions != nil {
				expired, err := sessions.IsExpired(c.Request().Context(), sessionID)
				if err != nil {
					log.WithError(err).Warn("session registry unavailable", map[string]interface{}{
						"session_id": redact.Mask(sessionID),
					})
				} else if expired {
					return http_util.EncodeError(c, apperror.NewAuthenticationExpired("Session expired"))
				}
			}

			c.Set(sessionIDKey, sessionID)

			return next(c)
		}
	}
}

// SessionID returns the id stored by SessionMiddleware.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}
