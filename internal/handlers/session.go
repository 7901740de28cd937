package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
)

// SessionHeader carries the session id for clients that don't keep cookies.
const SessionHeader = "X-Session-ID"

const sessionContextKey = "session_id"

// ErrInvalidSession is returned when a presented session id is not a UUID.
var ErrInvalidSession = errors.New("invalid session id")

// SessionMiddleware resolves the caller's session id from the session cookie or the
// X-Session-ID header and stores it in the context. A new session is issued when the
// request carries neither. A cookie that is not a UUID is ignored and replaced; a
// malformed header is rejected.
func (h *Handlers) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.resolveSession(c)
		if err != nil {
			h.logger.Warn("Rejected session id", logging.Fields{"path": c.Request.URL.Path})
			handleError(c, err)
			c.Abort()
			return
		}

		c.Set(sessionContextKey, id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

func (h *Handlers) resolveSession(c *gin.Context) (string, error) {
	if id, err := c.Cookie(h.config.Session.CookieName); err == nil && id != "" {
		if validSessionID(id) {
			return id, nil
		}
		h.logger.Info("Ignoring malformed session cookie", logging.Fields{"path": c.Request.URL.Path})
	}

	if id := c.GetHeader(SessionHeader); id != "" {
		if !validSessionID(id) {
			return "", ErrInvalidSession
		}
		return id, nil
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Session.CookieName, id, int(h.config.Session.TTL.Seconds()), "/", "", false, true)
	h.logger.Debug("Issued session", logging.Fields{"session_id": id})
	return id, nil
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
