package http

import (
	"errors"
	"net/http"
	"strings"

	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionCookie = "cart_session"
	// Cookie lifetime in seconds, 30 days.
	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// AdminAuth resolves the session token into an actor and attaches it to
// the request context. Requests without a valid token are rejected.
func AdminAuth(auth service.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newError("unauthorized", "missing or malformed token"))
			return
		}

		actor, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				log.Error("session resolve failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, newError("unauthorized", "invalid or expired session"))
			return
		}

		c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func sessionToken(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(raw, "Bearer "); ok {
		raw = after
	} else {
		raw = c.GetHeader("X-Admin-Token")
	}
	if raw == "" {
		return uuid.Nil, false
	}
	token, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return token, true
}

// CartSession guarantees every storefront request carries a cart
// session id, minting a cookie on first contact.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(sessionCookie, sid, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Request = c.Request.WithContext(service.WithSessionID(c.Request.Context(), sid))
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	sid, _ := service.SessionIDFromContext(c.Request.Context())
	return sid
}
