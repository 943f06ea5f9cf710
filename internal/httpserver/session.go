package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service/session"
)

type ctxKey string

const (
	sessionCtxKey ctxKey = "session"
	sessionHeader        = "X-Session-Token"
)

// sessionMiddleware resolves the shopper session from a bearer token or the
// X-Session-Token header.
func sessionMiddleware(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session token required"})
			return
		}
		sess, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			c.Abort()
			writeError(c, nil, err)
			return
		}
		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, sess)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(sessionHeader))
}

func sessionFrom(c *gin.Context) *session.Session {
	sess, _ := c.Request.Context().Value(sessionCtxKey).(*session.Session)
	return sess
}

func (h *handlers) createSession(c *gin.Context) {
	sess, err := h.deps.SessionSvc.Issue(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Header(sessionHeader, sess.Token)
	c.JSON(http.StatusCreated, gin.H{
		"token":     sess.Token,
		"expiresIn": h.deps.SessionSvc.TTLSeconds(),
	})
}

func (h *handlers) endSession(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		writeError(c, h.logger, domain.ErrSessionNotFound)
		return
	}
	h.deps.SessionSvc.End(c.Request.Context(), sess.Token)
	c.Status(http.StatusNoContent)
}
