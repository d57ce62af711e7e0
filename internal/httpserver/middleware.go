package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartsvc "heritage-boutique/internal/service/cart"
)

const sessionKey = "session"

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// requireSession resolves the bearer token to a cart session: a customer
// token yields an authenticated session, an anonymous token an anonymous
// one. Requests without a resolvable token are rejected.
func requireSession(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		if customer, err := deps.CustomerSvc.LookupByToken(c.Request.Context(), token); err == nil {
			c.Set(sessionKey, cartsvc.Session{CustomerID: customer.ID})
			c.Next()
			return
		}
		if anonymousID, err := deps.AnonymousSvc.LookupByToken(c.Request.Context(), token); err == nil {
			c.Set(sessionKey, cartsvc.Session{AnonymousID: anonymousID})
			c.Next()
			return
		}

		respondError(c, http.StatusUnauthorized, "invalid token")
		c.Abort()
	}
}

func sessionFrom(c *gin.Context) cartsvc.Session {
	sess, _ := c.Get(sessionKey)
	out, _ := sess.(cartsvc.Session)
	return out
}
