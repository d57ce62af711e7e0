package httpserver

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"heritage-boutique/internal/antispam"
)

// honeypotFieldKey names the JSON key a form uses to tell the server which
// of its fields is the trap. The storefront obtains both from
// GET /forms/honeypot before rendering the form.
const honeypotFieldKey = "_hp"

func honeypotHandler(c *gin.Context) {
	hp := antispam.GenerateHoneypot()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"fieldName": hp.FieldName,
		"style":     hp.Style,
	})
}

// formGuard protects form endpoints in three layers, cheapest first: the
// per-IP rate limit, the backoff gate, then honeypot and content checks on
// the submitted fields. The guard reads the body with ShouldBindBodyWith so
// downstream handlers can bind it again.
func formGuard(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := c.FullPath() + ":" + ip

		allowed, err := deps.Limiter.Allow(ctx, key)
		if err != nil {
			// The limiter store being down must not take the forms down.
			logger.Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			retryAfter := time.Minute
			if remaining, err := deps.Limiter.RemainingTime(ctx, key); err == nil {
				retryAfter = remaining
			}
			formSubmissionsBlocked.WithLabelValues("rate_limit").Inc()
			tooManyRequests(c, retryAfter)
			return
		}

		verdict := deps.Gate.CanAttempt(ip)
		if !verdict.Allowed {
			formSubmissionsBlocked.WithLabelValues("backoff").Inc()
			tooManyRequests(c, verdict.WaitTime)
			return
		}

		var raw map[string]interface{}
		if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			c.Abort()
			return
		}
		form := stringFields(raw)

		if field, ok := raw[honeypotFieldKey].(string); ok {
			if antispam.CheckHoneypot(form, field) {
				formSubmissionsBlocked.WithLabelValues("honeypot").Inc()
				respondError(c, http.StatusBadRequest, "submission could not be processed")
				c.Abort()
				return
			}
		}

		if det := antispam.DetectSuspicious(form); det.Suspicious {
			formSubmissionsBlocked.WithLabelValues("content").Inc()
			logger.Info("suspicious submission rejected",
				zap.String("ip", ip), zap.Strings("reasons", det.Reasons))
			respondError(c, http.StatusBadRequest, "submission could not be processed")
			c.Abort()
			return
		}

		c.Next()
	}
}

func tooManyRequests(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success":    false,
		"error":      "too many requests",
		"retryAfter": seconds,
	})
	c.Abort()
}

func stringFields(raw map[string]interface{}) map[string]string {
	form := make(map[string]string, len(raw))
	for key, value := range raw {
		if s, ok := value.(string); ok {
			form[key] = s
		}
	}
	return form
}
