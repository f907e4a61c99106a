package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	ContextIPAddress = "ip_address"
	ContextUserAgent = "user_agent"
)

// RequestLogger stores the caller's address and user agent on the context,
// runs the chain and logs one line per request. The level follows the
// response status.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(ContextIPAddress, callerAddress(c))
		c.Set(ContextUserAgent, c.GetHeader("User-Agent"))

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		userID, _ := GetUserID(c)
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", GetIPAddress(c)).
			Str("user_agent", GetUserAgent(c)).
			Str("user_id", userID).
			Msg("request")
	}
}

// callerAddress prefers the first hop of X-Forwarded-For, then X-Real-IP.
func callerAddress(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if addr := strings.TrimSpace(c.GetHeader("X-Real-IP")); addr != "" {
		return addr
	}
	return c.ClientIP()
}

func GetIPAddress(c *gin.Context) string {
	return c.GetString(ContextIPAddress)
}

func GetUserAgent(c *gin.Context) string {
	return c.GetString(ContextUserAgent)
}
