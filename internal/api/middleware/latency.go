package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SimulatedLatency delays every request by d so clients exercise their
// loading states. Paths with one of the skip prefixes are not delayed.
func SimulatedLatency(d time.Duration, skip ...string) gin.HandlerFunc {
	return SimulatedLatencyFunc(func() time.Duration { return d }, skip...)
}

// SimulatedLatencyFunc reads the delay on every request, so it can be
// changed while the server runs. Websocket handshakes are not delayed.
func SimulatedLatencyFunc(delay func() time.Duration, skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := delay()
		if d <= 0 || c.IsWebsocket() || hasPrefix(c.Request.URL.Path, skip) {
			c.Next()
			return
		}

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			c.Next()
		case <-c.Request.Context().Done():
			c.AbortWithStatus(http.StatusRequestTimeout)
		}
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
