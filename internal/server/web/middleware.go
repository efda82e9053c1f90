package web

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestLogger tags every request with an id, echoes it back in
// X-Request-ID and logs one line once the request is served.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request",
			requestIDKey, id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// allowedHosts rejects requests whose Host header matches none of hosts.
// "*" matches anything and a leading dot matches the domain and every
// subdomain.
func allowedHosts(hosts []string, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := requestHost(c.Request)
		if hostAllowed(host, hosts) {
			c.Next()
			return
		}
		logger.Warn(c.Request.Context(), "disallowed host", "host", host, requestIDKey, c.GetString(requestIDKey))
		c.String(http.StatusBadRequest, "Bad Request (400)")
		c.Abort()
	}
}

func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}

func hostAllowed(host string, patterns []string) bool {
	if host == "" {
		return false
	}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		switch {
		case p == "*":
			return true
		case strings.HasPrefix(p, "."):
			if host == p[1:] || strings.HasSuffix(host, p) {
				return true
			}
		case host == p:
			return true
		}
	}
	return false
}
