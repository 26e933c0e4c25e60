package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"salon-booking/internal/core/metrics"
)

const KeyRequestID = "X-Request-ID"

// RequestID keeps a caller supplied id when it is short and printable,
// otherwise assigns a fresh uuid. The id is echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

func validRequestID(s string) bool {
	if s == "" || len(s) > 128 {
		return false
	}
	for _, r := range s {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// Metrics records request count and latency per route template, so ids in
// paths do not blow up label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPInFlight.Inc()
		defer metrics.HTTPInFlight.Dec()
		c.Next()
		path := routeOf(c)
		metrics.HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// routeOf returns the matched route template, or "unmatched" for 404s.
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

// 日志中脱敏的 query key（小写比较）
var maskedKeys = map[string]bool{
	"password": true, "token": true, "access_token": true,
	"authorization": true, "secret": true, "phone": true, "email": true,
}

func maskQuery(q url.Values) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, v := range q {
		if maskedKeys[strings.ToLower(k)] {
			v = []string{"****"}
		}
		out[k] = v
	}
	return out
}

// AccessLog writes one line per request. Probes are skipped; the level
// follows the outcome so 4xx and 5xx stand out.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("route", routeOf(c)),
			zap.String("uri", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
		}
		if len(c.Request.URL.RawQuery) > 0 {
			fields = append(fields, zap.Any("query", maskQuery(c.Request.URL.Query())))
		}
		if uid := c.GetString(KeyUserID); uid != "" {
			fields = append(fields, zap.String("userId", uid), zap.String("role", c.GetString(KeyRole)))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("request", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}
