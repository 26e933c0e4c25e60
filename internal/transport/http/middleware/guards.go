package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"salon-booking/internal/core/config"
	"salon-booking/internal/core/metrics"
	resp "salon-booking/internal/transport/http/response"
)

// 未配置时的兜底值
const (
	defaultRPS           = 200
	defaultBurst         = 400
	defaultMaxConcurrent = 256
	defaultMaxBodyMB     = 16
	defaultTimeoutSec    = 15
)

// Guards builds the admission chain from the http section: global rate
// limit, concurrency cap, body size cap and per-request deadline. Probes
// (/health, /metrics) bypass the limiters so orchestration keeps working
// under load.
func Guards(h config.HTTP) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		skipProbes(RateLimit(rate.Limit(orDefault(h.RateLimitRPS, defaultRPS)), int(orDefault(h.RateLimitBurst, defaultBurst)))),
		skipProbes(ConcurrencyLimit(orDefault(h.MaxConcurrent, defaultMaxConcurrent))),
		MaxBodyBytes(orDefault(h.MaxBodyMB, defaultMaxBodyMB) << 20),
		Timeout(time.Duration(orDefault(h.RequestTimeoutSec, defaultTimeoutSec)) * time.Second),
	}
}

func orDefault[T int | int64 | float64](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

func skipProbes(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/health", "/metrics":
			c.Next()
		default:
			next(c)
		}
	}
}

func reject(c *gin.Context, status int, reason, msg string) {
	metrics.HTTPRejected.WithLabelValues(reason).Inc()
	resp.Abort(c, status, msg)
}

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if !lim.Allow() {
			reject(c, http.StatusTooManyRequests, "rate_limit", "Too many requests")
			return
		}
		c.Next()
	}
}

// RateLimitPerIP keeps one bucket per client IP, for endpoints that are
// open to anonymous callers such as login.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := buckets[ip]
		if !ok {
			lim = rate.NewLimiter(rps, burst)
			buckets[ip] = lim
		}
		mu.Unlock()
		if !lim.Allow() {
			reject(c, http.StatusTooManyRequests, "rate_limit_ip", "Too many requests")
			return
		}
		c.Next()
	}
}

// ConcurrencyLimit 限制同时在处理的请求数，保护数据库连接池
func ConcurrencyLimit(n int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(n)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			reject(c, http.StatusServiceUnavailable, "busy", "Server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

// MaxBodyBytes rejects declared oversize bodies up front; undeclared ones
// fail while binding.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			reject(c, http.StatusRequestEntityTooLarge, "body_size", "Request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// Timeout puts a deadline on the request context. Repositories pass it to
// gorm, so a slow query ends the request with 504 unless a response was
// already written.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			reject(c, http.StatusGatewayTimeout, "timeout", "Request timeout")
		}
	}
}
