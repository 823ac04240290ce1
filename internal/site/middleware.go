package site

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Zachkp/folio/pkg/apperror"
)

const requestIDKey = "RequestID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// skipLog reports paths that are not worth a log line.
func skipLog(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/images/") ||
		strings.HasPrefix(path, "/favicon") ||
		path == "/healthz"
}

// requestLogger logs one line per request. The client IP is only ever logged
// as a salted hash, and DNT: 1 drops client fields entirely.
func requestLogger(log *zap.Logger, salt []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		if skipLog(path) {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if c.GetHeader("DNT") != "1" {
			fields = append(fields,
				zap.String("client", hashIP(salt, c.ClientIP())),
				zap.String("user_agent", c.Request.UserAgent()),
			)
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func newSalt() []byte {
	b := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return b
}

// hashIP is stable for one process so repeat visitors can be correlated
// without storing the address.
func hashIP(salt []byte, ip string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(ip))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// securityHeaders sets a CSP that lets the page load its wasm client, the
// icon font CDN and post to connectOrigin.
func securityHeaders(connectOrigin string) gin.HandlerFunc {
	connect := "'self'"
	if connectOrigin != "" {
		connect += " " + connectOrigin
	}
	csp := "default-src 'self'; " +
		"script-src 'self' 'wasm-unsafe-eval'; " +
		"style-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com; " +
		"font-src 'self' https://cdnjs.cloudflare.com; " +
		"img-src 'self' data:; " +
		"connect-src " + connect + "; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")
		c.Header("Content-Security-Policy", csp)
		c.Next()
	}
}

// relayOrigin returns scheme://host of an absolute relay URL, or "" when the
// relay is same-origin.
func relayOrigin(relayURL string) string {
	u, err := url.Parse(relayURL)
	if err != nil || !u.IsAbs() {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// errorHandler renders the last error pushed with c.Error. Messages of
// *apperror.AppError are shown as is, anything else becomes a generic 500.
func errorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				log.Warn("request failed",
					zap.String("request_id", c.GetString(requestIDKey)),
					zap.Int("status", appErr.Code),
					zap.Error(appErr.Err),
				)
			}
			var details interface{}
			if len(appErr.Details) > 0 {
				details = appErr.Details
			}
			fail(c, appErr.Code, appErr.Message, details)
			return
		}

		log.Error("internal server error",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

const maxTrackedClients = 10000

type limitedClient struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiter keeps one token bucket per client key.
type limiter struct {
	mu      sync.Mutex
	clk     clock.Clock
	limit   rate.Limit
	burst   int
	idle    time.Duration
	clients map[string]*limitedClient
}

func newLimiter(clk clock.Clock, limit rate.Limit, burst int) *limiter {
	return &limiter{
		clk:     clk,
		limit:   limit,
		burst:   burst,
		idle:    10 * time.Minute,
		clients: make(map[string]*limitedClient),
	}
}

func (l *limiter) allow(key string) bool {
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.clients) >= maxTrackedClients {
		for k, c := range l.clients {
			if now.Sub(c.seen) > l.idle {
				delete(l.clients, k)
			}
		}
	}

	c, ok := l.clients[key]
	if !ok {
		c = &limitedClient{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

func rateLimit(l *limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			_ = c.Error(apperror.New(http.StatusTooManyRequests, "Too many messages. Please try again later.", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
