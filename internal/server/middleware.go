package server

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"halalfood-backend/internal/usecase"
)

const claimsKey = "claims"

// authenticate requires a valid bearer token and stores its claims on the
// context for later handlers.
func (s *Server) authenticate(c *gin.Context) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		unauthorized(c)
		return
	}
	claims, err := s.deps.Tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		unauthorized(c)
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

// authorizeAdmin must run after authenticate. The role is read from the user
// store on every request; tokens carry no role.
func (s *Server) authorizeAdmin(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		unauthorized(c)
		return
	}
	ok, err := s.deps.Users.IsAdmin(c.Request.Context(), claims.Email)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": true, "message": "forbidden message"})
		return
	}
	c.Next()
}

func claimsFrom(c *gin.Context) *usecase.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*usecase.Claims)
	return claims
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Unauthorized access"})
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log.Info("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

func (s *Server) rateLimit(c *gin.Context) {
	if s.limiter == nil || s.limiter.allow(c.ClientIP()) {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": true, "message": "too many requests"})
}

const (
	limiterIdleTTL  = 10 * time.Minute
	limiterPruneLen = 1024
	limiterMaxLen   = 16384
)

type ipLimiter struct {
	limiter *rate.Limiter
	last    time.Time
}

type ipRateLimiter struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	maxLen   int
	limiters map[string]*ipLimiter
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		maxLen:   limiterMaxLen,
		limiters: make(map[string]*ipLimiter),
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if len(l.limiters) >= limiterPruneLen {
		for k, v := range l.limiters {
			if now.Sub(v.last) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
	}
	lim, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= l.maxLen {
			l.evictOldest()
		}
		lim = &ipLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = lim
	}
	lim.last = now
	return lim.limiter.AllowN(now, 1)
}

func (l *ipRateLimiter) evictOldest() {
	var oldest string
	var at time.Time
	for k, v := range l.limiters {
		if oldest == "" || v.last.Before(at) {
			oldest, at = k, v.last
		}
	}
	delete(l.limiters, oldest)
}

func (l *ipRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
