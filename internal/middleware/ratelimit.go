package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов по IP клиента
type RateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	expiry  time.Duration
	clients map[string]*client
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		expiry:  time.Hour,
		clients: make(map[string]*client),
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !r.getLimiter(key).Allow() {
			RequestLogger(c).Warn("rate limit exceeded",
				zap.String("client", key),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Too many requests"})
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) getLimiter(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	v, ok := r.clients[key]
	if !ok {
		v = &client{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Cleanup удаляет давно не появлявшихся клиентов; запускается в отдельной горутине до отмены done
func (r *RateLimiter) Cleanup(done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			r.mu.Lock()
			for k, v := range r.clients {
				if time.Since(v.lastSeen) > r.expiry {
					delete(r.clients, k)
				}
			}
			r.mu.Unlock()
		}
	}
}
