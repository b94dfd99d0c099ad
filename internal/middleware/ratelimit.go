package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	logger   *zap.Logger
}

// NewIPRateLimiter allows perMinute requests per IP with an equal burst.
func NewIPRateLimiter(perMinute int, logger *zap.Logger) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPRateLimiter{rate: rate.Limit(float64(perMinute) / 60.0), burst: perMinute, logger: logger}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	if existing, ok := l.limiters.Load(ip); ok {
		return existing.(*rate.Limiter)
	}
	created, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return created.(*rate.Limiter)
}

// Handler rejects requests over the limit with 429.
func (l *IPRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.limiter(ip).Allow() {
			l.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
