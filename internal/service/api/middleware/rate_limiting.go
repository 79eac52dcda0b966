package middleware

import (
	"sync"

	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ipRateLimiter IP 주소별 rate.Limiter 를 관리합니다.
//
// IP 주소는 한 번 추가되면 서버 재시작 전까지 유지됩니다.
// 운영자용 소규모 API 이므로 정리 작업은 두지 않습니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPRateLimiter(requestsPerSecond int, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// getLimiter 특정 IP 주소에 대한 Limiter를 반환하며, 없으면 새로 생성합니다.
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limiters[ip]
	i.mu.RUnlock()

	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double-check: 다른 고루틴이 이미 생성했을 수 있음
	if limiter, exists = i.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// RateLimiting IP 기반 Token Bucket 요청 제한 미들웨어를 반환합니다.
// 제한을 초과하면 Retry-After 헤더와 함께 429 Too Many Requests 로 응답합니다.
//
// Panics:
//   - requestsPerSecond 또는 burst 가 0 이하인 경우
func RateLimiting(requestsPerSecond int, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic("[RateLimiting] requestsPerSecond는 양수여야 합니다")
	}
	if burst <= 0 {
		panic("[RateLimiting] burst는 양수여야 합니다")
	}

	limiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if !limiter.getLimiter(ip).Allow() {
				applog.WithComponentAndFields(constants.ComponentMiddlewareRateLimit, applog.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
					"method":    c.Request().Method,
				}).Warn("Rate limit 초과")

				c.Response().Header().Set("Retry-After", "1")

				return ErrRateLimitExceeded
			}

			return next(c)
		}
	}
}
