package api

import (
	"time"

	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	"github.com/darkkaiser/phone-price-server/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/phone-price-server/internal/service/api/middleware"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// RequestTimeout 각 HTTP 요청의 최대 처리 시간 (기본값: 30초)
	RequestTimeout time.Duration
}

// NewHTTPServer 미들웨어 체인이 구성된 Echo 인스턴스를 생성합니다.
//
// 미들웨어 순서:
//
//  1. PanicRecovery: 다른 미들웨어의 panic 까지 복구하려면 가장 먼저 와야 합니다.
//  2. RequestID: 로그에 request_id 가 남도록 로깅보다 앞에 둡니다.
//  3. Server 헤더 제거
//  4. HTTPLogger: 429/503 응답도 기록되도록 RateLimit/Timeout 앞에 둡니다.
//  5. RateLimiting
//  6. BodyLimit
//  7. Timeout
//  8. Secure
//
// 라우트는 포함되지 않습니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	// Echo 내부 로그도 애플리케이션 로거로 보냅니다.
	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	e.Use(appmiddleware.RateLimiting(constants.DefaultRateLimitPerSecond, constants.DefaultRateLimitBurst))
	e.Use(middleware.BodyLimit(constants.DefaultMaxBodySize))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.Secure())

	return e
}
