package middleware

import (
	"crypto/subtle"

	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// RequireAppKey X-App-Key 헤더를 검증하는 미들웨어를 반환합니다.
//
// appKey 가 비어 있으면 인증 없이 통과시킵니다. (설정 파일의 api.app_key 미설정)
//
// 인증 실패 시:
//   - 401 Unauthorized: 헤더 누락 또는 값 불일치
func RequireAppKey(appKey string) echo.MiddlewareFunc {
	if appKey == "" {
		applog.WithComponent(constants.ComponentMiddlewareAuthentication).Warn("api.app_key 가 설정되지 않아 API 인증을 사용하지 않습니다")

		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	expected := []byte(appKey)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			received := c.Request().Header.Get(constants.HeaderAppKey)
			if received == "" {
				return ErrAppKeyRequired
			}

			if subtle.ConstantTimeCompare([]byte(received), expected) != 1 {
				applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
					"method":           c.Request().Method,
					"path":             c.Path(),
					"remote_ip":        c.RealIP(),
					"received_app_key": applog.MaskSensitiveData(received),
				}).Warn("X-App-Key 불일치")

				return ErrAppKeyInvalid
			}

			return next(c)
		}
	}
}
