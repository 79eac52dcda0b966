package middleware

import (
	"runtime"

	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// stackBufferSize 스택 트레이스 버퍼 크기 (4KB)
const stackBufferSize = 4 << 10

// PanicRecovery 핸들러의 panic 을 500 응답으로 바꾸고 스택 트레이스를 남깁니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = newErrPanicRecovered(r)
					}

					stack := make([]byte, stackBufferSize)
					length := runtime.Stack(stack, false)

					fields := applog.Fields{
						"method": c.Request().Method,
						"path":   c.Path(),
						"error":  err,
						"stack":  string(stack[:length]),
					}
					if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
						fields["request_id"] = requestID
					}

					applog.WithComponentAndFields(constants.ComponentMiddlewarePanicRecovery, fields).Error("패닉 복구: 예기치 못한 오류가 발생하여 안전하게 복구했습니다")

					c.Error(err)
				}
			}()
			return next(c)
		}
	}
}
