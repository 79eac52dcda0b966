package httputil

import (
	"net/http"

	"github.com/darkkaiser/phone-price-server/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

func newHTTPError(code int, message string) error {
	return echo.NewHTTPError(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// NewBadRequestError 400 Bad Request 에러를 생성합니다
func NewBadRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewUnauthorizedError 401 Unauthorized 에러를 생성합니다
func NewUnauthorizedError(message string) error {
	return newHTTPError(http.StatusUnauthorized, message)
}

// NewNotFoundError 404 Not Found 에러를 생성합니다
func NewNotFoundError(message string) error {
	return newHTTPError(http.StatusNotFound, message)
}

// NewConflictError 409 Conflict 에러를 생성합니다
func NewConflictError(message string) error {
	return newHTTPError(http.StatusConflict, message)
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다
func NewTooManyRequestsError(message string) error {
	return newHTTPError(http.StatusTooManyRequests, message)
}

// NewInternalServerError 500 Internal Server Error 에러를 생성합니다
func NewInternalServerError(message string) error {
	return newHTTPError(http.StatusInternalServerError, message)
}

// NewServiceUnavailableError 503 Service Unavailable 에러를 생성합니다
func NewServiceUnavailableError(message string) error {
	return newHTTPError(http.StatusServiceUnavailable, message)
}

// Success 표준 성공 응답(200 OK)을 JSON 형식으로 반환합니다.
func Success(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse{
		ResultCode: 0,
		Message:    "성공",
	})
}

// Accepted 요청을 접수만 하고 처리는 비동기로 진행할 때의 응답(202 Accepted)입니다.
func Accepted(c echo.Context, message string) error {
	return c.JSON(http.StatusAccepted, response.SuccessResponse{
		ResultCode: 0,
		Message:    message,
	})
}
