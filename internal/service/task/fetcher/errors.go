package fetcher

import (
	"fmt"
	"net/http"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// HTTPStatusError 재시도를 모두 소진한 뒤에도 서버가 오류 상태 코드를 반환한 경우입니다.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	URL        string
	Header     http.Header
	Body       string
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP 요청이 실패했습니다 (상태 코드: %s, URL: %s)", e.Status, e.URL)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func newErrResponseBodyTooLarge(limit int64) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("응답 본문의 크기가 허용 한도(%d bytes)를 초과했습니다", limit))
}

func newErrRetryAfterExceeded(retryAfter, maxDelay string) error {
	return apperrors.New(apperrors.Unavailable, fmt.Sprintf("서버가 요구한 재시도 대기 시간(%s)이 최대 허용 시간(%s)을 초과했습니다", retryAfter, maxDelay))
}

// CheckResponseStatus 200 OK 가 아니면 에러를 반환합니다.
// 5xx 와 429 는 일시적 장애(Unavailable), 그 외는 실행 실패(ExecutionFailed)로 분류합니다.
func CheckResponseStatus(statusCode int, status, url string) error {
	if statusCode == http.StatusOK {
		return nil
	}

	errType := apperrors.ExecutionFailed
	if statusCode >= 500 || statusCode == http.StatusTooManyRequests {
		errType = apperrors.Unavailable
	}

	if status == "" {
		status = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}

	return apperrors.Wrap(&HTTPStatusError{StatusCode: statusCode, Status: status, URL: url}, errType, "HTTP 요청이 실패했습니다")
}
