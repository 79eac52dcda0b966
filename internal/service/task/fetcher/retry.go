package fetcher

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	maxAllowedRetries = 10

	defaultMinRetryDelay = 1 * time.Second
	defaultMaxRetryDelay = 30 * time.Second
)

// RetryFetcher 일시적 오류(네트워크 오류, 5xx, 429, 408)가 발생하면 지수 백오프로 재시도합니다.
//
// POST 처럼 멱등성이 보장되지 않는 요청과 본문을 다시 만들 수 없는 요청은 재시도하지 않습니다.
// 서버가 Retry-After 헤더를 보내면 그 시간을 따르되, 최대 대기 시간을 넘으면 즉시 실패합니다.
type RetryFetcher struct {
	delegate Fetcher

	maxRetries    int
	minRetryDelay time.Duration
	maxRetryDelay time.Duration
}

var _ Fetcher = (*RetryFetcher)(nil)

func NewRetryFetcher(delegate Fetcher, maxRetries int, minRetryDelay, maxRetryDelay time.Duration) *RetryFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > maxAllowedRetries {
		maxRetries = maxAllowedRetries
	}
	if minRetryDelay <= 0 {
		minRetryDelay = defaultMinRetryDelay
	}
	if maxRetryDelay <= 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}
	if maxRetryDelay < minRetryDelay {
		maxRetryDelay = minRetryDelay
	}

	return &RetryFetcher{
		delegate:      delegate,
		maxRetries:    maxRetries,
		minRetryDelay: minRetryDelay,
		maxRetryDelay: maxRetryDelay,
	}
}

func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	maxRetries := f.maxRetries
	if !isIdempotentMethod(req.Method) || (req.Body != nil && req.Body != http.NoBody && req.GetBody == nil) {
		maxRetries = 0
	}

	var (
		lastResp *http.Response
		lastErr  error
	)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.backoff(attempt)

			if lastResp != nil {
				if retryAfter, ok := parseRetryAfter(lastResp.Header.Get("Retry-After")); ok {
					if retryAfter > f.maxRetryDelay {
						drainAndCloseBody(lastResp.Body)
						return nil, newErrRetryAfterExceeded(retryAfter.String(), f.maxRetryDelay.String())
					}
					delay = retryAfter
				}
				drainAndCloseBody(lastResp.Body)
			}

			fields := applog.Fields{
				"url":         redactURL(req.URL),
				"retry":       attempt,
				"max_retries": maxRetries,
				"delay":       delay.String(),
			}
			if lastErr != nil {
				fields["error"] = lastErr.Error()
			}
			if lastResp != nil {
				fields["status_code"] = lastResp.StatusCode
			}
			applog.WithComponentAndFields(component, fields).Warn("재시도 대기 중: 일시적 오류로 인해 요청을 다시 시도합니다")

			if err := sleep(req.Context(), delay); err != nil {
				return nil, err
			}

			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				req = req.Clone(req.Context())
				req.Body = body
			}
		}

		resp, err := f.delegate.Do(req)
		if err != nil {
			if req.Context().Err() != nil || !isRetriableError(err) {
				if resp != nil {
					drainAndCloseBody(resp.Body)
				}
				return nil, err
			}

			lastResp, lastErr = nil, err
			continue
		}

		if !isRetriableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastResp, lastErr = resp, nil
	}

	if lastResp != nil {
		// 상태 코드 판단은 호출 측이 하므로 마지막 응답을 그대로 돌려준다.
		return lastResp, nil
	}

	return nil, lastErr
}

// backoff minRetryDelay * 2^(attempt-1) 을 상한으로 하는 full jitter 지연 시간을 계산합니다.
func (f *RetryFetcher) backoff(attempt int) time.Duration {
	delay := f.minRetryDelay << (attempt - 1)
	if delay <= 0 || delay > f.maxRetryDelay {
		delay = f.maxRetryDelay
	}

	jittered := time.Duration(rand.Int64N(int64(delay) + 1))
	if jittered < f.minRetryDelay {
		jittered = f.minRetryDelay
	}

	return jittered
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete, "":
		return true
	default:
		return false
	}
}

func isRetriableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
		return false
	default:
		return code >= 500
	}
}

func isRetriableError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// 응답 크기 초과 등 애플리케이션 에러는 재시도해도 같은 결과가 나온다.
	var appErr *apperrors.AppError
	return !errors.As(err, &appErr)
}

// parseRetryAfter 초 단위 정수 또는 HTTP 날짜 형식의 Retry-After 값을 해석합니다.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}
