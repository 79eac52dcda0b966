package fetcher

import (
	"net/http"
	"time"

	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

// LoggingFetcher 요청 메서드, URL, 상태 코드, 소요 시간을 기록합니다.
type LoggingFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*LoggingFetcher)(nil)

func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{delegate: delegate}
}

func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      redactURL(req.URL),
		"duration": time.Since(start).String(),
	}
	if resp != nil {
		fields["status_code"] = resp.StatusCode
	}

	if err != nil {
		fields["error"] = err.Error()
		applog.WithComponentAndFields(component, fields).Error("HTTP 요청 실패: 요청 처리 중 에러 발생")

		return resp, err
	}

	applog.WithComponentAndFields(component, fields).Debug("HTTP 요청 완료")

	return resp, nil
}
