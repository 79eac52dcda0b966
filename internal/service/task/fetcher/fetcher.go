// Package fetcher 외부 사이트 요청에 사용하는 HTTP 클라이언트 체인을 제공합니다.
//
// 각 Fetcher 는 다른 Fetcher 를 감싸는 데코레이터이며, NewFromConfig 가 다음 순서로 조립합니다.
//
//	Logging -> Retry -> UserAgent -> MaxBytes -> HTTP
package fetcher

import (
	"io"
	"net/http"
)

const component = "task.fetcher"

// Fetcher HTTP 요청을 수행합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// drainAndCloseBody 커넥션 재사용을 위해 남은 본문을 일부 읽고 닫습니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, body, 64*1024)
	_ = body.Close()
}
