package fetcher

import (
	"math/rand/v2"
	"net/http"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// UserAgentFetcher User-Agent 헤더가 없는 요청에 브라우저 User-Agent 를 설정합니다.
// 통신사마다 요구하는 User-Agent 가 있으면 요청에서 직접 지정합니다.
type UserAgentFetcher struct {
	delegate   Fetcher
	userAgents []string
}

var _ Fetcher = (*UserAgentFetcher)(nil)

func NewUserAgentFetcher(delegate Fetcher, userAgents []string) *UserAgentFetcher {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &UserAgentFetcher{delegate: delegate, userAgents: userAgents}
}

func (f *UserAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return f.delegate.Do(req)
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", f.userAgents[rand.IntN(len(f.userAgents))])

	return f.delegate.Do(cloned)
}
