package fetcher

import (
	"net"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	defaultAcceptLanguage = "ja,en-US;q=0.9,en;q=0.8"
)

// HTTPFetcher net/http 클라이언트로 실제 요청을 보냅니다.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 통신사 사이트 수집에 맞춘 Transport 로 HTTPFetcher 를 생성합니다.
// 쿠키는 요청마다 명시적으로 전달하므로 CookieJar 를 사용하지 않습니다.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// NewHTTPFetcherWithClient 주어진 클라이언트를 사용합니다. 테스트에서 httptest 서버 클라이언트를 주입할 때 사용합니다.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Language") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Language", defaultAcceptLanguage)
	}

	return f.client.Do(req)
}
