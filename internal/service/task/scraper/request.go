package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

// Request 하나의 HTTP 요청입니다.
//
// Body 가 []byte, string, io.Reader 가 아니면 JSON 으로 직렬화하여 전송하고,
// Content-Type 이 비어 있으면 application/json 으로 설정합니다.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// Get GET 요청을 생성합니다.
func Get(urlStr string) Request {
	return Request{Method: http.MethodGet, URL: urlStr}
}

// PostJSON JSON 본문을 가진 POST 요청을 생성합니다.
func PostJSON(urlStr string, body any) Request {
	return Request{Method: http.MethodPost, URL: urlStr, Body: body}
}

// WithHeader key 헤더를 설정한 복사본을 반환합니다.
func (r Request) WithHeader(key, value string) Request {
	h := r.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	h.Set(key, value)
	r.Header = h
	return r
}

// WithHeaders 주어진 헤더를 모두 설정한 복사본을 반환합니다.
func (r Request) WithHeaders(headers http.Header) Request {
	for k, vs := range headers {
		for _, v := range vs {
			r = r.WithHeader(k, v)
		}
	}
	return r
}

// Response 본문을 모두 읽은 HTTP 응답입니다.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// URL 리다이렉션 이후의 최종 URL 입니다.
	URL *url.URL
}

// OK 상태 코드가 2xx 인지 확인합니다.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Cookies Set-Cookie 헤더에서 "이름=값" 부분만 추려 반환합니다.
func (r *Response) Cookies() []string {
	var cookies []string
	for _, v := range r.Header.Values("Set-Cookie") {
		if pair, _, _ := strings.Cut(v, ";"); strings.TrimSpace(pair) != "" {
			cookies = append(cookies, strings.TrimSpace(pair))
		}
	}
	return cookies
}

func (s *scraper) Fetch(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(r.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, newErrCreateHTTPRequest(r.URL, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.fetcher.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newErrHTTPRequestCanceled(r.URL, ctx.Err())
		}
		return nil, newErrNetworkError(r.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(&contextAwareReader{ctx: ctx, r: io.LimitReader(resp.Body, s.maxResponseBodySize+1)})
	if err != nil {
		if ctx.Err() != nil {
			return nil, newErrHTTPRequestCanceled(r.URL, ctx.Err())
		}
		return nil, newErrReadResponseBody(err)
	}
	if int64(len(data)) > s.maxResponseBodySize {
		return nil, newErrResponseBodyTooLarge(s.maxResponseBodySize, r.URL)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		applog.WithComponentAndFields(component, applog.Fields{
			"method":      method,
			"url":         r.URL,
			"status_code": resp.StatusCode,
			"body_size":   len(data),
		}).Debug("비정상 상태 코드 응답 수신")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
		URL:        finalURL,
	}, nil
}

// encodeBody 재시도 시 본문을 다시 만들 수 있도록 bytes.Reader 로 변환합니다.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", newErrReadRequestBody(err)
		}
		return bytes.NewReader(data), "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", newErrEncodeJSONBody(err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
