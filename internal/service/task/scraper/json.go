package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/service/task/fetcher"
	"github.com/tidwall/gjson"
)

func (s *scraper) FetchJSON(ctx context.Context, req Request, v any) error {
	if v == nil {
		return ErrDecodeTargetNil
	}

	resp, err := s.fetchOK(ctx, req.WithHeader("Accept", "application/json, text/plain, */*"))
	if err != nil {
		return err
	}

	if err := checkNotHTML(resp, req.URL); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return newErrJSONParsingFailed(req.URL, err)
	}

	return nil
}

// FetchResult 스키마가 고정되지 않은 JSON 응답을 gjson.Result 로 반환합니다.
func FetchResult(ctx context.Context, s Scraper, req Request) (gjson.Result, error) {
	var raw json.RawMessage
	if err := s.FetchJSON(ctx, req, &raw); err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(raw), nil
}

// fetchOK Fetch 후 200 OK 가 아니면 에러를 반환합니다.
func (s *scraper) fetchOK(ctx context.Context, req Request) (*Response, error) {
	resp, err := s.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := fetcher.CheckResponseStatus(resp.StatusCode, resp.Status, req.URL); err != nil {
		return nil, err
	}

	return resp, nil
}

func checkNotHTML(resp *Response, url string) error {
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return newErrUnexpectedHTMLResponse(url, contentType)
	}

	trimmed := bytes.TrimSpace(resp.Body)
	if bytes.HasPrefix(trimmed, []byte("<!DOCTYPE")) || bytes.HasPrefix(trimmed, []byte("<html")) {
		return newErrUnexpectedHTMLResponse(url, contentType)
	}

	return nil
}
