package scraper

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

func (s *scraper) FetchHTML(ctx context.Context, req Request) (*goquery.Document, error) {
	resp, err := s.fetchOK(ctx, req.WithHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"))
	if err != nil {
		return nil, err
	}

	doc, err := ParseHTML(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, newErrHTMLParseFailed(req.URL, err)
	}
	doc.Url = resp.URL

	return doc, nil
}

func (s *scraper) FetchText(ctx context.Context, req Request) (string, error) {
	resp, err := s.fetchOK(ctx, req)
	if err != nil {
		return "", err
	}

	return DecodeText(resp.Body, resp.Header.Get("Content-Type")), nil
}

// ParseHTML Content-Type 또는 meta 태그의 charset 에 따라 UTF-8 로 변환한 뒤 HTML 을 파싱합니다.
func ParseHTML(body []byte, contentType string) (*goquery.Document, error) {
	r, err := utf8Reader(body, contentType)
	if err != nil {
		r = bytes.NewReader(body)
	}

	return goquery.NewDocumentFromReader(r)
}

// DecodeText 본문을 UTF-8 문자열로 변환합니다. 변환에 실패하면 잘못된 바이트를 제거한 원본을 반환합니다.
func DecodeText(body []byte, contentType string) string {
	if utf8.Valid(body) {
		return string(body)
	}

	r, err := utf8Reader(body, contentType)
	if err != nil {
		return strings.ToValidUTF8(string(body), "")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return strings.ToValidUTF8(string(body), "")
	}

	return strings.ToValidUTF8(string(data), "")
}

// utf8Reader 이미 유효한 UTF-8 이면 변환하지 않는다.
// charset 스니핑은 앞부분 1KB 만 보므로 ASCII 로 시작하는 UTF-8 문서를 windows-1252 로 오인할 수 있다.
func utf8Reader(body []byte, contentType string) (io.Reader, error) {
	if utf8.Valid(body) {
		return bytes.NewReader(body), nil
	}
	return charset.NewReader(bytes.NewReader(body), contentType)
}
