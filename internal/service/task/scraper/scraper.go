// Package scraper 통신사 사이트의 HTML, JSON, 스크립트 내장 데이터를 가져오는 기능을 제공합니다.
//
// Fetch 는 비정상 상태 코드에서도 에러를 반환하지 않습니다. 상태 코드 판단은 호출 측이 직접 하며,
// FetchJSON/FetchHTML/FetchText 는 200 OK 가 아니면 에러를 반환하는 편의 함수입니다.
package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/phone-price-server/internal/service/task/fetcher"
)

const component = "task.scraper"

// defaultMaxResponseBodySize 응답 본문의 기본 최대 크기입니다.
const defaultMaxResponseBodySize = 16 * 1024 * 1024

// Scraper 통신사 사이트 요청을 수행합니다.
type Scraper interface {
	// Fetch 요청을 보내고 응답 본문을 메모리로 읽어 반환합니다.
	// 네트워크 오류나 컨텍스트 취소가 아니면 상태 코드와 관계없이 응답을 반환합니다.
	Fetch(ctx context.Context, req Request) (*Response, error)

	// FetchJSON 200 OK 응답의 JSON 본문을 v 로 디코딩합니다.
	FetchJSON(ctx context.Context, req Request, v any) error

	// FetchHTML 200 OK 응답을 문자 인코딩을 변환하여 goquery.Document 로 파싱합니다.
	FetchHTML(ctx context.Context, req Request) (*goquery.Document, error)

	// FetchText 200 OK 응답 본문을 UTF-8 문자열로 반환합니다.
	FetchText(ctx context.Context, req Request) (string, error)
}

type scraper struct {
	fetcher fetcher.Fetcher

	maxResponseBodySize int64
}

// Option Scraper 구성을 위한 옵션 함수 타입입니다.
type Option func(*scraper)

// WithMaxResponseBodySize 응답 본문의 최대 읽기 크기를 설정합니다.
func WithMaxResponseBodySize(size int64) Option {
	return func(s *scraper) {
		if size > 0 {
			s.maxResponseBodySize = size
		}
	}
}

// New 새로운 Scraper 를 생성합니다. f 가 nil 이면 패닉이 발생합니다.
func New(f fetcher.Fetcher, opts ...Option) Scraper {
	if f == nil {
		panic("Fetcher는 필수입니다")
	}

	s := &scraper{
		fetcher:             f,
		maxResponseBodySize: defaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}
