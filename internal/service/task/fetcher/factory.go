package fetcher

import (
	"time"
)

// Config Fetcher 체인 설정입니다.
type Config struct {
	Timeout       time.Duration
	MaxRetries    int
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration

	// MaxBytes 응답 본문 최대 크기입니다. 0 이면 기본값(32MB), NoLimit 이면 제한하지 않습니다.
	MaxBytes int64

	UserAgents []string
}

// Option NewFromConfig 의 선택 항목입니다.
type Option func(*options)

type options struct {
	base Fetcher
}

// WithBaseFetcher 체인의 가장 안쪽 Fetcher 를 교체합니다.
func WithBaseFetcher(base Fetcher) Option {
	return func(o *options) {
		o.base = base
	}
}

// NewFromConfig 설정에 따라 Fetcher 체인을 조립합니다.
func NewFromConfig(cfg Config, opts ...Option) Fetcher {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var f Fetcher = o.base
	if f == nil {
		f = NewHTTPFetcher(cfg.Timeout)
	}

	f = NewMaxBytesFetcher(f, cfg.MaxBytes)
	f = NewUserAgentFetcher(f, cfg.UserAgents)
	f = NewRetryFetcher(f, cfg.MaxRetries, cfg.MinRetryDelay, cfg.MaxRetryDelay)
	f = NewLoggingFetcher(f)

	return f
}
