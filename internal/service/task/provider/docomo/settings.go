package docomo

import "time"

const (
	defaultOrigin         = "https://onlineshop.docomo.ne.jp"
	defaultTokenURL       = defaultOrigin + "/common/auth/auth-anonymus-token-create"
	defaultTransactionURL = defaultOrigin + "/common-ui/common/common-info/auth-transaction-id-create"
	defaultListURL        = defaultOrigin + "/common-ui/ols/get-mobile-price-stock-list"
	defaultPriceURL       = defaultOrigin + "/common-ui/ols/get-cart-reserve-if"
	defaultSpecURL        = defaultOrigin + "/common-ui/ols/get-mobile-spec-comparison"
	defaultReferer        = defaultOrigin + "/products/mobile/price-stock"
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// defaultOrderDiv 계약 형태입니다. "03" 은 のりかえ(MNP) 입니다.
	defaultOrderDiv = "03"

	// defaultSort "1" 은 신착순입니다.
	defaultSort = "1"

	defaultTkubun = 5

	defaultListInterval = 500 * time.Millisecond
	defaultSpecInterval = 100 * time.Millisecond
)

type settings struct {
	Origin         string `json:"origin"`
	Referer        string `json:"referer"`
	TokenURL       string `json:"token_url"`
	TransactionURL string `json:"transaction_url"`
	ListURL        string `json:"list_url"`
	PriceURL       string `json:"price_url"`
	SpecURL        string `json:"spec_url"`
	UserAgent      string `json:"user_agent"`

	OrderDiv string `json:"order_div"`
	Sort     string `json:"sort"`
	Tkubun   int    `json:"tkubun"`

	// ListInterval 목록 페이지 사이의 대기 시간
	ListInterval time.Duration `json:"list_interval"`

	// SpecInterval 스펙 API 호출 전의 대기 시간
	SpecInterval time.Duration `json:"spec_interval"`
}

func (s *settings) ApplyDefaults() {
	if s.Origin == "" {
		s.Origin = defaultOrigin
	}
	if s.Referer == "" {
		s.Referer = defaultReferer
	}
	if s.TokenURL == "" {
		s.TokenURL = defaultTokenURL
	}
	if s.TransactionURL == "" {
		s.TransactionURL = defaultTransactionURL
	}
	if s.ListURL == "" {
		s.ListURL = defaultListURL
	}
	if s.PriceURL == "" {
		s.PriceURL = defaultPriceURL
	}
	if s.SpecURL == "" {
		s.SpecURL = defaultSpecURL
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	if s.OrderDiv == "" {
		s.OrderDiv = defaultOrderDiv
	}
	if s.Sort == "" {
		s.Sort = defaultSort
	}
	if s.Tkubun == 0 {
		s.Tkubun = defaultTkubun
	}
	if s.ListInterval == 0 {
		s.ListInterval = defaultListInterval
	}
	if s.SpecInterval == 0 {
		s.SpecInterval = defaultSpecInterval
	}
}
