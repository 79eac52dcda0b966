package apple

import (
	"time"
)

const (
	defaultDigitalMatURL    = "https://www.apple.com/jp/shop/api/digital-mat?path=library/step0_iphone/digitalmat"
	defaultUpdateSummaryURL = "https://www.apple.com/jp/shop/updateSummary?fae=true&product="
	defaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultInterval = 500 * time.Millisecond
)

type settings struct {
	DigitalMatURL string `json:"digital_mat_url"`

	// UpdateSummaryURL 끝에 SKU 부품 번호를 붙여 재고를 조회한다.
	UpdateSummaryURL string `json:"update_summary_url"`
	UserAgent        string `json:"user_agent"`

	Interval time.Duration `json:"interval"`
}

func (s *settings) ApplyDefaults() {
	if s.DigitalMatURL == "" {
		s.DigitalMatURL = defaultDigitalMatURL
	}
	if s.UpdateSummaryURL == "" {
		s.UpdateSummaryURL = defaultUpdateSummaryURL
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	if s.Interval == 0 {
		s.Interval = defaultInterval
	}
}
