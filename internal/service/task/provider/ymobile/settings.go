package ymobile

import (
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider/ymobile/lineup"
)

type settings struct {
	LineupURLs []string `json:"lineup_urls"`
	UserAgent  string   `json:"user_agent"`
}

func (s *settings) ApplyDefaults() {
	if len(s.LineupURLs) == 0 {
		s.LineupURLs = []string{lineup.DefaultIPhoneURL, lineup.DefaultAndroidURL}
	}
	if s.UserAgent == "" {
		s.UserAgent = lineup.DefaultUserAgent
	}
}
