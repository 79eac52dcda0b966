package ymobileyahoo

import (
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider/ymobile/lineup"
)

const defaultStockURL = "https://reference-stock.api-ymobile.net/stock01.json"

type settings struct {
	LineupURLs []string `json:"lineup_urls"`
	StockURL   string   `json:"stock_url"`
	UserAgent  string   `json:"user_agent"`
}

func (s *settings) ApplyDefaults() {
	if len(s.LineupURLs) == 0 {
		s.LineupURLs = []string{lineup.DefaultIPhoneURL, lineup.DefaultAndroidURL}
	}
	if s.StockURL == "" {
		s.StockURL = defaultStockURL
	}
	if s.UserAgent == "" {
		s.UserAgent = lineup.DefaultUserAgent
	}
}
