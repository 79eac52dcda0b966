package au

import (
	"errors"
	"time"
)

const (
	defaultOrigin        = "https://www.au.com"
	defaultPricePageURL  = "https://www.au.com/mobile/product/price/smartphone/"
	defaultSmartphoneURL = "https://www.au.com/content/dam/au-com/mobile/onlineshop/stock_list/json/product_smartphone.json"
	defaultIPhoneURL     = "https://www.au.com/content/dam/au-com/mobile/onlineshop/stock_list/json/product_iphone.json"
	defaultCertifiedURL  = "https://www.au.com/content/dam/au-com/mobile/onlineshop/stock_list/js/au_certified_product_data.js"
	defaultStockAPIBase  = "https://www.au.com/bin/wcm/au-com/ols/product/v2."
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// 재고 API 는 URL 에 상품 코드를 이어 붙이므로 너무 길어지면 "Limit Exceeded" 로 거부된다.
	defaultChunkSize = 30

	// 간격 없이 연속 호출하면 504 가 반환된다.
	defaultInterval = 3 * time.Second

	// 인증 중고 단말의 상품 상세 경로가 없을 때 사용하는 currentPagePath 입니다.
	certifiedDefaultPath = "/content/au-com/mobile/product/certified/"
)

type settings struct {
	Origin        string        `json:"origin"`
	PricePageURL  string        `json:"price_page_url"`
	SmartphoneURL string        `json:"smartphone_url"`
	IPhoneURL     string        `json:"iphone_url"`
	CertifiedURL  string        `json:"certified_url"`
	StockAPIBase  string        `json:"stock_api_base"`
	UserAgent     string        `json:"user_agent"`
	ChunkSize     int           `json:"chunk_size"`
	Interval      time.Duration `json:"interval"`
}

func (s *settings) ApplyDefaults() {
	if s.Origin == "" {
		s.Origin = defaultOrigin
	}
	if s.PricePageURL == "" {
		s.PricePageURL = defaultPricePageURL
	}
	if s.SmartphoneURL == "" {
		s.SmartphoneURL = defaultSmartphoneURL
	}
	if s.IPhoneURL == "" {
		s.IPhoneURL = defaultIPhoneURL
	}
	if s.CertifiedURL == "" {
		s.CertifiedURL = defaultCertifiedURL
	}
	if s.StockAPIBase == "" {
		s.StockAPIBase = defaultStockAPIBase
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	if s.ChunkSize == 0 {
		s.ChunkSize = defaultChunkSize
	}
	if s.Interval == 0 {
		s.Interval = defaultInterval
	}
}

func (s *settings) Validate() error {
	if s.ChunkSize < 0 {
		return errors.New("chunk_size 는 0 보다 커야 합니다")
	}
	return nil
}
