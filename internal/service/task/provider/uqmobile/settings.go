package uqmobile

import (
	"errors"
	"time"
)

const (
	defaultProductsPageURL  = "https://www.uqwimax.jp/mobile/products/"
	defaultCertifiedPageURL = "https://shop.uqmobile.jp/shop/aucertified/"
	defaultBaseDomain       = "https://www.uqwimax.jp"
	defaultShopDomain       = "https://shop.uqmobile.jp"
	defaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultBatchSize      = 10
	defaultBatchInterval  = 500 * time.Millisecond
	defaultFuzzyThreshold = 0.93
)

type settings struct {
	ProductsPageURL  string `json:"products_page_url"`
	CertifiedPageURL string `json:"certified_page_url"`
	BaseDomain       string `json:"base_domain"`
	ShopDomain       string `json:"shop_domain"`
	UserAgent        string `json:"user_agent"`

	// BatchSize 재고 페이지를 이 개수만큼 가져올 때마다 BatchInterval 만큼 쉰다.
	BatchSize     int           `json:"batch_size"`
	BatchInterval time.Duration `json:"batch_interval"`

	// FuzzyThreshold 정규화한 기종명이 정확히 일치하지 않을 때 사용하는 Jaro-Winkler 유사도 하한입니다.
	FuzzyThreshold float64 `json:"fuzzy_threshold"`
}

func (s *settings) ApplyDefaults() {
	if s.ProductsPageURL == "" {
		s.ProductsPageURL = defaultProductsPageURL
	}
	if s.CertifiedPageURL == "" {
		s.CertifiedPageURL = defaultCertifiedPageURL
	}
	if s.BaseDomain == "" {
		s.BaseDomain = defaultBaseDomain
	}
	if s.ShopDomain == "" {
		s.ShopDomain = defaultShopDomain
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	if s.BatchSize == 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.BatchInterval == 0 {
		s.BatchInterval = defaultBatchInterval
	}
	if s.FuzzyThreshold == 0 {
		s.FuzzyThreshold = defaultFuzzyThreshold
	}
}

func (s *settings) Validate() error {
	if s.BatchSize < 0 {
		return errors.New("batch_size 는 0 보다 커야 합니다")
	}
	if s.FuzzyThreshold < 0 || s.FuzzyThreshold > 1 {
		return errors.New("fuzzy_threshold 는 0 과 1 사이여야 합니다")
	}
	return nil
}
