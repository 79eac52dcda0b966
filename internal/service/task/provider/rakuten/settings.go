package rakuten

import (
	"errors"
	"time"
)

const (
	defaultOrigin        = "https://onboarding.mobile.rakuten.co.jp"
	defaultEquipmentsURL = defaultOrigin + "/api/equipment/equipments"
	defaultGroupURL      = defaultOrigin + "/api/equipment/getEquipmentGroup"
	defaultDetailsURL    = defaultOrigin + "/api/equipment/getEquipmentDetails"
	defaultChunkBaseURL  = "https://network.mobile.rakuten.co.jp"
	defaultCertifiedURL  = "https://www.rakuten.ne.jp/gold/rakutenmobile-store/product/rakuten-certified/"
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultPageLimit    = 50
	defaultInterval     = 500 * time.Millisecond
	defaultDetailsBatch = 20
	defaultPageBudget   = 20
)

var defaultCategories = []string{"Smartphones", "Apple Smartphones"}

type settings struct {
	Origin        string   `json:"origin"`
	EquipmentsURL string   `json:"equipments_url"`
	GroupURL      string   `json:"group_url"`
	DetailsURL    string   `json:"details_url"`
	ChunkBaseURL  string   `json:"chunk_base_url"`
	CertifiedURL  string   `json:"certified_url"`
	UserAgent     string   `json:"user_agent"`
	Categories    []string `json:"categories"`

	// PageLimit 단말 검색 API 한 페이지의 건수
	PageLimit int `json:"page_limit"`

	Interval time.Duration `json:"interval"`

	// DetailsBatch 상세 API 를 이 횟수만큼 호출할 때마다 Interval 만큼 쉰다.
	DetailsBatch int `json:"details_batch"`

	// PageBudget 한 번의 수집에서 제품 페이지를 가져오는 최대 횟수
	PageBudget int `json:"page_budget"`
}

func (s *settings) ApplyDefaults() {
	if s.Origin == "" {
		s.Origin = defaultOrigin
	}
	if s.EquipmentsURL == "" {
		s.EquipmentsURL = defaultEquipmentsURL
	}
	if s.GroupURL == "" {
		s.GroupURL = defaultGroupURL
	}
	if s.DetailsURL == "" {
		s.DetailsURL = defaultDetailsURL
	}
	if s.ChunkBaseURL == "" {
		s.ChunkBaseURL = defaultChunkBaseURL
	}
	if s.CertifiedURL == "" {
		s.CertifiedURL = defaultCertifiedURL
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	if len(s.Categories) == 0 {
		s.Categories = defaultCategories
	}
	if s.PageLimit == 0 {
		s.PageLimit = defaultPageLimit
	}
	if s.Interval == 0 {
		s.Interval = defaultInterval
	}
	if s.DetailsBatch == 0 {
		s.DetailsBatch = defaultDetailsBatch
	}
	if s.PageBudget == 0 {
		s.PageBudget = defaultPageBudget
	}
}

func (s *settings) Validate() error {
	if s.PageLimit < 0 || s.DetailsBatch < 0 || s.PageBudget < 0 {
		return errors.New("page_limit, details_batch, page_budget 는 0 보다 커야 합니다")
	}
	return nil
}
