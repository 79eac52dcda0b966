package task

import (
	"github.com/darkkaiser/phone-price-server/internal/config"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/darkkaiser/phone-price-server/pkg/strutil"
)

const (
	// carrierTableSuffix 통신사별 표 이름의 접미사입니다. (예: "docomo端末一覧")
	carrierTableSuffix = "端末一覧"

	// SummaryTableName 통신사 간 비교표의 이름입니다.
	SummaryTableName = "スマホ価格比較"

	// RunLogSheet 실행 기록 시트입니다.
	RunLogSheet = "実行ログ"

	runLogTimeLayout = "2006/01/02 15:04:05"
)

// RunLogHeader 실행 기록 시트의 헤더입니다.
var RunLogHeader = []string{"実行日時", "実行内容"}

// Carrier 설정 순서대로 배치된 통신사 하나입니다.
type Carrier struct {
	ID   provider.ID
	Name string

	adapter provider.Adapter

	// models 기종명 키워드 필터입니다. nil 이면 모든 기종을 남깁니다.
	models *strutil.KeywordMatcher
}

// filterModels 기종명 키워드 필터를 통과한 상품만 남깁니다.
func (c Carrier) filterModels(offers []offer.DeviceOffer) []offer.DeviceOffer {
	if c.models == nil {
		return offers
	}

	kept := offers[:0]
	for _, o := range offers {
		if c.models.Match(o.Model) {
			kept = append(kept, o)
		}
	}
	return kept
}

// TableName 통신사별 표(시트, 스냅샷)의 이름입니다.
func (c Carrier) TableName() string {
	return c.Name + carrierTableSuffix
}

// buildCarriers 활성화된 통신사마다 어댑터를 만듭니다. 설정 오류는 실행 전에 모두 드러나도록 즉시 반환합니다.
func buildCarriers(cfgs []config.CarrierConfig, s scraper.Scraper) ([]Carrier, error) {
	carriers := make([]Carrier, 0, len(cfgs))

	for _, c := range cfgs {
		if !c.Enabled {
			continue
		}

		id := provider.ID(c.ID)

		reg, err := provider.Lookup(id)
		if err != nil {
			return nil, err
		}

		sel, err := reg.ResolveCompare(c.CompareBy)
		if err != nil {
			return nil, newErrAdapterInit(err, id)
		}

		adapter, err := reg.NewAdapter(provider.NewAdapterParams{
			ID:       id,
			Scraper:  s,
			Compare:  sel,
			Settings: c.Settings,
		})
		if err != nil {
			return nil, newErrAdapterInit(err, id)
		}

		carrier := Carrier{ID: id, Name: reg.Name, adapter: adapter}
		if m := strutil.NewKeywordMatcher(c.IncludeKeywords, c.ExcludeKeywords); !m.Empty() {
			carrier.models = m
		}

		carriers = append(carriers, carrier)
	}

	return carriers, nil
}

// selectCarriers ids 에 해당하는 통신사만 설정 순서를 유지한 채 고릅니다. ids 가 비어 있으면 전부입니다.
func selectCarriers(all []Carrier, ids []provider.ID) ([]Carrier, error) {
	if len(ids) == 0 {
		return all, nil
	}

	wanted := make(map[provider.ID]bool, len(ids))
	for _, id := range ids {
		found := false
		for _, c := range all {
			if c.ID == id {
				found = true
				break
			}
		}
		if !found {
			return nil, newErrCarrierNotConfigured(id)
		}
		wanted[id] = true
	}

	selected := make([]Carrier, 0, len(ids))
	for _, c := range all {
		if wanted[c.ID] {
			selected = append(selected, c)
		}
	}
	return selected, nil
}
