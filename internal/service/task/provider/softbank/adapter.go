// Package softbank SoftBank 온라인 숍의 제품, 재고, 가격 API 를 조합하여 MNP 가격을 수집합니다.
package softbank

import (
	"context"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

const (
	ID   provider.ID = "softbank"
	Name             = "softbank"

	component = "provider.softbank"
)

func init() {
	provider.MustRegister(ID, &provider.Config{
		Name:             Name,
		DefaultCompareBy: aggregate.CompareByReturnDiscount,
		NewAdapter:       newAdapter,
	})
}

type adapter struct {
	scraper  scraper.Scraper
	compare  aggregate.Selector
	settings *settings
}

func newAdapter(p provider.NewAdapterParams) (provider.Adapter, error) {
	s, err := provider.DecodeSettings[settings](p.Settings)
	if err != nil {
		return nil, err
	}

	compare := p.Compare
	if compare == nil {
		compare = aggregate.ByReturnOrDiscount
	}

	return &adapter{scraper: p.Scraper, compare: compare, settings: s}, nil
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	stocks := a.fetchStocks(ctx)
	prices := a.fetchPrices(ctx)

	modelInfo, err := scraper.FetchResult(ctx, a.scraper, a.request(a.settings.ModelInfoURL))
	if err != nil {
		return nil, newErrFetchModelInfo(err)
	}

	var candidates []offer.DeviceOffer
	modelInfo.Get("itemTypeList").ForEach(func(_, itemType gjson.Result) bool {
		itemTypeName := itemType.Get("itemTypeNm").String()

		itemType.Get("modelGrpList").ForEach(func(_, group gjson.Result) bool {
			modelName := normalize.CleanModel(strings.ReplaceAll(group.Get("modelGrpNm").String(), "<br />", " "))
			condition := conditionOf(itemTypeName, modelName)

			group.Get("modelIdList").ForEach(func(_, model gjson.Result) bool {
				candidates = append(candidates, a.offersOf(model, modelName, condition, stocks, prices)...)
				return true
			})
			return true
		})
		return true
	})

	// 가격 시나리오가 없어 "-" 로만 채워진 키도 결과에 남긴다.
	offers := aggregate.Engine{Price: a.compare}.CollapseAll(candidates)

	applog.WithComponentAndFields(component, applog.Fields{
		"stock_goods":  len(stocks),
		"price_models": len(prices),
		"candidates":   len(candidates),
		"offers":       len(offers),
	}).Info("SoftBank 단말 가격 수집 완료")

	return offers, nil
}

// offersOf 모델 ID 하나의 계약 시나리오마다 후보를 만듭니다.
// 가격 시나리오가 전혀 없는 모델은 가격이 모두 "-" 인 후보 하나를 만듭니다.
func (a *adapter) offersOf(model gjson.Result, modelName string, condition offer.Condition, stocks stockMap, prices priceMap) []offer.DeviceOffer {
	goods := model.Get("goodsCdList")
	if !goods.IsArray() {
		return nil
	}

	available := false
	goods.ForEach(func(_, g gjson.Result) bool {
		available = stocks[g.Get("goodsCd").String()]
		return !available
	})

	base := offer.DeviceOffer{
		Model:     modelName,
		Capacity:  capacityOf(model),
		Condition: condition,
		Stock:     offer.StockOf(available),
		Carrier:   Name,
	}

	scenarios := prices[model.Get("modelId").String()]
	if len(scenarios) == 0 {
		base.Full, base.Discount, base.Return = offer.NotApplicable(), offer.NotApplicable(), offer.NotApplicable()
		return []offer.DeviceOffer{base}
	}

	var result []offer.DeviceOffer
	for _, sc := range scenarios {
		if sc.Get("cTy").String() != a.settings.ContractType {
			continue
		}

		o := base
		o.Full, o.Discount, o.Return = parseScenario(sc).prices()
		result = append(result, o)
	}
	return result
}
