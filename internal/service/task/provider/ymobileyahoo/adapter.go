// Package ymobileyahoo Y!mobile Yahoo! 스토어의 가격과 재고를 수집합니다.
//
// 가격은 공식 스토어와 같은 라인업 JSON 을 사용하고, 재고는 SKU 별 재고 API 로 판정합니다.
package ymobileyahoo

import (
	"context"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider/ymobile/lineup"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	ID   provider.ID = "ymobile-yahoo"
	Name             = "Y!mobileヤフー店"

	component = "provider.ymobileyahoo"
)

func init() {
	provider.MustRegister(ID, &provider.Config{
		Name:             Name,
		DefaultCompareBy: aggregate.CompareByDiscount,
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
	return &adapter{scraper: p.Scraper, compare: p.Compare, settings: s}, nil
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	stocks, err := a.fetchStocks(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []offer.DeviceOffer
	for _, url := range a.settings.LineupURLs {
		doc, err := scraper.FetchResult(ctx, a.scraper, a.get(url))
		if err != nil {
			return nil, newErrFetchLineup(url, err)
		}

		for _, order := range lineup.Parse(doc) {
			candidates = append(candidates, a.offersOf(order, stocks)...)
		}
	}

	offers := aggregate.Engine{Price: a.compare}.Collapse(candidates)

	applog.WithComponentAndFields(component, applog.Fields{
		"stock_skus": len(stocks),
		"candidates": len(candidates),
		"offers":     len(offers),
	}).Info("Y!mobile Yahoo! 스토어 라인업 수집 완료")

	return offers, nil
}

func (a *adapter) get(url string) scraper.Request {
	return scraper.Get(url).WithHeader("User-Agent", a.settings.UserAgent)
}

// offersOf 용량마다 할인가가 가장 낮은 요금제 하나로 후보를 만듭니다.
func (a *adapter) offersOf(order lineup.Order, stocks stockMap) []offer.DeviceOffer {
	model := lineup.RepairName(order.ModelName, order.OrderID)
	if model == "" {
		return nil
	}

	stock := a.stockOf(order, stocks)

	var result []offer.DeviceOffer
	for _, storage := range order.Storages {
		plan, ok := storage.BestPlan()
		if !ok {
			continue
		}

		result = append(result, offer.DeviceOffer{
			Model:     model,
			Capacity:  storage.Capacity,
			Condition: order.Condition(),
			Stock:     stock,
			Full:      storage.Full,
			Discount:  plan.Discount,
			Return:    plan.Return,
			Carrier:   Name,
		})
	}
	return result
}

// stockOf item_code 가 있으면 재고 API 로, 없으면 sale_flg 로 판정합니다.
// "入荷待ち" 같은 문구형 재고는 재고 없음으로 취급합니다.
func (a *adapter) stockOf(order lineup.Order, stocks stockMap) offer.Stock {
	if order.ItemCodes == nil {
		return offer.StockOf(order.OnSale)
	}

	var text string
	for _, sku := range order.ItemCodes {
		s, ok := stocks[sku]
		if !ok {
			continue
		}
		if s.Count > 0 {
			return offer.InStock
		}
		if s.Text != "" {
			text = s.Text
		}
	}

	if text != "" {
		applog.WithComponentAndFields(component, applog.Fields{
			"order_id": order.OrderID,
			"text":     text,
		}).Debug("문구형 재고 표시를 재고 없음으로 처리합니다")
	}

	return offer.OutOfStock
}
