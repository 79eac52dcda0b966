// Package ymobile Y!mobile 공식 온라인 스토어의 라인업 JSON 에서 MNP 가격을 수집합니다.
package ymobile

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
	ID   provider.ID = "ymobile"
	Name             = "Y!mobile"

	component = "provider.ymobile"
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
	var candidates []offer.DeviceOffer

	for _, url := range a.settings.LineupURLs {
		doc, err := scraper.FetchResult(ctx, a.scraper, scraper.Get(url).WithHeader("User-Agent", a.settings.UserAgent))
		if err != nil {
			return nil, newErrFetchLineup(url, err)
		}

		for _, order := range lineup.Parse(doc) {
			candidates = append(candidates, a.offersOf(order)...)
		}
	}

	offers := aggregate.Engine{Price: a.compare}.Collapse(candidates)

	applog.WithComponentAndFields(component, applog.Fields{
		"candidates": len(candidates),
		"offers":     len(offers),
	}).Info("Y!mobile 라인업 수집 완료")

	return offers, nil
}

// offersOf 용량과 요금제 조합마다 후보를 하나씩 만듭니다.
func (a *adapter) offersOf(order lineup.Order) []offer.DeviceOffer {
	model := order.ModelName
	if model == "" {
		if order.OrderID == "" {
			applog.WithComponent(component).Warn("기종명과 order_id 가 모두 비어 있는 항목을 건너뜁니다")
			return nil
		}
		model = lineup.NameFromOrderID(order.OrderID)

		applog.WithComponentAndFields(component, applog.Fields{
			"order_id": order.OrderID,
			"model":    model,
		}).Debug("기종명이 비어 있어 order_id 로 대체합니다")
	}

	var result []offer.DeviceOffer
	for _, storage := range order.Storages {
		for _, plan := range storage.Plans {
			result = append(result, offer.DeviceOffer{
				Model:     model,
				Capacity:  storage.Capacity,
				Condition: order.Condition(),
				Stock:     offer.StockOf(order.OnSale),
				Full:      storage.Full,
				Discount:  plan.Discount,
				Return:    plan.Return,
				Carrier:   Name,
			})
		}
	}
	return result
}
