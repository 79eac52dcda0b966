// Package au au 온라인 숍의 단말 목록과 재고/가격 API 에서 신품과 인증 중고 단말의 가격을 수집합니다.
package au

import (
	"context"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	ID   provider.ID = "au"
	Name             = "au"

	component = "provider.au"
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
	pacer    *provider.Pacer
}

func newAdapter(p provider.NewAdapterParams) (provider.Adapter, error) {
	s, err := provider.DecodeSettings[settings](p.Settings)
	if err != nil {
		return nil, err
	}
	return &adapter{scraper: p.Scraper, compare: p.Compare, settings: s, pacer: provider.NewPacer(s.Interval)}, nil
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	cookie := a.primeCookie(ctx)

	catalog, err := a.fetchCatalog(ctx, cookie)
	if err != nil {
		return nil, err
	}
	if catalog.len() == 0 {
		return nil, ErrNoProductCodes
	}

	items, err := a.fetchStocks(ctx, catalog, cookie)
	if err != nil {
		return nil, err
	}

	candidates := make([]offer.DeviceOffer, 0, len(items))
	for _, item := range items {
		o := parseStockItem(item, catalog)
		if o.Model == "" {
			continue
		}
		candidates = append(candidates, o)
	}

	// 색상별 SKU 를 (기종, 용량, 상태) 단위로 합친다.
	offers := aggregate.Engine{Price: a.compare}.Merge(candidates)

	applog.WithComponentAndFields(component, applog.Fields{
		"product_codes": catalog.len(),
		"stock_items":   len(items),
		"offers":        len(offers),
	}).Info("au 단말 가격 수집 완료")

	return offers, nil
}

// primeCookie 가격 페이지에 접속하여 세션 쿠키를 받아옵니다. 실패해도 쿠키 없이 계속 진행합니다.
func (a *adapter) primeCookie(ctx context.Context) string {
	resp, err := a.scraper.Fetch(ctx, a.request(a.settings.PricePageURL, "", ""))
	if err != nil || !resp.OK() {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":   a.settings.PricePageURL,
			"error": err,
		}).Warn("세션 쿠키를 받지 못했습니다. 쿠키 없이 계속 진행합니다")

		return ""
	}

	return strings.Join(resp.Cookies(), "; ")
}
