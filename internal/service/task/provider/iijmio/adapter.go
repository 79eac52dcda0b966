// Package iijmio IIJmio 단말 목록 API 에서 가격과 재고를 수집합니다.
package iijmio

import (
	"context"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	ID   provider.ID = "iijmio"
	Name             = "iijmio"

	component = "provider.iijmio"
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
	var resp terminalListResponse
	req := scraper.Get(a.settings.ListURL).WithHeader("User-Agent", a.settings.UserAgent)
	if err := a.scraper.FetchJSON(ctx, req, &resp); err != nil {
		return nil, newErrFetchTerminalList(err)
	}

	offers := make([]offer.DeviceOffer, 0, len(resp.Result.Result))
	for _, d := range resp.Result.Result {
		o, ok := parseTerminal(d)
		if !ok {
			continue
		}
		offers = append(offers, o)
	}

	// 같은 기종이 여러 번 내려오면 비교 가격이 가장 낮은 것을 남기고 재고는 합친다.
	offers = aggregate.Engine{Price: a.compare}.Merge(offers)

	applog.WithComponentAndFields(component, applog.Fields{
		"terminals": len(resp.Result.Result),
		"offers":    len(offers),
	}).Info("IIJmio 단말 목록 수집 완료")

	return offers, nil
}
