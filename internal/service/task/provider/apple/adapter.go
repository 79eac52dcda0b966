// Package apple Apple Store(일본)의 iPhone SIM 프리 정가와 재고를 수집합니다.
//
// digital-mat API 로 기종 그룹을 찾고, 그룹마다 구매 페이지에 내장된 metrics JSON 에서 SKU 목록을 읽은 뒤
// SKU 별로 updateSummary API 를 호출하여 구매 가능 여부를 확인합니다.
package apple

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

const (
	ID   provider.ID = "apple"
	Name             = "Apple"

	component = "provider.apple"

	metricsSelector = `script#metrics`
)

func init() {
	provider.MustRegister(ID, &provider.Config{
		Name:             Name,
		DefaultCompareBy: aggregate.CompareByFull,
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

	compare := p.Compare
	if compare == nil {
		compare = aggregate.ByFull
	}

	return &adapter{scraper: p.Scraper, compare: compare, settings: s, pacer: provider.NewPacer(s.Interval)}, nil
}

func (a *adapter) get(url string) scraper.Request {
	return scraper.Get(url).WithHeader("User-Agent", a.settings.UserAgent)
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	doc, err := scraper.FetchResult(ctx, a.scraper, a.get(a.settings.DigitalMatURL))
	if err != nil {
		return nil, newErrFetchDigitalMat(err)
	}

	parts := parseBaseParts(doc, a.settings.DigitalMatURL)
	if len(parts) == 0 {
		return nil, ErrNoBaseParts
	}

	var candidates []offer.DeviceOffer
	for _, part := range parts {
		skus, err := a.fetchSKUs(ctx, part)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, skus...)
	}

	// 색상별 SKU 를 기종명+용량으로 묶는다.
	offers := aggregate.Engine{Price: a.compare}.Merge(candidates)

	applog.WithComponentAndFields(component, applog.Fields{
		"base_parts": len(parts),
		"skus":       len(candidates),
		"offers":     len(offers),
	}).Info("Apple Store 단말 가격 수집 완료")

	return offers, nil
}

// fetchSKUs 기종 그룹 하나의 SKU 를 수집합니다.
// 구매 페이지를 가져오지 못하거나 metrics JSON 이 없으면 경고를 남기고 빈 결과를 반환합니다.
// 에러는 컨텍스트가 취소된 경우에만 반환합니다.
func (a *adapter) fetchSKUs(ctx context.Context, part basePart) ([]offer.DeviceOffer, error) {
	fields := applog.Fields{"base_part": part.id, "url": part.buyPageURL}

	if part.buyPageURL == "" {
		applog.WithComponentAndFields(component, fields).Warn("구매 페이지 URL 이 없어 기종 그룹을 건너뜁니다")
		return nil, nil
	}

	if err := a.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := a.scraper.FetchHTML(ctx, a.get(part.buyPageURL))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Warn("구매 페이지 조회에 실패하여 기종 그룹을 건너뜁니다")
		return nil, nil
	}

	var raw json.RawMessage
	if err := scraper.ExtractScriptJSON(page, metricsSelector, &raw); err != nil {
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Warn("구매 페이지에서 metrics JSON 을 찾지 못해 기종 그룹을 건너뜁니다")
		return nil, nil
	}

	products := gjson.GetBytes(raw, "data.products").Array()
	if len(products) == 0 {
		applog.WithComponentAndFields(component, fields).Warn("metrics JSON 에 SKU 목록이 없어 기종 그룹을 건너뜁니다")
		return nil, nil
	}

	var offers []offer.DeviceOffer
	for _, p := range products {
		sku := p.Get("partNumber").String()
		name := p.Get("name").String()
		price := normalize.PositivePrice(normalize.PriceOf(p.Get("price.fullPrice")))

		if sku == "" || name == "" || !price.Valid() {
			applog.WithComponentAndFields(component, applog.Fields{
				"base_part": part.id,
				"sku":       sku,
				"name":      name,
			}).Warn("SKU 정보가 불완전하여 건너뜁니다")

			continue
		}

		if err := a.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		buyable, err := a.isBuyable(ctx, sku)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"sku":   sku,
				"error": err,
			}).Warn("SKU 재고 조회에 실패하여 건너뜁니다")

			continue
		}

		parsed := parseProductName(name)
		offers = append(offers, offer.DeviceOffer{
			Model:     parsed.model,
			Capacity:  normalize.Capacity(parsed.capacity),
			Condition: offer.New,
			Stock:     offer.StockOf(buyable),
			Full:      price,
			Carrier:   Name,
		})
	}

	return offers, nil
}

// isBuyable updateSummary 의 summary.isBuyable 을 반환합니다. summary 가 없으면 재고 없음입니다.
func (a *adapter) isBuyable(ctx context.Context, sku string) (bool, error) {
	doc, err := scraper.FetchResult(ctx, a.scraper, a.get(a.settings.UpdateSummaryURL+url.QueryEscape(sku)))
	if err != nil {
		return false, err
	}

	summary := doc.Get("body.response.summarySection.summary")
	if !summary.Exists() {
		applog.WithComponentAndFields(component, applog.Fields{
			"sku": sku,
		}).Debug("summary 가 없어 재고 없음으로 처리합니다")

		return false, nil
	}
	return summary.Get("isBuyable").Bool(), nil
}
