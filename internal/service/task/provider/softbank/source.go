package softbank

import (
	"context"

	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

// stockMap 상품 코드(goodsCd) 별 재고 여부입니다.
type stockMap map[string]bool

// priceMap 모델 ID 별 가격 시나리오(gPrLi) 목록입니다.
type priceMap map[string][]gjson.Result

func (a *adapter) request(url string) scraper.Request {
	return scraper.Get(url).
		WithHeader("User-Agent", a.settings.UserAgent).
		WithHeader("Referer", a.settings.Referer).
		WithHeader("Accept", "application/json, text/plain, */*").
		WithHeader("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")
}

// fetchOptional 보조 API 를 조회합니다. 실패하면 경고를 남기고 false 를 반환합니다.
func (a *adapter) fetchOptional(ctx context.Context, name, url string) (gjson.Result, bool) {
	doc, err := scraper.FetchResult(ctx, a.scraper, a.request(url))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"source": name,
			"url":    url,
			"error":  err,
		}).Warn("보조 API 조회에 실패하여 건너뜁니다")

		return gjson.Result{}, false
	}
	return doc, true
}

// fetchStocks salesCondition 이 "0" 또는 "1" 이면 재고 있음입니다.
func (a *adapter) fetchStocks(ctx context.Context) stockMap {
	stocks := make(stockMap)

	doc, ok := a.fetchOptional(ctx, "stock", a.settings.StockURL)
	if !ok {
		return stocks
	}

	doc.Get("goodsCondition").ForEach(func(_, item gjson.Result) bool {
		c := item.Get("salesCondition").String()
		stocks[item.Get("goodsCd").String()] = c == "0" || c == "1"
		return true
	})

	return stocks
}

// fetchPrices 세 가격 API 를 priority, ols, main 순서로 읽어 같은 모델 ID 는 뒤의 값으로 덮어씁니다.
func (a *adapter) fetchPrices(ctx context.Context) priceMap {
	prices := make(priceMap)

	sources := []struct{ name, url string }{
		{"priority-price", a.settings.PriorityPriceURL},
		{"ols-price", a.settings.OLSPriceURL},
		{"main-price", a.settings.MainPriceURL},
	}
	for _, src := range sources {
		doc, ok := a.fetchOptional(ctx, src.name, src.url)
		if !ok {
			continue
		}

		list := doc
		if !list.IsArray() {
			list = doc.Get("priceListOzil")
			if !list.Exists() {
				list = doc.Get("priceList")
			}
		}

		list.ForEach(func(_, item gjson.Result) bool {
			if id := item.Get("modelId").String(); id != "" {
				prices[id] = item.Get("gPrLi").Array()
			}
			return true
		})
	}

	return prices
}
