package au

import (
	"context"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

// fetchStocks 경로별로 상품 코드를 나누어 재고/가격 API 를 호출합니다.
// 실패한 묶음은 건너뛰고 나머지 결과만 반환합니다.
func (a *adapter) fetchStocks(ctx context.Context, catalog *productCatalog, cookie string) ([]gjson.Result, error) {
	var items []gjson.Result

	for _, group := range catalog.groupByPath() {
		for start := 0; start < len(group.codes); start += a.settings.ChunkSize {
			end := min(start+a.settings.ChunkSize, len(group.codes))
			chunk := group.codes[start:end]

			if err := a.pacer.Wait(ctx); err != nil {
				return nil, err
			}

			result, err := a.fetchStockChunk(ctx, group.path, chunk, cookie)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}

				applog.WithComponentAndFields(component, applog.Fields{
					"path":  group.path,
					"codes": len(chunk),
					"error": err,
				}).Warn("재고 API 호출에 실패하여 해당 묶음을 건너뜁니다")

				continue
			}

			items = append(items, result...)
		}
	}

	return items, nil
}

func (a *adapter) fetchStockChunk(ctx context.Context, path string, codes []string, cookie string) ([]gjson.Result, error) {
	url := a.settings.StockAPIBase + strings.Join(codes, ".") + ".json?currentPagePath=" + path

	resp, err := a.scraper.Fetch(ctx, a.request(url, cookie, a.settings.Origin+path))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newErrUnexpectedStatus(url, resp.StatusCode)
	}

	result := gjson.ParseBytes(resp.Body)
	if !result.IsArray() {
		return nil, newErrUnexpectedShape(url)
	}
	return result.Array(), nil
}

// request 브라우저의 XHR 요청과 같은 헤더를 붙입니다. referer 가 비어 있으면 가격 페이지를 사용합니다.
func (a *adapter) request(url, cookie, referer string) scraper.Request {
	if referer == "" {
		referer = a.settings.PricePageURL
	}

	req := scraper.Get(url).
		WithHeader("User-Agent", a.settings.UserAgent).
		WithHeader("Referer", referer).
		WithHeader("Origin", a.settings.Origin).
		WithHeader("X-Requested-With", "XMLHttpRequest")
	if cookie != "" {
		req = req.WithHeader("Cookie", cookie)
	}
	return req
}
