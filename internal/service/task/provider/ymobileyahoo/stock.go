package ymobileyahoo

import (
	"context"

	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/tidwall/gjson"
)

type stockEntry struct {
	Count float64
	Text  string
}

// stockMap SKU(item_code.id) 별 재고입니다.
type stockMap map[string]stockEntry

func (a *adapter) fetchStocks(ctx context.Context) (stockMap, error) {
	doc, err := scraper.FetchResult(ctx, a.scraper, a.get(a.settings.StockURL))
	if err != nil {
		return nil, newErrFetchStock(err)
	}

	stocks := make(stockMap)
	doc.Get("stocks").ForEach(func(sku, v gjson.Result) bool {
		stocks[sku.String()] = stockEntry{
			Count: v.Get("stock").Float(),
			Text:  v.Get("text").String(),
		}
		return true
	})

	return stocks, nil
}
