package ahamo

import (
	"context"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/tidwall/gjson"
)

const (
	usedFlagNew  = "0"
	usedFlagUsed = "1"
)

// stockItem 재고 API 의 mobileInfo 한 건입니다.
type stockItem struct {
	modelCode   string
	capacity    string
	available   bool
	price       gjson.Result
	derivedName string
}

// priceKey 중고 등급-가격 색인을 조회할 때 사용하는 가격 문자열입니다.
func (s stockItem) priceKey() string {
	if s.price.Type != gjson.Number {
		return ""
	}
	return normalize.Number(s.price).String()
}

type stockRequest struct {
	OrderDiv []string `json:"orderDiv"`
	UsedFlag string   `json:"usedFlag"`
}

// fetchStock 재고 API 를 호출하여 terminalInfo[].mobileInfo[] 를 펼칩니다.
// 기종명은 terminalNameExcludeModelNumber, 없으면 terminalName 입니다.
func (a *adapter) fetchStock(ctx context.Context, usedFlag string) ([]stockItem, error) {
	req := scraper.PostJSON(a.settings.StockURL, stockRequest{OrderDiv: []string{a.settings.OrderDiv}, UsedFlag: usedFlag}).
		WithHeader("User-Agent", a.settings.UserAgent)

	doc, err := scraper.FetchResult(ctx, a.scraper, req)
	if err != nil {
		return nil, newErrFetchStock(usedFlag, err)
	}

	var items []stockItem
	doc.Get("terminalInfo").ForEach(func(_, term gjson.Result) bool {
		name := term.Get("terminalNameExcludeModelNumber").String()
		if name == "" {
			name = term.Get("terminalName").String()
		}

		term.Get("mobileInfo").ForEach(func(_, m gjson.Result) bool {
			flag := m.Get("saleStockFlag").String()
			items = append(items, stockItem{
				modelCode:   strings.TrimSpace(m.Get("modelCode").String()),
				capacity:    m.Get("capacity").String(),
				available:   flag == "1" || flag == "2",
				price:       m.Get("priceInfo.0.price"),
				derivedName: name,
			})
			return true
		})
		return true
	})

	return items, nil
}
