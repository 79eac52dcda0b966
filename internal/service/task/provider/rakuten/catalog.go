package rakuten

import (
	"context"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const searchSort = "groupOrderNumber,orderNumber"

type searchRequest struct {
	CategoryCodes           string         `json:"categoryCodes"`
	Sort                    string         `json:"sort"`
	TopOfferID              string         `json:"topOfferId"`
	Offset                  int            `json:"offset"`
	Limit                   int            `json:"limit"`
	Filters                 map[string]any `json:"filters"`
	SearchText              string         `json:"searchText"`
	OfferingGroupingEnabled bool           `json:"offeringGroupingEnabled"`
}

type valueRequest struct {
	Value string `json:"value"`
}

// group 단말 검색 결과의 제품 그룹입니다.
type group struct {
	id          string
	detailsLink string
}

// sku 제품 그룹에 속한 색상/용량별 SKU 입니다.
type sku struct {
	id        string
	name      string
	capacity  string
	color     string
	available bool
	pageURL   string
}

// searchCategory 단말 검색 API 를 offset 1 부터 PageLimit 씩 넘기며 호출합니다.
// 페이지 조회에 실패하면 그때까지 가져온 그룹만 반환하며, 첫 페이지부터 실패했으면 ok 가 false 입니다.
func (a *adapter) searchCategory(ctx context.Context, category string) (groups []group, ok bool, err error) {
	offset, total := 1, 0

	for {
		if err := a.pacer.Wait(ctx); err != nil {
			return nil, false, err
		}

		doc, fetchErr := scraper.FetchResult(ctx, a.scraper, a.post(a.settings.EquipmentsURL, searchRequest{
			CategoryCodes:           category,
			Sort:                    searchSort,
			Offset:                  offset,
			Limit:                   a.settings.PageLimit,
			Filters:                 map[string]any{},
			OfferingGroupingEnabled: true,
		}))
		if fetchErr != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"category": category,
				"offset":   offset,
				"error":    fetchErr,
			}).Warn("단말 검색 페이지 조회에 실패하여 이 카테고리의 나머지 페이지를 건너뜁니다")

			return groups, ok, nil
		}

		equipments := doc.Get("equipments")
		if !equipments.IsArray() {
			return groups, ok, nil
		}
		ok = true

		items := equipments.Array()
		for _, e := range items {
			groups = append(groups, group{id: e.Get("id").String(), detailsLink: e.Get("detailsLink").String()})
		}

		if total == 0 {
			total = int(doc.Get("total").Int())
		}
		offset += a.settings.PageLimit

		if offset > total || len(items) == 0 {
			return groups, ok, nil
		}
	}
}

// fetchGroupSKUs 제품 그룹의 SKU 목록입니다. 실패하면 빈 목록입니다.
func (a *adapter) fetchGroupSKUs(ctx context.Context, g group) []sku {
	doc, err := scraper.FetchResult(ctx, a.scraper, a.post(a.settings.GroupURL, valueRequest{Value: g.id}))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"group": g.id,
			"error": err,
		}).Warn("제품 그룹 조회에 실패하여 건너뜁니다")

		return nil
	}

	var skus []sku
	doc.Get("equipmentBases").ForEach(func(_, b gjson.Result) bool {
		skus = append(skus, sku{
			id:        b.Get("id").String(),
			name:      b.Get("name").String(),
			capacity:  b.Get("memorySize").String(),
			color:     b.Get("color.name").String(),
			available: b.Get("isAvailableInStock").Type == gjson.True,
			pageURL:   g.detailsLink,
		})
		return true
	})
	return skus
}

// fetchDetails 상세 API 응답입니다. 실패하면 ok 가 false 입니다.
func (a *adapter) fetchDetails(ctx context.Context, skuID string) (gjson.Result, bool) {
	doc, err := scraper.FetchResult(ctx, a.scraper, a.post(a.settings.DetailsURL, valueRequest{Value: skuID}))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"sku":   skuID,
			"error": err,
		}).Debug("SKU 상세 조회에 실패했습니다")

		return gjson.Result{}, false
	}
	return doc, true
}

// cleanSKUName SKU 이름에서 용량과 색상 표기를 제거합니다.
//
//	"AQUOS sense8 128GB ブルー" -> "AQUOS sense8"
func cleanSKUName(name, capacity, color string) string {
	for _, token := range []string{capacity, color} {
		if token == "" {
			continue
		}
		re := regexp.MustCompile(`\s*` + regexp.QuoteMeta(token) + `\s*`)
		name = strings.TrimSpace(re.ReplaceAllString(name, " "))
	}
	return normalize.CleanModel(name)
}

// detailPrices 상세 API 의 SIM 프리 가격(소수점 이하 버림)과 48회 분할 첫 회차 금액 × 24 입니다.
func detailPrices(details gjson.Result) (full, ret offer.Price) {
	if v, ok := amount(details.Get("smartphoneFreeDetails.amountWithTax")); ok {
		full = normalize.PositivePrice(offer.Amount(v.Floor()))
	}
	if v, ok := amount(details.Get("smfInstallments.smfFirstPartInstallment")); ok {
		ret = normalize.PositivePrice(offer.Amount(v.Mul(decimal.NewFromInt(24))))
	}
	return full, ret
}

// amount 숫자 또는 쉼표가 들어간 숫자 문자열을 해석합니다.
func amount(r gjson.Result) (decimal.Decimal, bool) {
	switch r.Type {
	case gjson.Number:
		return normalize.Number(r), true
	case gjson.String:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(r.Str), ",", ""))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
