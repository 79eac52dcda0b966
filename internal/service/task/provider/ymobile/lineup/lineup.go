// Package lineup Y!mobile 공식 스토어와 Yahoo! 스토어가 함께 사용하는 단말 라인업 JSON 을 해석합니다.
package lineup

import (
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	DefaultIPhoneURL  = "https://www.ymobile.jp/lineup/common/json/v2/iphone.json"
	DefaultAndroidURL = "https://www.ymobile.jp/lineup/common/json/v2/android.json"

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// 가격 비교는 MNP 가격만 대상으로 한다.
	salesTypeMNP = "mnp"

	usedOrderMark = "_used"

	// 토쿠스루 서포트 분할 횟수
	tokusapoInstallments = 24
)

// PlanKeys 가격을 읽는 요금제 키입니다. 순서대로 시도하며 동일 가격이면 앞의 요금제가 남습니다.
var PlanKeys = []string{"plan_m", "plan_l"}

var capacitySuffixRegexp = regexp.MustCompile(`(?i)(\d+(?:gb|tb))$`)

// Order 라인업 JSON 의 orders[] 한 건입니다.
type Order struct {
	ModelName string
	OrderID   string

	// OnSale sale_flg 가 1 이면 true 입니다.
	OnSale bool

	// ItemCodes item_code[].id 목록입니다. item_code 가 배열이 아니면 nil 입니다.
	ItemCodes []string

	Storages []Storage
}

// Storage 용량 하나에 대한 가격입니다.
type Storage struct {
	Capacity string
	Full     offer.Price
	Plans    []Plan
}

// Plan MNP 요금제 하나의 가격입니다.
type Plan struct {
	Key      string
	Discount offer.Price
	Return   offer.Price
}

// Parse 라인업 JSON 에서 주문 단위 목록을 추출합니다.
func Parse(doc gjson.Result) []Order {
	orders := doc.Get("orders")
	if !orders.IsArray() {
		return nil
	}

	var result []Order
	orders.ForEach(func(_, o gjson.Result) bool {
		order := Order{
			ModelName: strings.TrimSpace(o.Get("model_name").String()),
			OrderID:   strings.TrimSpace(o.Get("order_id").String()),
			OnSale:    o.Get("sale_flg").Int() == 1,
		}

		if codes := o.Get("item_code"); codes.IsArray() {
			order.ItemCodes = make([]string, 0)
			codes.ForEach(func(_, c gjson.Result) bool {
				if id := c.Get("id").String(); id != "" {
					order.ItemCodes = append(order.ItemCodes, id)
				}
				return true
			})
		}

		if storages := o.Get("storages"); storages.IsArray() {
			storages.ForEach(func(_, s gjson.Result) bool {
				order.Storages = append(order.Storages, parseStorage(s))
				return true
			})
		}

		result = append(result, order)
		return true
	})

	return result
}

func parseStorage(s gjson.Result) Storage {
	storage := Storage{
		Capacity: capacityOf(s),
		Full:     normalize.PositivePrice(normalize.PriceOf(s.Get("price.product"))),
	}

	mnp := s.Get("price." + salesTypeMNP)
	if !mnp.Exists() {
		return storage
	}

	for _, key := range PlanKeys {
		p := mnp.Get(key)
		if !p.Exists() || p.Type == gjson.Null {
			continue
		}

		plan := Plan{Key: key, Discount: normalize.PriceOf(p.Get("total"))}
		if v, ok := normalize.PriceOf(p.Get("tokusapo_24")).Value(); ok && !v.IsZero() {
			plan.Return = offer.Amount(v.Mul(decimal.NewFromInt(tokusapoInstallments)))
		}
		storage.Plans = append(storage.Plans, plan)
	}

	return storage
}

// capacityOf storage 필드가 없으면 md(상품 코드) 끝의 용량 표기를 사용합니다.
func capacityOf(s gjson.Result) string {
	if c := strings.TrimSpace(s.Get("storage").String()); c != "" {
		return normalize.Capacity(c)
	}
	if m := capacitySuffixRegexp.FindStringSubmatch(strings.TrimSpace(s.Get("md").String())); m != nil {
		return normalize.Capacity(m[1])
	}
	return ""
}

// Condition order_id 에 "_used" 가 들어 있으면 중고입니다.
func (o Order) Condition() offer.Condition {
	if strings.Contains(strings.ToLower(o.OrderID), usedOrderMark) {
		return offer.Used
	}
	return offer.New
}

// BestPlan 할인가가 가장 낮은 요금제를 반환합니다. 할인가가 있는 요금제가 없으면 false 입니다.
func (s Storage) BestPlan() (Plan, bool) {
	var best Plan
	found := false
	for _, p := range s.Plans {
		v, ok := p.Discount.Value()
		if !ok {
			continue
		}
		if cur, _ := best.Discount.Value(); !found || v.LessThan(cur) {
			best, found = p, true
		}
	}
	return best, found
}
