package ahamo

import (
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/tidwall/gjson"
)

const unknownModel = "不明な機種"

// reNameCapacity "<기종명> <용량> <나머지>" 형태의 상품명을 나눕니다.
var reNameCapacity = regexp.MustCompile(`(?i)^(.*?) *(\d+ *(?:GB|TB)) *(.*)$`)

// newProduct 신품 가격 JSON 의 단말 한 건입니다.
type newProduct struct {
	name     string
	capacity string
	full     offer.Price
	discount offer.Price
	kaedoki  offer.Price
}

// cleanProductName 상품명에서 용량 이후를 잘라내고 괄호를 전각으로 바꿉니다.
func cleanProductName(name string) string {
	if name == "" {
		return unknownModel
	}

	cleaned := name
	if m := reNameCapacity.FindStringSubmatch(name); m != nil && m[1] != "" {
		cleaned = strings.TrimSpace(m[1])
	}
	return normalize.FullWidthParens(cleaned)
}

func capacityOfName(name string) string {
	if m := reNameCapacity.FindStringSubmatch(name); m != nil {
		return m[2]
	}
	return ""
}

// parseNewDevices mobilephone[] 을 id 별 가격으로 정리합니다.
// itemInfo 가 여러 개이면 첫 번째 항목만 사용합니다.
func parseNewDevices(doc gjson.Result) map[string]newProduct {
	products := make(map[string]newProduct)

	doc.Get("mobilephone").ForEach(func(_, model gjson.Result) bool {
		id := strings.TrimSpace(model.Get("id").String())
		if id == "" {
			return true
		}
		if _, exists := products[id]; exists {
			return true
		}

		rawName := model.Get("productName").String()
		name := cleanProductName(rawName)

		items := model.Get("itemInfo").Array()
		if len(items) == 0 {
			full := amountOf(model.Get("price"))
			products[id] = newProduct{
				name:     name,
				capacity: normalize.Capacity(capacityOfName(rawName)),
				full:     full,
				discount: full,
				kaedoki:  normalize.FirstPrice(amountOf(model.Get("priceKaedoki")), full),
			}
			return true
		}

		item := items[0]
		rawCapacity := item.Get("name").String()
		if rawCapacity == "" {
			rawCapacity = capacityOfName(rawName)
		}

		full := amountOf(item.Get("price"))
		mnp := item.Get("finalPrice.mnp")

		products[id] = newProduct{
			name:     name,
			capacity: normalize.Capacity(rawCapacity),
			full:     full,
			discount: normalize.FirstPrice(amountOf(mnp.Get("price")), full),
			kaedoki:  normalize.FirstPrice(amountOf(mnp.Get("priceKaedoki")), amountOf(item.Get("priceKaedoki")), full),
		}
		return true
	})

	return products
}

// amountOf {"amount": n} 의 금액입니다. 0 이하는 값 없음입니다.
func amountOf(r gjson.Result) offer.Price {
	return normalize.PositivePrice(normalize.PriceOf(r.Get("amount")))
}
