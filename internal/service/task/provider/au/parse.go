package au

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	// 할인가가 이 금액 미만이면 잔가 설정 할부 대신 할인가를 반환가로 사용한다.
	deepDiscountThreshold = 5500

	unknownCondition offer.Condition = "不明"
)

var (
	capacitySuffixRegexp = regexp.MustCompile(`\s*\(([^()]*)\)$`)
	capacityTokenRegexp  = regexp.MustCompile(`(?i)\s*\(?\d+(?:\.\d+)?[KMGT]B\)?`)

	nameNoiseRegexps = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\(PRODUCT\)RED`),
		regexp.MustCompile(`\(認定中古品\)`),
		regexp.MustCompile(`(?i)au Certified`),
	}
)

// parseStockItem 재고 API 응답 한 건을 DeviceOffer 로 변환합니다.
func parseStockItem(item gjson.Result, catalog *productCatalog) offer.DeviceOffer {
	productName := normalize.HalfWidth(item.Get("productName").String())

	colorRaw := productName
	if v := item.Get("colorVariationName"); v.Exists() {
		colorRaw = normalize.HalfWidth(v.String())
	}

	// "ブラック(128GB)" 처럼 색상명 끝 괄호에 용량이 들어 있다.
	var capacityRaw string
	if m := capacitySuffixRegexp.FindStringSubmatch(colorRaw); m != nil {
		capacityRaw = strings.TrimSpace(m[1])
	}
	colorName := normalize.CleanModel(capacitySuffixRegexp.ReplaceAllString(colorRaw, ""))

	condition := unknownCondition
	if info, ok := catalog.lookup(item.Get("olsProductCode").String()); ok {
		condition = info.condition
	}

	salesPrice := item.Get("salesPrice")

	full := normalize.PriceOf(salesPrice.Get("simpleCoursePriceWithMnpInTax"))
	if !salesPrice.Get("simpleCoursePriceWithMnpInTax").Exists() {
		full = normalize.PriceOf(item.Get("price"))
	}

	discount := normalize.PriceOf(salesPrice.Get("simpleCourseAfterDiscountPriceWithMnpInTax"))

	return offer.DeviceOffer{
		Model:     cleanProductName(productName, capacityRaw, colorName),
		Capacity:  normalize.Capacity(capacityRaw),
		Condition: condition,
		Stock:     offer.StockOf(item.Get("olsStatus").String() == string(offer.InStock) || item.Get("olsSalesAttribute.stockQuantity").Float() > 0),
		Full:      full,
		Discount:  discount,
		Return:    returnPrice(discount, salesPrice),
		Carrier:   Name,
	}
}

// returnPrice 할인가가 기준 금액 미만이면 할인가, 아니면 첫 번째 잔가 설정 할부의 총액입니다.
func returnPrice(discount offer.Price, salesPrice gjson.Result) offer.Price {
	if v, ok := discount.Value(); ok && v.LessThan(decimal.NewFromInt(deepDiscountThreshold)) {
		return discount
	}
	return normalize.PriceOf(salesPrice.Get("residualValueInstallmentList.0.mnpResidualValueTotalInstallmentPaymentInTax"))
}

// cleanProductName 상품명에서 용량, 색상, 인증 중고 표기를 제거합니다.
func cleanProductName(name, capacity, color string) string {
	if name == "" {
		return ""
	}

	if capacity != "" {
		name = capacityTokenRegexp.ReplaceAllStringFunc(name, func(m string) string {
			if strings.EqualFold(strings.Trim(strings.TrimSpace(m), "()"), capacity) {
				return ""
			}
			return m
		})
	}
	if color != "" {
		name = replaceFold(name, color)
	}
	for _, re := range nameNoiseRegexps {
		name = re.ReplaceAllString(name, "")
	}

	return normalize.FullWidthParens(normalize.CleanModel(name))
}

// replaceFold s 에서 sub 를 대소문자 구분 없이 찾아 앞뒤 공백과 함께 공백 하나로 바꿉니다.
func replaceFold(s, sub string) string {
	lower, target := strings.ToLower(s), strings.ToLower(sub)
	if len(lower) != len(s) || len(target) != len(sub) {
		// 소문자 변환으로 바이트 길이가 달라지면 인덱스를 맞출 수 없으므로 정확히 일치하는 것만 바꾼다.
		lower, target = s, sub
	}

	var b strings.Builder
	for {
		i := strings.Index(lower, target)
		if i < 0 {
			break
		}
		b.WriteString(strings.TrimRightFunc(s[:i], unicode.IsSpace))
		b.WriteByte(' ')

		s = strings.TrimLeftFunc(s[i+len(target):], unicode.IsSpace)
		lower = lower[len(lower)-len(s):]
	}
	b.WriteString(s)

	return b.String()
}
