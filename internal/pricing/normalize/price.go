package normalize

import (
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// PriceOf JSON 값을 Price 로 변환합니다. 숫자는 그대로, 문자열은 숫자만 남겨 해석합니다.
func PriceOf(r gjson.Result) offer.Price {
	switch r.Type {
	case gjson.Number:
		d, err := decimal.NewFromString(r.Raw)
		if err != nil {
			return offer.Amount(decimal.NewFromFloat(r.Num))
		}
		return offer.Amount(d)
	case gjson.String:
		return offer.ParseCell(r.Str)
	default:
		return offer.Price{}
	}
}

// PositivePrice 0 보다 큰 금액만 유효한 값으로 취급합니다.
func PositivePrice(p offer.Price) offer.Price {
	if v, ok := p.Value(); ok && v.IsPositive() {
		return p
	}
	return offer.Price{}
}

// FirstPrice 값이 있는 첫 번째 Price 를 반환합니다.
func FirstPrice(prices ...offer.Price) offer.Price {
	for _, p := range prices {
		if p.Valid() {
			return p
		}
	}
	return offer.Price{}
}

// Number JSON 값을 숫자로 해석합니다. 숫자가 아니면 0 입니다.
func Number(r gjson.Result) decimal.Decimal {
	if r.Type != gjson.Number {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(r.Raw)
	if err != nil {
		return decimal.NewFromFloat(r.Num)
	}
	return d
}
