// Package aggregate 한 통신사의 수집 결과에서 같은 상품을 하나로 합칩니다.
//
// Engine 은 키가 같은 후보 중 비교 가격이 가장 낮은 것을 고릅니다. 색상/SKU 단위의 중복은
// Engine.Merge 로 합치며 이때 재고는 OR 로 모읍니다.
package aggregate

import (
	"fmt"

	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/shopspring/decimal"
)

// Selector 중복 제거에 사용할 비교 가격을 반환합니다. 비교할 수 없으면 false 입니다.
type Selector func(offer.DeviceOffer) (decimal.Decimal, bool)

// 설정 파일에서 사용하는 비교 가격 이름입니다.
const (
	CompareByDiscount       = "discount"
	CompareByFull           = "full"
	CompareByReturnDiscount = "return_or_discount"
)

func ByDiscount(o offer.DeviceOffer) (decimal.Decimal, bool) {
	return o.Discount.Value()
}

func ByFull(o offer.DeviceOffer) (decimal.Decimal, bool) {
	return o.Full.Value()
}

// ByReturnOrDiscount 반환가가 있으면 반환가, 없으면 할인가를 비교 가격으로 사용합니다.
func ByReturnOrDiscount(o offer.DeviceOffer) (decimal.Decimal, bool) {
	if v, ok := o.Return.Value(); ok {
		return v, true
	}
	return o.Discount.Value()
}

// SelectorByName 설정값에 해당하는 Selector 를 반환합니다.
func SelectorByName(name string) (Selector, error) {
	switch name {
	case CompareByDiscount:
		return ByDiscount, nil
	case CompareByFull:
		return ByFull, nil
	case CompareByReturnDiscount:
		return ByReturnOrDiscount, nil
	default:
		return nil, fmt.Errorf("지원하지 않는 비교 가격 기준입니다: '%s'", name)
	}
}

// Engine 키가 같은 상품 중 비교 가격이 가장 낮은 것 하나만 남깁니다.
type Engine struct {
	Price Selector
}

// Collapse 비교 가격이 엄격하게 더 낮을 때만 기존 값을 교체하므로 동일 가격이면 먼저 나온 것이 남습니다.
// 비교 가격이 없는 항목은 결과에 포함되지 않습니다. 결과는 키가 처음 등장한 순서를 따릅니다.
func (e Engine) Collapse(offers []offer.DeviceOffer) []offer.DeviceOffer {
	selector := e.Price
	if selector == nil {
		selector = ByDiscount
	}

	type best struct {
		offer offer.DeviceOffer
		price decimal.Decimal
	}

	index := make(map[offer.Key]int, len(offers))
	var kept []best

	for _, o := range offers {
		price, ok := selector(o)
		if !ok {
			continue
		}

		key := o.Key()
		if i, exists := index[key]; exists {
			if price.LessThan(kept[i].price) {
				kept[i] = best{offer: o, price: price}
			}
			continue
		}

		index[key] = len(kept)
		kept = append(kept, best{offer: o, price: price})
	}

	result := make([]offer.DeviceOffer, 0, len(kept))
	for _, b := range kept {
		result = append(result, b.offer)
	}

	return result
}

// CollapseAll Collapse 와 같지만 비교 가격이 있는 후보가 하나도 없는 키는 처음 나온 후보를 그대로 남깁니다.
// 결과는 키가 처음 등장한 순서를 따릅니다.
func (e Engine) CollapseAll(offers []offer.DeviceOffer) []offer.DeviceOffer {
	best := make(map[offer.Key]offer.DeviceOffer)
	for _, o := range e.Collapse(offers) {
		best[o.Key()] = o
	}

	seen := make(map[offer.Key]struct{}, len(offers))
	result := make([]offer.DeviceOffer, 0, len(offers))
	for _, o := range offers {
		key := o.Key()
		if _, done := seen[key]; done {
			continue
		}
		seen[key] = struct{}{}

		if b, ok := best[key]; ok {
			result = append(result, b)
		} else {
			result = append(result, o)
		}
	}

	return result
}

// Merge 색상/SKU 단위의 중복을 합칩니다. 키마다 비교 가격이 가장 낮은 항목을 CollapseAll 과 같은 규칙으로 고르고,
// 같은 키의 항목 중 하나라도 재고가 있으면 남은 항목을 재고 있음으로 표시합니다.
func (e Engine) Merge(offers []offer.DeviceOffer) []offer.DeviceOffer {
	available := make(map[offer.Key]bool, len(offers))
	for _, o := range offers {
		if o.Stock.Available() {
			available[o.Key()] = true
		}
	}

	result := e.CollapseAll(offers)
	for i := range result {
		if available[result[i].Key()] {
			result[i].Stock = offer.InStock
		}
	}

	return result
}

// AnyInStock 하위 SKU 중 하나라도 재고가 있으면 재고 있음입니다. 하위 항목이 없으면 재고 없음입니다.
func AnyInStock(children ...bool) offer.Stock {
	for _, available := range children {
		if available {
			return offer.InStock
		}
	}
	return offer.OutOfStock
}

// DuplicateKeys 결과에 중복 키가 있으면 해당 키 목록을 반환합니다.
func DuplicateKeys(offers []offer.DeviceOffer) []offer.Key {
	seen := make(map[offer.Key]int, len(offers))
	var dups []offer.Key
	for _, o := range offers {
		seen[o.Key()]++
		if seen[o.Key()] == 2 {
			dups = append(dups, o.Key())
		}
	}
	return dups
}
