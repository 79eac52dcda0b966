// Package compare 통신사별 수집 결과를 모아 상품별 최저가를 계산합니다.
package compare

import (
	"cmp"
	"slices"

	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/shopspring/decimal"
)

// CarrierOffers 한 통신사의 수집 결과입니다.
type CarrierOffers struct {
	Carrier string
	Offers  []offer.DeviceOffer
}

// Dimension 한 가격 항목(정가, 할인가, 반환가)의 최저가와 그 가격을 제시한 통신사 목록입니다.
type Dimension struct {
	Min      decimal.NullDecimal
	Carriers []string
}

// CarrierPrices 한 통신사가 제시한 세 가지 가격입니다. 해당 상품이 없으면 모두 null 입니다.
type CarrierPrices struct {
	Full     decimal.NullDecimal
	Discount decimal.NullDecimal
	Return   decimal.NullDecimal
}

// ComparisonRow (기종, 용량, 상태) 하나에 대한 통신사 간 비교 결과입니다.
type ComparisonRow struct {
	Model     string
	Capacity  string
	Condition offer.Condition

	Full     Dimension
	Discount Dimension
	Return   Dimension

	// MinFull 이 null 이거나 0 이면 null 이다.
	DiscountRate decimal.NullDecimal
	ReturnRate   decimal.NullDecimal

	PerCarrier map[string]CarrierPrices
}

// Comparator 통신사 간 최저가 비교기입니다.
type Comparator struct {
	// SkipOutOfStock 재고 없음("在庫なし")으로 표시된 항목을 비교 대상에서 제외합니다.
	SkipOutOfStock bool
}

// Compare 입력 순서를 통신사 발견 순서로 사용하여 비교 결과를 계산합니다.
// 결과는 기종명 내림차순, 상태 오름차순으로 정렬됩니다.
func (c Comparator) Compare(input []CarrierOffers) []ComparisonRow {
	type entry struct {
		key    offer.Key
		prices map[string]CarrierPrices
	}

	index := make(map[offer.Key]*entry)
	var order []*entry

	for _, co := range input {
		for _, o := range co.Offers {
			if c.SkipOutOfStock && o.Stock == offer.OutOfStock {
				continue
			}

			key := o.Key()
			e, ok := index[key]
			if !ok {
				e = &entry{key: key, prices: make(map[string]CarrierPrices)}
				index[key] = e
				order = append(order, e)
			}

			// 한 통신사 안에서 같은 키가 다시 나오면 나중 값으로 덮어쓴다.
			e.prices[co.Carrier] = CarrierPrices{
				Full:     nullable(o.Full),
				Discount: nullable(o.Discount),
				Return:   nullable(o.Return),
			}
		}
	}

	carriers := make([]string, 0, len(input))
	for _, co := range input {
		carriers = append(carriers, co.Carrier)
	}

	rows := make([]ComparisonRow, 0, len(order))
	for _, e := range order {
		row := ComparisonRow{
			Model:      e.key.Model,
			Capacity:   e.key.Capacity,
			Condition:  e.key.Condition,
			PerCarrier: make(map[string]CarrierPrices, len(carriers)),
		}

		for _, carrier := range carriers {
			p := e.prices[carrier]
			row.PerCarrier[carrier] = p
			if _, ok := e.prices[carrier]; !ok {
				continue
			}

			row.Full.observe(carrier, p.Full)
			row.Discount.observe(carrier, p.Discount)
			row.Return.observe(carrier, p.Return)
		}

		row.DiscountRate = rate(row.Discount.Min, row.Full.Min)
		row.ReturnRate = rate(row.Return.Min, row.Full.Min)

		rows = append(rows, row)
	}

	Sort(rows)

	return rows
}

// observe 더 낮은 가격이면 목록을 새로 시작하고, 같은 가격이면 통신사를 추가합니다.
func (d *Dimension) observe(carrier string, price decimal.NullDecimal) {
	if !price.Valid {
		return
	}

	switch {
	case !d.Min.Valid || price.Decimal.LessThan(d.Min.Decimal):
		d.Min = price
		d.Carriers = []string{carrier}
	case price.Decimal.Equal(d.Min.Decimal):
		if !slices.Contains(d.Carriers, carrier) {
			d.Carriers = append(d.Carriers, carrier)
		}
	}
}

// rate 1 - lowest/base 를 계산합니다. base 가 null 이거나 0 이면 null 입니다.
func rate(lowest, base decimal.NullDecimal) decimal.NullDecimal {
	if !lowest.Valid || !base.Valid || base.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromInt(1).Sub(lowest.Decimal.Div(base.Decimal)))
}

func nullable(p offer.Price) decimal.NullDecimal {
	if v, ok := p.Value(); ok {
		return decimal.NewNullDecimal(v)
	}
	return decimal.NullDecimal{}
}

// Sort 기종명 내림차순, 상태 오름차순으로 정렬합니다. 두 값이 같으면 기존 순서를 유지합니다.
// 이 순서는 화면 표시용 관례이며 의미상 필요한 것은 아닙니다.
func Sort(rows []ComparisonRow) {
	slices.SortStableFunc(rows, func(a, b ComparisonRow) int {
		if c := cmp.Compare(b.Model, a.Model); c != 0 {
			return c
		}
		return cmp.Compare(a.Condition, b.Condition)
	})
}
