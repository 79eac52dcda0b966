// Package offer 모든 통신사 수집 결과가 공유하는 단말 가격 레코드를 정의합니다.
package offer

import (
	"strings"
)

// Condition 단말 상태입니다. "新品" 또는 "中古" 뒤에 통신사별 등급이 붙은 형태입니다.
type Condition string

const (
	New  Condition = "新品"
	Used Condition = "中古"
)

// UsedWithGrade "中古" 뒤에 등급을 붙인 상태를 반환합니다. 등급이 비어 있으면 Used 입니다.
func UsedWithGrade(grade string) Condition {
	grade = strings.TrimSpace(strings.ReplaceAll(grade, "＋", "+"))
	return Condition(string(Used) + strings.ToUpper(grade))
}

func (c Condition) IsUsed() bool {
	return strings.HasPrefix(string(c), string(Used))
}

// Stock 재고 표시입니다. 제로값("")은 재고 정보가 없음을 뜻합니다.
type Stock string

const (
	InStock    Stock = "在庫あり"
	OutOfStock Stock = "在庫なし"
)

func StockOf(available bool) Stock {
	if available {
		return InStock
	}
	return OutOfStock
}

func (s Stock) Available() bool {
	return s == InStock
}

// DeviceOffer 한 통신사가 판매하는 단말 한 건의 가격과 재고입니다.
type DeviceOffer struct {
	Model     string    `json:"model"`
	Capacity  string    `json:"capacity"`
	Condition Condition `json:"condition"`
	Stock     Stock     `json:"stock"`

	Full     Price `json:"price_full"`
	Discount Price `json:"price_discount"`
	Return   Price `json:"price_return"`

	Carrier string `json:"carrier"`
	Maker   string `json:"maker,omitempty"`
}

// Key 동일 상품을 식별하는 (기종, 용량, 상태) 조합입니다. 문자열이 완전히 같을 때만 같은 키입니다.
type Key struct {
	Model     string
	Capacity  string
	Condition Condition
}

func (k Key) String() string {
	return k.Model + "|" + k.Capacity + "|" + string(k.Condition)
}

func (o DeviceOffer) Key() Key {
	return Key{Model: o.Model, Capacity: o.Capacity, Condition: o.Condition}
}
