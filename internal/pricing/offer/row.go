package offer

import (
	"fmt"
	"strings"
)

// 통신사별 시트의 열 이름입니다.
const (
	ColumnModel     = "機種名"
	ColumnCapacity  = "容量"
	ColumnStock     = "在庫"
	ColumnFull      = "端末価格"
	ColumnDiscount  = "割引後価格"
	ColumnReturn    = "返却価格"
	ColumnCondition = "状態"
)

// Header 통신사별 시트의 7열 헤더를 반환합니다.
func Header() []string {
	return []string{ColumnModel, ColumnCapacity, ColumnStock, ColumnFull, ColumnDiscount, ColumnReturn, ColumnCondition}
}

// Row Header 순서대로 셀 값을 반환합니다.
func (o DeviceOffer) Row() []any {
	return []any{
		o.Model,
		o.Capacity,
		string(o.Stock),
		o.Full.Cell(),
		o.Discount.Cell(),
		o.Return.Cell(),
		string(o.Condition),
	}
}

func Rows(offers []DeviceOffer) [][]any {
	rows := make([][]any, 0, len(offers))
	for _, o := range offers {
		rows = append(rows, o.Row())
	}
	return rows
}

// FromRow 헤더 이름으로 열을 찾아 한 행을 DeviceOffer 로 복원합니다.
// 기종명이 비어 있는 행은 false 를 반환합니다.
func FromRow(header []string, cells []any, carrier string) (DeviceOffer, bool) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	cell := func(name string) any {
		i, ok := index[name]
		if !ok || i >= len(cells) {
			return nil
		}
		return cells[i]
	}
	text := func(name string) string {
		v := cell(name)
		if v == nil {
			return ""
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(fmt.Sprint(v))
	}

	model := text(ColumnModel)
	if model == "" {
		return DeviceOffer{}, false
	}

	return DeviceOffer{
		Model:     model,
		Capacity:  text(ColumnCapacity),
		Condition: Condition(text(ColumnCondition)),
		Stock:     Stock(text(ColumnStock)),
		Full:      ParseCell(cell(ColumnFull)),
		Discount:  ParseCell(cell(ColumnDiscount)),
		Return:    ParseCell(cell(ColumnReturn)),
		Carrier:   carrier,
	}, true
}
