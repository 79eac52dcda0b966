package compare

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 비교 시트의 고정 열 이름입니다.
const (
	ColumnModel           = "機種名"
	ColumnCapacity        = "容量"
	ColumnCondition       = "状態"
	ColumnMinFull         = "定価(最安)"
	ColumnMinFullCarriers = "定価最安の会社"
	ColumnMinDiscount     = "実質(最安)"
	ColumnMinDiscountBy   = "実質最安の会社"
	ColumnDiscountRate    = "実質割引率"
	ColumnMinReturn       = "返却(最安)"
	ColumnMinReturnBy     = "返却最安の会社"
	ColumnReturnRate      = "返却割引率"
)

// FixedColumns 통신사별 상세 열 앞에 오는 고정 열의 개수입니다.
const FixedColumns = 11

const carrierSeparator = ", "

// Header 비교 시트의 헤더를 반환합니다. 고정 11열 뒤에 통신사마다 정가, 할인가, 반환가 3열이 붙습니다.
func Header(carriers []string) []string {
	header := []string{
		ColumnModel, ColumnCapacity, ColumnCondition,
		ColumnMinFull, ColumnMinFullCarriers,
		ColumnMinDiscount, ColumnMinDiscountBy, ColumnDiscountRate,
		ColumnMinReturn, ColumnMinReturnBy, ColumnReturnRate,
	}
	for _, c := range carriers {
		header = append(header, c+"_端末価格", c+"_割引後価格", c+"_返却価格")
	}
	return header
}

// Table 비교 결과를 헤더와 셀 값으로 변환합니다. 값이 없는 셀은 nil 입니다.
func Table(rows []ComparisonRow, carriers []string) ([]string, [][]any) {
	cells := make([][]any, 0, len(rows))

	for _, r := range rows {
		line := make([]any, 0, FixedColumns+3*len(carriers))
		line = append(line,
			r.Model, r.Capacity, string(r.Condition),
			cell(r.Full.Min), strings.Join(r.Full.Carriers, carrierSeparator),
			cell(r.Discount.Min), strings.Join(r.Discount.Carriers, carrierSeparator), rateCell(r.DiscountRate),
			cell(r.Return.Min), strings.Join(r.Return.Carriers, carrierSeparator), rateCell(r.ReturnRate),
		)

		for _, c := range carriers {
			p := r.PerCarrier[c]
			line = append(line, cell(p.Full), cell(p.Discount), cell(p.Return))
		}

		cells = append(cells, line)
	}

	return Header(carriers), cells
}

func cell(v decimal.NullDecimal) any {
	if !v.Valid {
		return nil
	}
	if v.Decimal.IsInteger() {
		return v.Decimal.IntPart()
	}
	return v.Decimal.InexactFloat64()
}

func rateCell(v decimal.NullDecimal) any {
	if !v.Valid {
		return nil
	}
	return v.Decimal.Round(6).InexactFloat64()
}
