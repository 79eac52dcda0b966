package offer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type priceState uint8

const (
	priceNull priceState = iota
	priceValue
	priceNotApplicable
)

// notApplicableMark 반환가 등이 적용되지 않음을 나타내는 셀 표기입니다.
const notApplicableMark = "-"

var nonDigitRegexp = regexp.MustCompile(`[^0-9]`)

var maxExactInt = decimal.NewFromInt(math.MaxInt64)

// Price 엔 단위 금액입니다. 값 없음(null), 해당 없음("-"), 금액 중 하나의 상태를 가집니다.
// 제로값은 null 입니다.
type Price struct {
	amount decimal.Decimal
	state  priceState
}

// Yen 정수 금액으로 Price 를 생성합니다.
func Yen(v int64) Price {
	return Price{amount: decimal.NewFromInt(v), state: priceValue}
}

// Amount 임의의 금액으로 Price 를 생성합니다. 정수 금액은 Yen 과 같은 내부 표현으로 맞춥니다.
func Amount(d decimal.Decimal) Price {
	if d.IsInteger() && d.Abs().LessThan(maxExactInt) {
		return Yen(d.IntPart())
	}
	return Price{amount: d, state: priceValue}
}

func NotApplicable() Price {
	return Price{state: priceNotApplicable}
}

// Value 금액이 있으면 (금액, true)를 반환합니다.
func (p Price) Value() (decimal.Decimal, bool) {
	if p.state != priceValue {
		return decimal.Zero, false
	}
	return p.amount, true
}

func (p Price) Valid() bool {
	return p.state == priceValue
}

func (p Price) IsNull() bool {
	return p.state == priceNull
}

func (p Price) IsNotApplicable() bool {
	return p.state == priceNotApplicable
}

// ClampTo 금액이 limit 보다 크면 limit 으로 낮춥니다. 둘 중 하나라도 금액이 아니면 그대로 반환합니다.
func (p Price) ClampTo(limit Price) Price {
	v, ok := p.Value()
	if !ok {
		return p
	}
	ceiling, ok := limit.Value()
	if !ok {
		return p
	}
	if v.GreaterThan(ceiling) {
		return limit
	}
	return p
}

// Cell 시트 셀에 기록할 값을 반환합니다. (nil, "-", 정수 또는 실수)
func (p Price) Cell() any {
	switch p.state {
	case priceValue:
		if p.amount.IsInteger() {
			return p.amount.IntPart()
		}
		return p.amount.InexactFloat64()
	case priceNotApplicable:
		return notApplicableMark
	default:
		return nil
	}
}

func (p Price) String() string {
	switch p.state {
	case priceValue:
		return p.amount.String()
	case priceNotApplicable:
		return notApplicableMark
	default:
		return ""
	}
}

func (p Price) MarshalJSON() ([]byte, error) {
	switch p.state {
	case priceValue:
		return []byte(p.amount.String()), nil
	case priceNotApplicable:
		return []byte(`"-"`), nil
	default:
		return []byte("null"), nil
	}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParseCell(s)
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("금액 형식이 올바르지 않습니다: %s", data)
	}
	*p = Amount(d)

	return nil
}

// ParseCell 셀 또는 응답 값을 Price 로 변환합니다.
//
// 숫자는 그대로 사용하고, 문자열은 숫자 이외의 문자를 모두 제거한 뒤 해석합니다.
// 숫자가 하나도 남지 않으면 null 이며, "-" 는 해당 없음입니다.
func ParseCell(v any) Price {
	switch t := v.(type) {
	case nil:
		return Price{}
	case Price:
		return t
	case decimal.Decimal:
		return Amount(t)
	case int:
		return Yen(int64(t))
	case int64:
		return Yen(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Price{}
		}
		return Amount(decimal.NewFromFloat(t))
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return Price{}
		}
		return Amount(d)
	case string:
		s := strings.TrimSpace(t)
		if s == notApplicableMark {
			return NotApplicable()
		}
		digits := nonDigitRegexp.ReplaceAllString(s, "")
		if digits == "" {
			return Price{}
		}
		d, err := decimal.NewFromString(digits)
		if err != nil {
			return Price{}
		}
		return Amount(d)
	default:
		return ParseCell(fmt.Sprint(t))
	}
}
