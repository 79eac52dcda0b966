package iijmio

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
)

const (
	categoryClosedSale = "closedsale"

	// 판매 대행 업체로, 단말 목록에는 나오지만 가격 비교 대상이 아니다.
	excludedManufacturer = "ネットチャート"

	// 제조사 이름에 "品" 이 들어가면 (未使用品, 美品 등) 중고로 분류한다.
	usedManufacturerMark = "品"
)

var reBracketed = regexp.MustCompile(`\[.*?\]`)

type terminalListResponse struct {
	Result struct {
		Result []terminal `json:"result"`
	} `json:"result"`
}

type terminal struct {
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Manufacturer string     `json:"manufacturer"`
	Metadata     []metadata `json:"metadata"`
	Colors       []struct {
		NumberOfStock json.RawMessage `json:"number_of_stock"`
	} `json:"colors"`
	Payments []struct {
		Amount json.RawMessage `json:"amount"`
	} `json:"payments"`
}

type metadata struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// meta 메타데이터 값을 문자열로 반환합니다. 문자열이 아니면 JSON 원문을 그대로 사용합니다.
func (t terminal) meta(key string) string {
	for _, m := range t.Metadata {
		if m.Name != key {
			continue
		}
		var s string
		if err := json.Unmarshal(m.Value, &s); err == nil {
			return s
		}
		raw := strings.TrimSpace(string(m.Value))
		if raw == "null" {
			return ""
		}
		return raw
	}
	return ""
}

func (t terminal) totalStock() int64 {
	var total int64
	for _, c := range t.Colors {
		// 숫자로 내려온 값만 센다.
		var n float64
		if err := json.Unmarshal(c.NumberOfStock, &n); err == nil && n > 0 {
			total += int64(n)
		}
	}
	return total
}

func parseTerminal(t terminal) (offer.DeviceOffer, bool) {
	if t.Category == categoryClosedSale || t.Manufacturer == excludedManufacturer {
		return offer.DeviceOffer{}, false
	}

	name := strings.TrimSpace(reBracketed.ReplaceAllString(t.Name, ""))
	if name == "" {
		return offer.DeviceOffer{}, false
	}

	full := offer.ParseCell(t.meta("discount_after_1"))
	if !full.Valid() && len(t.Payments) > 0 {
		full = amountOf(t.Payments[0].Amount)
	}

	condition := offer.New
	if strings.Contains(t.Manufacturer, usedManufacturerMark) {
		condition = offer.Used
	}

	return offer.DeviceOffer{
		Model:     normalize.FullWidthParens(name),
		Capacity:  normalize.Capacity(t.meta("ROM")),
		Condition: condition,
		Stock:     offer.StockOf(t.totalStock() > 0),
		Full:      full,
		Discount:  offer.ParseCell(t.meta("voice_set_1")),
		Carrier:   Name,
		Maker:     t.Manufacturer,
	}, true
}

func amountOf(raw json.RawMessage) offer.Price {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return offer.Price{}
	}
	return offer.ParseCell(v)
}
