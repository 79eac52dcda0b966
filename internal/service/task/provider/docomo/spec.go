package docomo

import (
	"context"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/tidwall/gjson"
)

const specROM = "spec_rom"

type specRequest struct {
	MobileCodeList []string `json:"mobileCodeList"`
}

// fetchSpecROM 스펙 비교 API 에서 ROM 용량을 읽습니다. 찾지 못하면 빈 문자열입니다.
func (a *adapter) fetchSpecROM(ctx context.Context, s session, mobileCode string) (string, error) {
	doc, err := a.call(ctx, a.post(s, a.settings.SpecURL, specRequest{MobileCodeList: []string{mobileCode}}))
	if err != nil {
		return "", err
	}
	return parseSpecROM(doc, mobileCode), nil
}

// parseSpecROM result[mobileCode].mobileSpecInfoList[spec_rom].valueListCsName 의 첫 번째 값에 단위를 붙입니다.
//
//	{"value": "256", "valueUnitBack": "GB"} -> "256GB"
func parseSpecROM(doc gjson.Result, mobileCode string) string {
	var rom string

	doc.Get("result").ForEach(func(_, item gjson.Result) bool {
		if item.Get("mobileCode").String() != mobileCode {
			return true
		}

		item.Get("mobileSpecInfoList").ForEach(func(_, spec gjson.Result) bool {
			if spec.Get("specId").String() != specROM {
				return true
			}

			spec.Get("valueListCsName").ForEach(func(_, v gjson.Result) bool {
				if value := v.Get("value").String(); value != "" {
					rom = value + v.Get("valueUnitBack").String()
					return false
				}
				return true
			})
			return false
		})
		return false
	})

	return normalize.Capacity(rom)
}
