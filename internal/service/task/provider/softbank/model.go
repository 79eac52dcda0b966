package softbank

import (
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	installmentMonths = 24

	// 반환 시점까지 납부하는 개월 수
	paidMonths = 12
)

var (
	usedGradeRegexp    = regexp.MustCompile(`[（(]中古([A-Z+]+)[)）]`)
	capacityOnlyRegexp = regexp.MustCompile(`(?i)^\d+(GB|TB)$`)

	capacityFields = normalize.Chain[gjson.Result]{
		normalize.Field("capacityNm"),
		normalize.Field("capacity"),
		normalize.Field("rom"),
		normalize.Field("storage"),
		normalize.Func("capacity-like value", func(r gjson.Result) (string, bool) {
			var found string
			r.ForEach(func(_, v gjson.Result) bool {
				if v.Type == gjson.String && capacityOnlyRegexp.MatchString(strings.TrimSpace(v.Str)) {
					found = strings.TrimSpace(v.Str)
					return false
				}
				return true
			})
			return found, found != ""
		}),
	}
)

// conditionOf 상품 유형 이름에 "中古" 나 "Certified" 가 있으면 중고입니다.
// 등급은 유형 이름에서 먼저 찾고, 없으면 모델 그룹 이름에서 찾습니다.
func conditionOf(itemTypeName, modelName string) offer.Condition {
	if !strings.Contains(itemTypeName, "中古") && !strings.Contains(itemTypeName, "Certified") {
		return offer.New
	}
	for _, s := range []string{itemTypeName, modelName} {
		if m := usedGradeRegexp.FindStringSubmatch(s); m != nil {
			return offer.UsedWithGrade(m[1])
		}
	}
	return offer.Used
}

func capacityOf(modelID gjson.Result) string {
	c, _ := capacityFields.First(modelID)
	return normalize.Capacity(c)
}

// scenario 가격 시나리오 하나입니다. 숫자가 아닌 값은 0 으로 취급합니다.
type scenario struct {
	salePrice      decimal.Decimal // sPr
	installment    decimal.Decimal // iPr
	earlyUseFee    decimal.Decimal // eUsFe
	returnUseFee   decimal.Decimal // rUsFe
	onlineDiscount decimal.Decimal // olsDis
}

func parseScenario(r gjson.Result) scenario {
	return scenario{
		salePrice:      normalize.Number(r.Get("sPr")),
		installment:    normalize.Number(r.Get("iPr")),
		earlyUseFee:    normalize.Number(r.Get("eUsFe")),
		returnUseFee:   normalize.Number(r.Get("rUsFe")),
		onlineDiscount: normalize.Number(r.Get("olsDis")),
	}
}

// prices 단말 가격, 할인가, 반환가를 계산합니다.
//
// 조기 이용료나 반환 이용료가 있으면 신토쿠스루 서포트 적용 시 12개월 부담액을 반환가로 계산하고,
// 없으면 반환가는 "-" 입니다.
func (s scenario) prices() (full, discount, ret offer.Price) {
	full = offer.Amount(s.salePrice)
	discount = offer.Amount(s.salePrice.Add(s.onlineDiscount))

	if s.earlyUseFee.IsPositive() || s.returnUseFee.IsPositive() {
		// (iPr + olsDis/24) × 12 를 나눗셈 오차 없이 계산한다.
		twelve := decimal.NewFromInt(paidMonths)
		paid := s.installment.Mul(twelve).Add(s.onlineDiscount.Mul(twelve).Div(decimal.NewFromInt(installmentMonths)))
		ret = offer.Amount(s.earlyUseFee.Add(s.returnUseFee).Add(paid))
		return full, discount, ret
	}

	return full, discount, offer.NotApplicable()
}
