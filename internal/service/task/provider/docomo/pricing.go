package docomo

import (
	"context"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// 반환 프로그램 대상 구분(deviceReturnPgTargetModel)
const (
	returnProgramEarlyReplacement = "2"
	returnProgramResidual         = "3"

	residualMonths = 11
)

type priceRequest struct {
	TransactionID string `json:"transactionId"`
	BranchNumber  string `json:"branchNumber"`
	Quick         string `json:"quick"`
	HFlag         string `json:"hflag"`
	SCD           string `json:"scd"`
	TKubun        int    `json:"tkubun"`
	OrderDiv      string `json:"orderDiv"`
}

// terminalPrice 가격 API 에서 읽은 가격과 스펙 API 에 사용할 mobileCode 입니다.
type terminalPrice struct {
	full       offer.Price
	discount   offer.Price
	ret        offer.Price
	mobileCode string
}

func (a *adapter) fetchTerminalPrice(ctx context.Context, s session, txn *transaction, itemCode string) (terminalPrice, error) {
	doc, err := a.call(ctx, a.post(s, a.settings.PriceURL, priceRequest{
		TransactionID: txn.id,
		BranchNumber:  txn.branchNumber,
		Quick:         "1",
		HFlag:         "1",
		SCD:           itemCode,
		TKubun:        a.settings.Tkubun,
		OrderDiv:      a.settings.OrderDiv,
	}))
	if err != nil {
		return terminalPrice{}, err
	}
	return parseTerminalPrice(doc), nil
}

// parseTerminalPrice 정가는 itemCashSalePriceBulk(없으면 totalPrice), 할인 가격은 totalPrice 입니다.
// 반환 가격은 프로그램 구분이 2 이면 조기 교환 가격, 3 이면 첫 회 할인 + 월 할인 × 11 이며 0 보다 클 때만 사용합니다.
func parseTerminalPrice(doc gjson.Result) terminalPrice {
	cart := doc.Get("result.cartResult.csOls20CartDate")
	item := doc.Get("result.cartResult.csOls20ItemType")

	p := terminalPrice{
		full:       normalize.FirstPrice(normalize.PriceOf(cart.Get("itemCashSalePriceBulk")), normalize.PriceOf(cart.Get("totalPrice"))),
		discount:   normalize.PriceOf(cart.Get("totalPrice")),
		mobileCode: item.Get("mobileCode").String(),
	}

	switch item.Get("deviceReturnPgTargetModel").String() {
	case returnProgramEarlyReplacement:
		p.ret = normalize.PriceOf(cart.Get("residualBondsPgEarlyReplPrice"))
	case returnProgramResidual:
		first := priceValue(cart.Get("residualBondsPgFirstDiscountPrice"))
		monthly := priceValue(cart.Get("residualBondsPgDiscountPriceIsm"))
		if total := first.Add(monthly.Mul(decimal.NewFromInt(residualMonths))); total.IsPositive() {
			p.ret = offer.Amount(total)
		}
	}

	return p
}

func priceValue(r gjson.Result) decimal.Decimal {
	v, _ := normalize.PriceOf(r).Value()
	return v
}
