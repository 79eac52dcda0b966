package compare_test

import (
	"testing"

	"github.com/darkkaiser/phone-price-server/internal/pricing/compare"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func device(model string, full, discount, ret offer.Price) offer.DeviceOffer {
	return offer.DeviceOffer{
		Model:     model,
		Capacity:  "128GB",
		Condition: offer.New,
		Stock:     offer.InStock,
		Full:      full,
		Discount:  discount,
		Return:    ret,
	}
}

func TestCompare_TiesKeepDiscoveryOrder(t *testing.T) {
	rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
		{Carrier: "A", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(100000), offer.Price{}, offer.Price{})}},
		{Carrier: "B", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(90000), offer.Price{}, offer.Price{})}},
		{Carrier: "C", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(90000), offer.Price{}, offer.Price{})}},
	})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Full.Min.Valid)
	assert.True(t, rows[0].Full.Min.Decimal.Equal(decimal.NewFromInt(90000)))
	assert.Equal(t, []string{"B", "C"}, rows[0].Full.Carriers)

	assert.False(t, rows[0].Discount.Min.Valid)
	assert.Empty(t, rows[0].Discount.Carriers)
	assert.False(t, rows[0].DiscountRate.Valid)
}

func TestCompare_Rates(t *testing.T) {
	t.Run("할인율은 1 - 할인가/정가", func(t *testing.T) {
		rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
			{Carrier: "A", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(100000), offer.Yen(80000), offer.Yen(25000))}},
		})

		require.Len(t, rows, 1)
		require.True(t, rows[0].DiscountRate.Valid)
		assert.True(t, rows[0].DiscountRate.Decimal.Equal(decimal.RequireFromString("0.2")))
		require.True(t, rows[0].ReturnRate.Valid)
		assert.True(t, rows[0].ReturnRate.Decimal.Equal(decimal.RequireFromString("0.75")))
	})

	t.Run("정가가 없으면 할인율도 없다", func(t *testing.T) {
		rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
			{Carrier: "A", Offers: []offer.DeviceOffer{device("Model X", offer.Price{}, offer.Yen(80000), offer.Yen(1000))}},
		})

		require.Len(t, rows, 1)
		assert.True(t, rows[0].Discount.Min.Valid)
		assert.False(t, rows[0].DiscountRate.Valid)
		assert.False(t, rows[0].ReturnRate.Valid)
	})

	t.Run("정가가 0 이면 할인율도 없다", func(t *testing.T) {
		rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
			{Carrier: "A", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(0), offer.Yen(80000), offer.Price{})}},
		})

		require.Len(t, rows, 1)
		assert.False(t, rows[0].DiscountRate.Valid)
	})
}

func TestCompare_MinCorrectnessPerDimension(t *testing.T) {
	rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
		{Carrier: "docomo", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(150000), offer.Yen(120000), offer.NotApplicable())}},
		{Carrier: "au", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(140000), offer.Yen(120000), offer.Yen(50000))}},
		{Carrier: "SoftBank", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(140000), offer.Yen(130000), offer.Yen(49000))}},
		{Carrier: "IIJmio", Offers: nil},
	})

	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, []string{"au", "SoftBank"}, r.Full.Carriers)
	assert.Equal(t, []string{"docomo", "au"}, r.Discount.Carriers)
	assert.Equal(t, []string{"SoftBank"}, r.Return.Carriers)
	assert.True(t, r.Return.Min.Decimal.Equal(decimal.NewFromInt(49000)))

	require.Contains(t, r.PerCarrier, "IIJmio")
	assert.False(t, r.PerCarrier["IIJmio"].Full.Valid)
	assert.False(t, r.PerCarrier["docomo"].Return.Valid)
}

func TestCompare_SkipOutOfStock(t *testing.T) {
	soldOut := device("Model X", offer.Yen(1), offer.Yen(1), offer.Price{})
	soldOut.Stock = offer.OutOfStock
	unknown := device("Model Y", offer.Yen(2), offer.Yen(2), offer.Price{})
	unknown.Stock = ""

	input := []compare.CarrierOffers{{Carrier: "A", Offers: []offer.DeviceOffer{soldOut, unknown}}}

	assert.Len(t, compare.Comparator{SkipOutOfStock: true}.Compare(input), 1)
	assert.Len(t, compare.Comparator{}.Compare(input), 2)
}

func TestCompare_LaterDuplicateWithinCarrierOverwrites(t *testing.T) {
	rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
		{Carrier: "A", Offers: []offer.DeviceOffer{
			device("Model X", offer.Yen(100), offer.Price{}, offer.Price{}),
			device("Model X", offer.Yen(200), offer.Price{}, offer.Price{}),
		}},
	})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Full.Min.Decimal.Equal(decimal.NewFromInt(200)))
}

func TestCompare_SortOrder(t *testing.T) {
	used := device("iPhone 15", offer.Yen(1), offer.Price{}, offer.Price{})
	used.Condition = offer.UsedWithGrade("A")

	rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
		{Carrier: "A", Offers: []offer.DeviceOffer{
			device("Galaxy S24", offer.Yen(1), offer.Price{}, offer.Price{}),
			used,
			device("iPhone 15", offer.Yen(1), offer.Price{}, offer.Price{}),
			device("Xperia 1 VI", offer.Yen(1), offer.Price{}, offer.Price{}),
		}},
	})

	var got []string
	for _, r := range rows {
		got = append(got, r.Model+"/"+string(r.Condition))
	}

	want := []string{"iPhone 15/中古A", "iPhone 15/新品", "Xperia 1 VI/新品", "Galaxy S24/新品"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("정렬 순서 불일치 (-want +got):\n%s", diff)
	}
}

func TestTable(t *testing.T) {
	carriers := []string{"A", "B"}
	rows := compare.Comparator{}.Compare([]compare.CarrierOffers{
		{Carrier: "A", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(100000), offer.Yen(80000), offer.Price{})}},
		{Carrier: "B", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(100000), offer.Yen(90000), offer.Price{})}},
	})

	header, cells := compare.Table(rows, carriers)

	wantHeader := []string{
		"機種名", "容量", "状態", "定価(最安)", "定価最安の会社", "実質(最安)", "実質最安の会社", "実質割引率",
		"返却(最安)", "返却最安の会社", "返却割引率",
		"A_端末価格", "A_割引後価格", "A_返却価格", "B_端末価格", "B_割引後価格", "B_返却価格",
	}
	if diff := cmp.Diff(wantHeader, header); diff != "" {
		t.Errorf("헤더 불일치 (-want +got):\n%s", diff)
	}

	wantCells := [][]any{{
		"Model X", "128GB", "新品",
		int64(100000), "A, B",
		int64(80000), "A", 0.2,
		nil, "", nil,
		int64(100000), int64(80000), nil,
		int64(100000), int64(90000), nil,
	}}
	if diff := cmp.Diff(wantCells, cells); diff != "" {
		t.Errorf("셀 불일치 (-want +got):\n%s", diff)
	}
}

func TestCompare_Idempotent(t *testing.T) {
	input := []compare.CarrierOffers{
		{Carrier: "A", Offers: []offer.DeviceOffer{
			device("Model X", offer.Yen(100000), offer.Yen(80000), offer.Price{}),
			device("Model Y", offer.Yen(50000), offer.Yen(40000), offer.Yen(20000)),
		}},
		{Carrier: "B", Offers: []offer.DeviceOffer{device("Model X", offer.Yen(95000), offer.Yen(80000), offer.Price{})}},
	}

	_, first := compare.Table(compare.Comparator{}.Compare(input), []string{"A", "B"})
	_, second := compare.Table(compare.Comparator{}.Compare(input), []string{"A", "B"})

	assert.Empty(t, cmp.Diff(first, second))
}
