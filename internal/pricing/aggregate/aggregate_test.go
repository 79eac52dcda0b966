package aggregate_test

import (
	"testing"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOffer(model string, discount offer.Price) offer.DeviceOffer {
	return offer.DeviceOffer{Model: model, Capacity: "128GB", Condition: offer.New, Discount: discount}
}

func TestEngine_Collapse(t *testing.T) {
	t.Run("같은 키는 할인가가 가장 낮은 항목만 남는다", func(t *testing.T) {
		got := aggregate.Engine{Price: aggregate.ByDiscount}.Collapse([]offer.DeviceOffer{
			newOffer("Model X", offer.Yen(50000)),
			newOffer("Model X", offer.Yen(45000)),
		})

		require.Len(t, got, 1)
		assert.Equal(t, "45000", got[0].Discount.String())
	})

	t.Run("동일 가격이면 먼저 나온 항목이 남는다", func(t *testing.T) {
		first := newOffer("Model X", offer.Yen(45000))
		first.Full = offer.Yen(1)
		second := newOffer("Model X", offer.Yen(45000))
		second.Full = offer.Yen(2)

		got := aggregate.Engine{Price: aggregate.ByDiscount}.Collapse([]offer.DeviceOffer{first, second})

		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].Full.String())
	})

	t.Run("비교 가격이 없는 항목은 저장되지도 이기지도 않는다", func(t *testing.T) {
		got := aggregate.Engine{Price: aggregate.ByDiscount}.Collapse([]offer.DeviceOffer{
			newOffer("Model X", offer.Price{}),
			newOffer("Model X", offer.NotApplicable()),
			newOffer("Model Y", offer.Price{}),
			newOffer("Model X", offer.Yen(60000)),
		})

		require.Len(t, got, 1)
		assert.Equal(t, "Model X", got[0].Model)
		assert.Equal(t, "60000", got[0].Discount.String())
	})

	t.Run("처음 등장한 키 순서를 유지한다", func(t *testing.T) {
		got := aggregate.Engine{}.Collapse([]offer.DeviceOffer{
			newOffer("B", offer.Yen(3)),
			newOffer("A", offer.Yen(2)),
			newOffer("B", offer.Yen(1)),
		})

		require.Len(t, got, 2)
		assert.Equal(t, "B", got[0].Model)
		assert.Equal(t, "1", got[0].Discount.String())
		assert.Equal(t, "A", got[1].Model)
		assert.Empty(t, aggregate.DuplicateKeys(got))
	})

	t.Run("반환가 우선 비교", func(t *testing.T) {
		withReturn := newOffer("Model X", offer.Yen(90000))
		withReturn.Return = offer.Yen(40000)
		plain := newOffer("Model X", offer.Yen(50000))
		plain.Return = offer.NotApplicable()

		got := aggregate.Engine{Price: aggregate.ByReturnOrDiscount}.Collapse([]offer.DeviceOffer{plain, withReturn})

		require.Len(t, got, 1)
		assert.Equal(t, "40000", got[0].Return.String())
	})
}

func TestEngine_CollapseAll(t *testing.T) {
	got := aggregate.Engine{Price: aggregate.ByDiscount}.CollapseAll([]offer.DeviceOffer{
		newOffer("Model A", offer.NotApplicable()),
		newOffer("Model B", offer.Yen(30000)),
		newOffer("Model A", offer.Yen(20000)),
		newOffer("Model C", offer.Price{}),
		newOffer("Model C", offer.NotApplicable()),
		newOffer("Model B", offer.Yen(10000)),
	})

	require.Len(t, got, 3)
	assert.Equal(t, "Model A", got[0].Model)
	assert.Equal(t, offer.Yen(20000), got[0].Discount)
	assert.Equal(t, offer.Yen(10000), got[1].Discount)
	assert.Equal(t, "Model C", got[2].Model)
	assert.True(t, got[2].Discount.IsNull())
}

func TestSelectorByName(t *testing.T) {
	for _, name := range []string{aggregate.CompareByDiscount, aggregate.CompareByFull, aggregate.CompareByReturnDiscount} {
		s, err := aggregate.SelectorByName(name)
		assert.NoError(t, err)
		assert.NotNil(t, s)
	}

	_, err := aggregate.SelectorByName("monthly")
	assert.Error(t, err)
}

func TestEngine_Merge(t *testing.T) {
	sku := func(capacity string, stock offer.Stock, full, discount int64) offer.DeviceOffer {
		return offer.DeviceOffer{
			Model:     "Galaxy A25 5G",
			Capacity:  capacity,
			Condition: offer.New,
			Stock:     stock,
			Full:      offer.Yen(full),
			Discount:  offer.Yen(discount),
		}
	}

	tests := []struct {
		name         string
		price        aggregate.Selector
		offers       []offer.DeviceOffer
		wantDiscount string
		wantFull     string
		wantStock    offer.Stock
	}{
		{
			name:         "가격이 더 낮은 SKU 가 남는다",
			price:        aggregate.ByDiscount,
			offers:       []offer.DeviceOffer{sku("64GB", offer.InStock, 60000, 50000), sku("64GB", offer.InStock, 60000, 45000)},
			wantDiscount: "45000",
			wantFull:     "60000",
			wantStock:    offer.InStock,
		},
		{
			name:         "재고는 같은 키의 SKU 를 OR 로 합친다",
			price:        aggregate.ByDiscount,
			offers:       []offer.DeviceOffer{sku("64GB", offer.InStock, 60000, 50000), sku("64GB", offer.OutOfStock, 60000, 45000)},
			wantDiscount: "45000",
			wantFull:     "60000",
			wantStock:    offer.InStock,
		},
		{
			name:         "모두 재고가 없으면 재고 없음이다",
			price:        aggregate.ByDiscount,
			offers:       []offer.DeviceOffer{sku("64GB", offer.OutOfStock, 60000, 50000), sku("64GB", offer.OutOfStock, 60000, 45000)},
			wantDiscount: "45000",
			wantFull:     "60000",
			wantStock:    offer.OutOfStock,
		},
		{
			name:         "비교 가격을 바꾸면 다른 SKU 가 남는다",
			price:        aggregate.ByFull,
			offers:       []offer.DeviceOffer{sku("64GB", offer.InStock, 58000, 50000), sku("64GB", offer.InStock, 60000, 45000)},
			wantDiscount: "50000",
			wantFull:     "58000",
			wantStock:    offer.InStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := aggregate.Engine{Price: tt.price}.Merge(tt.offers)

			require.Len(t, got, 1)
			assert.Equal(t, tt.wantDiscount, got[0].Discount.String())
			assert.Equal(t, tt.wantFull, got[0].Full.String())
			assert.Equal(t, tt.wantStock, got[0].Stock)
		})
	}

	t.Run("다른 키는 등장 순서대로 따로 남는다", func(t *testing.T) {
		got := aggregate.Engine{Price: aggregate.ByDiscount}.Merge([]offer.DeviceOffer{
			sku("64GB", offer.OutOfStock, 60000, 50000),
			sku("128GB", offer.InStock, 70000, 55000),
			sku("64GB", offer.InStock, 60000, 52000),
		})

		require.Len(t, got, 2)
		assert.Equal(t, "64GB", got[0].Capacity)
		assert.Equal(t, "50000", got[0].Discount.String())
		assert.Equal(t, offer.InStock, got[0].Stock)
		assert.Equal(t, "128GB", got[1].Capacity)
	})

	t.Run("비교 가격이 없는 키는 처음 나온 항목을 남긴다", func(t *testing.T) {
		first := offer.DeviceOffer{Model: "iPhone 15", Capacity: "128GB", Condition: offer.New, Stock: offer.OutOfStock}
		second := first
		second.Stock = offer.InStock

		got := aggregate.Engine{Price: aggregate.ByDiscount}.Merge([]offer.DeviceOffer{first, second})

		require.Len(t, got, 1)
		assert.Equal(t, offer.InStock, got[0].Stock)
	})
}

func TestAnyInStock(t *testing.T) {
	assert.Equal(t, offer.InStock, aggregate.AnyInStock(false, true, false))
	assert.Equal(t, offer.OutOfStock, aggregate.AnyInStock(false, false))
	assert.Equal(t, offer.OutOfStock, aggregate.AnyInStock())
}
