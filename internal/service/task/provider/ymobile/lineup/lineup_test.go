package lineup

import (
	"testing"

	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParse(t *testing.T) {
	orders := Parse(gjson.Parse(`{
	  "orders": [
	    {
	      "model_name": "Pixel 8a",
	      "order_id": "pixel8a_used",
	      "sale_flg": 1,
	      "item_code": [{"id": "A001"}, {"id": ""}, {"id": "A002"}],
	      "storages": [
	        {"md": "G8A128GB", "price": {"product": 0, "mnp": {"plan_l": {"total": 5000, "tokusapo_24": "0"}}}}
	      ]
	    },
	    {"model_name": "X", "storages": "none"}
	  ]
	}`))
	require.Len(t, orders, 2)

	o := orders[0]
	assert.True(t, o.OnSale)
	assert.Equal(t, []string{"A001", "A002"}, o.ItemCodes)
	assert.Equal(t, offer.Used, o.Condition())
	require.Len(t, o.Storages, 1)
	assert.Equal(t, "128GB", o.Storages[0].Capacity)
	assert.True(t, o.Storages[0].Full.IsNull())
	require.Len(t, o.Storages[0].Plans, 1)
	assert.Equal(t, "plan_l", o.Storages[0].Plans[0].Key)
	assert.True(t, o.Storages[0].Plans[0].Return.IsNull())

	assert.Nil(t, orders[1].ItemCodes)
	assert.Empty(t, orders[1].Storages)
	assert.Equal(t, offer.New, orders[1].Condition())

	assert.Empty(t, Parse(gjson.Parse(`{"orders": []}`)))
	assert.Empty(t, Parse(gjson.Parse(`{}`)))
}

func TestStorage_BestPlan(t *testing.T) {
	s := Storage{Plans: []Plan{
		{Key: "plan_m", Discount: offer.Price{}},
		{Key: "plan_l", Discount: offer.Yen(3000)},
		{Key: "plan_x", Discount: offer.Yen(3000)},
	}}
	best, ok := s.BestPlan()
	require.True(t, ok)
	assert.Equal(t, "plan_l", best.Key)

	_, ok = Storage{}.BestPlan()
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "iPhone12 Mini", NameFromOrderID("iphone12_mini_used"))
	assert.Equal(t, "Reno10 A", NameFromOrderID("reno10-a"))

	tests := []struct {
		model, orderID, want string
	}{
		{"iPhone 15", "iphone15", "iPhone 15"},
		{"", "iphone_se_3_used", "iPhone SE 3"},
		{"iphone_13", "", "iPhone 13"},
		{"libero5g", "", "libero5g"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RepairName(tt.model, tt.orderID), "%q/%q", tt.model, tt.orderID)
	}
}
