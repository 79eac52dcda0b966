package task

import (
	"context"
	"testing"

	"github.com/darkkaiser/phone-price-server/internal/config"
	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/pkg/strutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarrier_filterModels(t *testing.T) {
	offers := []offer.DeviceOffer{
		newOffer("iPhone 15", "128GB", 120000, 0, 0),
		newOffer("iPhone 15 Pro", "256GB", 180000, 0, 0),
		newOffer("Galaxy S24", "256GB", 130000, 0, 0),
		newOffer("Pixel 8a", "128GB", 70000, 0, 0),
	}

	tests := []struct {
		name       string
		include    []string
		exclude    []string
		wantModels []string
	}{
		{
			name:       "필터 없음",
			wantModels: []string{"iPhone 15", "iPhone 15 Pro", "Galaxy S24", "Pixel 8a"},
		},
		{
			name:       "포함 OR 그룹",
			include:    []string{"iphone|pixel"},
			wantModels: []string{"iPhone 15", "iPhone 15 Pro", "Pixel 8a"},
		},
		{
			name:       "포함 + 제외",
			include:    []string{"iPhone"},
			exclude:    []string{"pro"},
			wantModels: []string{"iPhone 15"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Carrier{ID: alphaID, Name: "Alpha"}
			if m := strutil.NewKeywordMatcher(tt.include, tt.exclude); !m.Empty() {
				c.models = m
			}

			got := c.filterModels(append([]offer.DeviceOffer(nil), offers...))

			var models []string
			for _, o := range got {
				models = append(models, o.Model)
			}
			assert.Equal(t, tt.wantModels, models)
		})
	}
}

func TestService_Run_FiltersModels(t *testing.T) {
	env := setupTestEnv(t)
	env.svc.carriers[0].models = strutil.NewKeywordMatcher(nil, []string{"galaxy"})

	env.adapters.set(alphaID, returning(
		newOffer("iPhone 15", "128GB", 120000, 100000, 0),
		newOffer("Galaxy S24", "256GB", 130000, 110000, 0),
	))

	result, err := env.svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.Len(t, result.Carriers, 2)
	assert.Equal(t, 1, result.Carriers[0].Offers)

	snap, err := env.store.Load(env.svc.carriers[0].TableName())
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "iPhone 15", snap.Rows[0][0])
}

func TestBuildCarriers_CompareBy(t *testing.T) {
	provider.Default().ClearForTest()
	t.Cleanup(provider.Default().ClearForTest)

	// 할인가가 낮은 색상과 기기 가격이 낮은 색상이 같은 키로 내려온다.
	cheaperDiscount := newOffer("Pixel 8", "128GB", 110000, 70000, 0)
	cheaperFull := newOffer("Pixel 8", "128GB", 100000, 80000, 0)

	require.NoError(t, provider.Register(alphaID, &provider.Config{
		Name:             "Alpha",
		DefaultCompareBy: aggregate.CompareByDiscount,
		NewAdapter: func(p provider.NewAdapterParams) (provider.Adapter, error) {
			return provider.AdapterFunc(func(context.Context) ([]offer.DeviceOffer, error) {
				return aggregate.Engine{Price: p.Compare}.Merge([]offer.DeviceOffer{cheaperDiscount, cheaperFull}), nil
			}), nil
		},
	}))

	tests := []struct {
		name      string
		compareBy string
		want      offer.DeviceOffer
	}{
		{"등록 기본값", "", cheaperDiscount},
		{"설정 파일의 compare_by 가 우선한다", aggregate.CompareByFull, cheaperFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carriers, err := buildCarriers([]config.CarrierConfig{{ID: string(alphaID), Enabled: true, CompareBy: tt.compareBy}}, nil)
			require.NoError(t, err)
			require.Len(t, carriers, 1)

			offers, err := carriers[0].adapter.Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []offer.DeviceOffer{tt.want}, offers)
		})
	}
}
