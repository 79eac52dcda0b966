package provider

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopAdapter(NewAdapterParams) (Adapter, error) {
	return AdapterFunc(func(context.Context) ([]offer.DeviceOffer, error) { return nil, nil }), nil
}

func TestID_Validate(t *testing.T) {
	tests := []struct {
		id      ID
		wantErr bool
	}{
		{"docomo", false},
		{"ymobile-yahoo", false},
		{"a1", false},
		{"", true},
		{"Docomo", true},
		{"1docomo", true},
		{"ymobile_yahoo", true},
		{"ymobile-", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("b", &Config{Name: "B", NewAdapter: nopAdapter}))
	require.NoError(t, r.Register("a", &Config{Name: "A", DefaultCompareBy: "full", NewAdapter: nopAdapter}))

	assert.Equal(t, []ID{"b", "a"}, r.IDs())

	err := r.Register("a", &Config{Name: "A", NewAdapter: nopAdapter})
	assert.True(t, errors.Is(err, ErrDuplicateID))

	assert.ErrorIs(t, r.Register("c", nil), ErrConfigNil)
	assert.ErrorIs(t, r.Register("c", &Config{NewAdapter: nopAdapter}), ErrNameEmpty)
	assert.ErrorIs(t, r.Register("c", &Config{Name: "C"}), ErrNewAdapterNil)
	assert.True(t, apperrors.Is(r.Register("c", &Config{Name: "C", DefaultCompareBy: "cheapest", NewAdapter: nopAdapter}), apperrors.InvalidInput))

	assert.Panics(t, func() { r.MustRegister("a", &Config{Name: "A", NewAdapter: nopAdapter}) })
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("docomo", &Config{Name: "docomo", NewAdapter: nopAdapter})

	cfg, err := r.Lookup("docomo")
	require.NoError(t, err)
	assert.Equal(t, "docomo", cfg.Name)

	_, err = r.Lookup("unknown")
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.Contains(t, err.Error(), "docomo")

	r.ClearForTest()
	assert.Empty(t, r.IDs())
}

func TestConfig_ResolveCompare(t *testing.T) {
	o := offer.DeviceOffer{Full: offer.Yen(100), Discount: offer.Yen(80), Return: offer.Yen(50)}

	tests := []struct {
		name      string
		def       string
		override  string
		wantPrice int64
		wantErr   bool
	}{
		{"기본값 없음", "", "", 80, false},
		{"등록 기본값", "full", "", 100, false},
		{"설정 우선", "full", "return_or_discount", 50, false},
		{"알 수 없는 이름", "", "cheapest", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Config{DefaultCompareBy: tt.def}.ResolveCompare(tt.override)
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
				return
			}
			require.NoError(t, err)
			v, ok := sel(o)
			require.True(t, ok)
			assert.Equal(t, tt.wantPrice, v.IntPart())
		})
	}
}
