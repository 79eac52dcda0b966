package au

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/fetcher"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const smartphoneFixture = `[
  {
    "productName": "Galaxy A25 5G",
    "productDetailUrl": "/content/au-com/mobile/product/smartphone/scg33/?from=list",
    "colorVariations": [{"olsProductCode": "A25-BK", "name": "ブラック"}, {"olsProductCode": "A25-WH"}]
  }
]`

const iphoneFixture = `[
  {
    "productName": "iPhone 15",
    "colorsAndCapacities": [{"capacities": [{"value": "IP15-128"}, {"olsProductCode": "IP15-256"}]}]
  }
]`

const certifiedFixture = `/* au Certified */
var auCertifiedProductData = [
  {
    productName: 'iPhone 13 ランクA',
    url: '/content/au-com/mobile/product/certified/iphone13',
    detail: [{capacity: '128GB', colorsAndOlsCode: [{olsProductCode: 'C13-A'},],},],
  },
];`

var stockFixtures = map[string]string{
	"A25-BK": `{"olsProductCode": "A25-BK", "productName": "Galaxy A25 5G", "colorVariationName": "ブラック（６４ＧＢ）", "olsStatus": "在庫あり",
		"salesPrice": {"simpleCoursePriceWithMnpInTax": 58000, "simpleCourseAfterDiscountPriceWithMnpInTax": 50000,
		"residualValueInstallmentList": [{"mnpResidualValueTotalInstallmentPaymentInTax": 10000}]}}`,
	"A25-WH": `{"olsProductCode": "A25-WH", "productName": "Galaxy A25 5G", "colorVariationName": "ホワイト（６４ＧＢ）", "olsStatus": "在庫なし",
		"salesPrice": {"simpleCoursePriceWithMnpInTax": 60000, "simpleCourseAfterDiscountPriceWithMnpInTax": 45000,
		"residualValueInstallmentList": [{"mnpResidualValueTotalInstallmentPaymentInTax": 20000}]}}`,
	"IP15-128": `{"olsProductCode": "IP15-128", "productName": "iPhone 15 (PRODUCT)RED 128GB", "colorVariationName": "(PRODUCT)RED（128GB）",
		"olsSalesAttribute": {"stockQuantity": 3}, "price": 140000,
		"salesPrice": {"simpleCourseAfterDiscountPriceWithMnpInTax": 98000,
		"residualValueInstallmentList": [{"mnpResidualValueTotalInstallmentPaymentInTax": 47000}]}}`,
	"IP15-256": `{"olsProductCode": "IP15-256", "productName": "iPhone 15", "colorVariationName": "ブルー（256GB）"}`,
	"C13-A": `{"olsProductCode": "C13-A", "productName": "iPhone 13 (認定中古品)", "colorVariationName": "ミッドナイト（128GB）", "olsStatus": "在庫あり",
		"salesPrice": {"simpleCoursePriceWithMnpInTax": 60000}}`,
}

type stockRequest struct {
	codes   []string
	path    string
	referer string
	cookie  string
}

type testServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []stockRequest
}

func newTestServer(t *testing.T, failPath string) *testServer {
	t.Helper()

	ts := &testServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/mobile/product/price/smartphone/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc"})
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/json/product_smartphone.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(smartphoneFixture))
	})
	mux.HandleFunc("/json/product_iphone.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(iphoneFixture))
	})
	mux.HandleFunc("/js/au_certified_product_data.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write([]byte(certifiedFixture))
	})
	mux.HandleFunc("/bin/wcm/au-com/ols/product/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/bin/wcm/au-com/ols/product/v2.")
		codes := strings.Split(strings.TrimSuffix(name, ".json"), ".")
		path := r.URL.Query().Get("currentPagePath")

		ts.mu.Lock()
		ts.requests = append(ts.requests, stockRequest{codes: codes, path: path, referer: r.Header.Get("Referer"), cookie: r.Header.Get("Cookie")})
		ts.mu.Unlock()

		if path == failPath {
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}

		var items []string
		for _, c := range codes {
			if s, ok := stockFixtures[c]; ok {
				items = append(items, s)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	})

	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts
}

func (ts *testServer) adapter(t *testing.T, chunkSize int, compare aggregate.Selector) provider.Adapter {
	t.Helper()

	a, err := newAdapter(provider.NewAdapterParams{
		ID:      ID,
		Scraper: scraper.New(fetcher.NewHTTPFetcher(5 * time.Second)),
		Compare: compare,
		Settings: map[string]any{
			"origin":         ts.URL,
			"price_page_url": ts.URL + "/mobile/product/price/smartphone/",
			"smartphone_url": ts.URL + "/json/product_smartphone.json",
			"iphone_url":     ts.URL + "/json/product_iphone.json",
			"certified_url":  ts.URL + "/js/au_certified_product_data.js",
			"stock_api_base": ts.URL + "/bin/wcm/au-com/ols/product/v2.",
			"chunk_size":     chunkSize,
			"interval":       "1ms",
		},
	})
	require.NoError(t, err)
	return a
}

func TestAdapter_Fetch(t *testing.T) {
	ts := newTestServer(t, "")

	offers, err := ts.adapter(t, 1, aggregate.ByDiscount).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 4)

	// 색상 두 개가 하나로 합쳐지고 할인가가 더 낮은 SKU 가 남는다. 재고는 다른 색상의 재고를 따른다.
	assert.Equal(t, offer.DeviceOffer{
		Model:     "Galaxy A25 5G",
		Capacity:  "64GB",
		Condition: offer.New,
		Stock:     offer.InStock,
		Full:      offer.Yen(60000),
		Discount:  offer.Yen(45000),
		Return:    offer.Yen(20000),
		Carrier:   Name,
	}, offers[0])

	assert.Equal(t, "iPhone 15", offers[1].Model)
	assert.Equal(t, "128GB", offers[1].Capacity)
	assert.Equal(t, offer.InStock, offers[1].Stock)
	assert.Equal(t, offer.Yen(140000), offers[1].Full)
	assert.Equal(t, offer.Yen(98000), offers[1].Discount)
	assert.Equal(t, offer.Yen(47000), offers[1].Return)

	assert.Equal(t, "256GB", offers[2].Capacity)
	assert.Equal(t, offer.OutOfStock, offers[2].Stock)
	assert.True(t, offers[2].Full.IsNull())

	assert.Equal(t, "iPhone 13", offers[3].Model)
	assert.Equal(t, offer.Condition("中古A"), offers[3].Condition)

	ts.mu.Lock()
	defer ts.mu.Unlock()

	require.Len(t, ts.requests, 5)
	assert.Equal(t, "/content/au-com/mobile/product/smartphone/scg33/", ts.requests[0].path)
	assert.Equal(t, ts.URL+"/content/au-com/mobile/product/smartphone/scg33/", ts.requests[0].referer)
	assert.Equal(t, "JSESSIONID=abc", ts.requests[0].cookie)
	assert.Equal(t, "/content/au-com/mobile/product/price/smartphone/", ts.requests[2].path)
	assert.Equal(t, "/content/au-com/mobile/product/certified/iphone13/", ts.requests[4].path)
}

func TestAdapter_Fetch_ChunkFailureSkipped(t *testing.T) {
	ts := newTestServer(t, "/content/au-com/mobile/product/smartphone/scg33/")

	offers, err := ts.adapter(t, 30, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 3)
	assert.Equal(t, "iPhone 15", offers[0].Model)

	ts.mu.Lock()
	defer ts.mu.Unlock()

	require.Len(t, ts.requests, 3)
	assert.Equal(t, []string{"IP15-128", "IP15-256"}, ts.requests[1].codes)
}

func TestAdapter_Fetch_CompareBy(t *testing.T) {
	tests := []struct {
		name         string
		compare      aggregate.Selector
		wantFull     offer.Price
		wantDiscount offer.Price
	}{
		{"할인가 기준", aggregate.ByDiscount, offer.Yen(60000), offer.Yen(45000)},
		{"기기 가격 기준", aggregate.ByFull, offer.Yen(58000), offer.Yen(50000)},
		{"지정하지 않으면 할인가 기준", nil, offer.Yen(60000), offer.Yen(45000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, "")

			offers, err := ts.adapter(t, 30, tt.compare).Fetch(context.Background())
			require.NoError(t, err)
			require.NotEmpty(t, offers)

			assert.Equal(t, "Galaxy A25 5G", offers[0].Model)
			assert.Equal(t, tt.wantFull, offers[0].Full)
			assert.Equal(t, tt.wantDiscount, offers[0].Discount)
			assert.Equal(t, offer.InStock, offers[0].Stock)
		})
	}
}

func TestAdapter_Fetch_NoProductCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	a, err := newAdapter(provider.NewAdapterParams{
		Scraper: scraper.New(fetcher.NewHTTPFetcher(5 * time.Second)),
		Settings: map[string]any{
			"price_page_url": server.URL,
			"smartphone_url": server.URL,
			"iphone_url":     server.URL,
			"certified_url":  server.URL,
			"interval":       "1ms",
		},
	})
	require.NoError(t, err)

	offers, err := a.Fetch(context.Background())
	assert.Nil(t, offers)
	assert.ErrorIs(t, err, ErrNoProductCodes)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
}

func TestCleanProductName(t *testing.T) {
	tests := []struct {
		name, capacity, color, want string
	}{
		{"iPhone 15 (PRODUCT)RED 128GB", "128GB", "(PRODUCT)RED", "iPhone 15"},
		{"Xperia 10 V ブラック", "", "ブラック", "Xperia 10 V"},
		{"iPhone SE (第3世代) au Certified", "", "", "iPhone SE （第3世代）"},
		{"", "64GB", "", ""},
		{"Galaxy S24 256gb", "256GB", "", "Galaxy S24"},
		{"Galaxy S24 128GB 256GB", "256GB", "", "Galaxy S24 128GB"},
		{"AQUOS wish4  Black  ", "", "black", "AQUOS wish4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanProductName(tt.name, tt.capacity, tt.color))
	}
}

func TestReturnPrice(t *testing.T) {
	sp := gjson.Parse(`{"residualValueInstallmentList": [{"mnpResidualValueTotalInstallmentPaymentInTax": 30000}]}`)

	assert.Equal(t, offer.Yen(5499), returnPrice(offer.Yen(5499), sp))
	assert.Equal(t, offer.Yen(30000), returnPrice(offer.Yen(5500), sp))
	assert.Equal(t, offer.Yen(30000), returnPrice(offer.Price{}, sp))
	assert.True(t, returnPrice(offer.Yen(9000), gjson.Parse(`{}`)).IsNull())
}

func TestReplaceFold(t *testing.T) {
	tests := []struct {
		s, sub, want string
	}{
		{"Pixel 8 Obsidian", "obsidian", "Pixel 8 "},
		{"ブラック iPhone ブラック", "ブラック", " iPhone "},
		{"iPhone 15", "ブルー", "iPhone 15"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, replaceFold(tt.s, tt.sub))
	}
}
