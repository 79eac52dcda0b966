package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/fetcher"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aquosChunkFixture = `(self.webpackChunk=self.webpackChunk||[]).push([[123],{4567:function(e,t,n){` +
	`var r={prices:{"128GB":{lumpSum:62800,division48:1308}},firstTimeApplyPoint:12000,` +
	`link:"/campaign/replacement-program/"};}}]);`

const aquosPageFixture = `<html><head>
<script src="/_next/static/chunks/pages/product/aquos-sense8-0a1b2c.js" defer=""></script>
</head><body>
<p>値引き後価格 <span>99,999</span>円</p>
</body></html>`

const iphonePageFixture = `<html><body>
<p>実質負担額 <span>70,000</span>円</p>
</body></html>`

const certifiedFixture = `<html><body>
<div class="i-Product-card" id="iphone13mini">
  <h4 class="i-Product-card_Title">【美品】
     iPhone 13 mini
  </h4>
  <dl class="i-Product-card_Price-normal is-active">
    <dt>128GB</dt>
    <dd><span>55,800</span>円<span>→ 49,800</span>円</dd>
    <dt>256GB</dt>
    <dd><span>69,800</span>円</dd>
  </dl>
  <div class="i-Product-card_Price-coupon"><span>45,000</span>円</div>
</div>
<div class="i-Product-card" id="iphone13mini-good">
  <h4 class="i-Product-card_Title">【良品】iPhone 13 mini</h4>
  <dl class="i-Product-card_Price-normal">
    <dt>128GB</dt>
    <dd><span>44,800</span>円</dd>
  </dl>
  <div class="i-Product-card_Price-coupon"><span>40,000</span>円</div>
</div>
<div class="i-Product-card" id="empty"><p>準備中</p></div>
</body></html>`

// testServer 楽天モバイル API 와 제품 페이지를 흉내 냅니다.
type testServer struct {
	*httptest.Server

	pageHits atomic.Int32
}

func newTestServer(t *testing.T, equipmentsStatus int) *testServer {
	t.Helper()

	ts := &testServer{}
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, v string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(v))
	}
	readValue := func(r *http.Request) string {
		var req valueRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		return req.Value
	}

	mux.HandleFunc("/api/equipment/equipments", func(w http.ResponseWriter, r *http.Request) {
		if equipmentsStatus != http.StatusOK {
			w.WriteHeader(equipmentsStatus)
			return
		}

		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, ts.URL+"/", r.Header.Get("Referer"))

		switch fmt.Sprintf("%s@%d", req.CategoryCodes, req.Offset) {
		case "Smartphones@1":
			writeJSON(w, fmt.Sprintf(`{"total": 2, "equipments": [{"id": "G1", "detailsLink": "%s/product/aquos-sense8/"}]}`, ts.URL))
		case "Smartphones@2":
			writeJSON(w, fmt.Sprintf(`{"total": 2, "equipments": [{"id": "G2", "detailsLink": "%s/product/xperia-10-v/"}]}`, ts.URL))
		case "Apple Smartphones@1":
			writeJSON(w, fmt.Sprintf(`{"total": 1, "equipments": [{"id": "G3", "detailsLink": "%s/product/iphone-15/"}]}`, ts.URL))
		default:
			writeJSON(w, `{"total": 0, "equipments": []}`)
		}
	})
	mux.HandleFunc("/api/equipment/getEquipmentGroup", func(w http.ResponseWriter, r *http.Request) {
		switch readValue(r) {
		case "G1":
			writeJSON(w, `{"equipmentBases": [
			  {"id": "S1", "name": "AQUOS sense8 128GB ブルー", "memorySize": "128GB", "color": {"name": "ブルー"}, "isAvailableInStock": false},
			  {"id": "S2", "name": "AQUOS sense8 128GB ブラック", "memorySize": "128GB", "color": {"name": "ブラック"}, "isAvailableInStock": true}
			]}`)
		case "G2":
			writeJSON(w, `{"equipmentBases": [
			  {"id": "S3", "name": "Xperia 10 V 128GB ホワイト", "memorySize": "128GB", "color": {"name": "ホワイト"}, "isAvailableInStock": true}
			]}`)
		case "G3":
			writeJSON(w, `{"equipmentBases": [
			  {"id": "S4", "name": "iPhone 15 256GB ピンク", "memorySize": "256GB", "color": {"name": "ピンク"}, "isAvailableInStock": false},
			  {"id": "S1", "name": "AQUOS sense8 128GB ブルー", "memorySize": "128GB", "color": {"name": "ブルー"}, "isAvailableInStock": false}
			]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/api/equipment/getEquipmentDetails", func(w http.ResponseWriter, r *http.Request) {
		switch readValue(r) {
		case "S1":
			writeJSON(w, `{"smartphoneFreeDetails": {"amountWithTax": 62800}, "smfInstallments": {"smfFirstPartInstallment": 1308}}`)
		case "S2":
			writeJSON(w, `{"smartphoneFreeDetails": {"amountWithTax": 59800}, "smfInstallments": {"smfFirstPartInstallment": 1308}}`)
		case "S4":
			writeJSON(w, `{"smartphoneFreeDetails": {"amountWithTax": "131,800.5"}, "smfInstallments": {"smfFirstPartInstallment": "2,746"}}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/product/", func(w http.ResponseWriter, r *http.Request) {
		ts.pageHits.Add(1)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/product/aquos-sense8/":
			_, _ = w.Write([]byte(aquosPageFixture))
		case "/product/iphone-15/":
			_, _ = w.Write([]byte(iphonePageFixture))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/_next/static/chunks/pages/product/aquos-sense8-0a1b2c.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(aquosChunkFixture))
	})
	mux.HandleFunc("/certified/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(certifiedFixture))
	})

	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestAdapter(t *testing.T, serverURL string, extra map[string]any, compare aggregate.Selector) provider.Adapter {
	t.Helper()

	s := map[string]any{
		"origin":         serverURL,
		"equipments_url": serverURL + "/api/equipment/equipments",
		"group_url":      serverURL + "/api/equipment/getEquipmentGroup",
		"details_url":    serverURL + "/api/equipment/getEquipmentDetails",
		"chunk_base_url": serverURL,
		"certified_url":  serverURL + "/certified/",
		"categories":     "Smartphones,Apple Smartphones",
		"page_limit":     1,
		"interval":       "1ms",
	}
	for k, v := range extra {
		s[k] = v
	}

	a, err := newAdapter(provider.NewAdapterParams{
		ID:       ID,
		Scraper:  scraper.New(fetcher.NewHTTPFetcher(5 * time.Second)),
		Compare:  compare,
		Settings: s,
	})
	require.NoError(t, err)
	return a
}

func TestAdapter_Fetch(t *testing.T) {
	server := newTestServer(t, http.StatusOK)

	offers, err := newTestAdapter(t, server.URL, nil, nil).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []offer.DeviceOffer{
		// 청크 JS 의 용량별 가격이 HTML 의 값보다 우선한다.
		// 할인가가 같은 색상 두 개는 먼저 나온 ブルー 가 남고, 재고는 둘 중 하나라도 있으면 있음이다.
		{Model: "AQUOS sense8", Capacity: "128GB", Condition: offer.New, Stock: offer.InStock, Full: offer.Yen(62800), Discount: offer.Yen(50800), Return: offer.Yen(31392), Carrier: Name},
		{Model: "Xperia 10 V", Capacity: "128GB", Condition: offer.New, Stock: offer.InStock, Carrier: Name},
		// iPhone 은 상세 API 의 반환 가격을 유지한다.
		{Model: "iPhone 15", Capacity: "256GB", Condition: offer.New, Stock: offer.OutOfStock, Full: offer.Yen(131800), Return: offer.Yen(65904), Carrier: Name},
		// 美品 과 良品 이 같은 키이므로 할인가가 낮은 良品 이 남는다.
		{Model: "iPhone 13 mini", Capacity: "128GB", Condition: offer.Used, Stock: offer.InStock, Full: offer.Yen(44800), Discount: offer.Yen(40000), Carrier: Name},
		{Model: "iPhone 13 mini", Capacity: "256GB", Condition: offer.Used, Stock: offer.InStock, Full: offer.Yen(69800), Discount: offer.Yen(45000), Carrier: Name},
	}, offers)

	assert.EqualValues(t, 3, server.pageHits.Load())
}

func TestAdapter_Fetch_PageBudget(t *testing.T) {
	server := newTestServer(t, http.StatusOK)

	offers, err := newTestAdapter(t, server.URL, map[string]any{"page_budget": 1}, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 5)

	assert.EqualValues(t, 1, server.pageHits.Load())
	assert.Equal(t, offer.Yen(50800), offers[0].Discount)
	assert.Equal(t, offer.Yen(65904), offers[2].Return)
}

func TestAdapter_Fetch_CompareBy(t *testing.T) {
	tests := []struct {
		name         string
		compare      aggregate.Selector
		wantFull     offer.Price
		wantDiscount offer.Price
	}{
		// 할인가는 용량 단위로 같으므로 먼저 나온 ブルー 가 남는다.
		{"할인가 기준", aggregate.ByDiscount, offer.Yen(62800), offer.Yen(50800)},
		{"기기 가격 기준", aggregate.ByFull, offer.Yen(59800), offer.Yen(50800)},
		{"반환가 기준", aggregate.ByReturnOrDiscount, offer.Yen(62800), offer.Yen(50800)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, http.StatusOK)

			offers, err := newTestAdapter(t, server.URL, nil, tt.compare).Fetch(context.Background())
			require.NoError(t, err)
			require.NotEmpty(t, offers)

			assert.Equal(t, "AQUOS sense8", offers[0].Model)
			assert.Equal(t, tt.wantFull, offers[0].Full)
			assert.Equal(t, tt.wantDiscount, offers[0].Discount)
			assert.Equal(t, offer.InStock, offers[0].Stock)
		})
	}
}

func TestAdapter_Fetch_NoEquipments(t *testing.T) {
	server := newTestServer(t, http.StatusServiceUnavailable)

	offers, err := newTestAdapter(t, server.URL, nil, nil).Fetch(context.Background())
	assert.Nil(t, offers)
	assert.ErrorIs(t, err, ErrNoEquipments)
}

func TestParseChunkPrices(t *testing.T) {
	tests := []struct {
		name          string
		js            string
		capacity      string
		returnProgram bool
		want          chunkPrices
	}{
		{
			name:     "용량별 블록",
			js:       aquosChunkFixture,
			capacity: "128GB",
			want: chunkPrices{
				firstTimePoint: decimal.NewFromInt(12000),
				price:          decimal.NewFromInt(62800),
				division48:     decimal.NewFromInt(1308),
				capacityFound:  true,
				returnProgram:  true,
			},
		},
		{
			name:     "용량이 들어간 객체",
			js:       `var s=[{storage:"256GB",price:74800,division48:1558},{storage:"512GB",price:89800}];`,
			capacity: "256GB",
			want: chunkPrices{
				price:         decimal.NewFromInt(74800),
				division48:    decimal.NewFromInt(1558),
				capacityFound: true,
			},
		},
		{
			name:     "division48Before 변수",
			js:       `var a={division48Before256gb:2080,priceOf256gb:99840};`,
			capacity: "256GB",
			want: chunkPrices{
				price:         decimal.NewFromInt(99840),
				division48:    decimal.NewFromInt(2080),
				capacityFound: true,
				returnProgram: true,
			},
		},
		{
			name:     "용량 정보가 없으면 단순 구조",
			js:       `var p={name:"x",price:34800,division48:725,firstTimeApplyPoint:5000};`,
			capacity: "64GB",
			want: chunkPrices{
				firstTimePoint: decimal.NewFromInt(5000),
				price:          decimal.NewFromInt(34800),
				division48:     decimal.NewFromInt(725),
			},
		},
		{
			name:          "JSX 월액",
			js:            `(0,r.jsx)("span",{children:"2,746"}),"円/月"`,
			capacity:      "",
			returnProgram: true,
			want: chunkPrices{
				division48:    decimal.NewFromInt(2746),
				returnProgram: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseChunkPrices(tt.js, tt.capacity, tt.returnProgram)

			assert.True(t, tt.want.firstTimePoint.Equal(got.firstTimePoint), "firstTimePoint: %s", got.firstTimePoint)
			assert.True(t, tt.want.price.Equal(got.price), "price: %s", got.price)
			assert.True(t, tt.want.division48.Equal(got.division48), "division48: %s", got.division48)
			assert.Equal(t, tt.want.capacityFound, got.capacityFound)
			assert.Equal(t, tt.want.returnProgram, got.returnProgram)
		})
	}
}

func TestParseHTMLPrices(t *testing.T) {
	t.Run("라벨", func(t *testing.T) {
		got := parseHTMLPrices(`<p>値引き後価格</p><p><span>39,800</span>円</p><p>実質負担額 <span>19,920</span>円</p>`)
		assert.Equal(t, offer.Yen(39800), got.discounted)
		assert.Equal(t, offer.Yen(19920), got.ret)
		assert.False(t, got.returnProgram)
	})

	t.Run("대체 라벨", func(t *testing.T) {
		got := parseHTMLPrices(`<p>支払い総額 49,800円</p><p>48回払い <span>1,037</span>円/月</p>`)
		assert.Equal(t, offer.Yen(49800), got.discounted)
		assert.Equal(t, offer.Yen(24888), got.ret)
		assert.True(t, got.returnProgram)
	})

	t.Run("라벨 없음", func(t *testing.T) {
		got := parseHTMLPrices(`<p>準備中</p>`)
		assert.True(t, got.discounted.IsNull())
		assert.True(t, got.ret.IsNull())
	})
}

func TestCombinePrices(t *testing.T) {
	html := htmlPrices{discounted: offer.Yen(40000), ret: offer.Yen(20000)}

	t.Run("청크 없음", func(t *testing.T) {
		got := combinePrices(html, nil)
		assert.Equal(t, offer.Yen(40000), got.discounted)
		assert.Equal(t, offer.Yen(20000), got.ret)
	})

	t.Run("용량별 값이 있으면 HTML 을 사용하지 않는다", func(t *testing.T) {
		got := combinePrices(html, &chunkPrices{price: decimal.NewFromInt(50000), capacityFound: true})
		assert.True(t, got.discounted.IsNull())
		assert.True(t, got.ret.IsNull())
	})

	t.Run("할인액이 가격보다 크면 HTML 의 값", func(t *testing.T) {
		got := combinePrices(html, &chunkPrices{price: decimal.NewFromInt(5000), firstTimePoint: decimal.NewFromInt(6000)})
		assert.Equal(t, offer.Yen(40000), got.discounted)
	})
}

func TestCleanSKUName(t *testing.T) {
	assert.Equal(t, "AQUOS sense8", cleanSKUName("AQUOS sense8 128GB ブルー", "128GB", "ブルー"))
	assert.Equal(t, "Galaxy Z Flip6", cleanSKUName("Galaxy Z Flip6  256GB  シルバーシャドウ", "256GB", "シルバーシャドウ"))
	assert.Equal(t, "Rakuten Hand 5G", cleanSKUName("Rakuten Hand 5G", "", ""))
}

func TestParseCertified(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(certifiedFixture))
	require.NoError(t, err)

	offers := parseCertified(doc)
	require.Len(t, offers, 3)
	assert.Equal(t, "iPhone 13 mini", offers[0].Model)
	assert.Equal(t, offer.Yen(49800), offers[0].Full)
	assert.Equal(t, offer.Yen(69800), offers[1].Full)
	assert.True(t, offers[1].Return.IsNull())
	assert.Equal(t, "iPhone 13 mini", offers[2].Model)
	assert.Equal(t, offer.Yen(40000), offers[2].Discount)
}
