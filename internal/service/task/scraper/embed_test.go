package scraper_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBetween(t *testing.T) {
	page := "<script>let _productsTxt = `[{\"name\":\"a\"}]`;</script>"

	got, err := scraper.ExtractBetween(page, "let _productsTxt = `", "`;")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"a"}]`, got)

	_, err = scraper.ExtractBetween(page, "let _missing = `", "`;")
	assert.ErrorIs(t, err, scraper.ErrMarkerNotFound)

	_, err = scraper.ExtractBetween(page, "let _productsTxt = `", "END")
	assert.ErrorIs(t, err, scraper.ErrMarkerNotFound)
}

func TestExtractMatch(t *testing.T) {
	re := regexp.MustCompile(`src="([^"]*util[^"]*\.js)"`)

	got, err := scraper.ExtractMatch(`<script src="/common/js/util.js?v=1"></script>`, re)
	assert.Error(t, err)
	assert.Empty(t, got)

	got, err = scraper.ExtractMatch(`<script src="/common/js/util.js"></script>`, re)
	require.NoError(t, err)
	assert.Equal(t, "/common/js/util.js", got)
}

func TestDecodeJS(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "var 선언과 세미콜론",
			src:  `var products = {items: [{name: 'iPhone 15', price: 100000},]};`,
		},
		{
			name: "앞쪽 블록 주석과 const 선언",
			src:  "/* generated */\nconst products = {\n  // comment\n  items: [{\"name\": \"iPhone 15\", price: 100000}]\n}",
		},
		{
			name: "SSI 오류 문구",
			src:  `{items: [[an error occurred while processing this directive], {name: "iPhone 15", price: 100000}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Items []struct {
					Name  string  `json:"name"`
					Price float64 `json:"price"`
				} `json:"items"`
			}
			require.NoError(t, scraper.DecodeJS(tt.src, &got))
			require.Len(t, got.Items, 1)
			assert.Equal(t, "iPhone 15", got.Items[0].Name)
			assert.Equal(t, 100000.0, got.Items[0].Price)
		})
	}

	var v any
	assert.ErrorIs(t, scraper.DecodeJS("  ;  ", &v), scraper.ErrMarkerNotFound)
	assert.Error(t, scraper.DecodeJS("function() {}", &v))
	assert.True(t, strings.HasPrefix(scraper.CleanJS("let x = [1];"), "["))
}

func TestDecodeJSResult(t *testing.T) {
	r, err := scraper.DecodeJSResult(`var dat = {storage_types: [{name: '128GB', colorMap: [{deviceCode: 'X1'},]}]};`)
	require.NoError(t, err)
	assert.Equal(t, "X1", r.Get("storage_types.0.colorMap.0.deviceCode").String())

	_, err = scraper.DecodeJSResult("   ")
	assert.ErrorIs(t, err, scraper.ErrMarkerNotFound)
}
