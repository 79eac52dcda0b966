package softbank

const (
	defaultModelInfoURL     = "https://online-shop.mb.softbank.jp/ols/mobile/products/user_json/getModelInfo.json"
	defaultStockURL         = "https://online-shop.mb.softbank.jp/ols/mobile/products/json/stockforSS.json"
	defaultMainPriceURL     = "https://www.softbank.jp/mobile/d/lib-proxy/ols-api/?u=https://online-shop.mb.softbank.jp/ols/mobile/products/json/price.json"
	defaultPriorityPriceURL = "https://www.softbank.jp/mobile/set/common/shared/data/products/price/priority-price.json"
	defaultOLSPriceURL      = "https://www.softbank.jp/mobile/set/common/shared/data/products/price/ols-alternative/price.json"
	defaultReferer          = "https://www.softbank.jp/mobile/products/"
	defaultUserAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// 가격 시나리오 중 MNP(のりかえ) 계약만 사용한다.
	defaultContractType = "7"
)

type settings struct {
	ModelInfoURL     string `json:"model_info_url"`
	StockURL         string `json:"stock_url"`
	MainPriceURL     string `json:"main_price_url"`
	PriorityPriceURL string `json:"priority_price_url"`
	OLSPriceURL      string `json:"ols_price_url"`
	Referer          string `json:"referer"`
	UserAgent        string `json:"user_agent"`
	ContractType     string `json:"contract_type"`
}

func (s *settings) ApplyDefaults() {
	defaults := []struct {
		field *string
		value string
	}{
		{&s.ModelInfoURL, defaultModelInfoURL},
		{&s.StockURL, defaultStockURL},
		{&s.MainPriceURL, defaultMainPriceURL},
		{&s.PriorityPriceURL, defaultPriorityPriceURL},
		{&s.OLSPriceURL, defaultOLSPriceURL},
		{&s.Referer, defaultReferer},
		{&s.UserAgent, defaultUserAgent},
		{&s.ContractType, defaultContractType},
	}
	for _, d := range defaults {
		if *d.field == "" {
			*d.field = d.value
		}
	}
}
