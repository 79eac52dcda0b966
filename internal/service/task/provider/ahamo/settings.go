package ahamo

const (
	defaultNewDeviceURL  = "https://ahamo.com/price_info/mobilephone.json"
	defaultUsedDeviceURL = "https://ahamo.com/price_info/used_devices.json"
	defaultStockURL      = "https://ahamo.com/api/cil/tra/ptscf/v3.2/olstermlistget"
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// defaultOrderDiv 재고 API 의 주문 구분입니다. "03" 은 MNP 입니다.
	defaultOrderDiv = "03"
)

type settings struct {
	NewDeviceURL  string `json:"new_device_url"`
	UsedDeviceURL string `json:"used_device_url"`
	StockURL      string `json:"stock_url"`
	OrderDiv      string `json:"order_div"`
	UserAgent     string `json:"user_agent"`
}

func (s *settings) ApplyDefaults() {
	if s.NewDeviceURL == "" {
		s.NewDeviceURL = defaultNewDeviceURL
	}
	if s.UsedDeviceURL == "" {
		s.UsedDeviceURL = defaultUsedDeviceURL
	}
	if s.StockURL == "" {
		s.StockURL = defaultStockURL
	}
	if s.OrderDiv == "" {
		s.OrderDiv = defaultOrderDiv
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
}
