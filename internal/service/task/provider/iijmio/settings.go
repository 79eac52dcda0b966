package iijmio

const (
	defaultListURL   = "https://www.iijmio.jp/call/api?serviceType=common&apiName=terminal&action=list&range=all"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type settings struct {
	ListURL   string `json:"list_url"`
	UserAgent string `json:"user_agent"`
}

func (s *settings) ApplyDefaults() {
	if s.ListURL == "" {
		s.ListURL = defaultListURL
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
}
