package provider

import (
	"net/http"
)

// Header "키, 값" 쌍으로 http.Header 를 만듭니다. 짝이 맞지 않는 마지막 키는 무시합니다.
func Header(kv ...string) http.Header {
	h := make(http.Header, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}
