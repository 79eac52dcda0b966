package fetcher

import (
	"net/url"
	"strings"
)

var sensitiveQueryKeys = []string{"token", "key", "secret", "password", "auth", "session"}

// redactURL 로그에 남기기 전에 인증 정보와 민감한 쿼리 값을 가립니다.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	clone := *u
	if clone.User != nil {
		clone.User = url.User(clone.User.Username())
	}

	if clone.RawQuery != "" {
		query := clone.Query()
		for key := range query {
			lower := strings.ToLower(key)
			for _, s := range sensitiveQueryKeys {
				if strings.Contains(lower, s) {
					query.Set(key, "***")
					break
				}
			}
		}
		clone.RawQuery = query.Encode()
	}

	return clone.String()
}
