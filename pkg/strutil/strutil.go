// Package strutil 문자열 가공에 필요한 유틸리티 함수를 제공합니다.
package strutil

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var htmlTagRegexp = regexp.MustCompile(`</?([a-zA-Z]+)[^>]*>`)

// NormalizeSpaces 앞뒤 공백을 제거하고 연속된 공백을 하나로 줄입니다.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// FormatCommas 정수를 세 자리마다 콤마로 구분한 문자열로 변환합니다.
func FormatCommas[T Integer](num T) string {
	var str string
	if num < 0 {
		str = strconv.FormatInt(int64(num), 10)
	} else {
		str = strconv.FormatUint(uint64(num), 10)
	}

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}
	if len(str) <= 3 {
		return sign + str
	}

	var b strings.Builder
	b.Grow(len(sign) + len(str) + (len(str)-1)/3)
	b.WriteString(sign)

	first := len(str) % 3
	if first == 0 {
		first = 3
	}
	b.WriteString(str[:first])
	for i := first; i < len(str); i += 3 {
		b.WriteByte(',')
		b.WriteString(str[i : i+3])
	}

	return b.String()
}

// SplitAndTrim 구분자로 나눈 뒤 공백을 제거하고 빈 토큰은 버립니다.
func SplitAndTrim(s, sep string) []string {
	var result []string
	for _, token := range strings.Split(s, sep) {
		if token = strings.TrimSpace(token); token != "" {
			result = append(result, token)
		}
	}
	return result
}

// StripHTMLTags HTML 태그를 제거하고 엔티티를 디코딩합니다.
func StripHTMLTags(s string) string {
	return html.UnescapeString(htmlTagRegexp.ReplaceAllString(s, ""))
}

// Truncate 문자열을 최대 limit 개의 문자(rune)로 자르고, 잘린 경우 "..." 을 붙입니다.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
