package normalize

import (
	"regexp"
	"strings"
)

var (
	capacityTokenRegexp = regexp.MustCompile(`(?i)(\d+)\s*(GB|TB)`)
	digitsOnlyRegexp    = regexp.MustCompile(`^\d+$`)
)

// Capacity 용량 표기를 "<정수>GB" 또는 "<정수>TB" 로 맞춥니다.
//
//	"128"    -> "128GB"
//	"256 gb" -> "256GB"
//	"1000"   -> "1TB"
//	"2000GB" -> "2TB"
//
// 이미 정규화된 값은 그대로 반환하며, 빈 값은 빈 문자열입니다.
func Capacity(raw string) string {
	s := strings.ToUpper(strings.Join(strings.Fields(HalfWidth(raw)), ""))
	if s == "" {
		return ""
	}

	switch s {
	case "1000", "1000GB":
		return "1TB"
	case "2000", "2000GB":
		return "2TB"
	}

	if digitsOnlyRegexp.MatchString(s) {
		return s + "GB"
	}

	return s
}

// ExtractCapacity 문자열 안에서 첫 번째 용량 표기를 찾아 정규화합니다. 없으면 빈 문자열입니다.
func ExtractCapacity(text string) string {
	m := capacityTokenRegexp.FindStringSubmatch(HalfWidth(text))
	if m == nil {
		return ""
	}
	return Capacity(m[1] + m[2])
}

// StripCapacity 문자열에서 용량 표기를 제거합니다.
func StripCapacity(text string) string {
	return CleanModel(capacityTokenRegexp.ReplaceAllString(HalfWidth(text), ""))
}
