package strutil

import (
	"strings"
)

// KeywordMatcher 포함/제외 키워드로 문자열을 필터링합니다.
//
// 포함 키워드는 모두 만족해야 하며(AND), "a|b" 형태는 그 중 하나만 만족하면 됩니다(OR).
// 제외 키워드가 하나라도 포함되면 매칭되지 않습니다. 대소문자는 구분하지 않습니다.
type KeywordMatcher struct {
	includedGroups [][]string
	excluded       []string
}

func NewKeywordMatcher(included, excluded []string) *KeywordMatcher {
	m := &KeywordMatcher{}

	for _, k := range excluded {
		if k = strings.TrimSpace(k); k != "" {
			m.excluded = append(m.excluded, strings.ToLower(k))
		}
	}

	for _, k := range included {
		group := SplitAndTrim(k, "|")
		if len(group) == 0 {
			continue
		}
		for i, v := range group {
			group[i] = strings.ToLower(v)
		}
		m.includedGroups = append(m.includedGroups, group)
	}

	return m
}

// Empty 조건이 하나도 없으면 true 를 반환합니다.
func (m *KeywordMatcher) Empty() bool {
	return len(m.includedGroups) == 0 && len(m.excluded) == 0
}

func (m *KeywordMatcher) Match(s string) bool {
	lower := strings.ToLower(s)

	for _, k := range m.excluded {
		if strings.Contains(lower, k) {
			return false
		}
	}

	for _, group := range m.includedGroups {
		matched := false
		for _, k := range group {
			if strings.Contains(lower, k) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}
