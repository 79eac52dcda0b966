package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "iPhone 15 Pro", NormalizeSpaces("  iPhone   15\tPro \n"))
	assert.Equal(t, "", NormalizeSpaces("   "))
}

func TestFormatCommas(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{159800, "159,800"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCommas(tt.in))
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitAndTrim(" a , ,b ", ","))
	assert.Nil(t, SplitAndTrim(" , ", ","))
}

func TestStripHTMLTags(t *testing.T) {
	assert.Equal(t, "Galaxy S24 Ultra &", StripHTMLTags("Galaxy S24<br /> Ultra &amp;"))
}

func TestKeywordMatcher(t *testing.T) {
	tests := []struct {
		name     string
		included []string
		excluded []string
		input    string
		want     bool
	}{
		{"조건 없음", nil, nil, "iPhone 15", true},
		{"포함 키워드 일치", []string{"iphone"}, nil, "iPhone 15", true},
		{"포함 키워드 불일치", []string{"pixel"}, nil, "iPhone 15", false},
		{"OR 그룹", []string{"pixel|iphone"}, nil, "iPhone 15", true},
		{"AND 조건", []string{"iphone", "pro"}, nil, "iPhone 15", false},
		{"제외 키워드 우선", []string{"iphone"}, []string{"se"}, "iPhone SE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewKeywordMatcher(tt.included, tt.excluded)
			assert.Equal(t, tt.want, m.Match(tt.input))
		})
	}

	assert.True(t, NewKeywordMatcher([]string{" "}, nil).Empty())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "iPhone", Truncate("iPhone", 10))
	assert.Equal(t, "iPh...", Truncate("iPhone", 3))
	assert.Equal(t, "機種...", Truncate("機種名一覧", 2))
	assert.Equal(t, "", Truncate("iPhone", 0))
}
