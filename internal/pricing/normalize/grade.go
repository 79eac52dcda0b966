package normalize

import (
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
)

// Rank 문자열에서 중고 등급(예: "A+", "B")을 찾는 규칙 목록을 만듭니다.
// 각 정규식은 첫 번째 그룹에 등급을 담아야 합니다.
func Rank(patterns ...*regexp.Regexp) Chain[string] {
	chain := make(Chain[string], 0, len(patterns))
	for _, re := range patterns {
		chain = append(chain, Match(re.String(), re, 1))
	}
	return chain
}

// GradeCondition 중고 여부와 등급으로 상태를 결정합니다.
func GradeCondition(used bool, grade string) offer.Condition {
	if !used {
		return offer.New
	}
	return offer.UsedWithGrade(grade)
}

// EnsureUsedPrefix 등급만 있는 값("A+")에 "中古" 를 붙입니다.
func EnsureUsedPrefix(rank string) offer.Condition {
	rank = strings.TrimSpace(rank)
	if rank == "" {
		return offer.Used
	}
	if strings.HasPrefix(rank, string(offer.Used)) {
		return offer.Condition(strings.ReplaceAll(rank, "＋", "+"))
	}
	return offer.UsedWithGrade(rank)
}
