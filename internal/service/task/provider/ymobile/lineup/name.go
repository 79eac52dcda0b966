package lineup

import (
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
)

var (
	usedSuffixRegexp = regexp.MustCompile(`(?i)_used`)
	iphoneWordRegexp = regexp.MustCompile(`(?i)\biphone\b`)
	seWordRegexp     = regexp.MustCompile(`(?i)\bse\b`)
	alnumOnlyRegexp  = regexp.MustCompile(`(?i)^[a-z0-9]+$`)
)

// NameFromOrderID model_name 이 비어 있을 때 order_id 로 기종명을 만듭니다.
//
//	"iphone12_mini_used" -> "iPhone12 Mini"
func NameFromOrderID(orderID string) string {
	s := usedSuffixRegexp.ReplaceAllString(orderID, "")
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)

	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return normalize.CleanModel(strings.ReplaceAll(strings.Join(words, " "), "Iphone", "iPhone"))
}

// RepairName 기종명이 비어 있거나 스네이크 표기, 영숫자만으로 된 코드이면 표시용 이름으로 고칩니다.
//
//	"iphone_se_3_used" -> "iPhone SE 3"
func RepairName(modelName, orderID string) string {
	if modelName != "" && !strings.Contains(modelName, "_") && !alnumOnlyRegexp.MatchString(modelName) {
		return modelName
	}

	s := modelName
	if s == "" {
		s = orderID
	}
	s = usedSuffixRegexp.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "_", " ")
	s = iphoneWordRegexp.ReplaceAllString(s, "iPhone")
	s = seWordRegexp.ReplaceAllString(s, "SE")

	return normalize.CleanModel(s)
}
