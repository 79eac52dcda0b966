// Package normalize 통신사마다 제각각인 용량, 가격, 상태 표기를 공통 형식으로 맞추는 함수를 제공합니다.
package normalize

import (
	"strings"

	"github.com/darkkaiser/phone-price-server/pkg/strutil"
	"golang.org/x/text/width"
)

var fullWidthParens = strings.NewReplacer("(", "（", ")", "）")

// HalfWidth 전각 영숫자, 기호, 공백을 반각으로 변환합니다.
func HalfWidth(s string) string {
	return width.Fold.String(s)
}

// FullWidthParens 반각 괄호를 전각 괄호로 바꿉니다.
func FullWidthParens(s string) string {
	return fullWidthParens.Replace(s)
}

// CleanModel 기종명 앞뒤 및 연속 공백을 정리합니다.
func CleanModel(s string) string {
	return strutil.NormalizeSpaces(s)
}
