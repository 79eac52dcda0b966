package task

import (
	"fmt"
	"strings"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// Mode 실행 방식입니다.
type Mode string

const (
	// ModeFull 모든 통신사에서 새로 수집한 뒤 비교표를 만듭니다.
	ModeFull Mode = "full"

	// ModeCompare 수집 없이 마지막으로 저장된 통신사별 표로 비교표만 다시 만듭니다.
	ModeCompare Mode = "compare"
)

// ParseMode 문자열을 Mode 로 변환합니다. 빈 문자열은 ModeFull 입니다.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeCompare:
		return ModeCompare, nil
	default:
		return "", apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지원하지 않는 실행 모드입니다: %q (full, compare 중 하나)", s))
	}
}

// Label 실행 로그 시트에 기록되는 실행 내용입니다.
func (m Mode) Label() string {
	if m == ModeCompare {
		return "価格比較表のみ作成"
	}
	return "データ取得および価格比較作成"
}

func (m Mode) String() string {
	return string(m)
}
