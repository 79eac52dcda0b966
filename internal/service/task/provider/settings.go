package provider

import (
	"github.com/darkkaiser/phone-price-server/pkg/maputil"
)

// Validator 설정 값의 유효성을 스스로 검증합니다.
type Validator interface {
	Validate() error
}

// Defaulter 비어 있는 설정 값에 기본값을 채웁니다.
type Defaulter interface {
	ApplyDefaults()
}

// DecodeSettings carriers[].settings 를 T 로 디코딩합니다.
//
// 알 수 없는 키는 에러로 처리하며, ApplyDefaults 를 먼저 호출한 뒤 Validate 를 호출합니다.
// settings 가 비어 있으면 기본값만 적용된 T 를 반환합니다.
func DecodeSettings[T any](settings map[string]any) (*T, error) {
	out := new(T)
	if err := maputil.DecodeTo(settings, out, maputil.WithErrorUnused(true)); err != nil {
		return nil, newErrInvalidSettings(err)
	}

	if d, ok := any(out).(Defaulter); ok {
		d.ApplyDefaults()
	}
	if v, ok := any(out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, newErrInvalidSettings(err)
		}
	}

	return out, nil
}
