// Package provider 통신사별 가격 수집 어댑터의 공통 계약과 등록소를 제공합니다.
//
// 각 통신사 패키지는 init() 에서 MustRegister 로 자신을 등록하며,
// 오케스트레이터는 설정된 순서대로 어댑터를 생성하여 하나씩 실행합니다.
package provider

import (
	"context"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
)

const component = "task.provider"

// Adapter 하나의 통신사에서 단말 가격을 수집합니다.
//
// 에러는 인증이나 최상위 카탈로그 조회처럼 더 진행할 수 없는 실패에만 반환합니다.
// 중간 단계의 실패는 로그로 남기고 건너뛰며, 일부만 수집된 목록은 nil 에러와 함께 반환합니다.
type Adapter interface {
	Fetch(ctx context.Context) ([]offer.DeviceOffer, error)
}

// AdapterFunc 함수를 Adapter 로 사용합니다.
type AdapterFunc func(ctx context.Context) ([]offer.DeviceOffer, error)

func (f AdapterFunc) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	return f(ctx)
}

// NewAdapterParams 어댑터 생성에 필요한 의존성입니다.
type NewAdapterParams struct {
	ID      ID
	Scraper scraper.Scraper

	// Compare 통신사 내 중복 제거에 사용할 비교 가격입니다.
	// 등록 시의 기본값(Config.DefaultCompareBy)을 설정 파일의 compare_by 가 덮어씁니다.
	Compare aggregate.Selector

	// Settings 설정 파일 carriers[].settings 의 원본 값입니다. DecodeSettings 로 해석합니다.
	Settings map[string]any
}

// NewAdapterFunc 어댑터 팩토리입니다.
type NewAdapterFunc func(p NewAdapterParams) (Adapter, error)
