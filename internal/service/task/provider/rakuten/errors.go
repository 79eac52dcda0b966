package rakuten

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// ErrNoEquipments 모든 카테고리에서 단말 검색 API 의 첫 페이지를 가져오지 못했을 때 반환됩니다.
var ErrNoEquipments = apperrors.New(apperrors.Unavailable, "楽天モバイル 단말 검색 API 에서 제품 그룹을 가져오지 못했습니다")
