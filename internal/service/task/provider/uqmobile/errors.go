package uqmobile

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// ErrNoPrices 필터 조건(MNP, 増量オプション, 요금제)에 맞는 가격 데이터가 없을 때 반환됩니다.
var ErrNoPrices = apperrors.New(apperrors.ParsingFailed, "조건에 맞는 UQ mobile 가격 데이터를 찾지 못했습니다")

func newErrFetchProductsPage(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "UQ mobile 제품 목록 페이지 조회에 실패했습니다")
}

func newErrExtractProducts(err error) error {
	return apperrors.Wrap(err, apperrors.ParsingFailed, "UQ mobile 제품 목록 페이지에서 제품 데이터를 추출하지 못했습니다")
}
