package ahamo

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

func newErrFetchNewDevices(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "ahamo 신품 단말 가격 JSON 조회에 실패했습니다")
}

func newErrFetchStock(usedFlag string, err error) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "ahamo 재고 API 조회에 실패했습니다 (usedFlag=%s)", usedFlag)
}
