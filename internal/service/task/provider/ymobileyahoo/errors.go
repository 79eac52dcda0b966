package ymobileyahoo

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

func newErrFetchLineup(url string, err error) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "Y!mobile 라인업 JSON 조회에 실패했습니다 (URL: %s)", url)
}

func newErrFetchStock(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "Y!mobile 재고 API 조회에 실패했습니다")
}
