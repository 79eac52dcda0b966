package softbank

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

func newErrFetchModelInfo(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "SoftBank 제품 정보 API 조회에 실패했습니다")
}
