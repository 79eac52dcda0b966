package apple

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// ErrNoBaseParts digital-mat 응답에서 기종 그룹을 하나도 찾지 못했을 때 반환됩니다.
var ErrNoBaseParts = apperrors.New(apperrors.ParsingFailed, "Apple digital-mat 응답에서 기종 그룹을 찾지 못했습니다")

func newErrFetchDigitalMat(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "Apple digital-mat API 조회에 실패했습니다")
}
