package iijmio

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

func newErrFetchTerminalList(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "IIJmio 단말 목록 API 조회에 실패했습니다")
}
