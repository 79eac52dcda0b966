package au

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// ErrNoProductCodes 세 개의 단말 목록 어디에서도 상품 코드를 찾지 못했을 때 반환됩니다.
var ErrNoProductCodes = apperrors.New(apperrors.Unavailable, "au 단말 목록에서 상품 코드(olsProductCode)를 하나도 추출하지 못했습니다")

func newErrUnexpectedStatus(url string, statusCode int) error {
	return apperrors.Newf(apperrors.Unavailable, "au 응답 상태 코드가 올바르지 않습니다 (URL: %s, 상태 코드: %d)", url, statusCode)
}

func newErrUnexpectedShape(url string) error {
	return apperrors.Newf(apperrors.ParsingFailed, "au 응답이 배열 형식이 아닙니다 (URL: %s)", url)
}
