package docomo

import (
	"errors"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

var (
	// ErrNoIDToken 인증 API 응답에 idToken 또는 쿠키가 없을 때 반환됩니다.
	ErrNoIDToken = apperrors.New(apperrors.Unavailable, "docomo 인증 API 응답에 idToken 또는 쿠키가 없습니다")

	// ErrNoTransactionID 트랜잭션 API 응답에 transactionId 가 없을 때 반환됩니다.
	ErrNoTransactionID = apperrors.New(apperrors.ParsingFailed, "docomo 트랜잭션 API 응답에 transactionId 가 없습니다")

	errNotSuccess = errors.New("status 가 SUCCESS 가 아닙니다")
)

func newErrUnexpectedStatus(url string, statusCode int) error {
	return apperrors.Newf(apperrors.Unavailable, "docomo 응답 상태 코드가 올바르지 않습니다 (URL: %s, 상태 코드: %d)", url, statusCode)
}

func newErrAuthenticate(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "docomo 익명 인증에 실패했습니다")
}

func newErrListing(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "docomo 가격/재고 목록의 첫 페이지 조회에 실패했습니다")
}
