package handler

import (
	"fmt"

	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	"github.com/darkkaiser/phone-price-server/internal/service/api/httputil"
)

// NewErrInvalidRunMode 지원하지 않는 실행 모드가 요청되었을 때의 400 에러를 생성합니다.
func NewErrInvalidRunMode(mode string) error {
	return httputil.NewBadRequestError(fmt.Sprintf(constants.ErrMsgInvalidRunMode, mode))
}

// NewErrCarrierNotFound 설정에 없는 통신사를 요청했을 때의 404 에러를 생성합니다.
func NewErrCarrierNotFound(id string) error {
	return httputil.NewNotFoundError(fmt.Sprintf(constants.ErrMsgCarrierNotFound, id))
}

// NewErrNoCarrierOffers 통신사 가격표가 아직 저장되지 않았을 때의 404 에러를 생성합니다.
func NewErrNoCarrierOffers(id string) error {
	return httputil.NewNotFoundError(fmt.Sprintf(constants.ErrMsgNoCarrierOffers, id))
}

// NewErrNoComparison 비교표가 아직 저장되지 않았을 때의 404 에러를 생성합니다.
func NewErrNoComparison() error {
	return httputil.NewNotFoundError(constants.ErrMsgNoComparison)
}

// NewErrRunInProgress 다른 실행이 잠금을 쥐고 있을 때의 409 에러를 생성합니다.
func NewErrRunInProgress() error {
	return httputil.NewConflictError(constants.ErrMsgRunInProgress)
}

// NewErrServiceStopped 수집 서비스가 종료되었거나 시작되지 않았을 때의 503 에러를 생성합니다.
func NewErrServiceStopped() error {
	return httputil.NewServiceUnavailableError(constants.ErrMsgServiceUnavailable)
}
