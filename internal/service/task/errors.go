package task

import (
	"fmt"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
)

var (
	// ErrServiceNotRunning Start 전이거나 종료된 서비스에 실행을 요청했을 때 반환됩니다.
	ErrServiceNotRunning = apperrors.New(apperrors.Unavailable, "수집 서비스가 실행 중이지 않아 요청을 수행할 수 없습니다")

	// ErrNoCarriers 실행할 통신사가 하나도 없을 때 반환됩니다.
	ErrNoCarriers = apperrors.New(apperrors.InvalidInput, "실행할 통신사가 없습니다")
)

func newErrCarrierNotConfigured(id provider.ID) error {
	return apperrors.New(apperrors.NotFound, fmt.Sprintf("설정에서 활성화되지 않은 통신사입니다: %s", id))
}

func newErrAdapterInit(err error, id provider.ID) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "통신사 어댑터를 만들 수 없습니다 (%s)", id)
}

func newErrAdapterPanic(v any) error {
	return apperrors.New(apperrors.Internal, fmt.Sprintf("수집 중 예기치 않은 내부 오류가 발생하였습니다 (상세: %v)", v))
}

func newErrRunPanic(v any) error {
	return apperrors.New(apperrors.Internal, fmt.Sprintf("실행 중 예기치 않은 내부 오류가 발생하였습니다 (상세: %v)", v))
}

func newErrSinkWrite(err error, table string) error {
	return apperrors.Wrapf(err, apperrors.ExecutionFailed, "표 저장에 실패했습니다 (%s)", table)
}
