package scheduler

import (
	"fmt"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

var (
	// ErrSubmitterNotInitialized 서비스 시작 시 핵심 의존성 객체인 Submitter가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
	ErrSubmitterNotInitialized = apperrors.New(apperrors.Internal, "Submitter 객체가 초기화되지 않았습니다")

	// ErrNotificationSenderNotInitialized 서비스 시작 시 핵심 의존성 객체인 notification.Sender가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
	ErrNotificationSenderNotInitialized = apperrors.New(apperrors.Internal, "notification.Sender 객체가 초기화되지 않았습니다")
)

// newErrInvalidCronSpec Cron 표현식이 올바르지 않아 스케줄 등록에 실패했을 때 반환하는 에러를 생성합니다.
func newErrInvalidCronSpec(spec string, cause error) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("스케줄 등록 실패: 잘못된 Cron 표현식입니다 (Spec='%s'): %v", spec, cause))
}
