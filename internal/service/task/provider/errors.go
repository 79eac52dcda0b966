package provider

import (
	"fmt"
	"strings"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// ErrIDEmpty 어댑터 식별자가 비어 있을 때 반환됩니다.
var ErrIDEmpty = apperrors.New(apperrors.InvalidInput, "통신사 식별자가 비어 있습니다")

func newErrInvalidID(id ID) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("유효하지 않은 통신사 식별자입니다: %q (소문자, 숫자, 하이픈만 사용할 수 있습니다)", id))
}

// ErrConfigNil 등록하려는 설정이 nil 일 때 반환됩니다.
var ErrConfigNil = apperrors.New(apperrors.Internal, "어댑터 설정이 nil입니다")

// ErrNewAdapterNil 어댑터 팩토리가 지정되지 않았을 때 반환됩니다.
var ErrNewAdapterNil = apperrors.New(apperrors.Internal, "어댑터 생성 함수(NewAdapter)가 지정되지 않았습니다")

// ErrNameEmpty 통신사 표시 이름이 비어 있을 때 반환됩니다.
var ErrNameEmpty = apperrors.New(apperrors.Internal, "통신사 표시 이름(Name)이 비어 있습니다")

// ErrDuplicateID 이미 등록된 식별자로 다시 등록하려 할 때 반환됩니다.
var ErrDuplicateID = apperrors.New(apperrors.Conflict, "이미 등록된 통신사 식별자입니다")

func newErrDuplicateID(id ID) error {
	return apperrors.Wrapf(ErrDuplicateID, apperrors.Conflict, "이미 등록된 통신사 식별자입니다: %s", id)
}

// ErrNotSupported 등록되지 않은 통신사를 요청했을 때 반환됩니다.
var ErrNotSupported = apperrors.New(apperrors.NotFound, "지원하지 않는 통신사입니다")

// NewErrNotSupported 요청한 식별자와 지원 가능한 목록을 포함한 에러를 생성합니다.
func NewErrNotSupported(id ID, supported []ID) error {
	message := fmt.Sprintf("지원하지 않는 통신사입니다: %s", id)
	if len(supported) > 0 {
		ids := make([]string, len(supported))
		for i, s := range supported {
			ids[i] = string(s)
		}
		message = fmt.Sprintf("%s (사용 가능한 통신사: %s)", message, strings.Join(ids, ", "))
	}
	return apperrors.Wrap(ErrNotSupported, apperrors.NotFound, message)
}

// newErrInvalidSettings 어댑터 설정 디코딩 또는 검증 실패 에러를 생성합니다.
func newErrInvalidSettings(err error) error {
	return apperrors.Wrap(err, apperrors.InvalidInput, "통신사 설정이 올바르지 않습니다")
}
