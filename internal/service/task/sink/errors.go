package sink

import (
	"fmt"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

var (
	// ErrPathTraversalDetected 표 이름으로 만든 파일 경로가 저장 디렉토리를 벗어날 때 반환됩니다.
	ErrPathTraversalDetected = apperrors.New(apperrors.Internal, "보안 정책 위반: 허용되지 않은 경로 접근 시도로 인해 요청이 차단되었습니다")

	// ErrSnapshotNotFound 저장된 스냅샷이 없을 때 반환됩니다.
	ErrSnapshotNotFound = apperrors.New(apperrors.NotFound, "저장된 스냅샷이 없습니다")

	// ErrEmptyTableName 표 이름이 비어 있을 때 반환됩니다.
	ErrEmptyTableName = apperrors.New(apperrors.InvalidInput, "표 이름이 비어 있습니다")
)

func newErrDirectoryAccessFailed(err error, dir string) error {
	return apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("저장소 초기화 실패: 디렉토리 접근 불가 (%s)", dir))
}

func newErrPathResolutionFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "보안 검증 실패: 파일 경로를 해석할 수 없습니다")
}

func newErrJSONMarshalFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "스냅샷 직렬화(JSON Marshal) 중 오류가 발생했습니다")
}

func newErrJSONUnmarshalFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "스냅샷 역직렬화(JSON Unmarshal) 중 오류가 발생했습니다")
}

func newErrSnapshotReadFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "스냅샷 파일 읽기 중 오류가 발생했습니다")
}

func newErrAtomicWriteFailed(err error, path string) error {
	return apperrors.Wrapf(err, apperrors.Internal, "파일 저장에 실패했습니다 (%s)", path)
}

func newErrWorkbook(err error, sheet string) error {
	return apperrors.Wrapf(err, apperrors.Internal, "워크북 시트 작성에 실패했습니다 (시트: %s)", sheet)
}
