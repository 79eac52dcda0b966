package scraper

import (
	"fmt"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

// ErrMarkerNotFound 페이지 안에서 데이터를 감싸는 표식(문자열, 스크립트 태그 등)을 찾지 못했을 때 반환하는 에러입니다.
// 사이트 구조가 바뀐 경우에 해당하며, 호출 측은 빈 결과로 처리합니다.
var ErrMarkerNotFound = apperrors.New(apperrors.ParsingFailed, "내장 데이터 추출 실패: 페이지에서 데이터 표식을 찾을 수 없습니다")

// ErrDecodeTargetNil JSON 디코딩 결과를 저장할 변수로 nil 이 전달되었을 때 반환하는 에러입니다.
var ErrDecodeTargetNil = apperrors.New(apperrors.Internal, "JSON 디코딩 실패: 결과를 저장할 변수(v)가 nil입니다")

func newErrEncodeJSONBody(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "데이터 변환 실패: 요청 본문을 JSON 형식으로 인코딩할 수 없습니다")
}

func newErrReadRequestBody(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "요청 본문 처리 실패: 데이터 스트림을 읽는 중 입출력 오류가 발생했습니다")
}

func newErrCreateHTTPRequest(url string, err error) error {
	return apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("HTTP 요청 생성 실패: 요청을 초기화하는 도중 오류가 발생했습니다 (대상 URL: %s)", url))
}

func newErrHTTPRequestCanceled(url string, err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("요청 중단: 작업 시간이 초과되었거나 취소되었습니다 (대상 URL: %s)", url))
}

func newErrNetworkError(url string, err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("네트워크 오류: 페이지(%s)에 접속할 수 없습니다", url))
}

func newErrReadResponseBody(err error) error {
	return apperrors.Wrap(err, apperrors.ExecutionFailed, "응답 본문 데이터 수신 실패: 데이터 스트림을 읽는 중 I/O 오류가 발생했습니다")
}

func newErrResponseBodyTooLarge(limit int64, url string) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("응답 본문의 크기가 허용된 제한(%d 바이트)을 초과했습니다 (대상 URL: %s)", limit, url))
}

func newErrJSONParsingFailed(url string, err error) error {
	return apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("JSON 파싱 실패: 불러온 데이터(%s)를 해석할 수 없습니다", url))
}

func newErrUnexpectedHTMLResponse(url, contentType string) error {
	return apperrors.New(apperrors.ParsingFailed, fmt.Sprintf("유효하지 않은 응답 형식: JSON을 기대했으나 HTML 응답이 수신되었습니다 (대상 URL: %s, Content-Type: %s)", url, contentType))
}

func newErrHTMLParseFailed(url string, err error) error {
	return apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("HTML 파싱 실패: 불러온 페이지(%s)를 처리하는 도중 오류가 발생하였습니다", url))
}

func newErrJSDecodeFailed(err error) error {
	return apperrors.Wrap(err, apperrors.ParsingFailed, "스크립트 데이터 해석 실패: 객체 리터럴을 JSON5 로 디코딩할 수 없습니다")
}
