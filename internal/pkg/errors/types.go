package errors

// ErrorType 에러의 분류입니다.
type ErrorType int

const (
	Unknown ErrorType = iota

	// Internal 프로그램 내부 로직 오류
	Internal

	// System 파일 시스템, OS 자원 등 실행 환경 오류
	System

	Unauthorized
	Forbidden

	// InvalidInput 설정값 또는 입력 데이터 오류
	InvalidInput

	// Conflict 이미 실행 중인 작업 등 상태 충돌
	Conflict

	NotFound

	// ExecutionFailed 외부 요청 또는 작업 실행 실패
	ExecutionFailed

	// ParsingFailed 응답 데이터의 구조를 해석하지 못함
	ParsingFailed

	Timeout

	// Unavailable 원격 서버가 응답하지 않거나 일시적으로 사용 불가
	Unavailable
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	Unauthorized:    "Unauthorized",
	Forbidden:       "Forbidden",
	InvalidInput:    "InvalidInput",
	Conflict:        "Conflict",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}
