// Package constants API 서비스 전반에서 공유하는 상수를 정의합니다.
package constants

import "time"

// 로그 발생 위치(컴포넌트) 식별을 위한 상수입니다.
const (
	ComponentService                  = "api.service"
	ComponentHandler                  = "api.handler"
	ComponentMiddlewareAuthentication = "api.middleware.auth"
	ComponentMiddlewareRateLimit      = "api.middleware.rate_limit"
	ComponentMiddlewarePanicRecovery  = "api.middleware.panic_recovery"
	ComponentMiddlewareHTTPLogger     = "api.middleware.http_logger"
	ComponentErrorHandler             = "api.error_handler"
)

// HTTP 헤더 및 쿼리 파라미터 키입니다.
const (
	// HeaderAppKey 애플리케이션 인증용 HTTP 헤더 키
	HeaderAppKey = "X-App-Key"

	// QueryParamAppKey 로그 마스킹 대상으로만 사용합니다. 인증은 헤더로만 받습니다.
	QueryParamAppKey = "app_key"

	// QueryParamMode 실행 모드 쿼리 파라미터 (full, compare)
	QueryParamMode = "mode"

	// QueryParamCarrier 실행할 통신사 목록 쿼리 파라미터 (쉼표 구분)
	QueryParamCarrier = "carrier"

	// ParamCarrier 통신사 식별자 경로 파라미터
	ParamCarrier = "carrier"
)

// 서버 설정 기본값입니다.
const (
	// DefaultRequestTimeout HTTP 요청 처리의 기본 타임아웃 시간
	DefaultRequestTimeout = 30 * time.Second

	// DefaultMaxBodySize 요청 본문의 최대 크기
	DefaultMaxBodySize = "16K"

	// DefaultReadHeaderTimeout Slowloris 공격 방어를 위한 헤더 읽기 제한
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultRateLimitPerSecond IP별 초당 허용 요청 수
	DefaultRateLimitPerSecond = 10
	DefaultRateLimitBurst     = 20

	// ShutdownTimeout Graceful Shutdown 시 최대 대기 시간
	ShutdownTimeout = 5 * time.Second
)

// 헬스체크 상태입니다.
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	HealthStatusBusy      = "busy"

	DependencyCollector = "collector"
	DependencySnapshot  = "snapshot"
)

// 클라이언트에게 반환되는 에러 메시지입니다.
const (
	ErrMsgBadRequest         = "잘못된 요청입니다"
	ErrMsgNotFound           = "요청한 리소스를 찾을 수 없습니다"
	ErrMsgTooManyRequests    = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"
	ErrMsgInternalServer     = "내부 서버 오류가 발생했습니다"
	ErrMsgServiceUnavailable = "수집 서비스가 점검 중이거나 종료되었습니다. 관리자에게 문의해 주세요"

	ErrMsgAppKeyRequired = "X-App-Key 헤더는 필수입니다"
	ErrMsgAppKeyInvalid  = "X-App-Key 가 유효하지 않습니다"

	ErrMsgRunInProgress    = "다른 수집 작업이 이미 실행 중입니다. 완료 후 다시 시도해주세요"
	ErrMsgNoComparison     = "아직 생성된 비교표가 없습니다"
	ErrMsgNoCarrierOffers  = "아직 수집된 통신사 가격표가 없습니다 (carrier: %s)"
	ErrMsgCarrierNotFound  = "설정에서 활성화되지 않은 통신사입니다 (carrier: %s)"
	ErrMsgInvalidRunMode   = "지원하지 않는 실행 모드입니다 (mode: %s)"
	ErrMsgSnapshotReadFail = "저장된 표를 읽을 수 없습니다"
)

// 내부 로깅 메시지입니다.
const (
	LogMsgServiceStarting       = "API 서비스 시작중..."
	LogMsgServiceStarted        = "API 서비스 시작됨"
	LogMsgServiceAlreadyStarted = "API 서비스가 이미 시작됨!!!"
	LogMsgServiceStopping       = "API 서비스 중지중..."
	LogMsgServiceStopped        = "API 서비스 중지됨"
	LogMsgServiceUnexpectedExit = "API 서비스가 예기치 않게 종료되었습니다"

	LogMsgServiceHTTPServerStarting      = "API 서비스 > http 서버 시작"
	LogMsgServiceHTTPServerStopped       = "API 서비스 > http 서버 중지됨"
	LogMsgServiceHTTPServerShutdownError = "API 서비스 > http 서버 종료 중 오류 발생"
	LogMsgServiceHTTPServerFatalError    = "API 서비스 > http 서버를 구성하는 중에 치명적인 오류가 발생하였습니다."

	LogMsgHTTP4xxClientError = "HTTP 4xx: 클라이언트 요청 오류"
	LogMsgHTTP5xxServerError = "HTTP 5xx: 서버 내부 오류 발생"
)

// 시작 시 의존성이 누락되었을 때의 패닉 메시지입니다.
const (
	PanicMsgAppConfigRequired          = "AppConfig는 필수입니다"
	PanicMsgPriceServiceRequired       = "PriceService는 필수입니다"
	PanicMsgNotificationSenderRequired = "notification.Sender는 필수입니다"
)

// SensitiveQueryParams 로그 기록 시 마스킹 처리해야 할 쿼리 파라미터 목록입니다.
var SensitiveQueryParams = []string{
	QueryParamAppKey,
	"api_key",
	"password",
	"token",
	"secret",
}
