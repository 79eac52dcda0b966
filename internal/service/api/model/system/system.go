// Package system 시스템 엔드포인트의 응답 모델을 정의합니다.
package system

// DependencyStatus 외부 의존성 헬스체크 결과
type DependencyStatus struct {
	// 헬스체크 상태: healthy, unhealthy, busy
	Status string `json:"status"`
	// 상태 상세 정보 또는 에러 메시지
	Message string `json:"message,omitempty"`
}

// HealthResponse 서버 헬스체크 응답
type HealthResponse struct {
	// 전체 헬스체크 상태: healthy, unhealthy
	Status string `json:"status"`
	// 서버 가동 시간(초)
	Uptime int64 `json:"uptime"`
	// 외부 의존성별 헬스체크 결과 (키: 의존성 이름)
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// VersionResponse 서버 버전 정보 응답
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}
