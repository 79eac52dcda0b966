// Package response API 공통 응답 모델을 정의합니다.
package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 400, 401, 500)
	ResultCode int `json:"result_code"`

	// Message 에러 메시지
	Message string `json:"message"`
}

// SuccessResponse API 성공 응답
type SuccessResponse struct {
	// ResultCode 처리 결과 코드 (0: 성공)
	ResultCode int    `json:"result_code"`
	Message    string `json:"message,omitempty"`
}
