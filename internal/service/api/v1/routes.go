// Package v1 /api/v1 경로 하위의 엔드포인트를 등록합니다.
//
// 주요 엔드포인트:
//   - GET  /api/v1/comparison         - 마지막 비교표
//   - GET  /api/v1/carriers           - 설정된 통신사 목록
//   - GET  /api/v1/carriers/:carrier  - 통신사의 마지막 가격표
//   - POST /api/v1/runs               - 수집 실행 요청 (비동기)
//   - GET  /api/v1/runs/last          - 실행 상태와 마지막 결과
//
// api.app_key 가 설정되어 있으면 모든 엔드포인트에 X-App-Key 헤더가 필요합니다.
package v1

import (
	"github.com/darkkaiser/phone-price-server/internal/service/api/middleware"
	"github.com/darkkaiser/phone-price-server/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 등록합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, appKey string) {
	g := e.Group("/api/v1", middleware.RequireAppKey(appKey))

	g.GET("/comparison", h.ComparisonHandler)
	g.GET("/carriers", h.CarriersHandler)
	g.GET("/carriers/:carrier", h.CarrierOffersHandler)

	g.POST("/runs", h.SubmitRunHandler)
	g.GET("/runs/last", h.RunStatusHandler)
}
