// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 인증이 필요 없는 시스템 수준의 API를 처리합니다.
package system

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/pkg/version"
	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	"github.com/darkkaiser/phone-price-server/internal/service/api/model/system"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// StatusProvider 헬스체크에 필요한 수집 서비스의 상태입니다. task.Service 가 구현합니다.
type StatusProvider interface {
	Busy() bool
	LatestComparison() (*sink.Snapshot, error)
}

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	status StatusProvider

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(status StatusProvider, buildInfo version.Info) *Handler {
	if status == nil {
		panic(constants.PanicMsgPriceServiceRequired)
	}

	return &Handler{
		status: status,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서버와 수집 서비스의 상태를 반환합니다.
//
// 수집 중(busy)은 정상 상태로 봅니다. 스냅샷을 읽을 수 없으면(없는 경우 제외) unhealthy 입니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	deps := make(map[string]system.DependencyStatus, 2)

	if h.status.Busy() {
		deps[constants.DependencyCollector] = system.DependencyStatus{Status: constants.HealthStatusBusy, Message: "수집 실행 중"}
	} else {
		deps[constants.DependencyCollector] = system.DependencyStatus{Status: constants.HealthStatusHealthy, Message: "대기 중"}
	}

	if _, err := h.status.LatestComparison(); err != nil && !errors.Is(err, sink.ErrSnapshotNotFound) {
		deps[constants.DependencySnapshot] = system.DependencyStatus{Status: constants.HealthStatusUnhealthy, Message: err.Error()}
	} else {
		deps[constants.DependencySnapshot] = system.DependencyStatus{Status: constants.HealthStatusHealthy}
	}

	serverStatus := constants.HealthStatusHealthy
	for _, dep := range deps {
		if dep.Status == constants.HealthStatusUnhealthy {
			serverStatus = constants.HealthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       serverStatus,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		Dependencies: deps,
	})
}

// VersionHandler 빌드 버전 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:   h.buildInfo.Version,
		Commit:    h.buildInfo.Commit,
		BuildDate: h.buildInfo.BuildDate,
		GoVersion: runtime.Version(),
	})
}
