// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
package handler

import (
	"errors"
	"net/http"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	"github.com/darkkaiser/phone-price-server/internal/service/api/httputil"
	"github.com/darkkaiser/phone-price-server/internal/service/api/v1/model/response"
	"github.com/darkkaiser/phone-price-server/internal/service/task"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/darkkaiser/phone-price-server/pkg/strutil"
	"github.com/labstack/echo/v4"
)

// PriceService v1 API가 사용하는 수집 서비스의 기능입니다. task.Service 가 구현합니다.
type PriceService interface {
	Carriers() []task.Carrier
	LatestComparison() (*sink.Snapshot, error)
	LatestOffers(id provider.ID) (*sink.Snapshot, error)
	Submit(opts task.RunOptions) error
	Busy() bool
	LastResult() *task.RunResult
}

// Handler v1 API 요청을 처리하고 수집 서비스를 연결하는 핸들러입니다.
type Handler struct {
	service PriceService
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(service PriceService) *Handler {
	if service == nil {
		panic(constants.PanicMsgPriceServiceRequired)
	}

	return &Handler{service: service}
}

// ComparisonHandler 마지막으로 저장된 통신사 간 비교표를 반환합니다.
//
//	GET /api/v1/comparison
func (h *Handler) ComparisonHandler(c echo.Context) error {
	snap, err := h.service.LatestComparison()
	if err != nil {
		if errors.Is(err, sink.ErrSnapshotNotFound) {
			return NewErrNoComparison()
		}
		h.log(c).WithField("error", err).Error("비교표 스냅샷 읽기 실패")
		return httputil.NewInternalServerError(constants.ErrMsgSnapshotReadFail)
	}

	return c.JSON(http.StatusOK, response.NewTableResponse(snap))
}

// CarriersHandler 설정 순서대로 활성화된 통신사 목록을 반환합니다.
//
//	GET /api/v1/carriers
func (h *Handler) CarriersHandler(c echo.Context) error {
	carriers := h.service.Carriers()

	resp := make([]response.CarrierResponse, 0, len(carriers))
	for _, carrier := range carriers {
		resp = append(resp, response.CarrierResponse{
			ID:    carrier.ID.String(),
			Name:  carrier.Name,
			Table: carrier.TableName(),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// CarrierOffersHandler 통신사의 마지막 수집 결과를 반환합니다.
//
//	GET /api/v1/carriers/:carrier
func (h *Handler) CarrierOffersHandler(c echo.Context) error {
	id := c.Param(constants.ParamCarrier)

	snap, err := h.service.LatestOffers(provider.ID(id))
	if err != nil {
		switch {
		case errors.Is(err, sink.ErrSnapshotNotFound):
			return NewErrNoCarrierOffers(id)
		case apperrors.Is(err, apperrors.NotFound):
			return NewErrCarrierNotFound(id)
		}
		h.log(c).WithFields(applog.Fields{"carrier": id, "error": err}).Error("통신사 스냅샷 읽기 실패")
		return httputil.NewInternalServerError(constants.ErrMsgSnapshotReadFail)
	}

	return c.JSON(http.StatusOK, response.NewTableResponse(snap))
}

// SubmitRunHandler 수집 실행을 요청합니다. 실행은 비동기로 진행되며 바로 202 로 응답합니다.
//
//	POST /api/v1/runs?mode=full|compare&carrier=docomo,au
//
// 다른 실행이 진행 중이면 409, 수집 서비스가 멈춰 있으면 503 입니다.
func (h *Handler) SubmitRunHandler(c echo.Context) error {
	modeParam := c.QueryParam(constants.QueryParamMode)

	mode, err := task.ParseMode(modeParam)
	if err != nil {
		return NewErrInvalidRunMode(modeParam)
	}

	var ids []provider.ID
	for _, id := range strutil.SplitAndTrim(c.QueryParam(constants.QueryParamCarrier), ",") {
		ids = append(ids, provider.ID(id))
	}

	if err := h.service.Submit(task.RunOptions{Mode: mode, Carriers: ids}); err != nil {
		switch {
		case apperrors.Is(err, apperrors.Conflict):
			return NewErrRunInProgress()
		case apperrors.Is(err, apperrors.Unavailable):
			return NewErrServiceStopped()
		case apperrors.Is(err, apperrors.NotFound):
			return httputil.NewNotFoundError(err.Error())
		}
		return err
	}

	h.log(c).WithFields(applog.Fields{
		"mode":     mode,
		"carriers": ids,
	}).Info("수집 실행 요청 접수")

	return httputil.Accepted(c, mode.Label())
}

// RunStatusHandler 실행 중 여부와 마지막 실행 결과를 반환합니다.
//
//	GET /api/v1/runs/last
func (h *Handler) RunStatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, response.RunStatusResponse{
		Busy:    h.service.Busy(),
		LastRun: response.NewRunResult(h.service.LastResult()),
	})
}

// log 공통 로깅 필드가 설정된 로거 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *applog.Entry {
	return applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint": c.Path(),
	})
}
