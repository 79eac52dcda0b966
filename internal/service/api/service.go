// Package api 수집 결과 조회와 실행 요청을 위한 HTTP API 서비스를 제공합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/darkkaiser/phone-price-server/internal/config"
	"github.com/darkkaiser/phone-price-server/internal/pkg/version"
	"github.com/darkkaiser/phone-price-server/internal/service/api/constants"
	"github.com/darkkaiser/phone-price-server/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/phone-price-server/internal/service/api/v1"
	v1handler "github.com/darkkaiser/phone-price-server/internal/service/api/v1/handler"
	"github.com/darkkaiser/phone-price-server/internal/service/notification"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// Service HTTP API 서버의 생명주기를 관리합니다.
//
// Start 로 시작하면 고루틴에서 서버가 실행되고, context 가 취소되면 Graceful Shutdown 합니다.
// 서버가 예기치 않게 종료되면 알림을 보냅니다.
type Service struct {
	appConfig *config.AppConfig

	priceService v1handler.PriceService

	notificationSender notification.Sender

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, priceService v1handler.PriceService, notificationSender notification.Sender, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic(constants.PanicMsgAppConfigRequired)
	}
	if priceService == nil {
		panic(constants.PanicMsgPriceServiceRequired)
	}
	if notificationSender == nil {
		panic(constants.PanicMsgNotificationSenderRequired)
	}

	return &Service{
		appConfig: appConfig,

		priceService: priceService,

		notificationSender: notificationSender,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다. 서버는 고루틴에서 실행되며 이 함수는 즉시 반환합니다.
// 서비스가 완전히 종료되면 serviceStopWG.Done 을 호출합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.priceService == nil {
		defer serviceStopWG.Done()
		return ErrPriceServiceNotInitialized
	}

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer 핸들러, 미들웨어, 라우트가 모두 구성된 Echo 인스턴스를 만듭니다.
func (s *Service) setupServer() *echo.Echo {
	systemHandler := system.NewHandler(s.priceService, s.buildInfo)
	v1Handler := v1handler.NewHandler(s.priceService)

	e := NewHTTPServer(HTTPServerConfig{
		Debug: s.appConfig.Debug,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, v1Handler, s.appConfig.API.AppKey)

	return e
}

// startHTTPServer 서버가 끝날 때까지 블로킹되며, 끝나면 done 을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": port,
	}).Debug(constants.LogMsgServiceHTTPServerStarting)

	s.handleServerError(e.Start(fmt.Sprintf(":%d", port)))
}

// handleServerError nil 과 http.ErrServerClosed 는 정상 종료입니다. 그 외에는 알림을 보냅니다.
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
		return
	}

	message := constants.LogMsgServiceHTTPServerFatalError
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.appConfig.API.ListenPort,
		"error": err,
	}).Error(message)

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if notifyErr := s.notificationSender.Notify(ctx, notification.Notification{
		Message:       fmt.Sprintf("%s\n\n%s", message, err),
		ErrorOccurred: true,
	}); notifyErr != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": notifyErr,
		}).Warn("API 서비스 > 서버 오류 알림 전송 실패")
	}
}

func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)
	case <-httpServerDone:
		// 포트 바인딩 실패 등으로 이미 종료됨
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)
		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}
