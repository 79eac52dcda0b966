// Package scheduler 설정된 Cron 스케줄에 맞춰 수집 실행을 요청합니다.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/config"
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/service/notification"
	"github.com/darkkaiser/phone-price-server/internal/service/task"
	"github.com/darkkaiser/phone-price-server/pkg/cronx"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// notifyTimeout 스케줄 실행 요청 실패를 알릴 때의 최대 대기 시간
const notifyTimeout = 10 * time.Second

// Submitter 수집 실행을 요청하는 인터페이스입니다. task.Service 가 구현합니다.
type Submitter interface {
	Submit(opts task.RunOptions) error
}

// Scheduler 설정 파일의 scheduler.spec 에 맞춰 주기적으로 수집 실행을 요청하는 서비스입니다.
type Scheduler struct {
	config config.SchedulerConfig

	cron *cron.Cron

	submitter Submitter

	notificationSender notification.Sender

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(cfg config.SchedulerConfig, submitter Submitter, notificationSender notification.Sender) *Scheduler {
	if submitter == nil {
		panic("Submitter는 필수입니다")
	}
	if notificationSender == nil {
		panic("notification.Sender는 필수입니다")
	}

	return &Scheduler{
		config: cfg,

		submitter: submitter,

		notificationSender: notificationSender,
	}
}

// Start 스케줄러를 시작하고 수집 실행을 Cron 엔진에 등록합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Scheduler 서비스 초기화 프로세스를 시작합니다")

	if s.submitter == nil {
		serviceStopWG.Done()
		return ErrSubmitterNotInitialized
	}
	if s.notificationSender == nil {
		serviceStopWG.Done()
		return ErrNotificationSenderNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	mode, err := task.ParseMode(s.config.Mode)
	if err != nil {
		serviceStopWG.Done()
		return err
	}

	// 1. Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 스케줄러가 멈추지 않음
	// - SkipIfStillRunning: 이전 요청 처리가 끝나지 않았으면 다음 실행을 건너뜀
	c := cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	// 2. 작업 등록
	if _, err := c.AddFunc(s.config.Spec, func() { s.submit(serviceStopCtx, mode) }); err != nil {
		serviceStopWG.Done()
		return newErrInvalidCronSpec(s.config.Spec, err)
	}

	// 3. 스케줄러 시작
	s.cron = c
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"spec":     s.config.Spec,
		"mode":     mode,
		"next_run": s.cron.Entries()[0].Next,
	}).Info("서비스 시작 완료: Scheduler 서비스가 정상적으로 초기화되었습니다")

	// 4. 종료 신호 대기 (고루틴)
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Scheduler 서비스 중지 시그널을 수신했습니다")

	// Cron 엔진 중지 및 실행 중인 작업 완료 대기
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// submit 수집 실행을 요청합니다. 이전 실행이 아직 진행 중이면 이번 회차는 건너뜁니다.
func (s *Scheduler) submit(serviceStopCtx context.Context, mode task.Mode) {
	err := s.submitter.Submit(task.RunOptions{Mode: mode})
	if err == nil {
		return
	}

	fields := applog.Fields{
		"spec":  s.config.Spec,
		"mode":  mode,
		"error": err,
	}

	if apperrors.Is(err, apperrors.Conflict) {
		applog.WithComponentAndFields(component, fields).Warn("예약 실행 건너뜀: 이전 수집이 아직 진행 중입니다")
		return
	}

	message := fmt.Sprintf("예약 실행 요청 실패: %v", err)
	applog.WithComponentAndFields(component, fields).Error(message)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(serviceStopCtx), notifyTimeout)
	defer cancel()

	if notifyErr := s.notificationSender.Notify(ctx, notification.Notification{
		Title:         "스케줄러",
		Message:       message,
		ErrorOccurred: true,
	}); notifyErr != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": notifyErr,
		}).Warn("예약 실행 실패 알림 전송 실패")
	}
}
