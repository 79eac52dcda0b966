// Package task 통신사별 수집, 통신사 간 비교, 결과 저장과 알림으로 이어지는 한 번의 실행을 조율합니다.
package task

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/config"
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/pricing/compare"
	"github.com/darkkaiser/phone-price-server/internal/service/notification"
	"github.com/darkkaiser/phone-price-server/internal/service/task/idgen"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/runlock"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const component = "task.service"

// Sinks 실행 결과를 저장할 대상입니다. Store 는 필수이고 나머지는 nil 이면 사용하지 않습니다.
type Sinks struct {
	Store    *sink.Store
	Workbook *sink.Workbook
	Console  sink.Sink
}

// Service 수집 실행을 담당합니다.
//
// Run 은 호출한 고루틴에서 바로 실행하고, Submit 은 Start 로 띄운 이벤트 루프에 실행을 맡깁니다.
// 어느 쪽이든 실행은 잠금 파일로 직렬화되므로 프로세스가 여러 개여도 동시에 두 번 실행되지 않습니다.
type Service struct {
	carriers []Carrier

	comparator compare.Comparator

	store    *sink.Store
	workbook *sink.Workbook

	// carrierSink 통신사별 표를 쓰는 대상입니다. (워크북 + 스냅샷)
	carrierSink sink.Sink

	// summarySink 비교표를 쓰는 대상입니다. (워크북 + 스냅샷 + 콘솔)
	summarySink sink.Sink

	notificationSender notification.Sender

	lockPath    string
	lockOptions runlock.Options

	// submitC Submit 으로 들어온 실행 요청을 이벤트 루프에 전달합니다.
	submitC chan RunOptions

	// busy 이벤트 루프에 맡긴 실행이 끝나기 전까지 true 입니다.
	busy atomic.Bool

	runIDs idgen.Generator

	lastResult   *RunResult
	lastResultMu sync.RWMutex

	running   bool
	runningMu sync.Mutex

	now func() time.Time
}

// NewService 설정된 통신사마다 어댑터를 만들고 저장 대상을 묶습니다.
func NewService(appConfig *config.AppConfig, s scraper.Scraper, sinks Sinks) (*Service, error) {
	if sinks.Store == nil {
		return nil, apperrors.New(apperrors.Internal, "스냅샷 저장소(Store)는 필수입니다")
	}

	carriers, err := buildCarriers(appConfig.Carriers, s)
	if err != nil {
		return nil, err
	}

	carrierSinks := sink.Multi{}
	if sinks.Workbook != nil {
		carrierSinks = append(carrierSinks, sinks.Workbook)
	}
	carrierSinks = append(carrierSinks, sinks.Store)

	summarySinks := append(sink.Multi{}, carrierSinks...)
	if sinks.Console != nil {
		summarySinks = append(summarySinks, sinks.Console)
	}

	return &Service{
		carriers: carriers,

		comparator: compare.Comparator{SkipOutOfStock: appConfig.Run.SkipOutOfStock},

		store:    sinks.Store,
		workbook: sinks.Workbook,

		carrierSink: carrierSinks,
		summarySink: summarySinks,

		notificationSender: notification.Discard,

		lockPath: appConfig.Run.LockPath,
		lockOptions: runlock.Options{
			Wait:       appConfig.Run.LockWait,
			StaleAfter: appConfig.Run.LockStaleAfter,
		},

		submitC: make(chan RunOptions, 1),

		now: time.Now,
	}, nil
}

// SetNotificationSender 실행 결과를 보낼 대상을 지정합니다. 지정하지 않으면 알림을 보내지 않습니다.
func (s *Service) SetNotificationSender(sender notification.Sender) {
	if sender == nil {
		sender = notification.Discard
	}
	s.notificationSender = sender
}

// Carriers 설정 순서대로 활성화된 통신사 목록을 반환합니다.
func (s *Service) Carriers() []Carrier {
	carriers := make([]Carrier, len(s.carriers))
	copy(carriers, s.carriers)
	return carriers
}

// Start Submit 요청을 처리하는 이벤트 루프를 시작합니다.
// serviceStopCtx 가 취소되면 진행 중인 실행을 취소하고, 그 실행이 끝난 뒤 serviceStopWG 를 해제합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: 수집 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("수집 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	s.running = true

	go s.runEventLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(component, applog.Fields{
		"carriers": len(s.carriers),
	}).Info("서비스 시작 완료: 수집 서비스가 정상적으로 초기화되었습니다")

	return nil
}

func (s *Service) runEventLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case opts := <-s.submitC:
			// Run 내부에서 패닉을 복구하므로 루프는 멈추지 않습니다.
			_, _ = s.Run(serviceStopCtx, opts)
			s.busy.Store(false)

		case <-serviceStopCtx.Done():
			s.runningMu.Lock()
			s.running = false
			s.runningMu.Unlock()

			applog.WithComponent(component).Info("수집 서비스 종료 완료")
			return
		}
	}
}

// Submit 실행을 이벤트 루프에 맡기고 바로 반환합니다.
// 이미 실행 중이면 runlock.ErrRunInProgress 를 반환합니다.
func (s *Service) Submit(opts RunOptions) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return ErrServiceNotRunning
	}

	if _, err := selectCarriers(s.carriers, opts.Carriers); err != nil {
		return err
	}

	if runlock.Held(s.lockPath, s.lockOptions.StaleAfter) {
		return runlock.ErrRunInProgress
	}
	if !s.busy.CompareAndSwap(false, true) {
		return runlock.ErrRunInProgress
	}

	select {
	case s.submitC <- opts:
	default:
		s.busy.Store(false)
		return runlock.ErrRunInProgress
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"mode":     opts.Mode,
		"carriers": opts.Carriers,
	}).Info("실행 요청 접수")

	return nil
}

// Busy Submit 으로 맡긴 실행이 진행 중인지, 또는 다른 프로세스가 잠금을 쥐고 있는지 반환합니다.
func (s *Service) Busy() bool {
	return s.busy.Load() || runlock.Held(s.lockPath, s.lockOptions.StaleAfter)
}

// LastResult 이 프로세스에서 마지막으로 끝난 실행의 결과입니다. 없으면 nil 입니다.
func (s *Service) LastResult() *RunResult {
	s.lastResultMu.RLock()
	defer s.lastResultMu.RUnlock()

	return s.lastResult
}

func (s *Service) setLastResult(r *RunResult) {
	s.lastResultMu.Lock()
	defer s.lastResultMu.Unlock()

	s.lastResult = r
}

// LatestComparison 마지막으로 저장된 비교표입니다.
func (s *Service) LatestComparison() (*sink.Snapshot, error) {
	return s.store.Load(SummaryTableName)
}

// LatestOffers 통신사의 마지막 수집 결과입니다.
func (s *Service) LatestOffers(id provider.ID) (*sink.Snapshot, error) {
	for _, c := range s.carriers {
		if c.ID == id {
			return s.store.Load(c.TableName())
		}
	}
	return nil, newErrCarrierNotConfigured(id)
}
