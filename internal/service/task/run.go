package task

import (
	"context"
	"errors"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/pricing/compare"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/runlock"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

// notifyTimeout 실행이 취소된 뒤에도 실패 알림은 보낼 수 있도록 별도의 제한 시간을 둡니다.
const notifyTimeout = 30 * time.Second

// RunOptions 실행 옵션입니다.
type RunOptions struct {
	Mode Mode

	// Carriers 실행할 통신사입니다. 비어 있으면 활성화된 통신사 전부입니다.
	// 비교표에는 고른 통신사만 열로 나타납니다.
	Carriers []provider.ID
}

// Run 한 번의 실행을 끝까지 진행합니다.
//
//  1. 잠금을 얻습니다. 대기 시간 안에 얻지 못하면 runlock.ErrRunInProgress 입니다.
//  2. ModeFull 이면 통신사마다 수집해 통신사별 표를 저장하고, ModeCompare 이면 저장된 표를 읽습니다.
//     한 통신사의 실패는 기록만 하고 다음 통신사로 넘어갑니다.
//  3. 비교표를 만들어 저장하고 실행 로그를 남깁니다.
//  4. 성공이든 실패든 알림을 한 번 보냅니다.
//
// 통신사별 표나 비교표 저장 실패, 컨텍스트 취소는 실행 전체의 실패입니다.
func (s *Service) Run(ctx context.Context, opts RunOptions) (result *RunResult, err error) {
	if opts.Mode == "" {
		opts.Mode = ModeFull
	}
	startedAt := s.now()

	carriers, err := selectCarriers(s.carriers, opts.Carriers)
	if err != nil {
		return nil, err
	}
	if len(carriers) == 0 {
		return nil, ErrNoCarriers
	}

	lock, err := runlock.Acquire(ctx, s.lockPath, s.lockOptions)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"mode":      opts.Mode,
			"lock_path": s.lockPath,
			"error":     err,
		}).Warn("실행 잠금 획득 실패")

		s.notify(ctx, opts.Mode, nil, err, s.now().Sub(startedAt))
		return nil, err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"lock_path": s.lockPath,
				"error":     releaseErr,
			}).Error("실행 잠금 해제 실패")
		}
	}()

	result = &RunResult{ID: s.runIDs.New(), Mode: opts.Mode, StartedAt: startedAt}

	defer func() {
		if r := recover(); r != nil {
			err = newErrRunPanic(r)

			applog.WithComponentAndFields(component, applog.Fields{
				"run_id": result.ID,
				"mode":   opts.Mode,
				"panic":  r,
			}).Error("실행 중 패닉 발생: 실행을 중단합니다")
		}

		result.FinishedAt = s.now()
		s.setLastResult(result)

		s.notify(ctx, opts.Mode, result, err, result.Elapsed())
	}()

	applog.WithComponentAndFields(component, applog.Fields{
		"run_id":   result.ID,
		"mode":     opts.Mode,
		"carriers": len(carriers),
	}).Info("실행 시작")

	var lists []compare.CarrierOffers
	if opts.Mode == ModeCompare {
		lists = s.loadSnapshots(carriers, result)
	} else {
		lists, err = s.collect(ctx, carriers, result)
		if err != nil {
			return result, err
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	names := make([]string, len(carriers))
	for i, c := range carriers {
		names[i] = c.Name
	}

	rows := s.comparator.Compare(lists)
	header, cells := compare.Table(rows, names)

	if err := s.summarySink.Write(ctx, sink.Table{
		Name:   SummaryTableName,
		Header: header,
		Rows:   cells,
		Style:  sink.StyleSummary,
	}); err != nil {
		return result, newErrSinkWrite(err, SummaryTableName)
	}
	result.ComparisonRows = len(rows)

	s.appendRunLog(ctx, opts.Mode)

	applog.WithComponentAndFields(component, applog.Fields{
		"run_id":          result.ID,
		"mode":            opts.Mode,
		"comparison_rows": len(rows),
		"failed_carriers": result.FailedCarriers(),
		"elapsed":         s.now().Sub(startedAt).String(),
	}).Info("실행 완료")

	return result, nil
}

// collect 통신사를 차례로 수집하고 통신사별 표를 저장합니다.
func (s *Service) collect(ctx context.Context, carriers []Carrier, result *RunResult) ([]compare.CarrierOffers, error) {
	lists := make([]compare.CarrierOffers, 0, len(carriers))

	for _, c := range carriers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := s.now()
		offers, err := fetchCarrier(ctx, c)
		cr := CarrierResult{ID: c.ID.String(), Name: c.Name, Elapsed: s.now().Sub(started)}

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			cr.Err = err
			offers = nil

			applog.WithComponentAndFields(component, applog.Fields{
				"carrier": c.ID,
				"error":   err,
			}).Error("통신사 수집 실패: 빈 목록으로 비교를 계속합니다")
		} else {
			offers = c.filterModels(offers)
			for i := range offers {
				offers[i].Carrier = c.Name
			}

			table := sink.Table{
				Name:   c.TableName(),
				Header: offer.Header(),
				Rows:   offer.Rows(offers),
				Style:  sink.StyleCarrier,
			}
			if err := s.carrierSink.Write(ctx, table); err != nil {
				return nil, newErrSinkWrite(err, table.Name)
			}

			cr.Offers = len(offers)

			applog.WithComponentAndFields(component, applog.Fields{
				"carrier": c.ID,
				"offers":  len(offers),
				"elapsed": cr.Elapsed.String(),
			}).Info("통신사 수집 완료")
		}

		result.Carriers = append(result.Carriers, cr)
		lists = append(lists, compare.CarrierOffers{Carrier: c.Name, Offers: offers})
	}

	return lists, nil
}

// fetchCarrier 어댑터의 패닉이 실행 전체로 번지지 않도록 에러로 바꿉니다.
func fetchCarrier(ctx context.Context, c Carrier) (offers []offer.DeviceOffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			offers = nil
			err = newErrAdapterPanic(r)

			applog.WithComponentAndFields(component, applog.Fields{
				"carrier": c.ID,
				"panic":   r,
			}).Error("통신사 수집 중 패닉 발생")
		}
	}()

	return c.adapter.Fetch(ctx)
}

// loadSnapshots 저장된 통신사별 표를 읽습니다. 표가 없거나 읽을 수 없는 통신사는 빈 목록입니다.
func (s *Service) loadSnapshots(carriers []Carrier, result *RunResult) []compare.CarrierOffers {
	lists := make([]compare.CarrierOffers, 0, len(carriers))

	for _, c := range carriers {
		cr := CarrierResult{ID: c.ID.String(), Name: c.Name}

		var offers []offer.DeviceOffer

		snap, err := s.store.Load(c.TableName())
		if err != nil {
			cr.Err = err

			fields := applog.Fields{"carrier": c.ID, "error": err}
			if errors.Is(err, sink.ErrSnapshotNotFound) {
				applog.WithComponentAndFields(component, fields).Warn("저장된 통신사 표가 없습니다")
			} else {
				applog.WithComponentAndFields(component, fields).Error("통신사 표 읽기 실패")
			}
		} else {
			for _, row := range snap.Rows {
				if o, ok := offer.FromRow(snap.Header, row, c.Name); ok {
					offers = append(offers, o)
				}
			}
			cr.Offers = len(offers)
		}

		result.Carriers = append(result.Carriers, cr)
		lists = append(lists, compare.CarrierOffers{Carrier: c.Name, Offers: offers})
	}

	return lists
}

// appendRunLog 워크북의 실행 로그 시트에 한 행을 추가합니다. 실패해도 실행은 성공으로 봅니다.
func (s *Service) appendRunLog(ctx context.Context, mode Mode) {
	if s.workbook == nil {
		return
	}

	row := []any{s.now().Format(runLogTimeLayout), mode.Label()}
	if err := s.workbook.Append(ctx, RunLogSheet, RunLogHeader, row); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"sheet": RunLogSheet,
			"error": err,
		}).Warn("실행 로그 기록 실패")
	}
}

// notify 알림 전송 실패는 실행 결과에 영향을 주지 않습니다.
func (s *Service) notify(ctx context.Context, mode Mode, result *RunResult, runErr error, elapsed time.Duration) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notificationSender.Notify(notifyCtx, buildNotification(mode, result, runErr, elapsed)); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"mode":  mode,
			"error": err,
		}).Warn("실행 결과 알림 전송 실패")
	}
}
