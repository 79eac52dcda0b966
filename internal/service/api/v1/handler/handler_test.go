package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/service/api/httputil"
	"github.com/darkkaiser/phone-price-server/internal/service/api/v1/model/response"
	"github.com/darkkaiser/phone-price-server/internal/service/task"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/runlock"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Mocks
// =============================================================================

type mockPriceService struct {
	mock.Mock
}

func (m *mockPriceService) Carriers() []task.Carrier {
	return m.Called().Get(0).([]task.Carrier)
}

func (m *mockPriceService) LatestComparison() (*sink.Snapshot, error) {
	args := m.Called()
	snap, _ := args.Get(0).(*sink.Snapshot)
	return snap, args.Error(1)
}

func (m *mockPriceService) LatestOffers(id provider.ID) (*sink.Snapshot, error) {
	args := m.Called(id)
	snap, _ := args.Get(0).(*sink.Snapshot)
	return snap, args.Error(1)
}

func (m *mockPriceService) Submit(opts task.RunOptions) error {
	return m.Called(opts).Error(0)
}

func (m *mockPriceService) Busy() bool {
	return m.Called().Bool(0)
}

func (m *mockPriceService) LastResult() *task.RunResult {
	r, _ := m.Called().Get(0).(*task.RunResult)
	return r
}

// serve 핸들러를 라우터에 등록하고 요청을 실행합니다. 에러는 전역 에러 핸들러가 응답으로 변환합니다.
func serve(t *testing.T, method, route, target string, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	e.Add(method, route, fn)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

var savedAt = time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)

// =============================================================================
// Tests
// =============================================================================

func TestNewHandler_Panics(t *testing.T) {
	assert.Panics(t, func() { NewHandler(nil) })
}

func TestComparisonHandler(t *testing.T) {
	tests := []struct {
		name       string
		snap       *sink.Snapshot
		err        error
		wantStatus int
	}{
		{
			name: "성공",
			snap: &sink.Snapshot{
				Name:    task.SummaryTableName,
				Header:  []string{"機種名", "容量"},
				Rows:    [][]any{{"iPhone 15", "128GB"}},
				SavedAt: savedAt,
			},
			wantStatus: http.StatusOK,
		},
		{name: "비교표 없음", err: sink.ErrSnapshotNotFound, wantStatus: http.StatusNotFound},
		{name: "읽기 실패", err: errors.New("broken"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPriceService{}
			svc.On("LatestComparison").Return(tt.snap, tt.err)

			rec := serve(t, http.MethodGet, "/api/v1/comparison", "/api/v1/comparison", NewHandler(svc).ComparisonHandler)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var resp response.TableResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, task.SummaryTableName, resp.Name)
				assert.Equal(t, [][]any{{"iPhone 15", "128GB"}}, resp.Rows)
				assert.True(t, savedAt.Equal(resp.SavedAt))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCarriersHandler(t *testing.T) {
	svc := &mockPriceService{}
	svc.On("Carriers").Return([]task.Carrier{
		{ID: "docomo", Name: "docomo"},
		{ID: "ymobile-yahoo", Name: "Y!mobile(Yahoo)"},
	})

	rec := serve(t, http.MethodGet, "/api/v1/carriers", "/api/v1/carriers", NewHandler(svc).CarriersHandler)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []response.CarrierResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []response.CarrierResponse{
		{ID: "docomo", Name: "docomo", Table: "docomo端末一覧"},
		{ID: "ymobile-yahoo", Name: "Y!mobile(Yahoo)", Table: "Y!mobile(Yahoo)端末一覧"},
	}, resp)
}

func TestCarrierOffersHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "성공", wantStatus: http.StatusOK},
		{name: "가격표 없음", err: sink.ErrSnapshotNotFound, wantStatus: http.StatusNotFound},
		{name: "설정에 없는 통신사", err: apperrors.New(apperrors.NotFound, "unknown"), wantStatus: http.StatusNotFound},
		{name: "읽기 실패", err: errors.New("broken"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPriceService{}
			var snap *sink.Snapshot
			if tt.err == nil {
				snap = &sink.Snapshot{Name: "au端末一覧", Header: []string{"機種名"}}
			}
			svc.On("LatestOffers", provider.ID("au")).Return(snap, tt.err)

			rec := serve(t, http.MethodGet, "/api/v1/carriers/:carrier", "/api/v1/carriers/au", NewHandler(svc).CarrierOffersHandler)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				// 행이 없어도 rows 는 빈 배열입니다.
				assert.Contains(t, rec.Body.String(), `"rows":[]`)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestSubmitRunHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantOpts   *task.RunOptions
		submitErr  error
		wantStatus int
	}{
		{
			name:       "기본 모드",
			target:     "/api/v1/runs",
			wantOpts:   &task.RunOptions{Mode: task.ModeFull},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "비교 전용 + 통신사 지정",
			target:     "/api/v1/runs?mode=compare&carrier=docomo,%20au,",
			wantOpts:   &task.RunOptions{Mode: task.ModeCompare, Carriers: []provider.ID{"docomo", "au"}},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "잘못된 모드",
			target:     "/api/v1/runs?mode=scrape",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "실행 중",
			target:     "/api/v1/runs",
			wantOpts:   &task.RunOptions{Mode: task.ModeFull},
			submitErr:  runlock.ErrRunInProgress,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "서비스 중지",
			target:     "/api/v1/runs",
			wantOpts:   &task.RunOptions{Mode: task.ModeFull},
			submitErr:  task.ErrServiceNotRunning,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "설정에 없는 통신사",
			target:     "/api/v1/runs?carrier=gamma",
			wantOpts:   &task.RunOptions{Mode: task.ModeFull, Carriers: []provider.ID{"gamma"}},
			submitErr:  apperrors.New(apperrors.NotFound, "gamma"),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPriceService{}
			if tt.wantOpts != nil {
				svc.On("Submit", *tt.wantOpts).Return(tt.submitErr).Once()
			}

			rec := serve(t, http.MethodPost, "/api/v1/runs", tt.target, NewHandler(svc).SubmitRunHandler)
			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestRunStatusHandler(t *testing.T) {
	t.Run("실행 이력 없음", func(t *testing.T) {
		svc := &mockPriceService{}
		svc.On("Busy").Return(true)
		svc.On("LastResult").Return(nil)

		rec := serve(t, http.MethodGet, "/api/v1/runs/last", "/api/v1/runs/last", NewHandler(svc).RunStatusHandler)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"busy":true,"last_run":null}`, rec.Body.String())
	})

	t.Run("마지막 실행", func(t *testing.T) {
		svc := &mockPriceService{}
		svc.On("Busy").Return(false)
		svc.On("LastResult").Return(&task.RunResult{
			Mode:       task.ModeFull,
			StartedAt:  savedAt,
			FinishedAt: savedAt.Add(2 * time.Minute),
			Carriers: []task.CarrierResult{
				{ID: "docomo", Name: "docomo", Offers: 42, Elapsed: time.Minute},
				{ID: "au", Name: "au", Err: errors.New("카탈로그 조회 실패")},
			},
			ComparisonRows: 40,
		})

		rec := serve(t, http.MethodGet, "/api/v1/runs/last", "/api/v1/runs/last", NewHandler(svc).RunStatusHandler)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp response.RunStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.LastRun)
		assert.Equal(t, "full", resp.LastRun.Mode)
		assert.Equal(t, "2m0s", resp.LastRun.Elapsed)
		assert.Equal(t, 40, resp.LastRun.ComparisonRows)
		require.Len(t, resp.LastRun.Carriers, 2)
		assert.Empty(t, resp.LastRun.Carriers[0].Error)
		assert.Equal(t, "카탈로그 조회 실패", resp.LastRun.Carriers[1].Error)
	})
}
