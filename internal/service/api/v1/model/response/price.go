// Package response v1 API의 응답 모델을 정의합니다.
package response

import (
	"time"

	"github.com/darkkaiser/phone-price-server/internal/service/task"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
)

// TableResponse 저장된 표(비교표 또는 통신사별 가격표) 하나입니다.
// 값이 없는 셀은 null 입니다.
type TableResponse struct {
	Name    string    `json:"name"`
	Header  []string  `json:"header"`
	Rows    [][]any   `json:"rows"`
	SavedAt time.Time `json:"saved_at"`
}

// NewTableResponse 스냅샷을 응답으로 변환합니다.
func NewTableResponse(s *sink.Snapshot) TableResponse {
	rows := s.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return TableResponse{Name: s.Name, Header: s.Header, Rows: rows, SavedAt: s.SavedAt}
}

// CarrierResponse 설정된 통신사 하나입니다.
type CarrierResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Table string `json:"table"`
}

// CarrierResult 실행 결과 중 통신사 하나입니다.
type CarrierResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Offers  int    `json:"offers"`
	Elapsed string `json:"elapsed"`
	Error   string `json:"error,omitempty"`
}

// RunResult 마지막 실행의 요약입니다.
type RunResult struct {
	ID             string          `json:"id"`
	Mode           string          `json:"mode"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	Elapsed        string          `json:"elapsed"`
	Carriers       []CarrierResult `json:"carriers"`
	ComparisonRows int             `json:"comparison_rows"`
}

// RunStatusResponse 수집 서비스의 실행 상태입니다.
type RunStatusResponse struct {
	Busy bool `json:"busy"`

	// LastRun 이 프로세스가 시작된 뒤 끝난 실행이 없으면 null 입니다.
	LastRun *RunResult `json:"last_run"`
}

// NewRunResult 실행 결과를 응답으로 변환합니다. 에러는 메시지 문자열로만 노출합니다.
func NewRunResult(r *task.RunResult) *RunResult {
	if r == nil {
		return nil
	}

	carriers := make([]CarrierResult, 0, len(r.Carriers))
	for _, c := range r.Carriers {
		cr := CarrierResult{ID: c.ID, Name: c.Name, Offers: c.Offers, Elapsed: c.Elapsed.String()}
		if c.Err != nil {
			cr.Error = c.Err.Error()
		}
		carriers = append(carriers, cr)
	}

	return &RunResult{
		ID:             r.ID,
		Mode:           r.Mode.String(),
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Elapsed:        r.Elapsed().String(),
		Carriers:       carriers,
		ComparisonRows: r.ComparisonRows,
	}
}
