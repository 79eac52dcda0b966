package task

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/service/notification"
	"github.com/darkkaiser/phone-price-server/pkg/strutil"
)

const notificationTitle = "스마트폰 가격 비교"

// CarrierResult 통신사 하나의 수집(또는 스냅샷 로드) 결과입니다.
type CarrierResult struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Offers  int           `json:"offers"`
	Elapsed time.Duration `json:"elapsed"`

	// Err 어댑터가 더 진행할 수 없었던 이유입니다. 이 통신사는 빈 목록으로 비교에 참여합니다.
	Err error `json:"-"`
}

func (r CarrierResult) Failed() bool {
	return r.Err != nil
}

// RunResult 한 번의 실행 결과입니다.
type RunResult struct {
	// ID 실행마다 새로 만드는 식별자입니다. 로그에서 한 실행의 기록을 찾을 때 사용합니다.
	ID string `json:"id"`

	Mode       Mode            `json:"mode"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Carriers   []CarrierResult `json:"carriers"`

	// ComparisonRows 비교표의 행 수입니다.
	ComparisonRows int `json:"comparison_rows"`
}

func (r *RunResult) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedCarriers 수집에 실패한 통신사 수입니다.
func (r *RunResult) FailedCarriers() int {
	var n int
	for _, c := range r.Carriers {
		if c.Failed() {
			n++
		}
	}
	return n
}

// buildNotification 실행 결과를 알림으로 만듭니다. runErr 가 있으면 실패 알림입니다.
func buildNotification(mode Mode, result *RunResult, runErr error, elapsed time.Duration) notification.Notification {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s", mode.Label())

	if result != nil {
		for _, c := range result.Carriers {
			if c.Failed() {
				fmt.Fprintf(&sb, "\n• %s: 실패 (%s)", html.EscapeString(c.Name), html.EscapeString(strutil.Truncate(c.Err.Error(), 200)))
			} else {
				fmt.Fprintf(&sb, "\n• %s: %s件", html.EscapeString(c.Name), strutil.FormatCommas(c.Offers))
			}
		}
	}

	if runErr != nil {
		fmt.Fprintf(&sb, "\n\n실행이 중단되었습니다: %s", html.EscapeString(runErr.Error()))
	} else if result != nil {
		fmt.Fprintf(&sb, "\n\n비교표: %s행", strutil.FormatCommas(result.ComparisonRows))
	}

	return notification.Notification{
		Title:         notificationTitle,
		Message:       sb.String(),
		Elapsed:       elapsed,
		ErrorOccurred: runErr != nil,
	}
}
