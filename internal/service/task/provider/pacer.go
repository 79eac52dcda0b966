package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer 연속된 요청 사이에 최소 간격을 둡니다.
// 첫 번째 Wait 는 바로 반환되고, 이후 Wait 는 직전 요청으로부터 interval 이 지날 때까지 대기합니다.
// 일부 통신사 서버는 간격 없이 연속 요청하면 504 를 반환합니다.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer interval 이 0 이하이면 대기하지 않는 Pacer 를 반환합니다.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait 다음 요청을 보낼 수 있을 때까지 대기합니다. 컨텍스트가 취소되면 에러를 반환합니다.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
