// Package service 장기 실행 서비스(수집, 스케줄러, API)가 공통으로 따르는 생명주기를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service Start 는 즉시 반환하고, serviceStopCtx 가 취소되어 완전히 종료되면 serviceStopWG.Done 을 호출합니다.
// 시작에 실패해도 serviceStopWG.Done 은 호출됩니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
