// Package notification 수집 실행의 결과를 외부 메신저로 알립니다.
package notification

import (
	"context"
	"time"
)

// Notification 한 번의 실행에 대해 보내는 알림입니다.
type Notification struct {
	// Title 메시지 상단에 굵게 표시되는 제목입니다. 비어 있으면 생략합니다.
	Title string

	Message string

	// Elapsed 실행에 걸린 시간입니다. 0 이면 표시하지 않습니다.
	Elapsed time.Duration

	// ErrorOccurred 실행이 실패했는지 여부입니다. true 이면 메시지 하단에 경고 문구가 붙습니다.
	ErrorOccurred bool
}

// Sender 알림을 전송합니다.
type Sender interface {
	Notify(ctx context.Context, n Notification) error
}

// SenderFunc 함수를 Sender 로 사용합니다.
type SenderFunc func(ctx context.Context, n Notification) error

func (f SenderFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Discard 알림을 보내지 않습니다. 봇 토큰이 설정되지 않았을 때 사용합니다.
var Discard Sender = SenderFunc(func(context.Context, Notification) error { return nil })
