package telegram

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

var (
	// ErrBotTokenEmpty 봇 토큰 없이 Notifier 를 만들려고 할 때 반환됩니다.
	ErrBotTokenEmpty = apperrors.New(apperrors.InvalidInput, "텔레그램 봇 토큰이 비어 있습니다")

	// ErrChatIDEmpty 메시지를 보낼 채팅방이 지정되지 않았을 때 반환됩니다.
	ErrChatIDEmpty = apperrors.New(apperrors.InvalidInput, "텔레그램 chat_id 가 지정되지 않았습니다")
)

func newErrBotInitFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 봇 초기화에 실패했습니다")
}

func newErrSendFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 메시지 전송에 실패했습니다")
}
