// Package telegram 텔레그램 봇으로 실행 결과를 전송합니다.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/darkkaiser/phone-price-server/internal/service/notification"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/darkkaiser/phone-price-server/pkg/strutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const component = "notification.telegram"

const (
	// messageMaxLength API 제한은 4096자이지만 HTML 태그 오버헤드를 고려해 여유를 둡니다.
	messageMaxLength = 3900

	maxTitleLength = 200

	titleFormat       = "<b>【 %s 】</b>\n\n%s"
	errorFormat       = "%s\n\n*** 오류가 발생하였습니다. ***"
	elapsedTimeFormat = " (%s 지남)"

	maxRetries        = 3
	defaultRetryDelay = time.Second
)

// client 텔레그램 봇 API 중 메시지 전송에 필요한 부분입니다.
type client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier 하나의 채팅방으로 메시지를 보냅니다.
type Notifier struct {
	chatID int64
	client client

	retryDelay time.Duration

	// limiter 채팅방당 초당 1회 정책을 지킵니다.
	limiter *rate.Limiter
}

var _ notification.Sender = (*Notifier)(nil)

// New 봇 토큰으로 텔레그램 API 에 연결합니다.
func New(botToken string, chatID int64) (*Notifier, error) {
	if strings.TrimSpace(botToken) == "" {
		return nil, ErrBotTokenEmpty
	}
	if chatID == 0 {
		return nil, ErrChatIDEmpty
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, newErrBotInitFailed(err)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"bot_username": bot.Self.UserName,
		"chat_id":      chatID,
	}).Info("텔레그램 봇 연결 완료")

	return newNotifier(bot, chatID, defaultRetryDelay), nil
}

func newNotifier(c client, chatID int64, retryDelay time.Duration) *Notifier {
	return &Notifier{
		chatID:     chatID,
		client:     c,
		retryDelay: retryDelay,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Notify 제목, 경과 시간, 오류 표시를 덧붙여 메시지를 보냅니다.
// 메시지가 길면 줄 단위로 나누어 여러 번 보냅니다.
func (n *Notifier) Notify(ctx context.Context, notif notification.Notification) error {
	message := buildMessage(notif)

	for _, chunk := range splitMessage(message, messageMaxLength) {
		if err := n.send(ctx, chunk, true); err != nil {
			return newErrSendFailed(err)
		}
	}
	return nil
}

func buildMessage(notif notification.Notification) string {
	message := notif.Message

	if title := notif.Title; title != "" {
		// 이스케이프된 엔티티가 잘리지 않도록 자른 다음에 이스케이프합니다.
		message = fmt.Sprintf(titleFormat, html.EscapeString(strutil.Truncate(title, maxTitleLength)), message)
	}
	if notif.Elapsed > 0 {
		message += formatElapsedTime(int64(notif.Elapsed / time.Second))
	}
	if notif.ErrorOccurred {
		message = fmt.Sprintf(errorFormat, message)
	}

	return message
}

// formatElapsedTime 초 단위 시간을 "1시간 30분 10초" 형태로 바꿉니다.
func formatElapsedTime(seconds int64) string {
	s := seconds % 60
	m := (seconds / 60) % 60
	h := seconds / 3600

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%d시간", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%d분", m))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d초", s))
	}

	return fmt.Sprintf(elapsedTimeFormat, strings.Join(parts, " "))
}

// splitMessage 줄 단위로 limit 바이트 이하의 조각으로 나눕니다.
// 한 줄이 limit 보다 길면 UTF-8 문자 경계에서 자릅니다.
func splitMessage(message string, limit int) []string {
	if len(message) <= limit {
		return []string{message}
	}

	var chunks []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for line := range strings.SplitSeq(message, "\n") {
		needed := len(line)
		if sb.Len() > 0 {
			needed++
		}

		if sb.Len()+needed <= limit {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
			continue
		}

		flush()
		for len(line) > limit {
			var chunk string
			chunk, line = safeSplit(line, limit)
			chunks = append(chunks, chunk)
		}
		sb.WriteString(line)
	}
	flush()

	return chunks
}

// safeSplit 문자가 깨지지 않도록 limit 이하의 마지막 룬 경계에서 자릅니다.
func safeSplit(s string, limit int) (chunk, remainder string) {
	if len(s) <= limit {
		return s, ""
	}

	splitIndex := limit
	for splitIndex > 0 && !utf8.RuneStart(s[splitIndex]) {
		splitIndex--
	}
	if splitIndex == 0 {
		return s[:limit], s[limit:]
	}

	return s[:splitIndex], s[splitIndex:]
}

func (n *Notifier) send(ctx context.Context, message string, useHTML bool) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	if useHTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := n.client.Send(msg)
		if err == nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id": n.chatID,
				"attempt": attempt,
			}).Debug("텔레그램 메시지 전송 성공")

			return nil
		}
		lastErr = err

		code, retryAfter := parseTelegramError(err)

		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id": n.chatID,
			"attempt": attempt,
			"code":    code,
			"error":   err,
		}).Warn("텔레그램 메시지 전송 실패")

		// HTML 파싱 오류는 일반 텍스트로 한 번 더 보냅니다.
		if useHTML && code == 400 {
			return n.send(ctx, message, false)
		}
		if !shouldRetry(code) || attempt == maxRetries {
			break
		}

		wait := n.retryDelay
		if retryAfter > 0 {
			wait = time.Duration(retryAfter) * time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}

// shouldRetry 4xx 중에서는 429 만 다시 시도합니다.
func shouldRetry(code int) bool {
	if code >= 400 && code < 500 {
		return code == 429
	}
	return true
}

func parseTelegramError(err error) (code int, retryAfter int) {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}

	var apiErrValue tgbotapi.Error
	if errors.As(err, &apiErrValue) {
		return apiErrValue.Code, apiErrValue.ResponseParameters.RetryAfter
	}

	return 0, 0
}
