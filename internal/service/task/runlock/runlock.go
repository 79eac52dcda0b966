// Package runlock 한 번에 하나의 수집 실행만 진행되도록 잠금 파일로 직렬화합니다.
//
// 잠금은 권고(advisory) 잠금입니다. 같은 경로를 쓰는 프로세스끼리만 서로를 막으며,
// 오래된 잠금 파일은 비정상 종료의 흔적으로 보고 강제로 해제합니다.
package runlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const component = "task.runlock"

const (
	DefaultWait = 30 * time.Second

	// DefaultStaleAfter 잠금 파일의 수정 시각이 이보다 오래되면 버려진 잠금으로 봅니다.
	// 잠금을 쥔 동안에는 이 값의 1/4 간격으로 수정 시각을 갱신합니다.
	DefaultStaleAfter = 20 * time.Minute

	pollInterval = 200 * time.Millisecond
)

// ErrRunInProgress 대기 시간 안에 잠금을 얻지 못했을 때 반환됩니다.
var ErrRunInProgress = apperrors.New(apperrors.Conflict, "다른 수집 작업이 이미 실행 중입니다")

// Options 잠금 대기 시간과 오래된 잠금의 기준입니다. 0 이면 기본값을 씁니다.
type Options struct {
	Wait       time.Duration
	StaleAfter time.Duration
}

// Lock 획득한 잠금입니다. Release 로 해제합니다.
type Lock struct {
	path  string
	token string

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newLock(path, token string, staleAfter time.Duration) *Lock {
	l := &Lock{
		path:  path,
		token: token,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.keepAlive(staleAfter / 4)
	return l
}

// keepAlive 잠금을 쥐고 있는 동안 잠금 파일의 수정 시각을 갱신합니다.
// 실행이 staleAfter 보다 길어져도 다른 실행이 잠금을 오래된 것으로 보고 깨지 않습니다.
func (l *Lock) keepAlive(interval time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return

		case <-ticker.C:
			data, err := os.ReadFile(l.path)
			if err != nil || strings.TrimSpace(string(data)) != l.token {
				applog.WithComponentAndFields(component, applog.Fields{
					"path":  l.path,
					"error": err,
				}).Warn("잠금 파일을 더 이상 쥐고 있지 않아 갱신을 멈춥니다")

				return
			}

			now := time.Now()
			if err := os.Chtimes(l.path, now, now); err != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"path":  l.path,
					"error": err,
				}).Warn("잠금 파일의 수정 시각을 갱신하지 못했습니다")
			}
		}
	}
}

// Acquire path 에 잠금 파일을 만듭니다. 이미 있으면 Wait 동안 주기적으로 다시 시도합니다.
func Acquire(ctx context.Context, path string, opts Options) (*Lock, error) {
	if opts.Wait <= 0 {
		opts.Wait = DefaultWait
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "잠금 디렉토리를 만들 수 없습니다 (%s)", path)
	}

	deadline := time.Now().Add(opts.Wait)
	token := fmt.Sprintf("%d-%d", os.Getpid(), time.Now().UnixNano())

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := tryCreate(path, token)
		if err != nil {
			return nil, err
		}
		if ok {
			return newLock(path, token, opts.StaleAfter), nil
		}

		if breakIfStale(path, opts.StaleAfter) {
			continue
		}

		if time.Now().After(deadline) {
			return nil, ErrRunInProgress
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// TryAcquire 기다리지 않고 한 번만 시도합니다.
func TryAcquire(path string, staleAfter time.Duration) (*Lock, error) {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "잠금 디렉토리를 만들 수 없습니다 (%s)", path)
	}

	token := fmt.Sprintf("%d-%d", os.Getpid(), time.Now().UnixNano())
	for range 2 {
		ok, err := tryCreate(path, token)
		if err != nil {
			return nil, err
		}
		if ok {
			return newLock(path, token, staleAfter), nil
		}
		if !breakIfStale(path, staleAfter) {
			break
		}
	}
	return nil, ErrRunInProgress
}

// Held path 의 잠금 파일이 있고 오래되지 않았는지 확인합니다.
func Held(path string, staleAfter time.Duration) bool {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < staleAfter
}

// Release 잠금 파일을 지웁니다. 다른 실행이 이미 가져간 잠금은 건드리지 않습니다.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	l.stopOnce.Do(func() {
		close(l.stop)
		<-l.done
	})

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.System, "잠금 파일을 읽을 수 없습니다")
	}
	if strings.TrimSpace(string(data)) != l.token {
		applog.WithComponentAndFields(component, applog.Fields{
			"path": l.path,
		}).Warn("잠금 해제 생략: 다른 실행이 잠금을 가져갔습니다")

		return nil
	}

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(err, apperrors.System, "잠금 파일을 지울 수 없습니다")
	}
	return nil
}

func tryCreate(path, token string) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, apperrors.Wrapf(err, apperrors.System, "잠금 파일을 만들 수 없습니다 (%s)", path)
	}
	defer f.Close()

	if _, err := f.WriteString(token + "\n"); err != nil {
		return false, apperrors.Wrap(err, apperrors.System, "잠금 파일을 쓸 수 없습니다")
	}
	return true, nil
}

// breakIfStale 잠금 파일이 staleAfter 보다 오래되었으면 지우고 true 를 반환합니다.
func breakIfStale(path string, staleAfter time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		// 그 사이 해제되었으면 바로 다시 시도합니다.
		return errors.Is(err, os.ErrNotExist)
	}

	age := time.Since(info.ModTime())
	if age < staleAfter {
		return false
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"path": path,
		"age":  age.Round(time.Second).String(),
	}).Warn("오래된 잠금 파일을 강제로 해제합니다")

	_ = os.Remove(path)
	return true
}
