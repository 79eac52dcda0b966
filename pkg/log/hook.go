package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 여러 출력 대상으로 로그를 분배합니다.
//
//   - console : 모든 레벨
//   - critical: ERROR / FATAL / PANIC
//   - verbose : DEBUG / TRACE (설정 시 main 에는 기록하지 않음)
//   - main    : 그 외 모든 레벨
type hook struct {
	mainWriter     io.Writer
	criticalWriter io.Writer
	verboseWriter  io.Writer
	consoleWriter  io.Writer

	formatter Formatter

	mu     sync.RWMutex
	closed bool
}

func (h *hook) Levels() []Level {
	return AllLevels
}

func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-WARN] 콘솔 출력 실패: %v\n", err)
		}
	}

	var firstErr error
	record := func(w io.Writer, name string) {
		if w == nil {
			return
		}
		if _, err := w.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-FAILURE] %s 로그 파일 쓰기 실패: %v\n", name, err)
		}
	}

	if entry.Level <= ErrorLevel {
		record(h.criticalWriter, "critical")
	}

	if entry.Level >= DebugLevel && h.verboseWriter != nil {
		record(h.verboseWriter, "verbose")
		return firstErr
	}

	record(h.mainWriter, "main")

	return firstErr
}

func (h *hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
