package log

import (
	"errors"
	"io"
	"sync/atomic"
)

type closer struct {
	closers []io.Closer
	hook    *hook

	closed atomic.Bool
}

// Close 훅을 먼저 닫아 추가 기록을 막은 뒤 파일들을 닫습니다. 여러 번 호출해도 안전합니다.
func (c *closer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	if c.hook != nil {
		_ = c.hook.Close()
	}

	var errs error
	for _, cl := range c.closers {
		if cl == nil {
			continue
		}
		if err := cl.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}
