package scraper

import (
	"context"
	"io"
)

// contextAwareReader 매 Read 호출 전에 Context 취소 여부를 확인하는 io.Reader 래퍼입니다.
type contextAwareReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextAwareReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	return r.r.Read(p)
}
