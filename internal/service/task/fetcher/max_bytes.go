package fetcher

import (
	"errors"
	"io"
	"net/http"
)

const (
	defaultMaxBytes = 32 * 1024 * 1024

	// NoLimit 응답 크기를 제한하지 않습니다.
	NoLimit = -1
)

type maxBytesReader struct {
	rc    io.ReadCloser
	limit int64
}

func (r *maxBytesReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return n, newErrResponseBodyTooLarge(r.limit)
		}
	}
	return n, err
}

func (r *maxBytesReader) Close() error {
	return r.rc.Close()
}

// MaxBytesFetcher 응답 본문 크기를 제한합니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	limit    int64
}

func NewMaxBytesFetcher(delegate Fetcher, limit int64) Fetcher {
	if limit == NoLimit {
		return delegate
	}
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	return &MaxBytesFetcher{delegate: delegate, limit: limit}
}

func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	if resp.ContentLength > f.limit {
		drainAndCloseBody(resp.Body)
		return nil, newErrResponseBodyTooLarge(f.limit)
	}

	resp.Body = &maxBytesReader{
		rc:    http.MaxBytesReader(nil, resp.Body, f.limit),
		limit: f.limit,
	}

	return resp, nil
}
