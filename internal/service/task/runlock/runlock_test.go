package runlock

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain runs tests and checks for goroutine leaks.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "run.lock")

	lock, err := Acquire(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, Held(path, 0))

	require.NoError(t, lock.Release())
	assert.NoFileExists(t, path)
	assert.False(t, Held(path, 0))

	// 두 번 해제해도 안전합니다.
	require.NoError(t, lock.Release())
}

func TestAcquire_Timeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	first, err := Acquire(context.Background(), path, Options{})
	require.NoError(t, err)
	defer first.Release()

	start := time.Now()
	_, err = Acquire(context.Background(), path, Options{Wait: 300 * time.Millisecond})
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.True(t, apperrors.Is(err, apperrors.Conflict))
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}

func TestAcquire_WaitsForRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	first, err := Acquire(context.Background(), path, Options{})
	require.NoError(t, err)

	go func() {
		time.Sleep(250 * time.Millisecond)
		_ = first.Release()
	}()

	second, err := Acquire(context.Background(), path, Options{Wait: 5 * time.Second})
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestAcquire_BreaksStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")
	require.NoError(t, os.WriteFile(path, []byte("dead\n"), 0644))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	assert.False(t, Held(path, 20*time.Minute))

	lock, err := Acquire(context.Background(), path, Options{Wait: time.Second, StaleAfter: 20 * time.Minute})
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestAcquire_ContextCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	first, err := Acquire(context.Background(), path, Options{})
	require.NoError(t, err)
	defer first.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = Acquire(ctx, path, Options{Wait: 10 * time.Second})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTryAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	lock, err := TryAcquire(path, 0)
	require.NoError(t, err)

	_, err = TryAcquire(path, 0)
	assert.ErrorIs(t, err, ErrRunInProgress)

	require.NoError(t, lock.Release())

	lock, err = TryAcquire(path, 0)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestRelease_ForeignLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	lock, err := TryAcquire(path, 0)
	require.NoError(t, err)

	// 다른 실행이 오래된 잠금을 깨고 가져간 상황
	require.NoError(t, os.WriteFile(path, []byte("other\n"), 0644))

	require.NoError(t, lock.Release())
	assert.FileExists(t, path)
}

func TestLock_KeepAlive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")
	staleAfter := 400 * time.Millisecond

	lock, err := Acquire(context.Background(), path, Options{StaleAfter: staleAfter})
	require.NoError(t, err)
	defer func() { require.NoError(t, lock.Release()) }()

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	// 잠금을 쥔 동안 수정 시각이 다시 갱신된다.
	assert.Eventually(t, func() bool { return Held(path, staleAfter) }, 2*time.Second, 20*time.Millisecond)

	// staleAfter 보다 오래 기다려도 다른 실행이 잠금을 깨지 못한다.
	_, err = Acquire(context.Background(), path, Options{Wait: 3 * staleAfter, StaleAfter: staleAfter})
	assert.ErrorIs(t, err, ErrRunInProgress)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, lock.token, strings.TrimSpace(string(data)))
}

func TestLock_KeepAlive_StopsOnForeignLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	lock, err := Acquire(context.Background(), path, Options{StaleAfter: 200 * time.Millisecond})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("other\n"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	// 다른 실행의 잠금 파일은 갱신하지 않는다.
	select {
	case <-lock.done:
	case <-time.After(2 * time.Second):
		t.Fatal("갱신 고루틴이 멈추지 않았습니다")
	}
	assert.False(t, Held(path, time.Minute))

	require.NoError(t, lock.Release())
	assert.FileExists(t, path)
}
