package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/config"
	"github.com/darkkaiser/phone-price-server/internal/pkg/version"
	"github.com/darkkaiser/phone-price-server/internal/service/notification"
	"github.com/darkkaiser/phone-price-server/internal/service/task"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Test Helpers
// =============================================================================

type stubPriceService struct{}

func (stubPriceService) Carriers() []task.Carrier { return []task.Carrier{{ID: "docomo", Name: "docomo"}} }
func (stubPriceService) LatestComparison() (*sink.Snapshot, error) {
	return nil, sink.ErrSnapshotNotFound
}
func (stubPriceService) LatestOffers(provider.ID) (*sink.Snapshot, error) {
	return nil, sink.ErrSnapshotNotFound
}
func (stubPriceService) Submit(task.RunOptions) error { return nil }
func (stubPriceService) Busy() bool                   { return false }
func (stubPriceService) LastResult() *task.RunResult  { return nil }

type recordingSender struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (r *recordingSender) Notify(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func newTestService(t *testing.T, port int) (*Service, *recordingSender) {
	t.Helper()

	appConfig := &config.AppConfig{Debug: true}
	appConfig.API.ListenPort = port

	sender := &recordingSender{}
	return NewService(appConfig, stubPriceService{}, sender, version.Info{Version: "1.0.0"}), sender
}

// =============================================================================
// Tests
// =============================================================================

func TestNewService_Panics(t *testing.T) {
	cfg := &config.AppConfig{}

	assert.Panics(t, func() { NewService(nil, stubPriceService{}, notification.Discard, version.Info{}) })
	assert.Panics(t, func() { NewService(cfg, nil, notification.Discard, version.Info{}) })
	assert.Panics(t, func() { NewService(cfg, stubPriceService{}, nil, version.Info{}) })
}

func TestService_setupServer(t *testing.T) {
	service, _ := newTestService(t, 8080)

	e := service.setupServer()
	assert.True(t, e.Debug)

	routes := make(map[string]bool)
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /version",
		"GET /api/v1/comparison",
		"GET /api/v1/carriers",
		"GET /api/v1/carriers/:carrier",
		"POST /api/v1/runs",
		"GET /api/v1/runs/last",
	} {
		assert.True(t, routes[want], "%s 라우트가 등록되어야 함", want)
	}
}

func TestService_handleServerError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectNotify bool
	}{
		{name: "nil 에러", err: nil},
		{name: "정상 종료", err: http.ErrServerClosed},
		{name: "감싼 정상 종료", err: fmt.Errorf("wrap: %w", http.ErrServerClosed)},
		{name: "예상치 못한 에러", err: errors.New("bind: address already in use"), expectNotify: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, sender := newTestService(t, 8080)

			service.handleServerError(tt.err)

			if tt.expectNotify {
				require.Equal(t, 1, sender.count())
				assert.True(t, sender.sent[0].ErrorOccurred)
				assert.Contains(t, sender.sent[0].Message, "address already in use")
			} else {
				assert.Zero(t, sender.count())
			}
		})
	}
}

func TestService_Lifecycle(t *testing.T) {
	port := freePort(t)
	service, sender := newTestService(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))

	// 중복 시작은 무시되고 WaitGroup 만 정리됩니다.
	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))

	client := &http.Client{
		Timeout:   time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)

	require.Eventually(t, func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	wg.Wait()

	service.runningMu.Lock()
	assert.False(t, service.running)
	service.runningMu.Unlock()
	assert.Zero(t, sender.count())
}

func TestService_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	service, sender := newTestService(t, l.Addr().(*net.TCPAddr).Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, service.Start(ctx, wg))

	// 바인딩에 실패한 서버는 취소 없이도 스스로 정리됩니다.
	wg.Wait()

	assert.Equal(t, 1, sender.count())
	service.runningMu.Lock()
	assert.False(t, service.running)
	service.runningMu.Unlock()
}

func TestService_Start_NotInitialized(t *testing.T) {
	service := &Service{appConfig: &config.AppConfig{}}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	err := service.Start(context.Background(), wg)

	assert.ErrorIs(t, err, ErrPriceServiceNotInitialized)
	wg.Wait()
}
