package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	URL      string        `json:"url"`
	Interval time.Duration `json:"interval"`
	Limit    int           `json:"limit"`
}

func (s *testSettings) ApplyDefaults() {
	if s.URL == "" {
		s.URL = "https://example.com"
	}
}

func (s *testSettings) Validate() error {
	if s.Limit < 0 {
		return errors.New("limit 은 0 이상이어야 합니다")
	}
	return nil
}

func TestDecodeSettings(t *testing.T) {
	s, err := DecodeSettings[testSettings](map[string]any{"interval": "3s", "limit": "20"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", s.URL)
	assert.Equal(t, 3*time.Second, s.Interval)
	assert.Equal(t, 20, s.Limit)

	s, err = DecodeSettings[testSettings](nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", s.URL)

	_, err = DecodeSettings[testSettings](map[string]any{"unknown": true})
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

	_, err = DecodeSettings[testSettings](map[string]any{"limit": -1})
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestPacer(t *testing.T) {
	p := NewPacer(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewPacer(time.Hour).Wait(ctx))

	unlimited := NewPacer(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, unlimited.Wait(context.Background()))
	}
}

func TestBudget(t *testing.T) {
	b := NewBudget(2)

	assert.True(t, b.Take())
	assert.True(t, b.Take())
	assert.False(t, b.Take())
	assert.Equal(t, 2, b.Used())
	assert.Equal(t, 0, b.Remaining())

	assert.False(t, NewBudget(0).Take())
}

func TestHeader(t *testing.T) {
	h := Header("Accept", "application/json", "X-Channel", "web", "Dangling")
	assert.Equal(t, "application/json", h.Get("Accept"))
	assert.Equal(t, "web", h.Get("X-Channel"))
	assert.Len(t, h, 2)
}
