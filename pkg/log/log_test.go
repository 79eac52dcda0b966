package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponentAndFields(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	fields := Fields{"carrier": "docomo"}
	WithComponentAndFields("task.provider", fields).Info("수집 완료")

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "task.provider", entry.Data["component"])
	assert.Equal(t, "docomo", entry.Data["carrier"])
	assert.Equal(t, "수집 완료", entry.Message)

	// 원본 맵은 변경되지 않아야 한다.
	assert.NotContains(t, fields, "component")
}

func TestWithComponent(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	WithComponent("main").Warn("경고")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "main", hook.LastEntry().Data["component"])
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSetDebugMode(t *testing.T) {
	prev := logrus.GetLevel()
	defer logrus.SetLevel(prev)

	SetDebugMode(true)
	assert.Equal(t, TraceLevel, logrus.GetLevel())

	SetDebugMode(false)
	assert.Equal(t, InfoLevel, logrus.GetLevel())
}

func TestMaskSensitiveData(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcdefgh", "abcd***"},
		{"1234567890:ABCDEFGHIJ", "1234***GHIJ"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskSensitiveData(tt.in))
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	opts := NewProductionOptions("phone-price-server")
	assert.NoError(t, opts.Validate())

	opts = NewDevelopmentOptions("")
	assert.Error(t, opts.Validate())

	opts = NewDevelopmentOptions("app")
	opts.MaxAge = -1
	assert.Error(t, opts.Validate())
}

func TestSetup_CreatesLogFiles(t *testing.T) {
	prevHooks := logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	prevLevel := logrus.GetLevel()
	defer func() {
		logrus.StandardLogger().ReplaceHooks(prevHooks)
		logrus.SetLevel(prevLevel)
		logrus.SetReportCaller(false)
	}()

	dir := t.TempDir()
	opts := NewProductionOptions("testapp")
	opts.Dir = dir

	c, err := setup(opts)
	require.NoError(t, err)

	WithComponent("test").Error("에러 기록")
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	assert.FileExists(t, dir+"/testapp.log")
	assert.FileExists(t, dir+"/testapp.critical.log")
}
