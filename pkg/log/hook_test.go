package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (failWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("disk full")
}

func newTestHook() (*hook, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	mainBuf, critBuf, verbBuf := &bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{}

	return &hook{
		mainWriter:     mainBuf,
		criticalWriter: critBuf,
		verboseWriter:  verbBuf,
		formatter:      &logrus.TextFormatter{DisableTimestamp: true},
	}, mainBuf, critBuf, verbBuf
}

func TestHook_Fire_Routing(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		wantMain bool
		wantCrit bool
		wantVerb bool
	}{
		{"Error 는 main 과 critical 에 기록", ErrorLevel, true, true, false},
		{"Warn 은 main 에만 기록", WarnLevel, true, false, false},
		{"Info 는 main 에만 기록", InfoLevel, true, false, false},
		{"Debug 는 verbose 에만 기록", DebugLevel, false, false, true},
		{"Trace 는 verbose 에만 기록", TraceLevel, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mainBuf, critBuf, verbBuf := newTestHook()

			entry := logrus.NewEntry(logrus.New())
			entry.Level = tt.level
			entry.Message = "메시지"

			assert.NoError(t, h.Fire(entry))
			assert.Equal(t, tt.wantMain, mainBuf.Len() > 0)
			assert.Equal(t, tt.wantCrit, critBuf.Len() > 0)
			assert.Equal(t, tt.wantVerb, verbBuf.Len() > 0)
		})
	}
}

func TestHook_Fire_WithoutVerboseWriter(t *testing.T) {
	h, mainBuf, _, _ := newTestHook()
	h.verboseWriter = nil

	entry := logrus.NewEntry(logrus.New())
	entry.Level = DebugLevel
	entry.Message = "debug"

	assert.NoError(t, h.Fire(entry))
	assert.Contains(t, mainBuf.String(), "debug")
}

func TestHook_Fire_WriteError(t *testing.T) {
	h, _, _, _ := newTestHook()
	h.mainWriter = failWriter{}

	entry := logrus.NewEntry(logrus.New())
	entry.Level = InfoLevel

	assert.EqualError(t, h.Fire(entry), "disk full")
}

func TestHook_Close(t *testing.T) {
	h, mainBuf, _, _ := newTestHook()
	assert.NoError(t, h.Close())

	entry := logrus.NewEntry(logrus.New())
	entry.Level = InfoLevel

	assert.NoError(t, h.Fire(entry))
	assert.Zero(t, mainBuf.Len())
}
