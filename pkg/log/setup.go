package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileExt = "log"

	defaultDir        = "logs"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	setupOnce      sync.Once
	globalCloser   io.Closer
	globalSetupErr error
)

// Setup 전역 로거를 초기화합니다. 프로세스 내에서 한 번만 적용되며 이후 호출은 최초 결과를 반환합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setup(opts)
	})

	return globalCloser, globalSetupErr
}

func setup(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ReportCaller)

	// 실제 출력은 hook 이 담당한다.
	logrus.SetOutput(io.Discard)
	logrus.SetFormatter(&silentFormatter{})

	dir := opts.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
	}

	newRotator := func(suffix string) *lumberjack.Logger {
		maxSize := opts.MaxSizeMB
		if maxSize == 0 {
			maxSize = defaultMaxSizeMB
		}
		maxBackups := opts.MaxBackups
		if maxBackups == 0 {
			maxBackups = defaultMaxBackups
		}

		return &lumberjack.Logger{
			Filename:   filepath.Join(dir, opts.Name+suffix+"."+fileExt),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     opts.MaxAge,
			LocalTime:  true,
		}
	}

	h := &hook{
		formatter: newTextFormatter(opts.CallerPathPrefix),
	}

	main := newRotator("")
	h.mainWriter = main
	closers := []io.Closer{main}

	if opts.EnableCriticalLog {
		critical := newRotator(".critical")
		h.criticalWriter = critical
		closers = append(closers, critical)
	}
	if opts.EnableVerboseLog {
		verbose := newRotator(".verbose")
		h.verboseWriter = verbose
		closers = append(closers, verbose)
	}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	logrus.AddHook(h)

	c := &closer{closers: closers, hook: h}
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}

func newTextFormatter(callerPathPrefix string) *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if callerPathPrefix != "" {
				if cut, found := strings.CutPrefix(function, callerPathPrefix); found {
					function = "..." + cut
				}
			}
			return
		},
	}
}

// silentFormatter logrus 기본 출력을 비활성화하기 위한 포맷터입니다.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
