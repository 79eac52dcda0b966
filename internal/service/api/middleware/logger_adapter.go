package middleware

import (
	"io"

	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Logger Echo 의 log.Logger 인터페이스를 애플리케이션 로거 위에 구현한 어댑터입니다.
// Print, Debugf 처럼 시그니처가 같은 메서드는 임베드한 applog.Logger 의 것을 그대로 씁니다.
type Logger struct {
	*applog.Logger
}

var _ echo.Logger = Logger{}

func (l Logger) Output() io.Writer {
	return l.Logger.Out
}

func (l Logger) Prefix() string {
	return ""
}

func (l Logger) SetPrefix(string) {}

// Level 애플리케이션 로그 레벨을 Echo 로그 레벨로 변환합니다. 대응하는 레벨이 없으면 OFF 입니다.
func (l Logger) Level() log.Lvl {
	switch l.Logger.Level {
	case applog.DebugLevel, applog.TraceLevel:
		return log.DEBUG
	case applog.InfoLevel:
		return log.INFO
	case applog.WarnLevel:
		return log.WARN
	case applog.ErrorLevel:
		return log.ERROR
	}

	return log.OFF
}

func (l Logger) SetLevel(lvl log.Lvl) {
	switch lvl {
	case log.DEBUG:
		l.Logger.SetLevel(applog.DebugLevel)
	case log.INFO:
		l.Logger.SetLevel(applog.InfoLevel)
	case log.WARN:
		l.Logger.SetLevel(applog.WarnLevel)
	case log.ERROR:
		l.Logger.SetLevel(applog.ErrorLevel)
	}
}

func (l Logger) SetHeader(string) {}

// *j 메서드는 JSON 객체를 로그 필드로 붙여 기록합니다.

func (l Logger) Printj(j log.JSON) { l.WithFields(applog.Fields(j)).Print() }
func (l Logger) Debugj(j log.JSON) { l.WithFields(applog.Fields(j)).Debug() }
func (l Logger) Infoj(j log.JSON)  { l.WithFields(applog.Fields(j)).Info() }
func (l Logger) Warnj(j log.JSON)  { l.WithFields(applog.Fields(j)).Warn() }
func (l Logger) Errorj(j log.JSON) { l.WithFields(applog.Fields(j)).Error() }
func (l Logger) Fatalj(j log.JSON) { l.WithFields(applog.Fields(j)).Fatal() }
func (l Logger) Panicj(j log.JSON) { l.WithFields(applog.Fields(j)).Panic() }
