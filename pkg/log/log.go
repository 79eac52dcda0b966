// Package log logrus 기반의 애플리케이션 로깅 기능을 제공합니다.
package log

import (
	"github.com/sirupsen/logrus"
)

// SetDebugMode 디버그 모드이면 Trace, 아니면 Info 레벨로 설정합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
	} else {
		logrus.SetLevel(InfoLevel)
	}
}

// StandardLogger Printf 형태의 로거가 필요한 라이브러리(cron, echo 등)에 넘길 전역 로거입니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

// WithComponent component 필드가 포함된 Entry 를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드가 포함된 Entry 를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = component

	return logrus.WithFields(merged)
}

// MaskSensitiveData 토큰 등 민감한 값을 로그에 남길 수 있도록 가립니다.
func MaskSensitiveData(data string) string {
	switch {
	case data == "":
		return ""
	case len(data) <= 3:
		return "***"
	case len(data) <= 12:
		return data[:4] + "***"
	default:
		return data[:4] + "***" + data[len(data)-4:]
	}
}
